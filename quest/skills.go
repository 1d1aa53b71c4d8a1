package quest

import (
	"sort"
	"strings"
)

type SkillRequirement struct {
	Skill string `json:"skill"`
	Level int    `json:"level"`
}

// Skills maps a canonical skill name to a minimum level.
type Skills map[string]int

// Raise records level for skill unless a higher level is already present.
func (s Skills) Raise(skill string, level int) {
	if current, ok := s[skill]; ok && current >= level {
		return
	}
	s[skill] = level
}

// Merge max-merges other into s.
func (s Skills) Merge(other Skills) {
	for skill, level := range other {
		s.Raise(skill, level)
	}
}

// MergeRequirements max-merges a requirement list into s, ignoring entries
// without a skill name.
func (s Skills) MergeRequirements(reqs []SkillRequirement) {
	for _, req := range reqs {
		if strings.TrimSpace(req.Skill) == "" {
			continue
		}
		s.Raise(req.Skill, req.Level)
	}
}

func (s Skills) Clone() Skills {
	out := make(Skills, len(s))
	for skill, level := range s {
		out[skill] = level
	}
	return out
}

// Requirements lists the levels sorted by skill name.
func (s Skills) Requirements() []SkillRequirement {
	out := make([]SkillRequirement, 0, len(s))
	for skill, level := range s {
		out = append(out, SkillRequirement{Skill: skill, Level: level})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Skill < out[j].Skill
	})
	return out
}
