package wiki

import (
	"regexp"
	"sort"
	"strings"
)

var skillNames = []string{
	"Agility", "Attack", "Construction", "Cooking", "Crafting", "Defence",
	"Farming", "Firemaking", "Fishing", "Fletching", "Herblore", "Hitpoints",
	"Hunter", "Magic", "Mining", "Prayer", "Ranged", "Runecraft", "Sailing",
	"Slayer", "Smithing", "Strength", "Thieving", "Woodcutting",
}

var knownSkills = func() map[string]struct{} {
	out := make(map[string]struct{}, len(skillNames))
	for _, name := range skillNames {
		out[strings.ToLower(name)] = struct{}{}
	}
	return out
}()

// Matches "<level> <skill>", e.g. "43 Prayer".
var skillTextPattern = regexp.MustCompile(`(?i)(\d{1,3})\s+(` + strings.Join(skillNames, "|") + `)`)

func isSkill(name string) bool {
	_, ok := knownSkills[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
