package combat

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/osrs-reldo/taskscrape/quest"
	"go.uber.org/zap"
)

// Roller computes quest rollups. *quest.Resolver satisfies it.
type Roller interface {
	Rollup(ctx context.Context, questID int) (quest.Rollup, error)
}

type Aggregator struct {
	roller Roller
	log    *zap.Logger
}

func NewAggregator(roller Roller, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{roller: roller, log: log}
}

// Aggregate returns the minimum skill levels per task. Tasks linked to quests
// get the max-merge of every linked quest rollup and their own overrides.
// Tasks without linked quests fall back to their override list unchanged.
// Tasks with neither are left out.
//
// When taskIDs is nil every task named in links or overrides is considered.
func (a *Aggregator) Aggregate(
	ctx context.Context,
	taskIDs []int,
	links map[int][]int,
	overrides map[int][]quest.SkillRequirement,
) (map[int][]quest.SkillRequirement, error) {
	if taskIDs == nil {
		taskIDs = unionKeys(links, overrides)
	}

	out := make(map[int][]quest.SkillRequirement)
	for _, taskID := range taskIDs {
		linked := links[taskID]
		if len(linked) == 0 {
			continue
		}
		skills := quest.Skills{}
		for _, questID := range linked {
			rollup, err := a.roller.Rollup(ctx, questID)
			if err != nil {
				return nil, fmt.Errorf("aggregate task %d: rollup quest %d: %w", taskID, questID, err)
			}
			skills.Merge(rollup.Skills)
		}
		skills.MergeRequirements(overrides[taskID])
		if len(skills) == 0 {
			continue
		}
		out[taskID] = skills.Requirements()
	}

	for _, taskID := range taskIDs {
		if _, done := out[taskID]; done {
			continue
		}
		own := overrides[taskID]
		if len(own) == 0 {
			continue
		}
		out[taskID] = slices.Clone(own)
	}

	a.log.Debug("aggregated task skills", zap.Int("tasks", len(taskIDs)), zap.Int("with_skills", len(out)))
	return out, nil
}

// Apply aggregates over every task named in the overrides and stores the
// result on each of tasks. The returned map also covers override tasks that
// are not in tasks. Tasks without requirements keep a nil Skills slice.
func (a *Aggregator) Apply(ctx context.Context, tasks []Task, overrides Overrides) (map[int][]quest.SkillRequirement, error) {
	skills, err := a.Aggregate(ctx, nil, overrides.Quests, overrides.Skills)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].Skills = skills[tasks[i].StructID]
	}
	return skills, nil
}

func unionKeys(links map[int][]int, overrides map[int][]quest.SkillRequirement) []int {
	seen := make(map[int]struct{}, len(links)+len(overrides))
	for id := range links {
		seen[id] = struct{}{}
	}
	for id := range overrides {
		seen[id] = struct{}{}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
