package combat

import (
	"context"
	"errors"
	"testing"

	"github.com/osrs-reldo/taskscrape/quest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rollerFunc func(ctx context.Context, questID int) (quest.Rollup, error)

func (f rollerFunc) Rollup(ctx context.Context, questID int) (quest.Rollup, error) {
	return f(ctx, questID)
}

func fixedRollups(rollups map[int]quest.Skills) (Roller, *[]int) {
	var calls []int
	return rollerFunc(func(_ context.Context, questID int) (quest.Rollup, error) {
		calls = append(calls, questID)
		return quest.Rollup{Skills: rollups[questID].Clone(), Quests: []int{}}, nil
	}), &calls
}

func attack(level int) []quest.SkillRequirement {
	return []quest.SkillRequirement{{Skill: "ATTACK", Level: level}}
}

func TestAggregatePrecedence(t *testing.T) {
	roller, _ := fixedRollups(map[int]quest.Skills{7: {"ATTACK": 40}})
	agg := NewAggregator(roller, nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		override int
		want     int
	}{
		{name: "override higher", override: 50, want: 50},
		{name: "quest higher", override: 30, want: 40},
		{name: "equal", override: 40, want: 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := agg.Aggregate(ctx, []int{1}, map[int][]int{1: {7}}, map[int][]quest.SkillRequirement{1: attack(tt.override)})
			require.NoError(t, err)
			assert.Equal(t, attack(tt.want), got[1])
		})
	}
}

func TestAggregateTaskWithNothingIsAbsent(t *testing.T) {
	roller, calls := fixedRollups(nil)
	got, err := NewAggregator(roller, nil).Aggregate(context.Background(), []int{1, 2}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, *calls)

	_, present := got[1]
	assert.False(t, present)
}

func TestAggregateMergesLinkedQuests(t *testing.T) {
	roller, calls := fixedRollups(map[int]quest.Skills{
		7: {"ATTACK": 40, "MAGIC": 10},
		8: {"MAGIC": 55, "AGILITY": 20},
	})
	overrides := map[int][]quest.SkillRequirement{
		3: {{Skill: "", Level: 99}, {Skill: "SLAYER", Level: 60}},
	}

	got, err := NewAggregator(roller, nil).Aggregate(context.Background(), []int{3}, map[int][]int{3: {7, 8}}, overrides)
	require.NoError(t, err)
	assert.Equal(t, []quest.SkillRequirement{
		{Skill: "AGILITY", Level: 20},
		{Skill: "ATTACK", Level: 40},
		{Skill: "MAGIC", Level: 55},
		{Skill: "SLAYER", Level: 60},
	}, got[3])
	assert.Equal(t, []int{7, 8}, *calls)
}

func TestAggregateOverrideOnlyFallback(t *testing.T) {
	roller, _ := fixedRollups(map[int]quest.Skills{7: {}})
	own := []quest.SkillRequirement{{Skill: "RANGED", Level: 70}, {Skill: "DEFENCE", Level: 45}}
	overrides := map[int][]quest.SkillRequirement{5: own, 6: {}}
	links := map[int][]int{4: {7}}

	got, err := NewAggregator(roller, nil).Aggregate(context.Background(), nil, links, overrides)
	require.NoError(t, err)

	// Override-only lists are kept as written, not re-sorted.
	assert.Equal(t, own, got[5])
	assert.NotContains(t, got, 4)
	assert.NotContains(t, got, 6)

	got[5][0].Level = 1
	assert.Equal(t, 70, own[0].Level)
}

func TestAggregatePropagatesRollupError(t *testing.T) {
	boom := errors.New("catalog offline")
	roller := rollerFunc(func(context.Context, int) (quest.Rollup, error) {
		return quest.Rollup{}, boom
	})

	_, err := NewAggregator(roller, nil).Aggregate(context.Background(), nil, map[int][]int{1: {2}}, nil)
	assert.ErrorIs(t, err, boom)
}

func TestAggregateWithResolver(t *testing.T) {
	source := quest.FileSource{Path: writeQuests(t, `[
		{"id": 1, "name": "a", "requirements": {"skills": {"ATTACK": 40}, "quests": [2]}},
		{"id": 2, "name": "b", "requirements": {"skills": {"ATTACK": 20, "PRAYER": 43}, "quests": [1]}}
	]`)}
	resolver := quest.NewResolver(quest.NewCatalog(source, nil), nil)

	got, err := NewAggregator(resolver, nil).Aggregate(context.Background(), nil,
		map[int][]int{10: {1}}, map[int][]quest.SkillRequirement{10: attack(50)})
	require.NoError(t, err)
	assert.Equal(t, []quest.SkillRequirement{{Skill: "ATTACK", Level: 50}, {Skill: "PRAYER", Level: 43}}, got[10])
}

func TestApplySetsTaskSkills(t *testing.T) {
	roller, _ := fixedRollups(map[int]quest.Skills{7: {"ATTACK": 40}})
	tasks := []Task{{StructID: 100, SortID: 0}, {StructID: 101, SortID: 1}, {StructID: 102, SortID: 2}}
	overrides := Overrides{
		Skills: map[int][]quest.SkillRequirement{101: attack(5), 999: attack(99)},
		Quests: map[int][]int{100: {7}, 555: {7}},
	}

	got, err := NewAggregator(roller, nil).Apply(context.Background(), tasks, overrides)
	require.NoError(t, err)
	assert.Equal(t, map[int][]quest.SkillRequirement{
		100: attack(40),
		101: attack(5),
		555: attack(40),
		999: attack(99),
	}, got)
	assert.Equal(t, attack(40), tasks[0].Skills)
	assert.Equal(t, attack(5), tasks[1].Skills)
	assert.Nil(t, tasks[2].Skills)
}
