package quest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	quests []Definition
	err    error
	calls  int
}

func (s *staticSource) Quests(context.Context) ([]Definition, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.quests, nil
}

func def(id int, skills Skills, prereqs ...int) Definition {
	if skills == nil {
		skills = Skills{}
	}
	if prereqs == nil {
		prereqs = []int{}
	}
	return Definition{ID: id, Name: "quest", Requirements: Requirements{Skills: skills, Quests: prereqs}}
}

func newResolver(augment Augmentation, quests ...Definition) *Resolver {
	return NewResolver(NewCatalog(&staticSource{quests: quests}, nil), augment)
}

func TestRollupLeafQuest(t *testing.T) {
	own := Skills{"ATTACK": 20, "COOKING": 10}
	r := newResolver(nil, def(1, own))

	rollup, err := r.Rollup(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, rollup.Quests)
	assert.Equal(t, own, rollup.Skills)
}

func TestRollupTransitiveMaxMerge(t *testing.T) {
	r := newResolver(nil,
		def(1, Skills{"ATTACK": 40}, 2, 3),
		def(2, Skills{"ATTACK": 30, "MAGIC": 50}, 4),
		def(3, Skills{"ATTACK": 60}, 4),
		def(4, Skills{"MAGIC": 20}),
	)

	rollup, err := r.Rollup(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, rollup.Quests)
	assert.Equal(t, Skills{"ATTACK": 60, "MAGIC": 50}, rollup.Skills)
}

func TestRollupSameRequirementTwiceIsNotSummed(t *testing.T) {
	r := newResolver(nil,
		def(1, Skills{"ATTACK": 40}, 2),
		def(2, Skills{"ATTACK": 40}),
	)

	rollup, err := r.Rollup(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 40, rollup.Skills["ATTACK"])
}

func TestRollupTwoCycle(t *testing.T) {
	r := newResolver(nil,
		def(10, Skills{"AGILITY": 5}, 20),
		def(20, Skills{"THIEVING": 7}, 10),
	)
	ctx := context.Background()

	a, err := r.Rollup(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{20}, a.Quests)
	assert.Equal(t, Skills{"AGILITY": 5, "THIEVING": 7}, a.Skills)

	b, err := r.Rollup(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, []int{10}, b.Quests)
}

func TestRollupNeverContainsRoot(t *testing.T) {
	quests := []Definition{
		def(1, nil, 2, 1),
		def(2, nil, 3),
		def(3, nil, 1, 2),
		def(4, nil, 4),
	}
	r := newResolver(Augmentation{2: {1}}, quests...)

	for _, q := range quests {
		rollup, err := r.Rollup(context.Background(), q.ID)
		require.NoError(t, err)
		assert.NotContains(t, rollup.Quests, q.ID)
	}
}

func TestRollupDeduplicatesAndSorts(t *testing.T) {
	r := newResolver(nil,
		def(1, nil, 9, 5, 9, 7),
		def(5, nil, 7),
	)

	rollup, err := r.Rollup(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 7, 9}, rollup.Quests)
}

func TestRollupAugmentationOnEmptyPrerequisites(t *testing.T) {
	r := newResolver(DefaultAugmentation(),
		def(143, Skills{"PRAYER": 1}),
		def(162, Skills{"CRAFTING": 5}),
	)

	rollup, err := r.Rollup(context.Background(), 143)
	require.NoError(t, err)
	assert.Contains(t, rollup.Quests, 162)
	assert.Equal(t, Skills{"PRAYER": 1, "CRAFTING": 5}, rollup.Skills)
}

func TestRollupUnknownQuests(t *testing.T) {
	r := newResolver(nil, def(1, Skills{"FISHING": 10}, 99))
	ctx := context.Background()

	rollup, err := r.Rollup(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{99}, rollup.Quests)
	assert.Equal(t, Skills{"FISHING": 10}, rollup.Skills)

	missing, err := r.Rollup(ctx, 12345)
	require.NoError(t, err)
	assert.Empty(t, missing.Quests)
	assert.Empty(t, missing.Skills)
}

func TestRollupDoesNotMutateCatalog(t *testing.T) {
	r := newResolver(nil,
		def(1, Skills{"ATTACK": 10}, 2),
		def(2, Skills{"ATTACK": 50}),
	)
	ctx := context.Background()

	rollup, err := r.Rollup(ctx, 1)
	require.NoError(t, err)
	rollup.Skills["ATTACK"] = 1

	quest, ok, err := r.Catalog().Get(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Skills{"ATTACK": 10}, quest.Requirements.Skills)
}

func TestRollupPropagatesSourceFailure(t *testing.T) {
	boom := errors.New("cache offline")
	r := NewResolver(NewCatalog(&staticSource{err: boom}, nil), nil)

	_, err := r.Rollup(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
}
