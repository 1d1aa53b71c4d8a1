package quest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/osrs-reldo/taskscrape/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	rows    []*cache.Record
	enums   map[int]*cache.Enum
	scans   int
	scanErr error
}

func (s *fakeStore) Lookup(_ context.Context, table, id int) (*cache.Record, error) {
	for _, row := range s.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, cache.ErrNotFound
}

func (s *fakeStore) ScanTable(context.Context, int) ([]*cache.Record, error) {
	s.scans++
	if s.scanErr != nil {
		return nil, s.scanErr
	}
	return s.rows, nil
}

func (s *fakeStore) Struct(context.Context, int) (*cache.Record, error) {
	return nil, cache.ErrNotFound
}

func (s *fakeStore) Enum(_ context.Context, id int) (*cache.Enum, error) {
	if enum, ok := s.enums[id]; ok {
		return enum, nil
	}
	return nil, cache.ErrNotFound
}

func statsEnum() map[int]*cache.Enum {
	return map[int]*cache.Enum{StatNamesEnum: {ID: StatNamesEnum, Entries: []cache.EnumEntry{
		{Key: 0, Value: cache.String("attack")},
		{Key: 6, Value: cache.String("magic")},
		{Key: 7, Value: cache.String("cooking")},
	}}}
}

func questRow(id int, columns map[int][]cache.Value) *cache.Record {
	return &cache.Record{ID: id, Columns: columns, Arity: map[int]int{
		ColumnRequirementStats: 2,
		ColumnRecommendedStats: 2,
	}}
}

func TestCacheSourceQuests(t *testing.T) {
	store := &fakeStore{
		enums: statsEnum(),
		rows: []*cache.Record{
			questRow(143, map[int][]cache.Value{
				ColumnDisplayName:      {cache.String("Tale of the Righteous")},
				ColumnRequirementStats: {cache.Int(0), cache.Int(20), cache.Int(99), cache.Int(5), cache.Int(0), cache.Int(30)},
			}),
			questRow(7, map[int][]cache.Value{
				ColumnDisplayName:       {cache.String("   ")},
				ColumnRequirementStats:  {cache.String("x"), cache.Int(10), cache.Int(7), cache.String("12")},
				ColumnRequirementQuests: {cache.Int(3), cache.String("bad"), cache.String("4")},
			}),
		},
	}
	catalog := NewCatalog(NewCacheSource(store, DefaultAugmentation()), nil)

	quests, err := catalog.List(context.Background())
	require.NoError(t, err)
	require.Len(t, quests, 2)

	assert.Equal(t, 7, quests[0].ID)
	assert.Equal(t, "Quest 7", quests[0].Name)
	assert.Equal(t, Skills{"COOKING": 12}, quests[0].Requirements.Skills)
	assert.Equal(t, []int{3, 4}, quests[0].Requirements.Quests)

	assert.Equal(t, 143, quests[1].ID)
	assert.Equal(t, "Tale of the Righteous", quests[1].Name)
	assert.Equal(t, Skills{"ATTACK": 30, "STAT_99": 5}, quests[1].Requirements.Skills)
	assert.Equal(t, []int{162}, quests[1].Requirements.Quests)
}

func TestCatalogBuiltOnce(t *testing.T) {
	store := &fakeStore{enums: statsEnum(), rows: []*cache.Record{questRow(1, nil)}}
	catalog := NewCatalog(NewCacheSource(store, nil), nil)
	ctx := context.Background()

	_, err := catalog.List(ctx)
	require.NoError(t, err)
	_, err = catalog.Map(ctx)
	require.NoError(t, err)
	_, err = NewResolver(catalog, nil).Rollup(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, store.scans)
}

func TestCatalogRetriesAfterFailure(t *testing.T) {
	source := &staticSource{err: cache.ErrUnavailable}
	catalog := NewCatalog(source, nil)
	ctx := context.Background()

	_, err := catalog.List(ctx)
	require.ErrorIs(t, err, cache.ErrUnavailable)

	source.err = nil
	source.quests = []Definition{def(2, nil), def(1, nil)}
	quests, err := catalog.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
	assert.Equal(t, 1, quests[0].ID)
}

func TestCatalogDuplicateIDsKeepFirst(t *testing.T) {
	first := def(5, Skills{"ATTACK": 1})
	first.Name = "first"
	second := def(5, Skills{"ATTACK": 2})
	second.Name = "second"

	byID, err := NewCatalog(&staticSource{quests: []Definition{first, second}}, nil).Map(context.Background())
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, "first", byID[5].Name)
}

func TestCacheSourceMissingNameTable(t *testing.T) {
	store := &fakeStore{rows: []*cache.Record{questRow(1, nil)}}
	_, err := NewCacheSource(store, nil).Quests(context.Background())
	assert.True(t, errors.Is(err, cache.ErrNotFound))
}

func TestCacheSourceDetails(t *testing.T) {
	store := &fakeStore{
		enums: statsEnum(),
		rows: []*cache.Record{questRow(96, map[int][]cache.Value{
			ColumnDisplayName:       {cache.String("Monkey Madness II")},
			ColumnMembers:           {cache.Int(1)},
			ColumnRequirementStats:  {cache.Int(6), cache.Int(60)},
			ColumnRecommendedStats:  {cache.Int(0), cache.Int(70)},
			ColumnRequirementQuests: {cache.Int(5)},
			ColumnQuestPoints:       {cache.String("")},
			ColumnCombatLevel:       {cache.Int(0)},
			ColumnBoostable:         {cache.Int(0)},
		})},
	}
	source := NewCacheSource(store, DefaultAugmentation())
	ctx := context.Background()

	details, err := source.Details(ctx, 96)
	require.NoError(t, err)
	require.NotNil(t, details)

	require.NotNil(t, details.DisplayName)
	assert.Equal(t, "Monkey Madness II", *details.DisplayName)
	require.NotNil(t, details.Members)
	assert.True(t, *details.Members)
	assert.Equal(t, []int{5, 2315}, details.Requirements.Quests)
	assert.Nil(t, details.Requirements.QuestPoints)
	require.NotNil(t, details.Requirements.CombatLevel)
	assert.Equal(t, 0, *details.Requirements.CombatLevel)
	assert.Equal(t, []SkillRequirement{{Skill: "MAGIC", Level: 60}}, details.Requirements.Stats)
	assert.Equal(t, []SkillRequirement{{Skill: "ATTACK", Level: 70}}, details.Recommended.Stats)
	assert.Nil(t, details.Requirements.CheckSkillsOnStart)
	require.NotNil(t, details.Requirements.Boostable)
	assert.False(t, *details.Requirements.Boostable)
	assert.Equal(t, 25, details.Sources.Columns["requirementQuests"])

	missing, err := source.Details(ctx, 4000)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	wrapped := filepath.Join(dir, "wrapped.json")
	require.NoError(t, os.WriteFile(wrapped, []byte(`{"quests": [
		{"id": "12", "name": "Dragon Slayer I", "requirements": {"skills": {}, "quests": [1, "2", "x"]}},
		{"id": 30, "name": "", "requirements": {"skills": {"ATTACK": "40", "MAGIC": 33, "BAD": "high"}}},
		{"name": "no id"}
	]}`), 0o644))

	quests, err := FileSource{Path: wrapped}.Quests(context.Background())
	require.NoError(t, err)
	require.Len(t, quests, 2)
	assert.Equal(t, 12, quests[0].ID)
	assert.Equal(t, []int{1, 2}, quests[0].Requirements.Quests)
	assert.Equal(t, "Quest 30", quests[1].Name)
	assert.Equal(t, Skills{"ATTACK": 40, "MAGIC": 33}, quests[1].Requirements.Skills)
	assert.Empty(t, quests[1].Requirements.Quests)

	bare := filepath.Join(dir, "bare.json")
	require.NoError(t, os.WriteFile(bare, []byte(`[{"id": 1, "name": "Cook's Assistant"}]`), 0o644))
	quests, err = FileSource{Path: bare}.Quests(context.Background())
	require.NoError(t, err)
	require.Len(t, quests, 1)
	assert.Equal(t, "Cook's Assistant", quests[0].Name)

	_, err = FileSource{Path: filepath.Join(dir, "missing.json")}.Quests(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAugmentationTable(t *testing.T) {
	table := DefaultAugmentation()
	assert.Equal(t, []int{162}, table[143])
	assert.Equal(t, []int{2315}, table[96])
	assert.Equal(t, []int{2310}, table[67])
	assert.Len(t, table, 9)

	prereqs := []int{1, 162}
	extended := table.Extend(143, prereqs)
	assert.Equal(t, []int{1, 162, 162}, extended)
	assert.Equal(t, []int{1, 162}, prereqs)

	custom, err := ParseAugmentation([]byte("5: [6, 7]\n"))
	require.NoError(t, err)
	assert.Equal(t, Augmentation{5: {6, 7}}, custom)

	_, err = ParseAugmentation([]byte("5: nope: ["))
	assert.Error(t, err)

	empty, err := ParseAugmentation(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
