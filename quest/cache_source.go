package quest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/osrs-reldo/taskscrape/cache"
)

// CacheSource reads quest definitions from the quest dbtable.
type CacheSource struct {
	store   cache.Store
	augment Augmentation

	mu        sync.Mutex
	statNames map[int]string
}

func NewCacheSource(store cache.Store, augment Augmentation) *CacheSource {
	return &CacheSource{store: store, augment: augment}
}

func (s *CacheSource) Quests(ctx context.Context) ([]Definition, error) {
	rows, err := s.store.ScanTable(ctx, Table)
	if err != nil {
		return nil, fmt.Errorf("scan quest table: %w", err)
	}
	names, err := s.names(ctx)
	if err != nil {
		return nil, err
	}

	quests := make([]Definition, 0, len(rows))
	for _, row := range rows {
		quests = append(quests, Definition{
			ID:           row.ID,
			Name:         displayName(row),
			Requirements: s.requirements(row, names),
		})
	}
	return quests, nil
}

func (s *CacheSource) names(ctx context.Context) (map[int]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.statNames != nil {
		return s.statNames, nil
	}
	names, err := cache.NameTable(ctx, s.store, StatNamesEnum)
	if err != nil {
		return nil, err
	}
	s.statNames = names
	return names, nil
}

func (s *CacheSource) requirements(row *cache.Record, names map[int]string) Requirements {
	skills := Skills{}
	for _, stat := range statTuples(row, ColumnRequirementStats) {
		skills.Raise(statName(names, stat.id), stat.level)
	}
	return Requirements{
		Skills: skills,
		Quests: s.augment.Extend(row.ID, nonNil(row.Ints(ColumnRequirementQuests))),
	}
}

func displayName(row *cache.Record) string {
	name, ok := row.String(ColumnDisplayName)
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Sprintf("Quest %d", row.ID)
	}
	return name
}

func statName(names map[int]string, id int) string {
	if name, ok := names[id]; ok {
		return name
	}
	return fmt.Sprintf("STAT_%d", id)
}

type statLevel struct {
	id    int
	level int
}

// statTuples decodes (stat id, level) pairs, skipping malformed tuples.
func statTuples(row *cache.Record, column int) []statLevel {
	var out []statLevel
	for _, tuple := range row.Tuples(column) {
		if len(tuple) < 2 {
			continue
		}
		id, ok := tuple[0].Int()
		if !ok {
			continue
		}
		level, ok := tuple[1].Int()
		if !ok {
			continue
		}
		out = append(out, statLevel{id: int(id), level: int(level)})
	}
	return out
}

func nonNil(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}

// Details is the full decoded quest row.
type Details struct {
	TableID      int                `json:"tableId"`
	QuestID      int                `json:"questId"`
	DisplayName  *string            `json:"displayName"`
	Members      *bool              `json:"members"`
	Requirements DetailRequirements `json:"requirements"`
	Recommended  DetailRecommended  `json:"recommended"`
	Sources      DetailSources      `json:"sources"`
}

type DetailRequirements struct {
	Quests             []int              `json:"quests"`
	QuestPoints        *int               `json:"questPoints"`
	CombatLevel        *int               `json:"combatLevel"`
	Stats              []SkillRequirement `json:"stats"`
	CheckSkillsOnStart *bool              `json:"checkSkillsOnStart"`
	Boostable          *bool              `json:"boostable"`
}

type DetailRecommended struct {
	CombatLevel *int               `json:"combatLevel"`
	Stats       []SkillRequirement `json:"stats"`
}

type DetailSources struct {
	Columns map[string]int `json:"columns"`
}

// Details decodes every known column of a quest row. It returns nil when the
// quest has no row.
func (s *CacheSource) Details(ctx context.Context, questID int) (*Details, error) {
	row, err := s.store.Lookup(ctx, Table, questID)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup quest %d: %w", questID, err)
	}
	names, err := s.names(ctx)
	if err != nil {
		return nil, err
	}

	stats := func(column int) []SkillRequirement {
		out := []SkillRequirement{}
		for _, stat := range statTuples(row, column) {
			out = append(out, SkillRequirement{Skill: statName(names, stat.id), Level: stat.level})
		}
		return out
	}

	details := &Details{
		TableID: Table,
		QuestID: questID,
		Members: optionalBool(row, ColumnMembers),
		Requirements: DetailRequirements{
			Quests:             s.augment.Extend(questID, row.Ints(ColumnRequirementQuests)),
			QuestPoints:        optionalInt(row, ColumnQuestPoints),
			CombatLevel:        optionalInt(row, ColumnCombatLevel),
			Stats:              stats(ColumnRequirementStats),
			CheckSkillsOnStart: optionalBool(row, ColumnCheckSkillsStart),
			Boostable:          optionalBool(row, ColumnBoostable),
		},
		Recommended: DetailRecommended{
			CombatLevel: optionalInt(row, ColumnRecommendedCombat),
			Stats:       stats(ColumnRecommendedStats),
		},
		Sources: DetailSources{Columns: map[string]int{
			"displayName":            ColumnDisplayName,
			"members":                ColumnMembers,
			"requirementStats":       ColumnRequirementStats,
			"recommendedStats":       ColumnRecommendedStats,
			"requirementQuests":      ColumnRequirementQuests,
			"requirementQuestPoints": ColumnQuestPoints,
			"requirementCombat":      ColumnCombatLevel,
			"recommendedCombat":      ColumnRecommendedCombat,
			"checkSkillsOnStart":     ColumnCheckSkillsStart,
			"requirementsBoostable":  ColumnBoostable,
		}},
	}
	if name, ok := row.String(ColumnDisplayName); ok {
		details.DisplayName = &name
	}
	return details, nil
}

func optionalInt(row *cache.Record, column int) *int {
	n, ok := row.Int(column)
	if !ok {
		return nil
	}
	v := int(n)
	return &v
}

func optionalBool(row *cache.Record, column int) *bool {
	b, ok := row.Bool(column)
	if !ok {
		return nil
	}
	return &b
}
