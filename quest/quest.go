// Package quest builds the quest catalog from the game cache (or a scraped
// wiki export) and resolves the full prerequisite closure of a quest.
package quest

import (
	"context"
	"slices"
)

// Column layout of the quest dbtable.
const (
	Table = 0

	ColumnDisplayName       = 2
	ColumnMembers           = 5
	ColumnRequirementStats  = 23
	ColumnRecommendedStats  = 24
	ColumnRequirementQuests = 25
	ColumnQuestPoints       = 26
	ColumnCombatLevel       = 27
	ColumnRecommendedCombat = 28
	ColumnCheckSkillsStart  = 29
	ColumnBoostable         = 30
)

// StatNamesEnum resolves stat ids to skill names.
const StatNamesEnum = 680

type Requirements struct {
	Skills Skills `json:"skills"`
	Quests []int  `json:"quests"`
}

type Definition struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Requirements Requirements `json:"requirements"`
}

func (d Definition) clone() Definition {
	d.Requirements.Skills = d.Requirements.Skills.Clone()
	d.Requirements.Quests = slices.Clone(d.Requirements.Quests)
	return d
}

// Rollup is the transitive requirement set of a quest. Quests never
// contains the quest the rollup was computed for.
type Rollup struct {
	Skills Skills `json:"skills"`
	Quests []int  `json:"quests"`
}

// Source produces quest definitions in any order.
type Source interface {
	Quests(ctx context.Context) ([]Definition, error)
}
