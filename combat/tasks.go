// Package combat lists combat achievement tasks and computes their minimum
// skill requirements.
package combat

import (
	"context"
	"fmt"

	"github.com/osrs-reldo/taskscrape/cache"
	"github.com/osrs-reldo/taskscrape/quest"
)

// Struct params of a combat achievement task.
const (
	ParamVarbitIndex = 1306
	ParamName        = 1308
	ParamDescription = 1309
	ParamTier        = 1310
	ParamCategory    = 1311
	ParamMonster     = 1312
)

// TierEnums hold the task struct ids of each difficulty, easy to grandmaster,
// in display order.
var TierEnums = []int{3981, 3982, 3983, 3984, 3985, 3986}

type Task struct {
	StructID int                      `json:"structId"`
	SortID   int                      `json:"sortId"`
	Skills   []quest.SkillRequirement `json:"skills,omitempty"`
}

// ListTasks walks the tier enums in order and loads every task struct. The
// position across all tiers becomes the task's sort id.
func ListTasks(ctx context.Context, store cache.Store, tierEnums []int) ([]Task, error) {
	var tasks []Task
	for _, enumID := range tierEnums {
		enum, err := store.Enum(ctx, enumID)
		if err != nil {
			return nil, fmt.Errorf("load tier enum %d: %w", enumID, err)
		}
		for _, value := range enum.Values() {
			structID, ok := value.Int()
			if !ok {
				continue
			}
			taskStruct, err := store.Struct(ctx, int(structID))
			if err != nil {
				return nil, fmt.Errorf("load task struct %d: %w", structID, err)
			}
			tasks = append(tasks, Task{StructID: taskStruct.ID, SortID: len(tasks)})
		}
	}
	return tasks, nil
}

// Details is the decoded param set of a task struct. Fields the struct does
// not carry are nil.
type Details struct {
	StructID    int     `json:"structId"`
	VarbitIndex *int    `json:"varbitIndex"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Tier        *int    `json:"tier"`
	Category    *int    `json:"category"`
	Monster     *int    `json:"monster"`
}

func LoadDetails(ctx context.Context, store cache.Store, structID int) (Details, error) {
	taskStruct, err := store.Struct(ctx, structID)
	if err != nil {
		return Details{}, fmt.Errorf("load task struct %d: %w", structID, err)
	}
	return Details{
		StructID:    taskStruct.ID,
		VarbitIndex: intParam(taskStruct, ParamVarbitIndex),
		Name:        stringParam(taskStruct, ParamName),
		Description: stringParam(taskStruct, ParamDescription),
		Tier:        intParam(taskStruct, ParamTier),
		Category:    intParam(taskStruct, ParamCategory),
		Monster:     intParam(taskStruct, ParamMonster),
	}, nil
}

func intParam(r *cache.Record, param int) *int {
	n, ok := r.Param(param).Int()
	if !ok {
		return nil
	}
	v := int(n)
	return &v
}

func stringParam(r *cache.Record, param int) *string {
	s, ok := r.Param(param).Str()
	if !ok {
		return nil
	}
	return &s
}
