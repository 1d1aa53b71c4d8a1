package db

import (
	"context"
	"fmt"

	"github.com/osrs-reldo/taskscrape/combat"
	"github.com/osrs-reldo/taskscrape/quest"
)

// Sync writes the quest catalog, rollup minimums and combat tasks. Quests go
// first so the rollup rows can reference them.
func (d *Database) Sync(ctx context.Context, definitions []quest.Definition, rollups map[int]quest.Rollup, tasks []combat.Task) error {
	quests, skills, prerequisites := QuestRows(definitions)
	if err := d.InsertQuests(ctx, quests, skills, prerequisites); err != nil {
		return fmt.Errorf("sync quests: %w", err)
	}
	if err := d.InsertSkillMinimums(ctx, RollupRows(rollups)); err != nil {
		return fmt.Errorf("sync skill minimums: %w", err)
	}
	taskRows, taskSkills := TaskRows(tasks)
	if err := d.InsertTasks(ctx, taskRows, taskSkills); err != nil {
		return fmt.Errorf("sync combat tasks: %w", err)
	}
	return nil
}
