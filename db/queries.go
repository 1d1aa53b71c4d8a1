package db

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/osrs-reldo/taskscrape/quest"
)

const listQuests = `SELECT id, name FROM quests ORDER BY id`
const insertQuest = `INSERT INTO quests (id, name) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name`

const listQuestSkills = `SELECT quest_id, skill, level FROM quest_skills ORDER BY quest_id, skill`
const deleteQuestSkills = `DELETE FROM quest_skills WHERE quest_id = ANY($1)`
const insertQuestSkill = `INSERT INTO quest_skills (quest_id, skill, level) VALUES ($1, $2, $3) ON CONFLICT (quest_id, skill) DO UPDATE SET level=GREATEST(quest_skills.level, EXCLUDED.level)`

const listPrerequisites = `SELECT quest_id, position, prerequisite_id FROM quest_prerequisites ORDER BY quest_id, position`
const deletePrerequisites = `DELETE FROM quest_prerequisites WHERE quest_id = ANY($1)`
const insertPrerequisite = `INSERT INTO quest_prerequisites (quest_id, position, prerequisite_id) VALUES ($1, $2, $3) ON CONFLICT (quest_id, position) DO UPDATE SET prerequisite_id=EXCLUDED.prerequisite_id`

const listSkillMinimums = `SELECT quest_id, skill, level FROM quest_skill_minimums WHERE quest_id = $1 ORDER BY skill`
const deleteSkillMinimums = `DELETE FROM quest_skill_minimums WHERE quest_id = ANY($1)`
const insertSkillMinimum = `INSERT INTO quest_skill_minimums (quest_id, skill, level) VALUES ($1, $2, $3) ON CONFLICT (quest_id, skill) DO UPDATE SET level=EXCLUDED.level`

const listTaskSkills = `SELECT struct_id, skill, level FROM combat_task_skills ORDER BY struct_id, skill`
const insertTask = `INSERT INTO combat_tasks (struct_id, sort_id) VALUES ($1, $2) ON CONFLICT (struct_id) DO UPDATE SET sort_id=EXCLUDED.sort_id`
const deleteTaskSkills = `DELETE FROM combat_task_skills WHERE struct_id = ANY($1)`
const insertTaskSkill = `INSERT INTO combat_task_skills (struct_id, skill, level) VALUES ($1, $2, $3) ON CONFLICT (struct_id, skill) DO UPDATE SET level=GREATEST(combat_task_skills.level, EXCLUDED.level)`

func insertCallback(ct pgconn.CommandTag) error {
	return nil
}

// Quests reads the stored catalog back as definitions, which makes the
// database usable as a quest.Source.
func (d *Database) Quests(ctx context.Context) ([]quest.Definition, error) {
	quests, err := d.ListQuests(ctx)
	if err != nil {
		return nil, err
	}
	skills, err := d.listSkillLevels(ctx, listQuestSkills)
	if err != nil {
		return nil, err
	}
	prerequisites, err := d.ListPrerequisites(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]*quest.Definition, len(quests))
	definitions := make([]quest.Definition, len(quests))
	for i, q := range quests {
		definitions[i] = quest.Definition{
			ID:           q.ID,
			Name:         q.Name,
			Requirements: quest.Requirements{Skills: quest.Skills{}, Quests: []int{}},
		}
		byID[q.ID] = &definitions[i]
	}
	for _, skill := range skills {
		if def, ok := byID[skill.OwnerID]; ok {
			def.Requirements.Skills.Raise(skill.Skill, skill.Level)
		}
	}
	// Rows come back ordered by position.
	for _, prerequisite := range prerequisites {
		if def, ok := byID[prerequisite.QuestID]; ok {
			def.Requirements.Quests = append(def.Requirements.Quests, prerequisite.PrerequisiteID)
		}
	}
	return definitions, nil
}

func (d *Database) ListQuests(ctx context.Context) ([]Quest, error) {
	rows, err := d.Pool.Query(ctx, listQuests)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quests []Quest
	for rows.Next() {
		var q Quest
		if err := rows.Scan(&q.ID, &q.Name); err != nil {
			return nil, err
		}
		quests = append(quests, q)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return quests, nil
}

func (d *Database) ListPrerequisites(ctx context.Context) ([]Prerequisite, error) {
	rows, err := d.Pool.Query(ctx, listPrerequisites)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prerequisites []Prerequisite
	for rows.Next() {
		var p Prerequisite
		if err := rows.Scan(&p.QuestID, &p.Position, &p.PrerequisiteID); err != nil {
			return nil, err
		}
		prerequisites = append(prerequisites, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return prerequisites, nil
}

// SkillMinimums returns the stored rollup levels of a quest.
func (d *Database) SkillMinimums(ctx context.Context, questID int) ([]SkillLevel, error) {
	return d.listSkillLevels(ctx, listSkillMinimums, questID)
}

func (d *Database) ListTaskSkills(ctx context.Context) ([]SkillLevel, error) {
	return d.listSkillLevels(ctx, listTaskSkills)
}

func (d *Database) listSkillLevels(ctx context.Context, sql string, args ...any) ([]SkillLevel, error) {
	rows, err := d.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []SkillLevel
	for rows.Next() {
		var level SkillLevel
		if err := rows.Scan(&level.OwnerID, &level.Skill, &level.Level); err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return levels, nil
}

// InsertQuests upserts quests and replaces their skill and prerequisite rows.
func (d *Database) InsertQuests(ctx context.Context, quests []Quest, skills []SkillLevel, prerequisites []Prerequisite) error {
	if len(quests) == 0 {
		return nil
	}

	ids := make([]int, 0, len(quests))
	for _, q := range quests {
		ids = append(ids, q.ID)
	}

	batch := pgx.Batch{}
	var queuedQueries []*pgx.QueuedQuery

	for _, q := range quests {
		queuedQueries = append(queuedQueries, batch.Queue(insertQuest, q.ID, q.Name))
	}
	queuedQueries = append(queuedQueries, batch.Queue(deleteQuestSkills, ids))
	queuedQueries = append(queuedQueries, batch.Queue(deletePrerequisites, ids))
	for _, skill := range skills {
		queuedQueries = append(queuedQueries, batch.Queue(insertQuestSkill, skill.OwnerID, skill.Skill, skill.Level))
	}
	for _, p := range prerequisites {
		queuedQueries = append(queuedQueries, batch.Queue(insertPrerequisite, p.QuestID, p.Position, p.PrerequisiteID))
	}

	for _, queuedQuery := range queuedQueries {
		queuedQuery.Exec(insertCallback)
	}

	if err := d.Pool.SendBatch(ctx, &batch).Close(); err != nil {
		return err
	}

	return nil
}

// InsertSkillMinimums replaces the stored rollup levels of every quest that
// appears in minimums.
func (d *Database) InsertSkillMinimums(ctx context.Context, minimums []SkillLevel) error {
	if len(minimums) == 0 {
		return nil
	}

	batch := pgx.Batch{}
	var queuedQueries []*pgx.QueuedQuery

	queuedQueries = append(queuedQueries, batch.Queue(deleteSkillMinimums, ownerIDs(minimums)))
	for _, minimum := range minimums {
		queuedQueries = append(queuedQueries, batch.Queue(insertSkillMinimum, minimum.OwnerID, minimum.Skill, minimum.Level))
	}

	for _, queuedQuery := range queuedQueries {
		queuedQuery.Exec(insertCallback)
	}

	if err := d.Pool.SendBatch(ctx, &batch).Close(); err != nil {
		return err
	}

	return nil
}

// InsertTasks upserts tasks and replaces their skill rows.
func (d *Database) InsertTasks(ctx context.Context, tasks []Task, skills []SkillLevel) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]int, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.StructID)
	}

	batch := pgx.Batch{}
	var queuedQueries []*pgx.QueuedQuery

	for _, task := range tasks {
		queuedQueries = append(queuedQueries, batch.Queue(insertTask, task.StructID, task.SortID))
	}
	queuedQueries = append(queuedQueries, batch.Queue(deleteTaskSkills, ids))
	for _, skill := range skills {
		queuedQueries = append(queuedQueries, batch.Queue(insertTaskSkill, skill.OwnerID, skill.Skill, skill.Level))
	}

	for _, queuedQuery := range queuedQueries {
		queuedQuery.Exec(insertCallback)
	}

	if err := d.Pool.SendBatch(ctx, &batch).Close(); err != nil {
		return err
	}

	return nil
}

func ownerIDs(levels []SkillLevel) []int {
	seen := make(map[int]struct{})
	var ids []int
	for _, level := range levels {
		if _, ok := seen[level.OwnerID]; ok {
			continue
		}
		seen[level.OwnerID] = struct{}{}
		ids = append(ids, level.OwnerID)
	}
	return ids
}

func sortedIDs[V any](m map[int]V) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
