package db

import (
	"github.com/osrs-reldo/taskscrape/combat"
	"github.com/osrs-reldo/taskscrape/quest"
)

type Quest struct {
	ID   int
	Name string
}

// SkillLevel is a row of quest_skills, quest_skill_minimums or
// combat_task_skills. OwnerID is the quest id or task struct id.
type SkillLevel struct {
	OwnerID int
	Skill   string
	Level   int
}

type Prerequisite struct {
	QuestID        int
	Position       int
	PrerequisiteID int
}

type Task struct {
	StructID int
	SortID   int
}

// QuestRows flattens definitions into table rows. Prerequisite positions
// keep the definition order.
func QuestRows(definitions []quest.Definition) ([]Quest, []SkillLevel, []Prerequisite) {
	var quests []Quest
	var skills []SkillLevel
	var prerequisites []Prerequisite
	for _, def := range definitions {
		quests = append(quests, Quest{ID: def.ID, Name: def.Name})
		skills = append(skills, skillRows(def.ID, def.Requirements.Skills.Requirements())...)
		for i, id := range def.Requirements.Quests {
			prerequisites = append(prerequisites, Prerequisite{QuestID: def.ID, Position: i, PrerequisiteID: id})
		}
	}
	return quests, skills, prerequisites
}

// RollupRows flattens the skill minimums of rollups keyed by quest id.
func RollupRows(rollups map[int]quest.Rollup) []SkillLevel {
	var rows []SkillLevel
	for _, id := range sortedIDs(rollups) {
		rows = append(rows, skillRows(id, rollups[id].Skills.Requirements())...)
	}
	return rows
}

func TaskRows(tasks []combat.Task) ([]Task, []SkillLevel) {
	var rows []Task
	var skills []SkillLevel
	for _, task := range tasks {
		rows = append(rows, Task{StructID: task.StructID, SortID: task.SortID})
		skills = append(skills, skillRows(task.StructID, task.Skills)...)
	}
	return rows, skills
}

func skillRows(owner int, reqs []quest.SkillRequirement) []SkillLevel {
	rows := make([]SkillLevel, 0, len(reqs))
	for _, req := range reqs {
		rows = append(rows, SkillLevel{OwnerID: owner, Skill: req.Skill, Level: req.Level})
	}
	return rows
}
