package combat

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/osrs-reldo/taskscrape/cache"
	"github.com/osrs-reldo/taskscrape/quest"
	"github.com/tidwall/gjson"
)

// Overrides is the hand-curated task data: skill requirements and linked
// quests per task struct id.
type Overrides struct {
	Skills map[int][]quest.SkillRequirement
	Quests map[int][]int
}

// OverrideDir is the location of the combat columns inside a task store.
func OverrideDir(taskStore string) string {
	return filepath.Join(taskStore, "custom-data", "COMBAT")
}

// LoadOverrides reads skills.json and quests.json from dir. Both files use
// the {"values": {"<taskId>": [...]}} layout. Entries with a non-numeric task
// id or an unreadable level are skipped; a missing file is an error.
func LoadOverrides(dir string) (Overrides, error) {
	skills, err := readColumn(filepath.Join(dir, "skills.json"))
	if err != nil {
		return Overrides{}, err
	}
	quests, err := readColumn(filepath.Join(dir, "quests.json"))
	if err != nil {
		return Overrides{}, err
	}

	out := Overrides{
		Skills: make(map[int][]quest.SkillRequirement),
		Quests: make(map[int][]int),
	}
	eachTask(skills, func(taskID int, entries gjson.Result) {
		list := []quest.SkillRequirement{}
		for _, entry := range entries.Array() {
			skill := strings.TrimSpace(entry.Get("skill").String())
			if skill == "" {
				continue
			}
			level, ok := cache.FromJSON(entry.Get("level")).Int()
			if !ok {
				continue
			}
			list = append(list, quest.SkillRequirement{Skill: skill, Level: int(level)})
		}
		out.Skills[taskID] = list
	})
	eachTask(quests, func(taskID int, entries gjson.Result) {
		list := []int{}
		for _, entry := range entries.Array() {
			if id, ok := cache.FromJSON(entry).Int(); ok {
				list = append(list, int(id))
			}
		}
		out.Quests[taskID] = list
	})
	return out, nil
}

func readColumn(path string) (gjson.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("read override column: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("read override column %s: invalid json", path)
	}
	return gjson.GetBytes(data, "values"), nil
}

func eachTask(values gjson.Result, fn func(taskID int, entries gjson.Result)) {
	values.ForEach(func(key, entries gjson.Result) bool {
		taskID, err := strconv.Atoi(strings.TrimSpace(key.String()))
		if err != nil {
			return true
		}
		if !entries.IsArray() {
			return true
		}
		fn(taskID, entries)
		return true
	})
}
