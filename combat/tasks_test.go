package combat

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/osrs-reldo/taskscrape/cache"
	"github.com/osrs-reldo/taskscrape/quest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeQuests(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quests.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestListTasks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "enum", "3981.json"), `{"id": 3981, "map": [[0, 500], [1, 501]]}`)
	writeFile(t, filepath.Join(dir, "enum", "3982.json"), `{"id": 3982, "map": {"0": 610, "1": "bad"}}`)
	for _, id := range []string{"500", "501"} {
		writeFile(t, filepath.Join(dir, "struct", id+".json"), `{"id": `+id+`, "params": {"1308": "Noxious Foe"}}`)
	}
	writeFile(t, filepath.Join(dir, "struct", "610.json"), `{"params": {"1308": "Stop the Wyvern"}}`)
	store, err := cache.OpenDump(dir)
	require.NoError(t, err)

	tasks, err := ListTasks(context.Background(), store, []int{3981, 3982})
	require.NoError(t, err)
	assert.Equal(t, []Task{
		{StructID: 500, SortID: 0},
		{StructID: 501, SortID: 1},
		{StructID: 610, SortID: 2},
	}, tasks)

	out, err := json.Marshal(tasks[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"structId": 500, "sortId": 0}`, string(out))
}

func TestListTasksMissingStruct(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "enum", "3981.json"), `{"id": 3981, "map": [[0, 777]]}`)
	store, err := cache.OpenDump(dir)
	require.NoError(t, err)

	_, err = ListTasks(context.Background(), store, []int{3981})
	assert.ErrorIs(t, err, cache.ErrNotFound)
}

func TestLoadOverrides(t *testing.T) {
	dir := OverrideDir(t.TempDir())
	writeFile(t, filepath.Join(dir, "skills.json"), `{"values": {
		"12": [{"skill": "ATTACK", "level": 50}, {"skill": "MAGIC", "level": "60"}, {"skill": "", "level": 5}, {"skill": "RANGED", "level": "x"}],
		"abc": [{"skill": "ATTACK", "level": 1}],
		"13": []
	}}`)
	writeFile(t, filepath.Join(dir, "quests.json"), `{"values": {"12": [7, "8", "nope"], "x": [1], "14": "not a list"}}`)

	overrides, err := LoadOverrides(dir)
	require.NoError(t, err)

	assert.Equal(t, map[int][]quest.SkillRequirement{
		12: {{Skill: "ATTACK", Level: 50}, {Skill: "MAGIC", Level: 60}},
		13: {},
	}, overrides.Skills)
	assert.Equal(t, map[int][]int{12: {7, 8}}, overrides.Quests)
}

func TestLoadOverridesMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "skills.json"), `{"values": {}}`)

	_, err := LoadOverrides(dir)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDetails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "struct", "500.json"), `{"id": 500, "params": {
		"1306": 12, "1308": "Noxious Foe", "1309": "Kill an Aberrant Spectre.", "1310": "1", "1312": "n/a"
	}}`)
	store, err := cache.OpenDump(dir)
	require.NoError(t, err)

	details, err := LoadDetails(context.Background(), store, 500)
	require.NoError(t, err)
	require.NotNil(t, details.VarbitIndex)
	assert.Equal(t, 12, *details.VarbitIndex)
	require.NotNil(t, details.Name)
	assert.Equal(t, "Noxious Foe", *details.Name)
	require.NotNil(t, details.Tier)
	assert.Equal(t, 1, *details.Tier)
	assert.Nil(t, details.Category)
	assert.Nil(t, details.Monster)

	_, err = LoadDetails(context.Background(), store, 501)
	assert.ErrorIs(t, err, cache.ErrNotFound)
}
