package quest

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/osrs-reldo/taskscrape/cache"
	"github.com/tidwall/gjson"
)

// FileSource reads a quest export written by the wiki scraper: either a bare
// array of definitions or an object with a "quests" array. Ids and levels
// may be numbers or numeric strings.
type FileSource struct {
	Path string
}

func (s FileSource) Quests(ctx context.Context) ([]Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read quest file: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("read quest file %s: invalid json", s.Path)
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		doc = doc.Get("quests")
	}

	var quests []Definition
	for _, item := range doc.Array() {
		id, ok := cache.FromJSON(item.Get("id")).Int()
		if !ok {
			continue
		}
		name := strings.TrimSpace(item.Get("name").String())
		if name == "" {
			name = fmt.Sprintf("Quest %d", id)
		}
		quests = append(quests, Definition{
			ID:           int(id),
			Name:         name,
			Requirements: decodeRequirements(item.Get("requirements")),
		})
	}
	return quests, nil
}

func decodeRequirements(r gjson.Result) Requirements {
	reqs := Requirements{Skills: Skills{}, Quests: []int{}}
	r.Get("skills").ForEach(func(skill, level gjson.Result) bool {
		if n, ok := cache.FromJSON(level).Int(); ok {
			reqs.Skills.Raise(skill.String(), int(n))
		}
		return true
	})
	for _, quest := range r.Get("quests").Array() {
		if n, ok := cache.FromJSON(quest).Int(); ok {
			reqs.Quests = append(reqs.Quests, int(n))
		}
	}
	return reqs
}
