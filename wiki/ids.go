package wiki

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/osrs-reldo/taskscrape/cache"
	"github.com/tidwall/gjson"
)

// QuestIDs maps wiki page titles to quest enum ids.
type QuestIDs struct {
	byName       map[string]int
	byNormalized map[string]int
}

var (
	slashPattern      = regexp.MustCompile(`\s*/\s*`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	quoteReplacer     = strings.NewReplacer("’", "'", "‘", "'", "–", "-", "—", "-")
)

// NormalizeName folds the punctuation variants the wiki uses for quest
// titles so names from different sources compare equal.
func NormalizeName(name string) string {
	name = quoteReplacer.Replace(name)
	name = slashPattern.ReplaceAllString(name, " - ")
	name = whitespacePattern.ReplaceAllString(name, " ")
	return strings.ToLower(strings.TrimSpace(name))
}

func NewQuestIDs(byName map[string]int) *QuestIDs {
	ids := &QuestIDs{byName: make(map[string]int, len(byName)), byNormalized: make(map[string]int, len(byName))}
	for name, id := range byName {
		ids.byName[name] = id
	}
	// Sorted insertion keeps the normalized winner stable when two names fold
	// together.
	for _, name := range sortedKeys(byName) {
		normalized := NormalizeName(name)
		if _, ok := ids.byNormalized[normalized]; !ok {
			ids.byNormalized[normalized] = byName[name]
		}
	}
	return ids
}

// LoadQuestIDs reads a {"idByName": {"Cook's Assistant": 5, ...}} document.
func LoadQuestIDs(path string) (*QuestIDs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quest id map: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("read quest id map %s: invalid json", path)
	}

	byName := make(map[string]int)
	gjson.GetBytes(data, "idByName").ForEach(func(name, id gjson.Result) bool {
		if n, ok := cache.FromJSON(id).Int(); ok {
			byName[name.String()] = int(n)
		}
		return true
	})
	return NewQuestIDs(byName), nil
}

// Resolve finds the id of a quest title, exact match first.
func (q *QuestIDs) Resolve(name string) (int, bool) {
	if q == nil {
		return 0, false
	}
	if id, ok := q.byName[name]; ok {
		return id, true
	}
	id, ok := q.byNormalized[NormalizeName(name)]
	return id, ok
}

func (q *QuestIDs) Len() int {
	if q == nil {
		return 0
	}
	return len(q.byName)
}
