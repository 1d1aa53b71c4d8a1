package quest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Catalog builds the quest list from a Source once and serves it for the
// rest of its lifetime. A failed build is retried on the next call.
type Catalog struct {
	source Source
	log    *zap.Logger

	mu   sync.Mutex
	list []Definition
	byID map[int]Definition
}

func NewCatalog(source Source, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{source: source, log: log}
}

// List returns every quest sorted by id. The returned slice is a copy.
func (c *Catalog) List(ctx context.Context) ([]Definition, error) {
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}
	out := make([]Definition, 0, len(c.list))
	for _, def := range c.list {
		out = append(out, def.clone())
	}
	return out, nil
}

// Map returns the catalog keyed by quest id.
func (c *Catalog) Map(ctx context.Context) (map[int]Definition, error) {
	if err := c.ensure(ctx); err != nil {
		return nil, err
	}
	out := make(map[int]Definition, len(c.byID))
	for id, def := range c.byID {
		out[id] = def.clone()
	}
	return out, nil
}

// Get looks up a single quest without copying the whole catalog.
func (c *Catalog) Get(ctx context.Context, id int) (Definition, bool, error) {
	if err := c.ensure(ctx); err != nil {
		return Definition{}, false, err
	}
	def, ok := c.byID[id]
	if !ok {
		return Definition{}, false, nil
	}
	return def.clone(), true, nil
}

func (c *Catalog) ensure(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.byID != nil {
		return nil
	}

	quests, err := c.source.Quests(ctx)
	if err != nil {
		return fmt.Errorf("build quest catalog: %w", err)
	}

	byID := make(map[int]Definition, len(quests))
	list := make([]Definition, 0, len(quests))
	for _, def := range quests {
		if _, dup := byID[def.ID]; dup {
			c.log.Warn("duplicate quest id in catalog source", zap.Int("quest_id", def.ID), zap.String("name", def.Name))
			continue
		}
		if def.Requirements.Skills == nil {
			def.Requirements.Skills = Skills{}
		}
		byID[def.ID] = def
		list = append(list, def)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})

	c.list = list
	c.byID = byID
	c.log.Debug("quest catalog built", zap.Int("quests", len(list)))
	return nil
}
