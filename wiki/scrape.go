package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/osrs-reldo/taskscrape/quest"
	"go.uber.org/zap"
)

// Scrape builds quest definitions for every quest page whose title maps to a
// quest id. Pages are fetched sequentially, paced by the client.
func (c *Client) Scrape(ctx context.Context, ids *QuestIDs) ([]quest.Definition, error) {
	titles, err := c.QuestTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quest pages: %w", err)
	}
	c.log.Info("listed quest pages", zap.Int("pages", len(titles)), zap.Int("known_ids", ids.Len()))

	var quests []quest.Definition
	var unmapped []string
	for _, title := range titles {
		id, ok := ids.Resolve(title)
		if !ok {
			unmapped = append(unmapped, title)
			continue
		}

		page, err := c.Page(ctx, title)
		if err != nil {
			return nil, fmt.Errorf("fetch quest page %q: %w", title, err)
		}
		reqs, err := ParseRequirements(page, ids)
		if err != nil {
			return nil, fmt.Errorf("parse quest page %q: %w", title, err)
		}
		quests = append(quests, quest.Definition{ID: id, Name: title, Requirements: reqs})
		c.log.Debug("scraped quest", zap.Int("quest_id", id), zap.String("name", title))

		if err := c.sleep(ctx, c.pace); err != nil {
			return nil, err
		}
	}

	if len(unmapped) > 0 {
		c.log.Warn("skipped quest pages without quest ids", zap.Int("count", len(unmapped)), zap.Strings("titles", unmapped))
	}
	return quests, nil
}

// SaveQuests writes quests in the layout quest.FileSource reads.
func SaveQuests(path string, quests []quest.Definition) error {
	if quests == nil {
		quests = []quest.Definition{}
	}
	data, err := json.MarshalIndent(struct {
		Quests []quest.Definition `json:"quests"`
	}{quests}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write quests file: %w", err)
	}
	return nil
}
