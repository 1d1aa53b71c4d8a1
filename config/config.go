// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// CacheDump is the directory of the JSON cache export.
	CacheDump    string `env:"TASKSCRAPE_CACHE_DUMP" envDefault:"cache-dump"`
	// TaskStore is the task-json-store checkout holding curated overrides
	// and the scraped quests.json.
	TaskStore    string `env:"TASKSCRAPE_TASK_STORE" envDefault:"task-json-store"`
	QuestIDMap   string `env:"TASKSCRAPE_QUEST_ID_MAP" envDefault:"quest-id-map.json"`
	Augmentation string `env:"TASKSCRAPE_AUGMENTATION"`

	LogLevel string `env:"TASKSCRAPE_LOG_LEVEL" envDefault:"info"`

	WikiAPIURL    string        `env:"TASKSCRAPE_WIKI_API_URL" envDefault:"https://oldschool.runescape.wiki/api.php"`
	WikiPageURL   string        `env:"TASKSCRAPE_WIKI_PAGE_URL" envDefault:"https://oldschool.runescape.wiki/w/"`
	WikiUserAgent string        `env:"TASKSCRAPE_WIKI_USER_AGENT" envDefault:"osrs-reldo-quest-scraper/1.0"`
	WikiPace      time.Duration `env:"TASKSCRAPE_WIKI_PACE" envDefault:"300ms"`

	DatabaseURL string `env:"DATABASE_CONNECTION_STRING"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// QuestsFile is the wiki-derived quest catalog inside the task store.
func (c Config) QuestsFile() string {
	return filepath.Join(c.TaskStore, "quests.json")
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
