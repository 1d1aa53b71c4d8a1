package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/osrs-reldo/taskscrape/cache"
	"github.com/osrs-reldo/taskscrape/config"
	"github.com/osrs-reldo/taskscrape/db"
	"github.com/osrs-reldo/taskscrape/logging"
	"github.com/osrs-reldo/taskscrape/quest"
	"go.uber.org/zap"
)

const (
	sourceCache = "cache"
	sourceWiki  = "wiki"
	sourceDB    = "db"
)

// app holds what the subcommands share: configuration, the logger and the
// lazily opened backends.
type app struct {
	logLevel string

	cfg config.Config
	log *zap.Logger

	store    *cache.DumpStore
	database *db.Database
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

// close drops the opened backends and flushes the logger.
func (a *app) close() {
	if a.database != nil {
		a.database.Close()
		a.database = nil
	}
	a.store = nil
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func (a *app) cacheStore() (*cache.DumpStore, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := cache.OpenDump(a.cfg.CacheDump)
	if err != nil {
		return nil, fmt.Errorf("open cache dump: %w", err)
	}
	a.store = store
	return store, nil
}

func (a *app) openDB(ctx context.Context) (*db.Database, error) {
	if a.database != nil {
		return a.database, nil
	}
	if a.cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_CONNECTION_STRING is not set")
	}
	database, err := db.Open(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.database = database
	return database, nil
}

func (a *app) augmentation() (quest.Augmentation, error) {
	return quest.LoadAugmentation(a.cfg.Augmentation)
}

// resolver builds a catalog over the named source.
func (a *app) resolver(ctx context.Context, source string) (*quest.Resolver, error) {
	augment, err := a.augmentation()
	if err != nil {
		return nil, err
	}

	var src quest.Source
	switch source {
	case sourceCache:
		store, err := a.cacheStore()
		if err != nil {
			return nil, err
		}
		src = quest.NewCacheSource(store, augment)
	case sourceWiki:
		src = quest.FileSource{Path: a.cfg.QuestsFile()}
	case sourceDB:
		database, err := a.openDB(ctx)
		if err != nil {
			return nil, err
		}
		src = database
	default:
		return nil, fmt.Errorf("unknown quest source %q (want %s, %s or %s)", source, sourceCache, sourceWiki, sourceDB)
	}

	a.log.Debug("using quest source", zap.String("source", source))
	return quest.NewResolver(quest.NewCatalog(src, a.log), augment), nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeJSON(file, v); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
