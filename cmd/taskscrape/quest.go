package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/osrs-reldo/taskscrape/quest"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newQuestCmd(a *app) *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "quest",
		Short: "Quest catalog and requirement rollups",
	}
	cmd.PersistentFlags().StringVar(&source, "source", sourceCache, "quest source: cache, wiki or db")

	list := &cobra.Command{
		Use:   "list",
		Short: "List quests with ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := a.resolver(cmd.Context(), source)
			if err != nil {
				return err
			}
			quests, err := resolver.Catalog().List(cmd.Context())
			if err != nil {
				return err
			}

			type entry struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			}
			out := make([]entry, 0, len(quests))
			for _, q := range quests {
				out = append(out, entry{ID: q.ID, Name: q.Name})
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	skills := &cobra.Command{
		Use:   "skills <questId>",
		Short: "Full skill and quest requirements of a quest, prerequisites included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			questID, err := parseID(args[0])
			if err != nil {
				return err
			}
			resolver, err := a.resolver(cmd.Context(), source)
			if err != nil {
				return err
			}
			rollup, err := resolver.Rollup(cmd.Context(), questID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rollup)
		},
	}

	requirements := &cobra.Command{
		Use:   "requirements <questId>",
		Short: "Dump the raw requirement columns of a quest from the cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			questID, err := parseID(args[0])
			if err != nil {
				return err
			}
			cacheSource, err := a.cacheSource()
			if err != nil {
				return err
			}
			details, err := cacheSource.Details(cmd.Context(), questID)
			if err != nil {
				return err
			}
			if details == nil {
				return fmt.Errorf("quest %d not found in cache", questID)
			}
			return writeJSON(cmd.OutOrStdout(), details)
		},
	}

	var (
		outDir      string
		withDetails bool
	)
	requirementsAll := &cobra.Command{
		Use:   "requirements-all",
		Short: "Write every cache quest definition to quests-dbrow.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cacheSource, err := a.cacheSource()
			if err != nil {
				return err
			}
			quests, err := quest.NewCatalog(cacheSource, a.log).List(ctx)
			if err != nil {
				return err
			}

			path := filepath.Join(outDir, "quests-dbrow.json")
			if err := writeJSONFile(path, questDump{
				Source:    "cache: dbrow quest table " + strconv.Itoa(quest.Table),
				UpdatedAt: time.Now().UTC().Format(isoMillis),
				Quests:    quests,
			}); err != nil {
				return err
			}
			a.log.Info("wrote quest definitions", zap.String("path", path), zap.Int("quests", len(quests)))
			if !withDetails {
				return nil
			}

			all := make([]*quest.Details, 0, len(quests))
			for _, q := range quests {
				details, err := cacheSource.Details(ctx, q.ID)
				if err != nil {
					return err
				}
				if details != nil {
					all = append(all, details)
				}
			}
			path = filepath.Join(outDir, "quests-dbrow-details.json")
			if err := writeJSONFile(path, all); err != nil {
				return err
			}
			a.log.Info("wrote quest requirement columns", zap.String("path", path), zap.Int("quests", len(all)))
			return nil
		},
	}
	requirementsAll.Flags().StringVar(&outDir, "out", "out", "output directory")
	requirementsAll.Flags().BoolVar(&withDetails, "details", false, "also write the raw requirement columns to quests-dbrow-details.json")

	cmd.AddCommand(list, skills, requirements, requirementsAll)
	return cmd
}

// isoMillis is RFC 3339 with millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// questDump is the layout of quests-dbrow.json.
type questDump struct {
	Source    string             `json:"source"`
	UpdatedAt string             `json:"updatedAt"`
	Quests    []quest.Definition `json:"quests"`
}

func (a *app) cacheSource() (*quest.CacheSource, error) {
	augment, err := a.augmentation()
	if err != nil {
		return nil, err
	}
	store, err := a.cacheStore()
	if err != nil {
		return nil, err
	}
	return quest.NewCacheSource(store, augment), nil
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
