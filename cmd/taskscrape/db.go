package main

import (
	"github.com/osrs-reldo/taskscrape/combat"
	"github.com/osrs-reldo/taskscrape/quest"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDBCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Postgres persistence",
	}

	var source string
	var withTasks bool
	sync := &cobra.Command{
		Use:   "sync",
		Short: "Store quests, rollup minimums and combat task skills",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			database, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			if err := database.Migrate(ctx); err != nil {
				return err
			}

			resolver, err := a.resolver(ctx, source)
			if err != nil {
				return err
			}
			quests, err := resolver.Catalog().List(ctx)
			if err != nil {
				return err
			}
			rollups := make(map[int]quest.Rollup, len(quests))
			for _, q := range quests {
				rollup, err := resolver.Rollup(ctx, q.ID)
				if err != nil {
					return err
				}
				rollups[q.ID] = rollup
			}

			var tasks []combat.Task
			if withTasks {
				tasks, err = listTasksWithSkills(ctx, a, combat.NewAggregator(resolver, a.log))
				if err != nil {
					return err
				}
			}

			if err := database.Sync(ctx, quests, rollups, tasks); err != nil {
				return err
			}
			a.log.Info("database synced",
				zap.String("source", source),
				zap.Int("quests", len(quests)),
				zap.Int("tasks", len(tasks)),
			)
			return nil
		},
	}
	sync.Flags().StringVar(&source, "source", sourceCache, "quest source: cache or wiki")
	sync.Flags().BoolVar(&withTasks, "tasks", true, "also store combat tasks (needs the cache dump and overrides)")

	cmd.AddCommand(sync)
	return cmd
}
