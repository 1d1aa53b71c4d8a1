// Command taskscrape extracts quest and combat achievement requirements from
// a cache dump and the wiki.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/osrs-reldo/taskscrape/config"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{}
	if err := execute(ctx, a, newRootCmd(a)); err != nil {
		stop()
		config.Exitf("taskscrape: %v", err)
	}
}

// execute runs the command line and releases the app's backends even when
// the command fails.
func execute(ctx context.Context, a *app, root *cobra.Command) error {
	defer a.close()
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "taskscrape",
		Short:         "Extract task metadata and skill requirements",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override TASKSCRAPE_LOG_LEVEL")

	root.AddCommand(newQuestCmd(a), newCombatCmd(a), newWikiCmd(a), newDBCmd(a), newCacheCmd(a))
	return root
}
