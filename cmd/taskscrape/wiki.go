package main

import (
	"github.com/osrs-reldo/taskscrape/wiki"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWikiCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wiki",
		Short: "Wiki scraping",
	}

	var output string
	scrape := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape quest requirements from the wiki into quests.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := wiki.LoadQuestIDs(a.cfg.QuestIDMap)
			if err != nil {
				return err
			}
			client := wiki.NewClient(wiki.Options{
				APIURL:    a.cfg.WikiAPIURL,
				PageURL:   a.cfg.WikiPageURL,
				UserAgent: a.cfg.WikiUserAgent,
				Pace:      a.cfg.WikiPace,
			}, a.log)

			quests, err := client.Scrape(cmd.Context(), ids)
			if err != nil {
				return err
			}
			if output == "" {
				output = a.cfg.QuestsFile()
			}
			if err := wiki.SaveQuests(output, quests); err != nil {
				return err
			}
			a.log.Info("wrote quests", zap.String("path", output), zap.Int("quests", len(quests)))
			return nil
		},
	}
	scrape.Flags().StringVar(&output, "output", "", "output file (default <task store>/quests.json)")

	cmd.AddCommand(scrape)
	return cmd
}
