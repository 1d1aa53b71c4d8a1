package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/osrs-reldo/taskscrape/combat"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

func newCombatCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "combat",
		Short: "Combat achievement tasks",
	}

	var toFile bool
	tasks := &cobra.Command{
		Use:   "tasks",
		Short: "List combat achievement tasks in difficulty order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.cacheStore()
			if err != nil {
				return err
			}
			list, err := combat.ListTasks(cmd.Context(), store, combat.TierEnums)
			if err != nil {
				return err
			}
			if !toFile {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			path := filepath.Join("out", "combat.json")
			if err := writeJSONFile(path, list); err != nil {
				return err
			}
			a.log.Info("wrote combat tasks", zap.String("path", path), zap.Int("tasks", len(list)))
			return nil
		},
	}
	tasks.Flags().BoolVar(&toFile, "json", false, "write out/combat.json instead of printing")

	var input, output, source string
	skills := &cobra.Command{
		Use:   "skills",
		Short: "Apply minimum skill requirements to combat tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			list, err := readTasks(input)
			if err != nil {
				return err
			}
			overrides, err := combat.LoadOverrides(combat.OverrideDir(a.cfg.TaskStore))
			if err != nil {
				return err
			}
			resolver, err := a.resolver(ctx, source)
			if err != nil {
				return err
			}

			bySkill, err := combat.NewAggregator(resolver, a.log).Apply(ctx, list, overrides)
			if err != nil {
				return err
			}
			if err := writeJSONFile(filepath.Join("out", "combat-ca-skill-reqs.json"), bySkill); err != nil {
				return err
			}
			if err := writeJSONFile(output, list); err != nil {
				return err
			}
			a.log.Info("applied combat skill requirements",
				zap.String("path", output),
				zap.Int("tasks", len(list)),
				zap.Int("with_skills", len(bySkill)),
			)
			return nil
		},
	}
	skills.Flags().StringVar(&input, "input", filepath.Join("out", "combat.json"), "task list to read")
	skills.Flags().StringVar(&output, "output", filepath.Join("out", "combat-with-skills.json"), "task list to write")
	skills.Flags().StringVar(&source, "source", sourceCache, "quest source: cache, wiki or db")

	task := &cobra.Command{
		Use:   "task <structId>",
		Short: "Dump the params of one combat achievement struct",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			structID, err := parseID(args[0])
			if err != nil {
				return err
			}
			store, err := a.cacheStore()
			if err != nil {
				return err
			}
			details, err := combat.LoadDetails(cmd.Context(), store, structID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), details)
		},
	}

	cmd.AddCommand(tasks, task, skills)
	return cmd
}

// readTasks loads a task list written by "combat tasks".
func readTasks(path string) ([]combat.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task list: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("read task list %s: invalid json", path)
	}

	var tasks []combat.Task
	for _, item := range gjson.ParseBytes(data).Array() {
		tasks = append(tasks, combat.Task{
			StructID: int(item.Get("structId").Int()),
			SortID:   int(item.Get("sortId").Int()),
		})
	}
	return tasks, nil
}

// listTasksWithSkills is the task list as db sync stores it.
func listTasksWithSkills(ctx context.Context, a *app, aggregator *combat.Aggregator) ([]combat.Task, error) {
	store, err := a.cacheStore()
	if err != nil {
		return nil, err
	}
	list, err := combat.ListTasks(ctx, store, combat.TierEnums)
	if err != nil {
		return nil, err
	}
	overrides, err := combat.LoadOverrides(combat.OverrideDir(a.cfg.TaskStore))
	if err != nil {
		return nil, err
	}
	if _, err := aggregator.Apply(ctx, list, overrides); err != nil {
		return nil, err
	}
	return list, nil
}
