package main

import (
	"cmp"
	"slices"

	"github.com/osrs-reldo/taskscrape/cache"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect raw dbrows, structs and enums of the cache dump",
	}

	dbrow := &cobra.Command{
		Use:   "dbrow <tableId> <rowId>",
		Short: "Print one dbrow with its columns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, row, err := a.lookupRow(cmd, args)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), row)
		},
	}

	strs := &cobra.Command{
		Use:   "strings <tableId> <rowId>",
		Short: "Print every string value of a dbrow with its column and position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, row, err := a.lookupRow(cmd, args)
			if err != nil {
				return err
			}
			values := row.Strings()
			if values == nil {
				values = []cache.StringValue{}
			}
			return writeJSON(cmd.OutOrStdout(), struct {
				TableID int                 `json:"tableId"`
				RowID   int                 `json:"rowId"`
				Strings []cache.StringValue `json:"strings"`
			}{TableID: table, RowID: row.ID, Strings: values})
		},
	}

	find := &cobra.Command{
		Use:   "find <tableId> <text>",
		Short: "List the dbrows of a table holding a string that contains text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := parseID(args[0])
			if err != nil {
				return err
			}
			store, err := a.cacheStore()
			if err != nil {
				return err
			}
			rows, err := store.ScanTable(cmd.Context(), table)
			if err != nil {
				return err
			}

			found := []*cache.Record{}
			for _, row := range rows {
				if row.Contains(args[1]) {
					found = append(found, row)
				}
			}
			slices.SortFunc(found, func(x, y *cache.Record) int {
				return cmp.Compare(x.ID, y.ID)
			})
			a.log.Debug("searched dbtable", zap.Int("table", table), zap.Int("rows", len(rows)), zap.Int("found", len(found)))
			return writeJSON(cmd.OutOrStdout(), found)
		},
	}

	structCmd := &cobra.Command{
		Use:   "struct <structId>",
		Short: "Print the params of one struct",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			store, err := a.cacheStore()
			if err != nil {
				return err
			}
			record, err := store.Struct(cmd.Context(), id)
			if err != nil {
				return err
			}
			params := make(map[int]cache.Value, len(record.Columns))
			for param := range record.Columns {
				params[param] = record.Param(param)
			}
			return writeJSON(cmd.OutOrStdout(), struct {
				ID     int                 `json:"id"`
				Params map[int]cache.Value `json:"params"`
			}{ID: record.ID, Params: params})
		},
	}

	enum := &cobra.Command{
		Use:   "enum <enumId>",
		Short: "Print the entries of one enum in storage order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			store, err := a.cacheStore()
			if err != nil {
				return err
			}
			entries, err := store.Enum(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), entries)
		},
	}

	cmd.AddCommand(dbrow, strs, find, structCmd, enum)
	return cmd
}

// lookupRow resolves the <tableId> <rowId> arguments to a dbrow.
func (a *app) lookupRow(cmd *cobra.Command, args []string) (int, *cache.Record, error) {
	table, err := parseID(args[0])
	if err != nil {
		return 0, nil, err
	}
	id, err := parseID(args[1])
	if err != nil {
		return 0, nil, err
	}
	store, err := a.cacheStore()
	if err != nil {
		return 0, nil, err
	}
	row, err := store.Lookup(cmd.Context(), table, id)
	if err != nil {
		return 0, nil, err
	}
	return table, row, nil
}
