package main

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tfkr-ae/rocketdb/domain"
)

func newDeleteCmd(a *app) *cobra.Command {
	kinds := make([]string, len(domain.Entities))
	for i, k := range domain.Entities {
		kinds[i] = string(k)
	}

	return &cobra.Command{
		Use:   "delete KIND ID",
		Short: "Delete a row and everything that depends on it",
		Long: fmt.Sprintf(`Deletes one row by id. Dependent rows are removed or unlinked by the catalog's delete
policy and site counters are adjusted, in one transaction.

KIND is one of: %s`, strings.Join(kinds, ", ")),
		Args:      cobra.ExactArgs(2),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := domain.EntityKind(args[0])
			if !slices.Contains(domain.Entities, kind) {
				return fmt.Errorf("unknown kind %q, want one of %s", args[0], strings.Join(kinds, ", "))
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q : %w", args[1], err)
			}

			c, err := a.open()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := cmd.Context()
			if err := c.Repo.DeleteEntity(ctx, kind, id); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "deleted %s %d\n", kind, id)

			entries, err := c.Repo.ListAuditEntries(ctx, 1)
			if err != nil || len(entries) == 0 {
				return err
			}
			for _, section := range []string{"removed", "unlinked"} {
				counts, ok := entries[0].Context[section].(map[string]any)
				if !ok {
					continue
				}
				tables := make([]string, 0, len(counts))
				for table := range counts {
					tables = append(tables, table)
				}
				sort.Strings(tables)
				for _, table := range tables {
					fmt.Fprintf(out, "  %s %v %s\n", section, counts[table], table)
				}
			}
			return nil
		},
	}
}
