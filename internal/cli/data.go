package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/funrun/internal/common"
	"github.com/dmitrijs2005/funrun/internal/server/repositories/collections"
	"github.com/dmitrijs2005/funrun/internal/server/services"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(ctx context.Context, cmd *cobra.Command, e *env, _ []string) error {
			cmd.Println("Running migrations...")
			if err := e.repos.RunMigrations(ctx, e.db); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			cmd.Println("Migrations completed successfully")
			return nil
		}),
	}
}

func newSeedCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace all data with the demo data set",
		Long:  `Wipe every table and load demo users, profiles, events, categories, staff, participants and results in one transaction.`,
		Args:  cobra.NoArgs,
		RunE: opts.run(func(ctx context.Context, cmd *cobra.Command, e *env, _ []string) error {
			if err := e.repos.RunMigrations(ctx, e.db); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}

			sum, err := services.NewSeeder(e.db, e.repos, e.log).Seed(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TABLE\tROWS")
			for _, r := range []struct {
				name string
				n    int
			}{
				{"users", sum.Users},
				{"runner_profiles", sum.RunnerProfiles},
				{"marshal_profiles", sum.MarshalProfiles},
				{"events", sum.Events},
				{"event_categories", sum.Categories},
				{"event_to_category", sum.CategoryLinks},
				{"event_staff", sum.Staff},
				{"participants", sum.Participants},
				{"results", sum.Results},
			} {
				fmt.Fprintf(w, "%s\t%d\n", r.name, r.n)
			}
			return w.Flush()
		}),
	}
}

func knownNames() string {
	names := make([]string, len(collections.Names))
	for i, n := range collections.Names {
		names[i] = string(n)
	}
	return strings.Join(names, ", ")
}

func newViewCmd(opts *globalOptions) *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:   "view <collection>",
		Short: "Print one page of a collection as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: opts.run(func(ctx context.Context, cmd *cobra.Command, e *env, args []string) error {
			p, err := services.NewCollectionService(e.db, e.repos).List(ctx, args[0], page, limit)
			if errors.Is(err, common.ErrUnknownCollection) {
				return fmt.Errorf("unknown collection %q, expected one of: %s", args[0], knownNames())
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		}),
	}

	cmd.Flags().IntVar(&page, "page", services.DefaultPage, "page number")
	cmd.Flags().IntVar(&limit, "limit", services.DefaultLimit, "page size")

	return cmd
}

func newCollectionsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "collections",
		Short: "List collections with their document counts",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(ctx context.Context, cmd *cobra.Command, e *env, _ []string) error {
			counts, err := services.NewCollectionService(e.db, e.repos).Counts(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "COLLECTION\tCOUNT")
			for _, c := range counts {
				fmt.Fprintf(w, "%s\t%d\n", c.Name, c.Count)
			}
			return w.Flush()
		}),
	}
}
