package cmd

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"github.com/templui/gymapp/internal/app"
	"github.com/templui/gymapp/internal/config"
	"github.com/templui/gymapp/internal/snapshot"
)

func ImportCmd(cfg *config.Config) *cobra.Command {
	var collection, file string

	c := &cobra.Command{
		Use:   "import",
		Short: "Import snapshot files into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, func(a *app.App) error {
				return runSnapshot(cmd.Context(), cmd.OutOrStdout(), a, collection, file,
					a.Snapshots.Import, a.Snapshots.ImportAll)
			})
		},
	}
	c.Flags().StringVarP(&collection, "collection", "c", "", "only this collection (users, exercises, workouts, planned_workouts)")
	c.Flags().StringVarP(&file, "file", "f", "", "read from this file instead of the snapshot directory (requires --collection)")
	return c
}

func ExportCmd(cfg *config.Config) *cobra.Command {
	var collection, file string

	c := &cobra.Command{
		Use:   "export",
		Short: "Export the database to snapshot files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cfg, func(a *app.App) error {
				return runSnapshot(cmd.Context(), cmd.OutOrStdout(), a, collection, file,
					a.Snapshots.Export, a.Snapshots.ExportAll)
			})
		},
	}
	c.Flags().StringVarP(&collection, "collection", "c", "", "only this collection (users, exercises, workouts, planned_workouts)")
	c.Flags().StringVarP(&file, "file", "f", "", "write to this file instead of the snapshot directory (requires --collection)")
	return c
}

func runSnapshot(
	ctx context.Context,
	out io.Writer,
	a *app.App,
	collection, file string,
	one func(context.Context, string, string) (int, error),
	all func(context.Context) snapshot.Report,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if collection == "" {
		if file != "" {
			return fmt.Errorf("--file requires --collection")
		}
		report := all(ctx)
		for _, res := range report.Results {
			fmt.Fprintf(out, "%-17s %5d  %s\n", res.Collection, res.Count, res.Path)
		}
		return report.Err()
	}

	if !slices.Contains(snapshot.Collections, collection) {
		return fmt.Errorf("unknown collection %q", collection)
	}
	if file == "" {
		file = a.Snapshots.Path(collection)
	}
	n, err := one(ctx, collection, file)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%-17s %5d  %s\n", collection, n, file)
	return nil
}
