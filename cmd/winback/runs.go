package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/winback/internal/cli"
	"github.com/Veraticus/winback/internal/common"
	"github.com/Veraticus/winback/internal/config"
	"github.com/Veraticus/winback/internal/storage"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect saved verification runs",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List recent verification runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), cli.RenderRuns(runs))
			return nil
		},
	}
	list.Flags().Int("limit", storage.DefaultRunLimit, "maximum number of runs to show")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the items and summary of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")

			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			run, err := store.GetRun(cmd.Context(), args[0])
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError(fmt.Sprintf("No run with id %s", args[0]), err)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Run %s", run.ID)))
			fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("%s  source %s  threshold %d",
				run.CreatedAt.Local().Format("2006-01-02 15:04"), run.Source, run.Threshold)))
			fmt.Fprintln(out, cli.RenderItems(run.Result.Items, run.Result.Excluded, verbose))
			fmt.Fprintln(out, cli.RenderSummary(run.Result.Summary))
			return nil
		},
	}
	show.Flags().BoolP("verbose", "v", false, "list every item, including excluded ones")

	cmd.AddCommand(list, show)
	return cmd
}

func openStore(cmd *cobra.Command) (*storage.SQLiteStorage, error) {
	settings, err := config.LoadEngineConfig()
	if err != nil {
		return nil, common.NewUserError("Invalid configuration", err)
	}
	store, err := initStorage(cmd.Context(), settings)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	return store, nil
}
