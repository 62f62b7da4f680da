package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Veraticus/winback/internal/catalog"
	"github.com/Veraticus/winback/internal/cli"
	"github.com/Veraticus/winback/internal/common"
	"github.com/Veraticus/winback/internal/config"
	"github.com/Veraticus/winback/internal/model"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the own-brand product catalog",
	}

	cmd.AddCommand(catalogImportCmd())
	cmd.AddCommand(catalogStatsCmd())
	return cmd
}

func catalogImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored catalog with a JSON, YAML or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			settings, err := config.LoadEngineConfig()
			if err != nil {
				return common.NewUserError("Invalid configuration", err)
			}

			src, err := catalog.SourceForPath(config.ExpandPath(args[0]))
			if err != nil {
				return common.NewUserError("Unsupported catalog file", err)
			}
			idx, err := catalog.Load(ctx, src, settings.Catalog)
			if err != nil {
				return common.NewUserError("Catalog could not be loaded", err)
			}

			store, err := initStorage(ctx, settings)
			if err != nil {
				return fmt.Errorf("failed to open audit database: %w", err)
			}
			defer func() { _ = store.Close() }()

			entries := make([]model.CatalogEntry, 0, idx.Len())
			for _, e := range idx.Entries() {
				entries = append(entries, *e)
			}
			if err := store.ReplaceCatalog(ctx, entries); err != nil {
				return fmt.Errorf("failed to store catalog: %w", err)
			}

			common.LogInfo("Stored catalog", common.Fields{
				"entries":  len(entries),
				"source":   src.Name(),
				"database": store.Path(),
			})
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
				fmt.Sprintf("Imported %d catalog entries from %s", len(entries), src.Name())))
			return nil
		},
	}
}

func catalogStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the stored catalog size by brand family",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			settings, err := config.LoadEngineConfig()
			if err != nil {
				return common.NewUserError("Invalid configuration", err)
			}
			store, err := initStorage(ctx, settings)
			if err != nil {
				return fmt.Errorf("failed to open audit database: %w", err)
			}
			defer func() { _ = store.Close() }()

			entries, err := store.LoadCatalog(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("The catalog is empty. Import one with 'winback catalog import <file>'."))
				return nil
			}

			byFamily := make(map[string]int)
			for _, e := range entries {
				family := e.Family
				if family == "" {
					family = "(none)"
				}
				byFamily[family]++
			}
			families := make([]string, 0, len(byFamily))
			for f := range byFamily {
				families = append(families, f)
			}
			sort.Slice(families, func(i, j int) bool {
				if byFamily[families[i]] != byFamily[families[j]] {
					return byFamily[families[i]] > byFamily[families[j]]
				}
				return families[i] < families[j]
			})

			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%d catalog entries", len(entries))))
			for _, f := range families {
				fmt.Fprintf(out, "  %s %d\n", cli.TableCellStyle.Width(20).Render(f), byFamily[f])
			}
			return nil
		},
	}
}
