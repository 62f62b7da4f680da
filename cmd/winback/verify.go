package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/winback/internal/cli"
	"github.com/Veraticus/winback/internal/common"
	"github.com/Veraticus/winback/internal/config"
	"github.com/Veraticus/winback/internal/engine"
	"github.com/Veraticus/winback/internal/exclusion"
	"github.com/Veraticus/winback/internal/model"
	"github.com/Veraticus/winback/internal/report"
	"github.com/Veraticus/winback/internal/similarity"
	"github.com/Veraticus/winback/internal/storage"
)

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <batch.json>",
		Short: "Verify a batch of invoice line items",
		Long: `Verify every line item of a batch against the own-brand catalog.

Fees, taxes and discounts are excluded first. Remaining items are scored
against the catalog, and items guessed as competitor products that match an
own-brand product are reclassified. Use "-" to read the batch from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: runVerify,
	}

	cmd.Flags().String("catalog", "", "catalog file (.json, .yaml, .xlsx); defaults to catalog.path or the imported catalog")
	cmd.Flags().Bool("save", false, "save the run to the audit database")
	cmd.Flags().String("export", "", "write an XLSX audit workbook to this path")
	cmd.Flags().Bool("json", false, "print the batch result as JSON")
	cmd.Flags().Int("threshold", 0, "override the match threshold (0-100)")
	cmd.Flags().Int("workers", 0, "override the number of parallel workers")
	cmd.Flags().BoolP("verbose", "v", false, "list every item, including excluded ones")

	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	catalogPath, _ := cmd.Flags().GetString("catalog")
	save, _ := cmd.Flags().GetBool("save")
	exportPath, _ := cmd.Flags().GetString("export")
	asJSON, _ := cmd.Flags().GetBool("json")
	threshold, _ := cmd.Flags().GetInt("threshold")
	workers, _ := cmd.Flags().GetInt("workers")
	verbose, _ := cmd.Flags().GetBool("verbose")

	settings, err := config.LoadEngineConfig()
	if err != nil {
		return common.NewUserError("Invalid configuration", err)
	}
	if cmd.Flags().Changed("threshold") {
		settings.Engine.Threshold = threshold
	}
	if workers > 0 {
		settings.Engine.Workers = workers
	}

	common.LogDebug("Verification settings", common.Fields{
		"threshold":    settings.Engine.Threshold,
		"noise_floor":  settings.Engine.NoiseFloor,
		"workers":      settings.Engine.Workers,
		"pruning":      settings.Engine.Pruning,
		"brand_policy": string(settings.Scoring.BrandPolicy),
	})

	items, err := readBatch(args[0], cmd.InOrStdin())
	if err != nil {
		return common.NewUserError("Could not read the batch", err)
	}
	if len(items) == 0 {
		return common.NewUserError("Nothing to verify", common.ErrNoLineItems)
	}

	var store *storage.SQLiteStorage
	if save || (catalogPath == "" && settings.CatalogPath == "") {
		store, err = initStorage(ctx, settings)
		if err != nil {
			return fmt.Errorf("failed to open audit database: %w", err)
		}
		defer func() { _ = store.Close() }()
	}

	idx, err := loadIndex(ctx, settings, catalogPath, store)
	if err != nil {
		return err
	}

	scorer, err := similarity.NewScorer(settings.Scoring)
	if err != nil {
		return common.NewUserError("Invalid scoring configuration", err)
	}

	opts := []engine.Option{
		engine.WithLogger(slog.Default()),
		engine.WithObserver(engine.LogObserver{Logger: slog.Default()}),
	}
	var progress *cli.ProgressObserver
	if !asJSON && len(items) > 1 {
		progress = cli.NewProgressObserver(cmd.ErrOrStderr(), len(items))
		opts = append(opts, engine.WithObserver(progress))
	}

	verifier, err := engine.New(idx, exclusion.NewFilter(settings.Exclusion), scorer, settings.Engine, opts...)
	if err != nil {
		return common.NewUserError("Invalid matching configuration", err)
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	runCtx := interrupts.HandleInterrupts(ctx, save)
	defer interrupts.Stop()

	result, err := verifier.VerifyBatch(runCtx, items)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		if interrupts.WasInterrupted() {
			return errors.New("verification interrupted")
		}
		return fmt.Errorf("verification failed: %w", err)
	}

	if err := report.Reconcile(result.Summary, items); err != nil {
		common.LogError(err, "Summary does not reconcile with the input amounts", common.Fields{"items": len(items)})
	}

	if save {
		run := &model.VerificationRun{
			Source:    args[0],
			Threshold: settings.Engine.Threshold,
			Result:    *result,
		}
		if err := store.SaveRun(ctx, run); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		slog.Info("Saved verification run", "id", run.ID)
	}

	if exportPath != "" {
		if err := exportWorkbook(config.ExpandPath(exportPath), result); err != nil {
			return err
		}
		slog.Info("Exported audit workbook", "path", exportPath)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintln(out, cli.RenderItems(result.Items, result.Excluded, verbose))
	fmt.Fprintln(out, cli.RenderSummary(result.Summary))
	if result.Summary.ReclassifiedCount > 0 {
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%d item(s) recovered as own-brand", result.Summary.ReclassifiedCount)))
	}
	if n := result.Summary.PotentialMisclassificationCount; n > 0 {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d own-brand item(s) did not match the catalog and need review", n)))
	}
	return nil
}

func exportWorkbook(path string, result *model.BatchResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := report.ExportXLSX(f, result); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
