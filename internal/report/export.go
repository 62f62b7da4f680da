package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/winback/internal/model"
)

// Sheet names of the audit workbook.
const (
	ItemsSheet    = "Items"
	ExcludedSheet = "Excluded"
	SummarySheet  = "Summary"
)

var itemHeaders = []string{
	"Position",
	"Designation",
	"Amount",
	"Guess",
	"Final",
	"Outcome",
	"Matched Product",
	"Score",
	"Method",
	"Details",
	"Error",
}

// ExportXLSX writes an audit workbook with one row per verified item, one
// row per excluded item, and the batch summary.
func ExportXLSX(w io.Writer, result *model.BatchResult) error {
	if result == nil {
		return fmt.Errorf("export: nil batch result")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// The default sheet becomes the items sheet.
	if err := f.SetSheetName("Sheet1", ItemsSheet); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	for _, name := range []string{ExcludedSheet, SummarySheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("xlsx sheet %s: %w", name, err)
		}
	}

	if err := writeRow(f, ItemsSheet, 1, toAny(itemHeaders)); err != nil {
		return err
	}
	for i, item := range result.Items {
		v := item.Verification
		row := []any{
			item.Position + 1,
			item.Item.Designation,
			item.Item.TotalPrice,
			string(item.Item.Guess),
			string(item.Final),
			string(v.Outcome),
			v.MatchedName,
			v.Score,
			string(v.Method),
			v.Details,
			v.Error,
		}
		if err := writeRow(f, ItemsSheet, i+2, row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(ItemsSheet, "B", "B", 48)
	_ = f.SetColWidth(ItemsSheet, "G", "G", 36)
	_ = f.SetColWidth(ItemsSheet, "J", "J", 60)

	if err := writeRow(f, ExcludedSheet, 1, []any{"Position", "Designation", "Amount", "Reason"}); err != nil {
		return err
	}
	for i, e := range result.Excluded {
		row := []any{e.Position + 1, e.Item.Designation, e.Item.TotalPrice, e.Reason}
		if err := writeRow(f, ExcludedSheet, i+2, row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(ExcludedSheet, "B", "B", 48)
	_ = f.SetColWidth(ExcludedSheet, "D", "D", 36)

	for i, kv := range summaryRows(result.Summary) {
		if err := writeRow(f, SummarySheet, i+1, kv); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(SummarySheet, "A", "A", 32)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func summaryRows(s model.VerificationSummary) [][]any {
	return [][]any{
		{"Total products", s.TotalProducts},
		{"Excluded", s.ExcludedCount},
		{"Analyzed", s.AnalyzedCount},
		{"Reclassified", s.ReclassifiedCount},
		{"Confirmed own", s.ConfirmedOwnCount},
		{"Confirmed competitor", s.ConfirmedCompetitorCount},
		{"Potential misclassification", s.PotentialMisclassificationCount},
		{"Classified own", s.ClassifiedOwnCount},
		{"Classified competitor", s.ClassifiedCompetitorCount},
		{"High confidence", s.HighConfidenceCount},
		{"Errors", s.ErrorCount},
		{"Own brand amount", s.OwnBrandAmount},
		{"Competitor amount", s.CompetitorAmount},
		{"Excluded amount", s.ExcludedAmount},
		{"Reclassified amount", s.ReclassifiedAmount},
		{"Accuracy", s.Accuracy},
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("xlsx row %d: %w", row, err)
	}
	return nil
}

func toAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
