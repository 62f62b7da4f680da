package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/winback/internal/model"
)

const designationWidth = 44

// RenderSummary renders a batch summary as a bordered box.
func RenderSummary(s model.VerificationSummary) string {
	rows := [][2]string{
		{"Products", fmt.Sprintf("%d", s.TotalProducts)},
		{"Excluded", fmt.Sprintf("%d", s.ExcludedCount)},
		{"Analyzed", fmt.Sprintf("%d", s.AnalyzedCount)},
		{"Reclassified", SuccessStyle.Render(fmt.Sprintf("%d", s.ReclassifiedCount))},
		{"Confirmed own", fmt.Sprintf("%d", s.ConfirmedOwnCount)},
		{"Confirmed competitor", fmt.Sprintf("%d", s.ConfirmedCompetitorCount)},
	}
	if s.ClassifiedOwnCount+s.ClassifiedCompetitorCount > 0 {
		rows = append(rows,
			[2]string{"Classified own", fmt.Sprintf("%d", s.ClassifiedOwnCount)},
			[2]string{"Classified competitor", fmt.Sprintf("%d", s.ClassifiedCompetitorCount)},
		)
	}
	if s.PotentialMisclassificationCount > 0 {
		rows = append(rows, [2]string{"To review", WarningStyle.Render(fmt.Sprintf("%d", s.PotentialMisclassificationCount))})
	}
	if s.ErrorCount > 0 {
		rows = append(rows, [2]string{"Errors", ErrorStyle.Render(fmt.Sprintf("%d", s.ErrorCount))})
	}
	rows = append(rows,
		[2]string{"Own brand amount", formatAmount(s.OwnBrandAmount)},
		[2]string{"Competitor amount", formatAmount(s.CompetitorAmount)},
		[2]string{"Excluded amount", SubtleStyle.Render(formatAmount(s.ExcludedAmount))},
		[2]string{"Recovered amount", SuccessStyle.Render(formatAmount(s.ReclassifiedAmount))},
		[2]string{"Accuracy", fmt.Sprintf("%.1f%% (%d high confidence)", s.Accuracy*100, s.HighConfidenceCount)},
	)

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = TableCellStyle.Width(24).Render(r[0]) + BoldStyle.Render(r[1])
	}
	return RenderBox(ChartIcon+" Verification summary", strings.Join(lines, "\n"))
}

var itemColumns = []column{
	{title: "#", width: 5},
	{title: "Designation", width: designationWidth + 2},
	{title: "Outcome", width: 30},
	{title: "Score", width: 7},
	{title: "Matched product"},
}

var runColumns = []column{
	{title: "ID", width: 38},
	{title: "Created", width: 18},
	{title: "Items", width: 9},
	{title: "Reclassified", width: 14},
	{title: "Source"},
}

// RenderItems renders one line per verified item and, when verbose, one line
// per excluded item.
func RenderItems(items []model.VerifiedItem, excluded []model.ExcludedItem, verbose bool) string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		v := it.Verification
		if !verbose && v.Outcome == model.OutcomeConfirmedCompetitor && v.Error == "" {
			continue
		}
		matched := v.MatchedName
		if v.Error != "" {
			matched = ErrorStyle.Render(ErrorIcon + " " + v.Error)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", it.Position+1),
			truncate(it.Item.Designation, designationWidth),
			OutcomeStyle(v.Outcome).Render(outcomeLabel(v.Outcome)),
			fmt.Sprintf("%d", v.Score),
			matched,
		})
	}

	var b strings.Builder
	b.WriteString(renderTable(itemColumns, rows))

	if verbose {
		for _, e := range excluded {
			b.WriteString(SubtleStyle.Render(fmt.Sprintf("%-5d %s (excluded: %s)",
				e.Position+1, truncate(e.Item.Designation, designationWidth), e.Reason)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// RenderRuns renders a run history table.
func RenderRuns(runs []model.VerificationRun) string {
	if len(runs) == 0 {
		return FormatInfo("No verification runs saved yet.")
	}

	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", r.Result.Summary.TotalProducts),
			SuccessStyle.Render(fmt.Sprintf("%d", r.Result.Summary.ReclassifiedCount)),
			SubtleStyle.Render(r.Source),
		}
	}

	return TitleStyle.Render(HistoryIcon+" Verification runs") + "\n" + renderTable(runColumns, rows)
}

func outcomeLabel(o model.Outcome) string {
	switch o {
	case model.OutcomeReclassified:
		return MoveIcon + " reclassified"
	case model.OutcomePotentialMisclassification:
		return WarningIcon + " review"
	case model.OutcomeConfirmedOwn, model.OutcomeClassifiedOwn:
		return SuccessIcon + " " + string(o)
	default:
		return string(o)
	}
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
