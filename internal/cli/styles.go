// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/winback/internal/model"
)

var (
	// PrimaryColor is the brand blue used for titles.
	PrimaryColor = lipgloss.Color("#2F6FDE")
	// OwnColor marks own-brand outcomes and recovered amounts.
	OwnColor = lipgloss.Color("#4ECDC4")
	// ReviewColor marks items that need a manual look.
	ReviewColor = lipgloss.Color("#FFE66D")
	// ErrorColor marks failures.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// InfoColor marks neutral notices.
	InfoColor = lipgloss.Color("#95E1D3")
	// SubtleColor marks competitor and excluded lines.
	SubtleColor = lipgloss.Color("#666666")
	// BorderColor is shared by boxes and table headers.
	BorderColor = lipgloss.Color("#333")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats own-brand outcomes and success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(OwnColor)

	// WarningStyle formats review outcomes and warnings.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ReviewColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle makes summary values stand out.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	// BoxStyle is used for the summary box.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(1, 2)

	// TableHeaderStyle underlines table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(BorderColor)

	// TableCellStyle pads table cells.
	TableCellStyle = lipgloss.NewStyle().
			PaddingRight(2)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	BrandIcon   = "◆"
	ChartIcon   = "📊"
	HistoryIcon = "🗄️"
	MoveIcon    = "↺"
)

// outcomeStyles colors each verification outcome. Missing outcomes render
// with SubtleStyle.
var outcomeStyles = map[model.Outcome]lipgloss.Style{
	model.OutcomeReclassified:               SuccessStyle.Bold(true),
	model.OutcomeConfirmedOwn:               SuccessStyle,
	model.OutcomeClassifiedOwn:              SuccessStyle,
	model.OutcomePotentialMisclassification: WarningStyle,
}

// OutcomeStyle returns the style an outcome is rendered with.
func OutcomeStyle(o model.Outcome) lipgloss.Style {
	if s, ok := outcomeStyles[o]; ok {
		return s
	}
	return SubtleStyle
}

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the brand icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(BrandIcon + " " + title)
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.
		UnsetMargins().
		Render(title)

	boxContent := lipgloss.JoinVertical(
		lipgloss.Left,
		boxTitle,
		content,
	)

	return BoxStyle.Render(boxContent)
}

// column is a fixed-width table column; width 0 leaves the cell unpadded.
type column struct {
	title string
	width int
}

// tableRow joins cells under columns. Extra cells are ignored.
func tableRow(columns []column, cells ...string) string {
	parts := make([]string, 0, len(columns))
	for i, c := range columns {
		if i >= len(cells) {
			break
		}
		if c.width == 0 {
			parts = append(parts, cells[i])
			continue
		}
		parts = append(parts, TableCellStyle.Width(c.width).Render(cells[i]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// tableHeader renders the underlined column titles.
func tableHeader(columns []column) string {
	titles := make([]string, len(columns))
	for i, c := range columns {
		titles[i] = c.title
	}
	return TableHeaderStyle.Render(tableRow(columns, titles...))
}

// renderTable renders a header followed by one line per row.
func renderTable(columns []column, rows [][]string) string {
	var b strings.Builder
	b.WriteString(tableHeader(columns))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(tableRow(columns, r...))
		b.WriteString("\n")
	}
	return b.String()
}
