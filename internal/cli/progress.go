package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/winback/internal/engine"
)

// ProgressObserver advances a progress bar once per verified item.
type ProgressObserver struct {
	bar *progressbar.ProgressBar
}

// NewProgressObserver creates a progress bar for total items writing to w.
func NewProgressObserver(w io.Writer, total int) *ProgressObserver {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Verifying line items...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
	return &ProgressObserver{bar: bar}
}

// Observe implements engine.Observer.
func (p *ProgressObserver) Observe(_ engine.Event) {
	_ = p.bar.Add(1)
}

// Finish completes the bar.
func (p *ProgressObserver) Finish() {
	_ = p.bar.Finish()
}
