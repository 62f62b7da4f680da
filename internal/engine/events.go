package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/Veraticus/winback/internal/model"
)

// EventKind identifies the stage that decided an item.
type EventKind string

// Event kinds.
const (
	EventExcluded EventKind = "excluded"
	EventExact    EventKind = "exact"
	EventKeyword  EventKind = "keyword-priority"
	EventFuzzy    EventKind = "fuzzy"
	EventNoMatch  EventKind = "no-match"
	EventError    EventKind = "error"
)

// Event is the trace emitted once per line item.
type Event struct {
	Err         error
	Kind        EventKind
	Designation string
	MatchedName string
	Outcome     model.Outcome
	Reason      string
	Position    int
	Score       int
	Elapsed     time.Duration
}

// Observer receives item events. Events for scored items are delivered from
// worker goroutines, so implementations must be safe for concurrent use.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(Event)

// Observe calls f.
func (f ObserverFunc) Observe(e Event) {
	f(e)
}

// LogObserver writes each event to a structured logger.
type LogObserver struct {
	Logger *slog.Logger
}

// Observe logs the event; errors at warn level, everything else at debug.
func (o LogObserver) Observe(e Event) {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := []slog.Attr{
		slog.Int("position", e.Position),
		slog.String("kind", string(e.Kind)),
		slog.String("designation", e.Designation),
	}
	if e.Outcome != "" {
		attrs = append(attrs, slog.String("outcome", string(e.Outcome)))
	}
	if e.MatchedName != "" {
		attrs = append(attrs, slog.String("matched", e.MatchedName), slog.Int("score", e.Score))
	}
	if e.Reason != "" {
		attrs = append(attrs, slog.String("reason", e.Reason))
	}
	if e.Elapsed > 0 {
		attrs = append(attrs, slog.Duration("elapsed", e.Elapsed))
	}

	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
		logger.LogAttrs(context.Background(), slog.LevelWarn, "Item could not be scored", attrs...)
		return
	}
	logger.LogAttrs(context.Background(), slog.LevelDebug, "Item verified", attrs...)
}
