package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/winback/internal/common"
	"github.com/Veraticus/winback/internal/model"
)

// DefaultRunLimit is used by ListRuns when no positive limit is given.
const DefaultRunLimit = 20

// SaveRun persists a verification run with all of its items. A missing ID
// or creation time is filled in.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *model.VerificationRun) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	run.CreatedAt = run.CreatedAt.UTC()

	summary, err := json.Marshal(run.Result.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO verification_runs (id, source, threshold, summary, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, run.ID, run.Source, run.Threshold, string(summary), run.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO verification_items (
				run_id, position, item, final_brand, outcome, matched_name, method,
				score, threshold, matched, reclassified, details, error
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, it := range run.Result.Items {
			raw, err := json.Marshal(it.Item)
			if err != nil {
				return fmt.Errorf("failed to encode item %d: %w", it.Position, err)
			}
			v := it.Verification
			if _, err := stmt.ExecContext(ctx,
				run.ID, it.Position, string(raw), string(it.Final), string(v.Outcome),
				v.MatchedName, string(v.Method), v.Score, v.Threshold, v.Matched,
				v.Reclassified, v.Details, v.Error,
			); err != nil {
				return fmt.Errorf("failed to insert item %d: %w", it.Position, err)
			}
		}

		for _, e := range run.Result.Excluded {
			raw, err := json.Marshal(e.Item)
			if err != nil {
				return fmt.Errorf("failed to encode excluded item %d: %w", e.Position, err)
			}
			if _, err := stmt.ExecContext(ctx,
				run.ID, e.Position, string(raw), string(e.Item.Guess), string(model.OutcomeExcluded),
				"", string(model.MethodNone), 0, run.Threshold, false, false, e.Reason, "",
			); err != nil {
				return fmt.Errorf("failed to insert excluded item %d: %w", e.Position, err)
			}
		}
		return nil
	})
}

// GetRun loads a run with its items in input order.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*model.VerificationRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	run, err := scanRun(s.db.QueryRowContext(ctx, `
		SELECT id, source, threshold, summary, created_at
		FROM verification_runs
		WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT position, item, final_brand, outcome, matched_name, method,
		       score, threshold, matched, reclassified, details, error
		FROM verification_items
		WHERE run_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query run items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	run.Result.Items = []model.VerifiedItem{}
	for rows.Next() {
		var (
			it  model.VerifiedItem
			raw string
		)
		v := &it.Verification
		if err := rows.Scan(&it.Position, &raw, &it.Final, &v.Outcome, &v.MatchedName, &v.Method,
			&v.Score, &v.Threshold, &v.Matched, &v.Reclassified, &v.Details, &v.Error); err != nil {
			return nil, fmt.Errorf("failed to scan run item: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &it.Item); err != nil {
			return nil, fmt.Errorf("failed to decode item %d: %w", it.Position, err)
		}

		if v.Outcome == model.OutcomeExcluded {
			run.Result.Excluded = append(run.Result.Excluded, model.ExcludedItem{
				Item:     it.Item,
				Position: it.Position,
				Reason:   v.Details,
			})
			continue
		}
		run.Result.Items = append(run.Result.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate run items: %w", err)
	}

	return run, nil
}

// ListRuns returns the most recent runs, newest first, without their items.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]model.VerificationRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRunLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, threshold, summary, created_at
		FROM verification_runs
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.VerificationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.VerificationRun, error) {
	var (
		run     model.VerificationRun
		summary string
	)
	if err := row.Scan(&run.ID, &run.Source, &run.Threshold, &summary, &run.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	if err := json.Unmarshal([]byte(summary), &run.Result.Summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary of run %s: %w", run.ID, err)
	}
	return &run, nil
}
