package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("run not found")

// Run is one recorded pipeline execution.
type Run struct {
	Id                 string    `json:"id"`
	Status             string    `json:"status"`
	Error              string    `json:"error,omitempty"`
	Records            int       `json:"records"`
	DescriptionSuccess int       `json:"descriptionSuccess"`
	DescriptionFailed  int       `json:"descriptionFailed"`
	DescriptionSkipped int       `json:"descriptionSkipped"`
	FAQCount           int       `json:"faqCount"`
	StartedAt          time.Time `json:"startedAt"`
	FinishedAt         time.Time `json:"finishedAt"`
}

// RunRecord is the per-record outcome within a run.
type RunRecord struct {
	RunId             string `json:"runId"`
	RecordId          string `json:"recordId"`
	DescriptionStatus string `json:"descriptionStatus"`
	SummaryStatus     string `json:"summaryStatus"`
	SentenceStatus    string `json:"sentenceStatus"`
	FAQs              int    `json:"faqs"`
}

// Store reads and writes run history.
type Store struct {
	db *DB
}

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// SaveRun records a finished run and its per-record outcomes atomically.
func (s *Store) SaveRun(ctx context.Context, run *Run, records []RunRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			id, status, error, records,
			description_success, description_failed, description_skipped,
			faq_count, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.Id,
		run.Status,
		nullableString(run.Error),
		run.Records,
		run.DescriptionSuccess,
		run.DescriptionFailed,
		run.DescriptionSkipped,
		run.FAQCount,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, rec := range records {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_records (
				run_id, record_id, description_status, summary_status, sentence_status, faqs
			) VALUES (?, ?, ?, ?, ?, ?)
		`,
			run.Id, rec.RecordId, rec.DescriptionStatus, rec.SummaryStatus, rec.SentenceStatus, rec.FAQs,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run record %s: %w", rec.RecordId, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history transaction: %w", err)
	}
	return nil
}

// ListRuns returns runs newest-first.
func (s *Store) ListRuns(ctx context.Context, limit, offset int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id, status, error, records,
			description_success, description_failed, description_skipped,
			faq_count, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun returns one run and its per-record outcomes.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, []RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT
			id, status, error, records,
			description_success, description_failed, description_skipped,
			faq_count, started_at, finished_at
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, record_id, description_status, summary_status, sentence_status, faqs
		FROM run_records
		WHERE run_id = ?
		ORDER BY record_id
	`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load run records: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(&rec.RunId, &rec.RecordId, &rec.DescriptionStatus, &rec.SummaryStatus, &rec.SentenceStatus, &rec.FAQs); err != nil {
			return nil, nil, fmt.Errorf("failed to scan run record: %w", err)
		}
		records = append(records, rec)
	}
	return run, records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var errText sql.NullString
	err := row.Scan(
		&run.Id,
		&run.Status,
		&errText,
		&run.Records,
		&run.DescriptionSuccess,
		&run.DescriptionFailed,
		&run.DescriptionSkipped,
		&run.FAQCount,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	run.Error = errText.String
	return &run, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
