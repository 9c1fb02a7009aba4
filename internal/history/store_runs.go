package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// StartRun inserts a run row.
func (s *Store) StartRun(ctx context.Context, run Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("run id required")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	return s.exec(ctx,
		`INSERT INTO runs (id, started_at, url_count, model, format, output_dir) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, formatTime(run.StartedAt), run.URLCount, run.Model, run.Format, run.OutputDir,
	)
}

// FinishRun stamps the run's end time and final error, if any.
func (s *Store) FinishRun(ctx context.Context, runID string, runErr error) error {
	message := ""
	if runErr != nil {
		message = runErr.Error()
	}
	return s.exec(ctx,
		`UPDATE runs SET finished_at = ?, error = ? WHERE id = ?`,
		formatTime(time.Now()), message, runID,
	)
}

// RecordItem appends one item outcome to a run.
func (s *Store) RecordItem(ctx context.Context, item Item) error {
	if strings.TrimSpace(item.RunID) == "" {
		return errors.New("item run id required")
	}
	if item.RecordedAt.IsZero() {
		item.RecordedAt = time.Now()
	}
	return s.exec(ctx,
		`INSERT INTO items (run_id, url, video_id, title, status, output_path, error, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.RunID, item.URL, item.VideoID, item.Title, string(item.Status), item.OutputPath, item.Error, formatTime(item.RecordedAt),
	)
}

// Recent returns the newest item outcomes first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, url, video_id, title, status, output_path, error, recorded_at
		 FROM items ORDER BY recorded_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			item     Item
			status   string
			recorded string
		)
		if err := rows.Scan(&item.ID, &item.RunID, &item.URL, &item.VideoID, &item.Title, &status, &item.OutputPath, &item.Error, &recorded); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		item.Status = Status(status)
		item.RecordedAt = parseTime(recorded)
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetRun loads a run by ID. It returns nil when the run does not exist.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	var (
		run      Run
		started  string
		finished sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, url_count, model, format, output_dir, error FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &started, &finished, &run.URLCount, &run.Model, &run.Format, &run.OutputDir, &run.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	run.StartedAt = parseTime(started)
	if finished.Valid && finished.String != "" {
		ts := parseTime(finished.String)
		run.FinishedAt = &ts
	}
	return &run, nil
}

func formatTime(ts time.Time) string {
	return ts.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	ts, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}
