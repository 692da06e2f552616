package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"standwatch/internal/modules/activity/domain"
	apperrors "standwatch/internal/platform/errors"

	_ "modernc.org/sqlite"
)

// SQLiteSampleStore keeps imported samples and serves them as a sample
// source. Timestamps are stored as Unix nanoseconds.
type SQLiteSampleStore struct {
	db   *sql.DB
	path string
}

func NewSQLiteSampleStore(dbPath string) (*SQLiteSampleStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &SQLiteSampleStore{db: db, path: dbPath}
	if err := s.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSampleStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS samples (
  start_ns INTEGER NOT NULL,
  end_ns INTEGER NOT NULL,
  duration_minutes REAL NOT NULL,
  PRIMARY KEY (start_ns, end_ns, duration_minutes)
);
CREATE INDEX IF NOT EXISTS idx_samples_end ON samples(end_ns);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create samples table: %w", err)
	}
	return nil
}

func (s *SQLiteSampleStore) Add(ctx context.Context, samples []domain.Sample) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin sample insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO samples (start_ns, end_ns, duration_minutes)
VALUES (?, ?, ?)
ON CONFLICT(start_ns, end_ns, duration_minutes) DO NOTHING;
`)
	if err != nil {
		return 0, fmt.Errorf("prepare sample insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, sample := range samples {
		res, err := stmt.ExecContext(ctx, sample.Start.UnixNano(), sample.End.UnixNano(), sample.DurationMinutes)
		if err != nil {
			return 0, fmt.Errorf("insert sample: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("insert sample: %w", err)
		}
		inserted += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sample insert: %w", err)
	}
	return inserted, nil
}

func (s *SQLiteSampleStore) List(ctx context.Context, window domain.Window) ([]domain.Sample, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT start_ns, end_ns, duration_minutes
FROM samples
WHERE start_ns < ? AND end_ns >= ?
ORDER BY start_ns ASC, end_ns ASC;
`, window.To.UnixNano(), window.From.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Sample, 0)
	for rows.Next() {
		var startNS, endNS int64
		var minutes float64
		if err := rows.Scan(&startNS, &endNS, &minutes); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		out = append(out, domain.Sample{Start: time.Unix(0, startNS), End: time.Unix(0, endNS), DurationMinutes: minutes})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}
	return out, nil
}

func (s *SQLiteSampleStore) Fetch(ctx context.Context, window domain.Window) ([]domain.Sample, error) {
	samples, err := s.List(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrSourceUnavailable, err)
	}
	return samples, nil
}

func (s *SQLiteSampleStore) Probe(ctx context.Context) (domain.SourceInfo, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM samples;`).Scan(&count); err != nil {
		return domain.SourceInfo{}, fmt.Errorf("%w: count samples: %w", apperrors.ErrSourceUnavailable, err)
	}
	return domain.SourceInfo{Kind: "sqlite", Name: s.path, Detail: fmt.Sprintf("%d samples stored", count)}, nil
}

func (s *SQLiteSampleStore) Close() error {
	return s.db.Close()
}
