// Package tracking records which entities were generated so they can be
// removed in bulk later.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kingrea/seedbed/internal/database"
	"github.com/kingrea/seedbed/internal/entity"
	"github.com/kingrea/seedbed/internal/logging"
)

const defaultBatchSize = 50

// Tracked is one row of the tracking table.
type Tracked struct {
	EntityType string
	Bundle     string
	EntityID   int64
	Created    time.Time
}

// Key returns the row's type/bundle pair.
func (t Tracked) Key() entity.Key {
	return entity.Key{Type: t.EntityType, Bundle: t.Bundle}
}

// Deleter removes the entity behind a tracking row.
type Deleter func(ctx context.Context, row Tracked) error

// RemoveReport summarises a bulk removal.
type RemoveReport struct {
	// Removed counts tracking rows dropped, including rows whose entity was
	// already gone.
	Removed int
	// Failed counts rows whose entity could not be deleted. Those rows are
	// dropped as well.
	Failed int
}

// Store is the SQL-backed tracking table.
type Store struct {
	db        *database.DB
	logger    *slog.Logger
	batchSize int
	now       func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithLogger sets the logger used for per-row removal failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBatchSize sets how many rows RemoveAll handles per chunk.
func WithBatchSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithClock overrides the clock used for created timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewStore builds a tracking store over db.
func NewStore(db *database.DB, opts ...Option) *Store {
	s := &Store{db: db, logger: slog.Default(), batchSize: defaultBatchSize, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record upserts a tracking row.
func (s *Store) Record(ctx context.Context, entityType, bundle string, id int64) error {
	if err := (entity.Key{Type: entityType, Bundle: bundle}).Validate(); err != nil {
		return fmt.Errorf("tracking: %w", err)
	}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO generated_content (entity_type, bundle, entity_id, created) VALUES (?, ?, ?, ?)
		ON CONFLICT (entity_type, entity_id) DO UPDATE SET bundle = excluded.bundle`),
		entityType, bundle, id, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("tracking: record %s-%s %d: %w", entityType, bundle, id, err)
	}
	return nil
}

// List returns tracked rows filtered by type and bundle (either may be empty),
// ordered by type, bundle and id.
func (s *Store) List(ctx context.Context, entityType, bundle string) ([]Tracked, error) {
	return s.list(ctx, entityType, bundle, 0)
}

func (s *Store) list(ctx context.Context, entityType, bundle string, limit int) ([]Tracked, error) {
	where, args := filter(entityType, bundle)
	query := "SELECT entity_type, bundle, entity_id, created FROM generated_content" + where +
		" ORDER BY entity_type, bundle, entity_id"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("tracking: query rows: %w", err)
	}
	defer rows.Close()

	var out []Tracked
	for rows.Next() {
		var (
			row     Tracked
			created int64
		)
		if err := rows.Scan(&row.EntityType, &row.Bundle, &row.EntityID, &created); err != nil {
			return nil, fmt.Errorf("tracking: scan row: %w", err)
		}
		row.Created = time.Unix(created, 0).UTC()
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tracking: iterate rows: %w", err)
	}
	return out, nil
}

// Count returns how many rows match the filter.
func (s *Store) Count(ctx context.Context, entityType, bundle string) (int, error) {
	where, args := filter(entityType, bundle)
	var n int
	if err := s.db.QueryRowContext(ctx, s.db.Rebind("SELECT COUNT(*) FROM generated_content"+where), args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("tracking: count: %w", err)
	}
	return n, nil
}

// Counts returns row counts grouped by type and bundle.
func (s *Store) Counts(ctx context.Context) (map[entity.Key]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT entity_type, bundle, COUNT(*) FROM generated_content GROUP BY entity_type, bundle")
	if err != nil {
		return nil, fmt.Errorf("tracking: query counts: %w", err)
	}
	defer rows.Close()
	counts := make(map[entity.Key]int)
	for rows.Next() {
		var (
			key entity.Key
			n   int
		)
		if err := rows.Scan(&key.Type, &key.Bundle, &n); err != nil {
			return nil, fmt.Errorf("tracking: scan count: %w", err)
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

// Remove drops a single tracking row and reports whether it existed.
func (s *Store) Remove(ctx context.Context, entityType string, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("DELETE FROM generated_content WHERE entity_type = ? AND entity_id = ?"),
		entityType, id,
	)
	if err != nil {
		return false, fmt.Errorf("tracking: remove %s %d: %w", entityType, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("tracking: remove %s %d: %w", entityType, id, err)
	}
	return affected > 0, nil
}

// RemoveAll drops every row matching the filter, calling deleter for each
// one first. Deleter failures are logged and counted, never returned; an
// entity that no longer exists counts as removed. Only database failures on
// the tracking table itself abort the removal.
func (s *Store) RemoveAll(ctx context.Context, deleter Deleter, entityType, bundle string) (RemoveReport, error) {
	var report RemoveReport
	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		chunk, err := s.list(ctx, entityType, bundle, s.batchSize)
		if err != nil {
			return report, err
		}
		if len(chunk) == 0 {
			return report, nil
		}
		for _, row := range chunk {
			if deleter != nil {
				if err := deleter(ctx, row); err != nil && !errors.Is(err, entity.ErrNotFound) {
					report.Failed++
					s.logger.Warn("Failed to delete generated entity",
						logging.EntityType(row.EntityType),
						logging.Bundle(row.Bundle),
						logging.EntityID(row.EntityID),
						logging.Error(err))
				}
			}
			if _, err := s.Remove(ctx, row.EntityType, row.EntityID); err != nil {
				return report, err
			}
			report.Removed++
		}
	}
}

func filter(entityType, bundle string) (string, []any) {
	switch {
	case entityType != "" && bundle != "":
		return " WHERE entity_type = ? AND bundle = ?", []any{entityType, bundle}
	case entityType != "":
		return " WHERE entity_type = ?", []any{entityType}
	case bundle != "":
		return " WHERE bundle = ?", []any{bundle}
	default:
		return "", nil
	}
}
