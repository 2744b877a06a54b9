package entity

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kingrea/seedbed/internal/database"
)

// Store persists entities in the shared database.
type Store struct {
	db  *database.DB
	now func() time.Time
}

// StoreOption customizes a Store during construction.
type StoreOption func(*Store)

// WithClock overrides the clock used for created timestamps.
func WithClock(clock func() time.Time) StoreOption {
	return func(s *Store) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewStore builds a store over db.
func NewStore(db *database.DB, opts ...StoreOption) *Store {
	store := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Create inserts e and fills in ID, UUID and Created.
func (s *Store) Create(ctx context.Context, e *Entity) error {
	if e == nil {
		return fmt.Errorf("entity: nil entity")
	}
	if err := e.Key().Validate(); err != nil {
		return err
	}
	if e.UUID == "" {
		e.UUID = uuid.NewString()
	}
	if e.Created.IsZero() {
		e.Created = s.now().UTC().Truncate(time.Second)
	}
	fields := e.Fields
	if fields == nil {
		fields = Fields{}
	}
	encoded, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("entity: marshal fields for %s: %w", e.Key(), err)
	}
	err = s.db.QueryRowContext(ctx,
		s.db.Rebind("INSERT INTO entities (uuid, entity_type, bundle, label, fields, created) VALUES (?, ?, ?, ?, ?, ?) RETURNING id"),
		e.UUID, e.Type, e.Bundle, e.Label, string(encoded), e.Created.Unix(),
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("entity: insert %s: %w", e.Key(), err)
	}
	return nil
}

// Load returns one entity of entityType by id.
func (s *Store) Load(ctx context.Context, entityType string, id int64) (Entity, error) {
	row := s.db.QueryRowContext(ctx,
		s.db.Rebind("SELECT id, uuid, entity_type, bundle, label, fields, created FROM entities WHERE entity_type = ? AND id = ?"),
		entityType, id,
	)
	e, err := scanEntity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entity{}, fmt.Errorf("%w: %s %d", ErrNotFound, entityType, id)
	}
	return e, err
}

// Delete removes one entity. Missing rows report ErrNotFound.
func (s *Store) Delete(ctx context.Context, entityType string, id int64) error {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("DELETE FROM entities WHERE entity_type = ? AND id = ?"),
		entityType, id,
	)
	if err != nil {
		return fmt.Errorf("entity: delete %s %d: %w", entityType, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("entity: delete %s %d: %w", entityType, id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s %d", ErrNotFound, entityType, id)
	}
	return nil
}

// IDs lists entity ids for a type, optionally narrowed to a bundle, ascending.
func (s *Store) IDs(ctx context.Context, entityType, bundle string) ([]int64, error) {
	query, args := "SELECT id FROM entities WHERE entity_type = ?", []any{entityType}
	if bundle != "" {
		query += " AND bundle = ?"
		args = append(args, bundle)
	}
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(query+" ORDER BY id"), args...)
	if err != nil {
		return nil, fmt.Errorf("entity: query ids: %w", err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("entity: scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Count returns how many entities of a type (and optional bundle) exist.
func (s *Store) Count(ctx context.Context, entityType, bundle string) (int, error) {
	query, args := "SELECT COUNT(*) FROM entities WHERE entity_type = ?", []any{entityType}
	if bundle != "" {
		query += " AND bundle = ?"
		args = append(args, bundle)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, s.db.Rebind(query), args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("entity: count: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(row rowScanner) (Entity, error) {
	var (
		e       Entity
		fields  string
		created int64
	)
	if err := row.Scan(&e.ID, &e.UUID, &e.Type, &e.Bundle, &e.Label, &fields, &created); err != nil {
		return Entity{}, err
	}
	e.Created = time.Unix(created, 0).UTC()
	if fields != "" {
		if err := json.Unmarshal([]byte(fields), &e.Fields); err != nil {
			return Entity{}, fmt.Errorf("entity: unmarshal fields: %w", err)
		}
	}
	return e, nil
}
