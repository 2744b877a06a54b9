// Package database opens the SQL backend shared by the entity and tracking
// stores. SQLite (modernc, pure Go) is the default; postgres:// DSNs go
// through lib/pq.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects SQL flavour differences.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DB is a sql.DB that knows its dialect.
type DB struct {
	*sql.DB
	dialect Dialect
}

// Open connects to dsn and applies the schema. Accepted forms:
// "postgres://..." / "postgresql://...", "sqlite://path", ":memory:" or a
// plain file path.
func Open(ctx context.Context, dsn string) (*DB, error) {
	driver, source, dialect := parseDSN(dsn)
	if source == "" {
		return nil, fmt.Errorf("database: empty dsn")
	}
	sqlDB, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// One connection keeps :memory: databases shared and avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	}
	db := &DB{DB: sqlDB, dialect: dialect}
	if err := db.migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database: initialize schema: %w", err)
	}
	return db, nil
}

func parseDSN(dsn string) (driver, source string, dialect Dialect) {
	trimmed := strings.TrimSpace(dsn)
	lower := strings.ToLower(trimmed)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return "postgres", trimmed, DialectPostgres
	case strings.HasPrefix(lower, "sqlite://"):
		return "sqlite", trimmed[len("sqlite://"):], DialectSQLite
	default:
		return "sqlite", trimmed, DialectSQLite
	}
}

// Dialect reports the backend flavour.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Rebind rewrites '?' placeholders into the dialect's positional form.
func (db *DB) Rebind(query string) string {
	if db.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (db *DB) migrate(ctx context.Context) error {
	schema := sqliteSchema
	if db.dialect == DialectPostgres {
		schema = postgresSchema
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS entities (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uuid TEXT NOT NULL UNIQUE,
	entity_type TEXT NOT NULL,
	bundle TEXT NOT NULL,
	label TEXT NOT NULL,
	fields TEXT NOT NULL,
	created INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entities_type_bundle ON entities(entity_type, bundle);
CREATE TABLE IF NOT EXISTS generated_content (
	entity_type TEXT NOT NULL,
	bundle TEXT NOT NULL,
	entity_id INTEGER NOT NULL,
	created INTEGER NOT NULL,
	PRIMARY KEY (entity_type, entity_id)
);
CREATE INDEX IF NOT EXISTS idx_generated_content_bundle ON generated_content(entity_type, bundle);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS entities (
	id BIGSERIAL PRIMARY KEY,
	uuid TEXT NOT NULL UNIQUE,
	entity_type TEXT NOT NULL,
	bundle TEXT NOT NULL,
	label TEXT NOT NULL,
	fields TEXT NOT NULL,
	created BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entities_type_bundle ON entities(entity_type, bundle);
CREATE TABLE IF NOT EXISTS generated_content (
	entity_type TEXT NOT NULL,
	bundle TEXT NOT NULL,
	entity_id BIGINT NOT NULL,
	created BIGINT NOT NULL,
	PRIMARY KEY (entity_type, entity_id)
);
CREATE INDEX IF NOT EXISTS idx_generated_content_bundle ON generated_content(entity_type, bundle);
`
