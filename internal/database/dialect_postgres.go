package database

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// SQLSTATE codes of the integrity constraint class
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PostgresDialect implements Dialect for PostgreSQL
type PostgresDialect struct{}

// NewPostgresDialect creates a new PostgreSQL dialect
func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) Name() string       { return "postgres" }
func (d *PostgresDialect) DriverName() string { return "postgres" }

// ReturnsID is true: lib/pq does not implement LastInsertId
func (d *PostgresDialect) ReturnsID() bool { return true }

func (d *PostgresDialect) DSN(config DialectConfig) string {
	return config.URL
}

func (d *PostgresDialect) Bind(query string) string {
	return bindNumbered(query)
}

func (d *PostgresDialect) Setup(db *sql.DB) error {
	defaultPool.apply(db)
	return nil
}

func (d *PostgresDialect) MigrationsTable() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id BIGSERIAL PRIMARY KEY,
			filename TEXT UNIQUE NOT NULL,
			executed_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
	`
}

func (d *PostgresDialect) Classify(err error) Violation {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return NoViolation
	}
	switch pqErr.Code {
	case pgUniqueViolation:
		return UniqueViolation
	case pgForeignKeyViolation:
		return ForeignKeyViolation
	}
	return NoViolation
}
