package database

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
)

// SQLiteDialect is the default engine, used for development and tests
type SQLiteDialect struct{}

// NewSQLiteDialect creates a new SQLite dialect
func NewSQLiteDialect() *SQLiteDialect {
	return &SQLiteDialect{}
}

func (d *SQLiteDialect) Name() string       { return "sqlite" }
func (d *SQLiteDialect) DriverName() string { return "sqlite3" }
func (d *SQLiteDialect) ReturnsID() bool    { return false }

func (d *SQLiteDialect) Bind(query string) string { return query }

// DSN enables foreign keys on every pooled connection; comment, like and tag
// cascades depend on it.
func (d *SQLiteDialect) DSN(config DialectConfig) string {
	return "file:" + config.Path + "?_foreign_keys=on&_busy_timeout=5000"
}

func (d *SQLiteDialect) Setup(db *sql.DB) error {
	defaultPool.apply(db)

	// WAL lets feed reads proceed while an upload batch is being recorded
	_, err := db.Exec("PRAGMA journal_mode=WAL;")
	return err
}

func (d *SQLiteDialect) MigrationsTable() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT UNIQUE NOT NULL,
			executed_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
}

func (d *SQLiteDialect) Classify(err error) Violation {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return NoViolation
	}
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return UniqueViolation
	case sqlite3.ErrConstraintForeignKey:
		return ForeignKeyViolation
	}
	return NoViolation
}
