package database

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Dialect isolates what differs between the supported SQL engines
type Dialect interface {
	// Name identifies the engine; it is also the migrations subdirectory
	Name() string

	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) string

	// Bind rewrites ? placeholders into the engine's syntax
	Bind(query string) string

	// ReturnsID reports whether inserts must use RETURNING id because the
	// driver has no LastInsertId
	ReturnsID() bool

	// Setup applies engine settings once the pool is open
	Setup(db *sql.DB) error

	// MigrationsTable returns the DDL of the migrations tracking table
	MigrationsTable() string

	// Classify reports which constraint, if any, err violated
	Classify(err error) Violation
}

// Violation is the class of a constraint error
type Violation int

const (
	NoViolation Violation = iota
	UniqueViolation
	ForeignKeyViolation
)

// IsUniqueViolation reports whether err was raised by a UNIQUE or PRIMARY KEY constraint
func IsUniqueViolation(d Dialect, err error) bool {
	return err != nil && d.Classify(err) == UniqueViolation
}

// IsForeignKeyViolation reports whether err references a missing parent row
func IsForeignKeyViolation(d Dialect, err error) bool {
	return err != nil && d.Classify(err) == ForeignKeyViolation
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}

// pool sizes the connection pool of a dialect
type pool struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
	maxIdleTime time.Duration
}

var defaultPool = pool{
	maxOpen:     25,
	maxIdle:     5,
	maxLifetime: 5 * time.Minute,
	maxIdleTime: time.Minute,
}

func (p pool) apply(db *sql.DB) {
	db.SetMaxOpenConns(p.maxOpen)
	db.SetMaxIdleConns(p.maxIdle)
	db.SetConnMaxLifetime(p.maxLifetime)
	db.SetConnMaxIdleTime(p.maxIdleTime)
}

// bindNumbered converts ? placeholders to $1, $2, ... leaving question
// marks inside quoted literals alone
func bindNumbered(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	var quote byte
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
