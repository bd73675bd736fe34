package database

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers
const (
	erDupEntry        = 1062
	erNoReferencedRow = 1452
)

// MySQLDialect implements Dialect for MySQL
type MySQLDialect struct{}

// NewMySQLDialect creates a new MySQL dialect
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) Name() string       { return "mysql" }
func (d *MySQLDialect) DriverName() string { return "mysql" }
func (d *MySQLDialect) ReturnsID() bool    { return false }

func (d *MySQLDialect) Bind(query string) string { return query }

// DSN expects parseTime=true so DATETIME columns scan into time.Time
func (d *MySQLDialect) DSN(config DialectConfig) string {
	return config.URL
}

func (d *MySQLDialect) Setup(db *sql.DB) error {
	defaultPool.apply(db)
	_, err := db.Exec("SET FOREIGN_KEY_CHECKS = 1;")
	return err
}

func (d *MySQLDialect) MigrationsTable() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			executed_at DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6)
		);
	`
}

func (d *MySQLDialect) Classify(err error) Violation {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return NoViolation
	}
	switch mysqlErr.Number {
	case erDupEntry:
		return UniqueViolation
	case erNoReferencedRow:
		return ForeignKeyViolation
	}
	return NoViolation
}
