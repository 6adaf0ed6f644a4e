package db

import (
	"database/sql"
	"embed"
	"fmt"
	"log"
	"regexp"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

type DB struct {
	conn    *sql.DB
	dialect string
}

// Connect opens Postgres for postgres:// URLs and SQLite for "sqlite:<path>",
// "file:" DSNs and ":memory:".
func Connect(dsn string) (*DB, error) {
	dialect, source := parseDSN(dsn)
	conn, err := sql.Open(dialect, source)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if dialect == SQLite {
		// one connection keeps :memory: databases alive and serializes writers
		conn.SetMaxOpenConns(1)
		if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("configuring sqlite: %w", err)
		}
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	log.Printf("[DB] Connected to %s\n", dialect)
	return &DB{conn: conn, dialect: dialect}, nil
}

func parseDSN(dsn string) (dialect, source string) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return SQLite, strings.TrimPrefix(dsn, "sqlite://")
	case strings.HasPrefix(dsn, "sqlite:"):
		return SQLite, strings.TrimPrefix(dsn, "sqlite:")
	case strings.HasPrefix(dsn, "file:"), dsn == ":memory:":
		return SQLite, dsn
	default:
		return Postgres, dsn
	}
}

func (d *DB) Dialect() string {
	return d.dialect
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) Ping() error {
	return d.conn.Ping()
}

var placeholder = regexp.MustCompile(`\$(\d+)`)

// rebind turns Postgres $N placeholders into SQLite ?N ones.
func (d *DB) rebind(query string) string {
	if d.dialect != SQLite {
		return query
	}
	return placeholder.ReplaceAllString(query, "?$1")
}

func (d *DB) QueryRow(query string, args ...any) *sql.Row {
	return d.conn.QueryRow(d.rebind(query), args...)
}

func (d *DB) Query(query string, args ...any) (*sql.Rows, error) {
	return d.conn.Query(d.rebind(query), args...)
}

func (d *DB) Exec(query string, args ...any) (sql.Result, error) {
	return d.conn.Exec(d.rebind(query), args...)
}

func (d *DB) Migrate() error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations dir: %w", err)
	}

	for _, entry := range entries {
		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}
		for _, stmt := range strings.Split(string(content), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := d.conn.Exec(stmt); err != nil {
				return fmt.Errorf("executing migration %s: %w", entry.Name(), err)
			}
		}
		log.Printf("[DB] Applied migration: %s\n", entry.Name())
	}
	return nil
}

// nullString stores empty strings as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
