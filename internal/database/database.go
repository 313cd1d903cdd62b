package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	conn *sql.DB
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &DB{conn: conn, path: dbPath}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Stats contains aggregate database statistics.
type Stats struct {
	Politicians    int
	WithFECID      int
	Bills          int
	Contributions  int
	Investments    int
	Expenditures   int
	Votes          int
	PendingReports int
	TotalReports   int
}

// GetStats returns aggregate counts for the status command.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}
	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM politicians", &s.Politicians},
		{"SELECT COUNT(*) FROM politicians WHERE fec_candidate_id IS NOT NULL", &s.WithFECID},
		{"SELECT COUNT(*) FROM bills", &s.Bills},
		{"SELECT COUNT(*) FROM contributions", &s.Contributions},
		{"SELECT COUNT(*) FROM investments", &s.Investments},
		{"SELECT COUNT(*) FROM expenditures", &s.Expenditures},
		{"SELECT COUNT(*) FROM votes", &s.Votes},
		{"SELECT COUNT(*) FROM reports WHERE status = 'pending'", &s.PendingReports},
		{"SELECT COUNT(*) FROM reports", &s.TotalReports},
	}
	for _, c := range counts {
		if err := db.conn.QueryRow(c.query).Scan(c.dest); err != nil {
			return nil, err
		}
	}
	return s, nil
}
