package database

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

func latestVersion() int {
	return migrations[len(migrations)-1].Version
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS politicians (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    party TEXT NOT NULL DEFAULT '',
    state TEXT NOT NULL DEFAULT '',
    district TEXT,
    office TEXT NOT NULL DEFAULT '',
    bioguide_id TEXT,
    fec_candidate_id TEXT,
    last_scraped_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_politicians_name
    ON politicians(last_name, first_name, state);

CREATE TABLE IF NOT EXISTS bills (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    bill_number TEXT UNIQUE NOT NULL,
    title TEXT NOT NULL,
    summary TEXT NOT NULL DEFAULT '',
    introduced_date TEXT,
    status TEXT NOT NULL DEFAULT '',
    sponsor_id INTEGER REFERENCES politicians(id)
);

CREATE TABLE IF NOT EXISTS contributions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    external_id TEXT UNIQUE,
    politician_id INTEGER NOT NULL REFERENCES politicians(id),
    amount REAL NOT NULL DEFAULT 0 CHECK (amount >= 0),
    date TEXT,
    source TEXT NOT NULL DEFAULT '',
    industry TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_contributions_politician
    ON contributions(politician_id);

CREATE TABLE IF NOT EXISTS investments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    politician_id INTEGER NOT NULL REFERENCES politicians(id),
    value REAL NOT NULL DEFAULT 0 CHECK (value >= 0),
    asset TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL DEFAULT '',
    date TEXT
);

CREATE INDEX IF NOT EXISTS idx_investments_politician
    ON investments(politician_id);

CREATE TABLE IF NOT EXISTS expenditures (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    external_id TEXT UNIQUE,
    politician_id INTEGER NOT NULL REFERENCES politicians(id),
    amount REAL NOT NULL DEFAULT 0 CHECK (amount >= 0),
    date TEXT,
    source TEXT NOT NULL DEFAULT '',
    industry TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_expenditures_politician
    ON expenditures(politician_id);

CREATE TABLE IF NOT EXISTS votes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    politician_id INTEGER NOT NULL REFERENCES politicians(id),
    bill_id INTEGER REFERENCES bills(id),
    bill_title TEXT NOT NULL DEFAULT '',
    position TEXT NOT NULL,
    vote_date TEXT
);

CREATE INDEX IF NOT EXISTS idx_votes_politician
    ON votes(politician_id);

CREATE TABLE IF NOT EXISTS reports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    evidence TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'pending',
    politician_id INTEGER REFERENCES politicians(id),
    created_at TEXT DEFAULT (datetime('now'))
);
`)
			return err
		},
	},
}
