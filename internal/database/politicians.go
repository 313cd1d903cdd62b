package database

import (
	"database/sql"
)

const politicianCols = `id, first_name, last_name, party, state, district, office,
	bioguide_id, fec_candidate_id, last_scraped_at`

// UpsertPolitician inserts a politician or, when a row with the same
// first name, last name and state exists, refreshes its mutable fields
// and scrape timestamp. Returns the row ID and whether a row was created.
func (db *DB) UpsertPolitician(firstName, lastName, party, state string, district *string, office string) (int64, bool, error) {
	existing, err := db.FindPoliticianExact(firstName, lastName, state)
	if err != nil {
		return 0, false, err
	}

	if existing != nil {
		_, err := db.conn.Exec(
			`UPDATE politicians SET party = ?, district = ?, office = ?,
			last_scraped_at = datetime('now') WHERE id = ?`,
			party, district, office, existing.ID,
		)
		return existing.ID, false, err
	}

	result, err := db.conn.Exec(
		`INSERT INTO politicians (first_name, last_name, party, state, district, office, last_scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, datetime('now'))`,
		firstName, lastName, party, state, district, office,
	)
	if err != nil {
		return 0, false, err
	}
	id, err := result.LastInsertId()
	return id, true, err
}

// GetPolitician returns a single politician by ID, or nil when absent.
func (db *DB) GetPolitician(id int64) (*Politician, error) {
	row := db.conn.QueryRow(
		`SELECT `+politicianCols+` FROM politicians WHERE id = ?`, id,
	)
	p, err := scanPolitician(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindPoliticianExact matches on exact first name, last name and state.
func (db *DB) FindPoliticianExact(firstName, lastName, state string) (*Politician, error) {
	row := db.conn.QueryRow(
		`SELECT `+politicianCols+` FROM politicians
		WHERE first_name = ? AND last_name = ? AND state = ?`,
		firstName, lastName, state,
	)
	p, err := scanPolitician(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindPoliticiansByNameContains returns politicians whose first and/or
// last name contains the given fragments. Empty fragments are ignored.
// Ordering is stable (by id) so the first row always wins downstream.
func (db *DB) FindPoliticiansByNameContains(firstName, lastName string) ([]Politician, error) {
	query := `SELECT ` + politicianCols + ` FROM politicians WHERE 1=1`
	var args []any
	if firstName != "" {
		query += " AND first_name LIKE ?"
		args = append(args, "%"+firstName+"%")
	}
	if lastName != "" {
		query += " AND last_name LIKE ?"
		args = append(args, "%"+lastName+"%")
	}
	if len(args) == 0 {
		return nil, nil
	}
	query += " ORDER BY id"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPoliticians(rows)
}

// FindPoliticianByBioguide looks up a politician by bioguide ID.
func (db *DB) FindPoliticianByBioguide(bioguideID string) (*Politician, error) {
	row := db.conn.QueryRow(
		`SELECT `+politicianCols+` FROM politicians WHERE bioguide_id = ?`, bioguideID,
	)
	p, err := scanPolitician(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// SearchPoliticians filters by a free-text name fragment and/or exact
// state and attaches related-record counts for list views.
func (db *DB) SearchPoliticians(query, state string) ([]PoliticianSummary, error) {
	q := `SELECT ` + politicianCols + `,
		(SELECT COUNT(*) FROM votes v WHERE v.politician_id = politicians.id),
		(SELECT COUNT(*) FROM contributions c WHERE c.politician_id = politicians.id),
		(SELECT COUNT(*) FROM investments i WHERE i.politician_id = politicians.id),
		(SELECT COUNT(*) FROM expenditures e WHERE e.politician_id = politicians.id)
		FROM politicians WHERE 1=1`
	var args []any
	if query != "" {
		q += " AND (first_name LIKE ? OR last_name LIKE ?)"
		args = append(args, "%"+query+"%", "%"+query+"%")
	}
	if state != "" {
		q += " AND state = ?"
		args = append(args, state)
	}
	q += " ORDER BY last_name, first_name"

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PoliticianSummary
	for rows.Next() {
		var s PoliticianSummary
		if err := rows.Scan(
			&s.ID, &s.FirstName, &s.LastName, &s.Party, &s.State, &s.District,
			&s.Office, &s.BioguideID, &s.FECCandidateID, &s.LastScrapedAt,
			&s.Counts.Votes, &s.Counts.Contributions, &s.Counts.Investments,
			&s.Counts.Expenditures,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// PoliticiansMissingFECID returns politicians without an FEC candidate ID.
func (db *DB) PoliticiansMissingFECID() ([]Politician, error) {
	rows, err := db.conn.Query(
		`SELECT ` + politicianCols + ` FROM politicians
		WHERE fec_candidate_id IS NULL ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPoliticians(rows)
}

// SetFECCandidateID records the FEC candidate ID for a politician.
func (db *DB) SetFECCandidateID(id int64, fecID string) error {
	_, err := db.conn.Exec(
		"UPDATE politicians SET fec_candidate_id = ? WHERE id = ?", fecID, id,
	)
	return err
}

// SetBioguideID records the bioguide ID for a politician.
func (db *DB) SetBioguideID(id int64, bioguideID string) error {
	_, err := db.conn.Exec(
		"UPDATE politicians SET bioguide_id = ? WHERE id = ?", bioguideID, id,
	)
	return err
}

// LatestScrapeTime returns the most recent last_scraped_at value, or nil
// when no politician has been scraped yet.
func (db *DB) LatestScrapeTime() (*string, error) {
	var ts sql.NullString
	err := db.conn.QueryRow(
		"SELECT MAX(last_scraped_at) FROM politicians",
	).Scan(&ts)
	if err != nil {
		return nil, err
	}
	if !ts.Valid {
		return nil, nil
	}
	return &ts.String, nil
}

func scanPolitician(row *sql.Row) (*Politician, error) {
	var p Politician
	err := row.Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Party, &p.State, &p.District,
		&p.Office, &p.BioguideID, &p.FECCandidateID, &p.LastScrapedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPoliticians(rows *sql.Rows) ([]Politician, error) {
	var out []Politician
	for rows.Next() {
		var p Politician
		if err := rows.Scan(
			&p.ID, &p.FirstName, &p.LastName, &p.Party, &p.State, &p.District,
			&p.Office, &p.BioguideID, &p.FECCandidateID, &p.LastScrapedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
