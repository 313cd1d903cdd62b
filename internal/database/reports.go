package database

import "database/sql"

// InsertReport files a new ethics report in the pending state.
func (db *DB) InsertReport(title, description, evidence string, politicianID *int64) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO reports (title, description, evidence, status, politician_id)
		VALUES (?, ?, ?, ?, ?)`,
		title, description, evidence, ReportPending, politicianID,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetReport returns a single report by ID, or nil when absent.
func (db *DB) GetReport(id int64) (*Report, error) {
	row := db.conn.QueryRow(
		`SELECT id, title, description, evidence, status, politician_id, created_at
		FROM reports WHERE id = ?`, id,
	)
	var r Report
	err := row.Scan(&r.ID, &r.Title, &r.Description, &r.Evidence, &r.Status, &r.PoliticianID, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListReports filters by status when given, newest first, capped at limit.
func (db *DB) ListReports(status string, limit int) ([]Report, error) {
	query := `SELECT id, title, description, evidence, status, politician_id, created_at
		FROM reports WHERE 1=1`
	var args []any
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Evidence, &r.Status, &r.PoliticianID, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SetReportStatus applies an operator-driven lifecycle transition.
func (db *DB) SetReportStatus(id int64, status string) error {
	_, err := db.conn.Exec(
		"UPDATE reports SET status = ? WHERE id = ?", status, id,
	)
	return err
}

// GetReportsForPolitician returns reports linked to one politician,
// newest first.
func (db *DB) GetReportsForPolitician(politicianID int64) ([]Report, error) {
	rows, err := db.conn.Query(
		`SELECT id, title, description, evidence, status, politician_id, created_at
		FROM reports WHERE politician_id = ? ORDER BY created_at DESC`, politicianID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Evidence, &r.Status, &r.PoliticianID, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
