package database

import "database/sql"

const billCols = "id, bill_number, title, summary, introduced_date, status, sponsor_id"

// UpsertBill inserts a bill or updates the existing row with the same
// bill number. Returns the bill ID.
func (db *DB) UpsertBill(billNumber, title, summary string, introducedDate *string, status string, sponsorID *int64) (int64, error) {
	_, err := db.conn.Exec(
		`INSERT INTO bills (bill_number, title, summary, introduced_date, status, sponsor_id)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(bill_number) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			introduced_date = excluded.introduced_date,
			status = excluded.status,
			sponsor_id = excluded.sponsor_id`,
		billNumber, title, summary, introducedDate, status, sponsorID,
	)
	if err != nil {
		return 0, err
	}

	var id int64
	err = db.conn.QueryRow(
		"SELECT id FROM bills WHERE bill_number = ?", billNumber,
	).Scan(&id)
	return id, err
}

// GetBillByNumber returns a bill by its number, or nil when absent.
func (db *DB) GetBillByNumber(billNumber string) (*Bill, error) {
	row := db.conn.QueryRow(
		`SELECT `+billCols+` FROM bills WHERE bill_number = ?`, billNumber,
	)
	b, err := scanBill(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBills filters by exact status and/or bill-number prefix (the bill
// type, e.g. "hr" or "s"), newest first, capped at limit.
func (db *DB) ListBills(status, typePrefix string, limit int) ([]Bill, error) {
	query := `SELECT ` + billCols + ` FROM bills WHERE 1=1`
	var args []any
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	if typePrefix != "" {
		query += " AND bill_number LIKE ?"
		args = append(args, typePrefix+"%")
	}
	query += " ORDER BY introduced_date DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBills(rows)
}

func scanBill(row *sql.Row) (*Bill, error) {
	var b Bill
	err := row.Scan(&b.ID, &b.BillNumber, &b.Title, &b.Summary, &b.IntroducedDate, &b.Status, &b.SponsorID)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBills(rows *sql.Rows) ([]Bill, error) {
	var out []Bill
	for rows.Next() {
		var b Bill
		if err := rows.Scan(&b.ID, &b.BillNumber, &b.Title, &b.Summary, &b.IntroducedDate, &b.Status, &b.SponsorID); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
