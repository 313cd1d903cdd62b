package database

// UpsertContribution inserts a contribution or, when externalID matches
// an existing row, refreshes it. Rows without an external ID are always
// inserted. Negative amounts are clamped to zero.
func (db *DB) UpsertContribution(c Contribution) (int64, error) {
	if c.Amount < 0 {
		c.Amount = 0
	}

	if c.ExternalID == nil {
		result, err := db.conn.Exec(
			`INSERT INTO contributions (politician_id, amount, date, source, industry, type)
			VALUES (?, ?, ?, ?, ?, ?)`,
			c.PoliticianID, c.Amount, c.Date, c.Source, c.Industry, c.Type,
		)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	}

	_, err := db.conn.Exec(
		`INSERT INTO contributions (external_id, politician_id, amount, date, source, industry, type)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_id) DO UPDATE SET
			amount = excluded.amount,
			date = excluded.date,
			source = excluded.source,
			industry = excluded.industry,
			type = excluded.type`,
		c.ExternalID, c.PoliticianID, c.Amount, c.Date, c.Source, c.Industry, c.Type,
	)
	if err != nil {
		return 0, err
	}

	var id int64
	err = db.conn.QueryRow(
		"SELECT id FROM contributions WHERE external_id = ?", c.ExternalID,
	).Scan(&id)
	return id, err
}

// GetContributions returns a politician's contributions, newest first.
func (db *DB) GetContributions(politicianID int64) ([]Contribution, error) {
	rows, err := db.conn.Query(
		`SELECT id, external_id, politician_id, amount, date, source, industry, type
		FROM contributions WHERE politician_id = ? ORDER BY date DESC`, politicianID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Contribution
	for rows.Next() {
		var c Contribution
		if err := rows.Scan(&c.ID, &c.ExternalID, &c.PoliticianID, &c.Amount, &c.Date, &c.Source, &c.Industry, &c.Type); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// InsertInvestment records a disclosed holding. Negative values are
// clamped to zero.
func (db *DB) InsertInvestment(inv Investment) (int64, error) {
	if inv.Value < 0 {
		inv.Value = 0
	}
	result, err := db.conn.Exec(
		`INSERT INTO investments (politician_id, value, asset, type, date)
		VALUES (?, ?, ?, ?, ?)`,
		inv.PoliticianID, inv.Value, inv.Asset, inv.Type, inv.Date,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetInvestments returns a politician's investments, newest first.
func (db *DB) GetInvestments(politicianID int64) ([]Investment, error) {
	rows, err := db.conn.Query(
		`SELECT id, politician_id, value, asset, type, date
		FROM investments WHERE politician_id = ? ORDER BY date DESC`, politicianID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Investment
	for rows.Next() {
		var inv Investment
		if err := rows.Scan(&inv.ID, &inv.PoliticianID, &inv.Value, &inv.Asset, &inv.Type, &inv.Date); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// UpsertExpenditure inserts an expenditure or refreshes the row with the
// same external ID. Negative amounts are clamped to zero.
func (db *DB) UpsertExpenditure(e Expenditure) (int64, error) {
	if e.Amount < 0 {
		e.Amount = 0
	}

	if e.ExternalID == nil {
		result, err := db.conn.Exec(
			`INSERT INTO expenditures (politician_id, amount, date, source, industry, type)
			VALUES (?, ?, ?, ?, ?, ?)`,
			e.PoliticianID, e.Amount, e.Date, e.Source, e.Industry, e.Type,
		)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	}

	_, err := db.conn.Exec(
		`INSERT INTO expenditures (external_id, politician_id, amount, date, source, industry, type)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_id) DO UPDATE SET
			amount = excluded.amount,
			date = excluded.date,
			source = excluded.source,
			industry = excluded.industry,
			type = excluded.type`,
		e.ExternalID, e.PoliticianID, e.Amount, e.Date, e.Source, e.Industry, e.Type,
	)
	if err != nil {
		return 0, err
	}

	var id int64
	err = db.conn.QueryRow(
		"SELECT id FROM expenditures WHERE external_id = ?", e.ExternalID,
	).Scan(&id)
	return id, err
}

// GetExpenditures returns a politician's expenditures, newest first.
func (db *DB) GetExpenditures(politicianID int64) ([]Expenditure, error) {
	rows, err := db.conn.Query(
		`SELECT id, external_id, politician_id, amount, date, source, industry, type
		FROM expenditures WHERE politician_id = ? ORDER BY date DESC`, politicianID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Expenditure
	for rows.Next() {
		var e Expenditure
		if err := rows.Scan(&e.ID, &e.ExternalID, &e.PoliticianID, &e.Amount, &e.Date, &e.Source, &e.Industry, &e.Type); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
