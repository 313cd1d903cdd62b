package database

// InsertVote records a floor vote for a politician.
func (db *DB) InsertVote(v Vote) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO votes (politician_id, bill_id, bill_title, position, vote_date)
		VALUES (?, ?, ?, ?, ?)`,
		v.PoliticianID, v.BillID, v.BillTitle, v.Position, v.VoteDate,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetVotes returns a politician's votes, newest first.
func (db *DB) GetVotes(politicianID int64) ([]Vote, error) {
	rows, err := db.conn.Query(
		`SELECT id, politician_id, bill_id, bill_title, position, vote_date
		FROM votes WHERE politician_id = ? ORDER BY vote_date DESC`, politicianID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vote
	for rows.Next() {
		var v Vote
		if err := rows.Scan(&v.ID, &v.PoliticianID, &v.BillID, &v.BillTitle, &v.Position, &v.VoteDate); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
