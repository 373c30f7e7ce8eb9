package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(run_id, label, instrument, command, lots, open_price, close_price, open_time, close_time, profit, commission, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.RunID, t.Label, t.Instrument, t.Command, t.Lots,
		t.OpenPrice, t.ClosePrice, t.OpenTime, t.CloseTime,
		t.Profit, t.Commission, t.Reason,
	)
	return err
}

// TradesByRun returns the closed trades of one run in insert order.
func (j *SQLiteJournal) TradesByRun(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, label, instrument, command, lots, open_price, close_price, open_time, close_time, profit, commission, reason
		FROM trades WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		if err := rows.Scan(&t.RunID, &t.Label, &t.Instrument, &t.Command, &t.Lots,
			&t.OpenPrice, &t.ClosePrice, &t.OpenTime, &t.CloseTime,
			&t.Profit, &t.Commission, &t.Reason); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
