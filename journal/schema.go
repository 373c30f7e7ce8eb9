package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	run_id      TEXT NOT NULL,
	label       TEXT NOT NULL,
	instrument  TEXT NOT NULL,
	command     TEXT NOT NULL,
	lots        REAL NOT NULL,
	open_price  REAL NOT NULL,
	close_price REAL NOT NULL,
	open_time   TIMESTAMP,
	close_time  TIMESTAMP,
	profit      REAL NOT NULL,
	commission  REAL NOT NULL,
	reason      TEXT
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id);
`
