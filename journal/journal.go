// Package journal records closed trades for later review. Two backends are
// provided: CSV files and SQLite.
package journal

import "time"

// TradeRecord is one closed order. RunID groups the orders of a single
// strategy run; Label is the platform correlation label.
type TradeRecord struct {
	RunID      string
	Label      string
	Instrument string
	Command    string
	Lots       float64
	OpenPrice  float64
	ClosePrice float64
	OpenTime   time.Time
	CloseTime  time.Time
	Profit     float64 // account currency
	Commission float64
	Reason     string
}

type Journal interface {
	RecordTrade(TradeRecord) error
	Close() error
}

// Discard is a no-op journal for runs that don't record anything.
type Discard struct{}

func (Discard) RecordTrade(TradeRecord) error { return nil }
func (Discard) Close() error                  { return nil }
