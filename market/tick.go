package market

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Side selects the price side an order fills on: buys fill on ask,
// sells fill on bid.
type Side int

const (
	Buy Side = iota
	Sell
)

type TickSource interface {
	GetTick(ctx context.Context, instrument string) (Tick, error)
}

// Tick is a point-in-time bid/ask snapshot for one instrument.
type Tick struct {
	Instrument string
	Time       time.Time
	Bid        float64
	Ask        float64
}

func (t Tick) Mid() float64 {
	return (t.Bid + t.Ask) / 2
}

func (t Tick) Spread() float64 {
	return t.Ask - t.Bid
}

// ForSide returns the ask for buys and the bid for sells, the worst-case
// price for the given side.
func (t Tick) ForSide(s Side) float64 {
	if s == Buy {
		return t.Ask
	}
	return t.Bid
}

var ErrNoTick = errors.New("no tick for instrument")

type TickStore struct {
	mu    sync.RWMutex
	ticks map[string]Tick
}

func NewTickStore() *TickStore {
	return &TickStore{ticks: make(map[string]Tick)}
}

func (ts *TickStore) Set(t Tick) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.ticks[t.Instrument] = t
}

func (ts *TickStore) Get(instrument string) (Tick, error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	t, ok := ts.ticks[instrument]
	if !ok {
		return Tick{}, ErrNoTick
	}
	return t, nil
}

// GetTick implements TickSource.
func (ts *TickStore) GetTick(ctx context.Context, instrument string) (Tick, error) {
	return ts.Get(instrument)
}
