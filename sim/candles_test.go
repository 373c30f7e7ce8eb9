package sim

import (
	"testing"
	"time"

	"github.com/fxtools/constrisk/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandleBuilder_CompletesOnNextInterval(t *testing.T) {
	t.Parallel()

	b := NewCandleBuilder("EUR/USD", market.OneMin)
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	at := func(sec int, bid, ask float64) market.Tick {
		return market.Tick{Instrument: "EUR/USD", Time: base.Add(time.Duration(sec) * time.Second), Bid: bid, Ask: ask}
	}

	_, _, done := b.Add(at(0, 1.1000, 1.1002))
	assert.False(t, done)
	_, _, done = b.Add(at(20, 1.1010, 1.1012))
	assert.False(t, done)
	_, _, done = b.Add(at(40, 1.0990, 1.0992))
	assert.False(t, done)

	ask, bid, done := b.Add(at(61, 1.1005, 1.1007))
	require.True(t, done)

	assert.Equal(t, 1.1002, ask.Open)
	assert.Equal(t, 1.1012, ask.High)
	assert.Equal(t, 1.0992, ask.Low)
	assert.Equal(t, 1.0992, ask.Close)
	assert.Equal(t, base, ask.Time)

	assert.Equal(t, 1.1000, bid.Open)
	assert.Equal(t, 1.1010, bid.High)
	assert.Equal(t, 1.0990, bid.Low)
	assert.Equal(t, 1.0990, bid.Close)
}

func TestCandleBuilder_IgnoresOtherInstruments(t *testing.T) {
	t.Parallel()

	b := NewCandleBuilder("EUR/USD", market.OneMin)
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	_, _, done := b.Add(market.Tick{Instrument: "USD/JPY", Time: base, Bid: 150.0, Ask: 150.02})
	assert.False(t, done)
	_, _, done = b.Add(market.Tick{Instrument: "EUR/USD", Time: base.Add(2 * time.Minute), Bid: 1.1, Ask: 1.1002})
	assert.False(t, done) // first EUR/USD tick only opens the interval
}
