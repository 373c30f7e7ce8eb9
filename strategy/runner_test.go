package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/fxtools/constrisk/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_FullMarketRun(t *testing.T) {
	t.Parallel()

	sess, eng, buf := newSession("USD")
	require.NoError(t, eng.UpdateTick(eurusd(1.0998, 1.1000)))

	s, err := NewMarketTool(MarketToolConfig{
		ToolConfig:      ToolConfig{Instrument: "EUR/USD", Buy: true, CurrencyRisk: 10},
		StopLossPips:    50,
		RewardRiskRatio: 2,
		BreakEven:       true,
	}, sess)
	require.NoError(t, err)

	r := NewRunner(eng, s, "EUR/USD")
	require.NoError(t, r.Start(context.Background()))
	assert.Contains(t, buf.String(), "Submitted")
	assert.Contains(t, buf.String(), "filled")

	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	step := func(min int, bid, ask float64) {
		tk := market.Tick{Instrument: "EUR/USD", Bid: bid, Ask: ask, Time: base.Add(time.Duration(min) * time.Minute)}
		require.NoError(t, r.Step(context.Background(), tk))
	}

	step(0, 1.1040, 1.1042)
	// The second tick completes the first minute bar; the 19 USD floating
	// profit on the bar after that moves the stop to break even.
	step(1, 1.1095, 1.1097)
	step(2, 1.1095, 1.1097)
	assert.Contains(t, buf.String(), "break even")

	// Bid through the 1.1100 target: platform closes, close event delivered.
	step(3, 1.1101, 1.1103)
	assert.False(t, s.State().Slots[0].Open)
	assert.InDelta(t, 20.0, s.State().TotalProfit, 0.01)

	require.NoError(t, r.Stop(context.Background()))
	assert.Contains(t, buf.String(), "Strategy stopped")
}

func TestRunner_DeduplicatesPeriods(t *testing.T) {
	t.Parallel()

	sess, eng, _ := newSession("USD")
	s, err := NewMarketTool(MarketToolConfig{
		ToolConfig:      ToolConfig{Instrument: "EUR/USD", Buy: true, CurrencyRisk: 10},
		StopLossPips:    50,
		RewardRiskRatio: 2,
	}, sess)
	require.NoError(t, err)

	r := NewRunner(eng, s, "EUR/USD", market.OneMin, market.OneHour, market.OneHour)
	assert.Len(t, r.builders, 2)
}
