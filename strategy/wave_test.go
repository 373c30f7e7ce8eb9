package strategy

import (
	"context"
	"testing"

	"github.com/fxtools/constrisk/broker"
	"github.com/fxtools/constrisk/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWave_NoTakeProfit(t *testing.T) {
	t.Parallel()

	sess, eng, _ := newSession("USD")
	require.NoError(t, eng.UpdateTick(eurusd(1.0998, 1.1000)))

	s, err := NewWaveTool(WaveConfig{
		ToolConfig:    ToolConfig{Instrument: "EUR/USD", Period: market.OneHour, Buy: true, CurrencyRisk: 10},
		StopLossPrice: 1.0950,
	}, sess)
	require.NoError(t, err)
	require.NoError(t, s.OnStart(context.Background()))

	o, ok := eng.OrderByLabel(context.Background(), s.State().Slots[0].Label)
	require.True(t, ok)
	assert.Zero(t, o.TakeProfit)
	assert.InDelta(t, 1.0950, o.StopLoss, 1e-9)
	assert.InDelta(t, 0.002, o.Amount, 1e-6) // 50 pip stop distance
}

func TestWave_BreakEvenAtMirroredTrigger(t *testing.T) {
	t.Parallel()

	sess, eng, _ := newSession("USD")
	require.NoError(t, eng.UpdateTick(eurusd(1.0998, 1.1000)))

	s, err := NewWaveTool(WaveConfig{
		ToolConfig:    ToolConfig{Instrument: "EUR/USD", Period: market.OneHour, Buy: true, CurrencyRisk: 10},
		StopLossPrice: 1.0950,
		BreakEven:     true,
	}, sess)
	require.NoError(t, err)
	require.NoError(t, s.OnStart(context.Background()))
	eng.DrainEvents()

	label := s.State().Slots[0].Label
	require.NoError(t, eng.UpdateTick(eurusd(1.1046, 1.1048)))

	// Entry 1.1000, stop 1.0950: the trigger mirrors to 1.1050.
	askBar, bidBar := m1Bars(1.1046, 1.1048)
	require.NoError(t, s.OnBar(context.Background(), "EUR/USD", market.OneMin, askBar, bidBar))
	assert.Empty(t, eng.DrainEvents())

	askBar.High = 1.1052
	require.NoError(t, s.OnBar(context.Background(), "EUR/USD", market.OneMin, askBar, bidBar))
	evs := eng.DrainEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, broker.OrderChangedOK, evs[0].Type)

	o, ok := eng.OrderByLabel(context.Background(), label)
	require.True(t, ok)
	assert.Equal(t, o.OpenPrice, o.StopLoss)

	// One-shot: the trigger does not fire again.
	require.NoError(t, s.OnBar(context.Background(), "EUR/USD", market.OneMin, askBar, bidBar))
	assert.Empty(t, eng.DrainEvents())
}

func TestWave_ClosesOnHeikinAshiReversal(t *testing.T) {
	t.Parallel()

	sess, eng, _ := newSession("USD")
	require.NoError(t, eng.UpdateTick(eurusd(1.0998, 1.1000)))

	s, err := NewWaveTool(WaveConfig{
		ToolConfig:    ToolConfig{Instrument: "EUR/USD", Period: market.OneHour, Buy: true, CurrencyRisk: 10},
		StopLossPrice: 1.0950,
	}, sess)
	require.NoError(t, err)
	require.NoError(t, s.OnStart(context.Background()))
	eng.DrainEvents()

	// A rising hourly candle keeps the position.
	up := market.Candle{Open: 1.1000, High: 1.1060, Low: 1.0998, Close: 1.1045}
	require.NoError(t, s.OnBar(context.Background(), "EUR/USD", market.OneHour, up, up))
	assert.Empty(t, eng.DrainEvents())

	// A falling candle flips the Heikin-Ashi body: close the position.
	require.NoError(t, eng.UpdateTick(eurusd(1.0960, 1.0962)))
	down := market.Candle{Open: 1.1040, High: 1.1040, Low: 1.0940, Close: 1.0950}
	require.NoError(t, s.OnBar(context.Background(), "EUR/USD", market.OneHour, down, down))

	evs := eng.DrainEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, broker.OrderCloseOK, evs[0].Type)
	assert.False(t, s.State().Slots[0].Open)

	_, ok := eng.OrderByLabel(context.Background(), s.State().Slots[0].Label)
	assert.False(t, ok)
}

func TestWave_MinuteBarsDoNotFeedTheReversal(t *testing.T) {
	t.Parallel()

	sess, eng, _ := newSession("USD")
	require.NoError(t, eng.UpdateTick(eurusd(1.0998, 1.1000)))

	s, err := NewWaveTool(WaveConfig{
		ToolConfig:    ToolConfig{Instrument: "EUR/USD", Period: market.OneHour, Buy: true, CurrencyRisk: 10},
		StopLossPrice: 1.0950,
	}, sess)
	require.NoError(t, err)
	require.NoError(t, s.OnStart(context.Background()))
	eng.DrainEvents()

	// Falling minute bars are not the reversal period.
	down := market.Candle{Open: 1.1000, High: 1.1000, Low: 1.0960, Close: 1.0962}
	require.NoError(t, s.OnBar(context.Background(), "EUR/USD", market.OneMin, down, down))
	require.NoError(t, s.OnBar(context.Background(), "EUR/USD", market.OneMin, down, down))
	assert.Empty(t, eng.DrainEvents())
	assert.True(t, s.State().Slots[0].Open)
}
