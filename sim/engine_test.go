package sim

import (
	"context"
	"testing"
	"time"

	"github.com/fxtools/constrisk/broker"
	"github.com/fxtools/constrisk/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usdAccount() broker.Account {
	return broker.Account{ID: "SIM-001", Currency: "USD", Balance: 10000, Equity: 10000}
}

func tick(bid, ask float64) market.Tick {
	return market.Tick{Instrument: "EUR/USD", Bid: bid, Ask: ask, Time: time.Now()}
}

func TestSubmit_MarketFillAndEvents(t *testing.T) {
	t.Parallel()

	e := NewEngine(usdAccount(), nil)
	require.NoError(t, e.UpdateTick(tick(1.0999, 1.1001)))
	e.DrainEvents()

	o, err := e.Submit(context.Background(), broker.OrderRequest{
		Label:      "BUY1",
		Instrument: "EUR/USD",
		Cmd:        broker.Buy,
		Amount:     0.02,
		StopLoss:   1.0950,
		TakeProfit: 1.1050,
	})
	require.NoError(t, err)
	assert.Equal(t, broker.StateOpened, o.State)
	assert.Equal(t, 1.1001, o.OpenPrice)

	evs := e.DrainEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, broker.OrderFillOK, evs[0].Type)
	assert.Equal(t, broker.Label("BUY1"), evs[0].Order.Label)
}

func TestSubmit_ZeroAmountRejected(t *testing.T) {
	t.Parallel()

	e := NewEngine(usdAccount(), nil)
	require.NoError(t, e.UpdateTick(tick(1.0999, 1.1001)))
	e.DrainEvents()

	o, err := e.Submit(context.Background(), broker.OrderRequest{
		Label:      "BUY0",
		Instrument: "EUR/USD",
		Cmd:        broker.Buy,
		Amount:     0,
	})
	require.NoError(t, err)
	assert.Equal(t, broker.StateRejected, o.State)

	evs := e.DrainEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, broker.OrderSubmitRejected, evs[0].Type)

	_, ok := e.OrderByLabel(context.Background(), "BUY0")
	assert.False(t, ok)
}

func TestUpdateTick_StopLossCloses(t *testing.T) {
	t.Parallel()

	e := NewEngine(usdAccount(), nil)
	require.NoError(t, e.UpdateTick(tick(1.0999, 1.1001)))

	_, err := e.Submit(context.Background(), broker.OrderRequest{
		Label:      "BUY1",
		Instrument: "EUR/USD",
		Cmd:        broker.Buy,
		Amount:     0.02,
		StopLoss:   1.0950,
	})
	require.NoError(t, err)
	e.DrainEvents()

	require.NoError(t, e.UpdateTick(tick(1.0949, 1.0951)))

	evs := e.DrainEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, broker.OrderCloseOK, evs[0].Type)
	assert.Equal(t, "StopLoss", evs[0].Text)
	// 0.02 lots = 20000 units, 51 pips loss at the stop level.
	assert.InDelta(t, 20000*(1.0950-1.1001), evs[0].Order.Profit, 1e-6)

	_, ok := e.OrderByLabel(context.Background(), "BUY1")
	assert.False(t, ok)
}

func TestUpdateTick_ShortTakeProfit(t *testing.T) {
	t.Parallel()

	e := NewEngine(usdAccount(), nil)
	require.NoError(t, e.UpdateTick(tick(1.0999, 1.1001)))

	_, err := e.Submit(context.Background(), broker.OrderRequest{
		Label:      "SELL1",
		Instrument: "EUR/USD",
		Cmd:        broker.Sell,
		Amount:     0.01,
		StopLoss:   1.1050,
		TakeProfit: 1.0950,
	})
	require.NoError(t, err)
	e.DrainEvents()

	require.NoError(t, e.UpdateTick(tick(1.0940, 1.0942)))

	evs := e.DrainEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, broker.OrderCloseOK, evs[0].Type)
	assert.Equal(t, "TakeProfit", evs[0].Text)
	assert.InDelta(t, 10000*(1.0999-1.0950), evs[0].Order.Profit, 1e-6)
}

func TestStopOrder_ActivatesAtEntry(t *testing.T) {
	t.Parallel()

	e := NewEngine(usdAccount(), nil)
	require.NoError(t, e.UpdateTick(tick(1.0999, 1.1001)))

	o, err := e.Submit(context.Background(), broker.OrderRequest{
		Label:      "BUYSTOP1",
		Instrument: "EUR/USD",
		Cmd:        broker.BuyStop,
		Amount:     0.01,
		EntryPrice: 1.1050,
		StopLoss:   1.1000,
	})
	require.NoError(t, err)
	assert.Equal(t, broker.StatePending, o.State)
	assert.Empty(t, e.DrainEvents())

	// Price below entry, still pending.
	require.NoError(t, e.UpdateTick(tick(1.1020, 1.1022)))
	assert.Empty(t, e.DrainEvents())

	require.NoError(t, e.UpdateTick(tick(1.1049, 1.1051)))
	evs := e.DrainEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, broker.OrderFillOK, evs[0].Type)

	got, ok := e.OrderByLabel(context.Background(), "BUYSTOP1")
	require.True(t, ok)
	assert.Equal(t, broker.StateOpened, got.State)
}

func TestSetStopLoss_ThroughMarketRejected(t *testing.T) {
	t.Parallel()

	e := NewEngine(usdAccount(), nil)
	require.NoError(t, e.UpdateTick(tick(1.0999, 1.1001)))

	_, err := e.Submit(context.Background(), broker.OrderRequest{
		Label:      "BUY1",
		Instrument: "EUR/USD",
		Cmd:        broker.Buy,
		Amount:     0.01,
		StopLoss:   1.0950,
	})
	require.NoError(t, err)
	e.DrainEvents()

	// Above the bid: refused, stop unchanged.
	require.NoError(t, e.SetStopLoss(context.Background(), "BUY1", 1.1100))
	evs := e.DrainEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, broker.OrderChangedRejected, evs[0].Type)

	got, _ := e.OrderByLabel(context.Background(), "BUY1")
	assert.Equal(t, 1.0950, got.StopLoss)

	// Valid move below the bid.
	require.NoError(t, e.SetStopLoss(context.Background(), "BUY1", 1.0980))
	evs = e.DrainEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, broker.OrderChangedOK, evs[0].Type)

	got, _ = e.OrderByLabel(context.Background(), "BUY1")
	assert.Equal(t, 1.0980, got.StopLoss)
}

func TestSetRequestedAmount_PendingOnly(t *testing.T) {
	t.Parallel()

	e := NewEngine(usdAccount(), nil)
	require.NoError(t, e.UpdateTick(tick(1.0999, 1.1001)))

	_, err := e.Submit(context.Background(), broker.OrderRequest{
		Label:      "BUYSTOP1",
		Instrument: "EUR/USD",
		Cmd:        broker.BuyStop,
		Amount:     0.01,
		EntryPrice: 1.1100,
	})
	require.NoError(t, err)
	e.DrainEvents()

	require.NoError(t, e.SetRequestedAmount(context.Background(), "BUYSTOP1", 0.02))
	evs := e.DrainEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, broker.OrderChangedOK, evs[0].Type)

	got, _ := e.OrderByLabel(context.Background(), "BUYSTOP1")
	assert.Equal(t, 0.02, got.Amount)

	err = e.SetRequestedAmount(context.Background(), "missing", 0.02)
	assert.Error(t, err)
}

func TestFloatingProfit_VisibleOnSnapshot(t *testing.T) {
	t.Parallel()

	e := NewEngine(usdAccount(), nil)
	require.NoError(t, e.UpdateTick(tick(1.0999, 1.1001)))

	_, err := e.Submit(context.Background(), broker.OrderRequest{
		Label:      "BUY1",
		Instrument: "EUR/USD",
		Cmd:        broker.Buy,
		Amount:     0.02,
	})
	require.NoError(t, err)
	e.DrainEvents()

	require.NoError(t, e.UpdateTick(tick(1.1041, 1.1043)))

	got, ok := e.OrderByLabel(context.Background(), "BUY1")
	require.True(t, ok)
	// Marked on the bid: 20000 * (1.1041 - 1.1001).
	assert.InDelta(t, 80.0, got.Profit, 1e-6)
}

func TestClose_CommissionAndBalance(t *testing.T) {
	t.Parallel()

	e := NewEngine(usdAccount(), nil)
	e.SetCommissionPerLot(60) // 1.2 on 0.02 lots
	require.NoError(t, e.UpdateTick(tick(1.0999, 1.1001)))

	_, err := e.Submit(context.Background(), broker.OrderRequest{
		Label:      "BUY1",
		Instrument: "EUR/USD",
		Cmd:        broker.Buy,
		Amount:     0.02,
	})
	require.NoError(t, err)
	e.DrainEvents()

	require.NoError(t, e.UpdateTick(tick(1.1076, 1.1078)))
	require.NoError(t, e.CloseOrder(context.Background(), "BUY1"))

	evs := e.DrainEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, broker.OrderCloseOK, evs[0].Type)
	assert.InDelta(t, 150.0, evs[0].Order.Profit, 1e-6)
	assert.InDelta(t, 1.2, evs[0].Order.Commission, 1e-9)

	acct, err := e.GetAccount(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 10000+150-1.2, acct.Balance, 1e-6)
}
