// Package sim is an in-memory trading platform implementing broker.Broker.
// It fills market orders at the current bid/ask, activates pending stop
// orders, triggers stop-loss/take-profit closes on tick updates and queues
// lifecycle events for the host loop to deliver.
package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fxtools/constrisk/broker"
	"github.com/fxtools/constrisk/journal"
	"github.com/fxtools/constrisk/market"
	"github.com/fxtools/constrisk/pkg/id"
)

type trackedOrder struct {
	broker.Order
	openTime   time.Time
	closeTime  time.Time
	closePrice float64
}

type Engine struct {
	mu         sync.Mutex
	acct       broker.Account
	ticks      *market.TickStore
	orders     map[broker.Label]*trackedOrder
	events     []broker.Event
	jour       journal.Journal
	runID      string
	commPerLot float64
	subscribed map[string]struct{}
}

func NewEngine(acct broker.Account, j journal.Journal) *Engine {
	if j == nil {
		j = journal.Discard{}
	}
	return &Engine{
		acct:       acct,
		ticks:      market.NewTickStore(),
		orders:     make(map[broker.Label]*trackedOrder),
		jour:       j,
		runID:      id.NewGenerator().New(),
		subscribed: make(map[string]struct{}),
	}
}

// RunID identifies this engine's run in journal records.
func (e *Engine) RunID() string { return e.runID }

// SetCommissionPerLot charges a flat account-currency commission per
// standard lot on each closed order.
func (e *Engine) SetCommissionPerLot(c float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commPerLot = c
}

func (e *Engine) Ticks() *market.TickStore { return e.ticks }

func (e *Engine) GetTick(ctx context.Context, instrument string) (market.Tick, error) {
	return e.ticks.Get(instrument)
}

func (e *Engine) GetAccount(ctx context.Context) (broker.Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	acct := e.acct
	acct.Equity = acct.Balance
	for _, t := range e.orders {
		if t.State != broker.StateOpened {
			continue
		}
		pl, err := e.floatingLocked(t)
		if err == nil {
			acct.Equity += pl
		}
	}
	return acct, nil
}

func (e *Engine) Subscribe(ctx context.Context, instruments []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, in := range instruments {
		if _, ok := market.Find(in); !ok {
			return fmt.Errorf("subscribe: unknown instrument %q", in)
		}
		e.subscribed[in] = struct{}{}
	}
	return nil
}

// Subscribed reports whether the instrument was subscribed.
func (e *Engine) Subscribed(instrument string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.subscribed[instrument]
	return ok
}

// Submit registers a new order. Market orders fill immediately at the
// side-matched tick; stop orders wait for price to reach the entry level.
// A non-positive amount is rejected the way a real broker would reject it,
// asynchronously through an ORDER_SUBMIT_REJECTED event.
func (e *Engine) Submit(ctx context.Context, req broker.OrderRequest) (broker.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if req.Label == "" {
		return broker.Order{}, fmt.Errorf("submit: empty label")
	}
	if _, exists := e.orders[req.Label]; exists {
		return broker.Order{}, fmt.Errorf("submit: duplicate label %q", req.Label)
	}

	t := &trackedOrder{Order: broker.Order{
		Label:      req.Label,
		Instrument: req.Instrument,
		Cmd:        req.Cmd,
		Amount:     req.Amount,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
	}}
	e.orders[req.Label] = t

	if req.Amount <= 0 {
		t.State = broker.StateRejected
		e.queueLocked(broker.Event{Type: broker.OrderSubmitRejected, Order: snapshot(t), Text: "amount must be positive"})
		return t.Order, nil
	}

	tick, err := e.ticks.Get(req.Instrument)
	if err != nil {
		t.State = broker.StateRejected
		e.queueLocked(broker.Event{Type: broker.OrderSubmitRejected, Order: snapshot(t), Text: "no market price"})
		return t.Order, nil
	}

	if req.Cmd.IsStop() {
		t.State = broker.StatePending
		t.OpenPrice = req.EntryPrice
		return t.Order, nil
	}

	t.State = broker.StateOpened
	t.OpenPrice = tick.ForSide(req.Cmd.Side())
	t.openTime = tick.Time
	t.Commission = e.commPerLot * t.Amount
	e.queueLocked(broker.Event{Type: broker.OrderFillOK, Order: snapshot(t)})
	return t.Order, nil
}

// OrderByLabel returns a snapshot of an active (pending or filled) order.
// Closed and rejected orders are no longer reachable, mirroring platforms
// that drop inactive orders from their working set.
func (e *Engine) OrderByLabel(ctx context.Context, label broker.Label) (broker.Order, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.orders[label]
	if !ok || (t.State != broker.StatePending && t.State != broker.StateOpened) {
		return broker.Order{}, false
	}

	o := t.Order
	if t.State == broker.StateOpened {
		if pl, err := e.floatingLocked(t); err == nil {
			o.Profit = pl
		}
	}
	return o, true
}

func (e *Engine) SetStopLoss(ctx context.Context, label broker.Label, price float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.activeLocked(label)
	if !ok {
		return fmt.Errorf("set stop loss: order %q not found", label)
	}

	// A stop on the wrong side of the market is refused by the platform.
	if tick, err := e.ticks.Get(t.Instrument); err == nil && t.State == broker.StateOpened {
		if (t.Cmd.IsLong() && price >= tick.Bid) || (!t.Cmd.IsLong() && price > 0 && price <= tick.Ask) {
			e.queueLocked(broker.Event{Type: broker.OrderChangedRejected, Order: snapshot(t), Text: "stop loss through market"})
			return nil
		}
	}

	t.StopLoss = price
	e.queueLocked(broker.Event{Type: broker.OrderChangedOK, Order: snapshot(t)})
	return nil
}

func (e *Engine) SetRequestedAmount(ctx context.Context, label broker.Label, lots float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.activeLocked(label)
	if !ok {
		return fmt.Errorf("set amount: order %q not found", label)
	}

	if t.State != broker.StatePending {
		e.queueLocked(broker.Event{Type: broker.OrderChangedRejected, Order: snapshot(t), Text: "amount change on filled order"})
		return nil
	}

	t.Amount = lots
	e.queueLocked(broker.Event{Type: broker.OrderChangedOK, Order: snapshot(t)})
	return nil
}

func (e *Engine) CloseOrder(ctx context.Context, label broker.Label) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.activeLocked(label)
	if !ok {
		return fmt.Errorf("close: order %q not found", label)
	}

	if t.State == broker.StatePending {
		t.State = broker.StateClosed
		e.queueLocked(broker.Event{Type: broker.OrderCloseOK, Order: snapshot(t), Text: "Cancelled"})
		return nil
	}

	tick, err := e.ticks.Get(t.Instrument)
	if err != nil {
		return fmt.Errorf("close: no price for %q: %w", t.Instrument, err)
	}

	price := tick.Bid
	if !t.Cmd.IsLong() {
		price = tick.Ask
	}
	return e.closeLocked(t, price, tick.Time, "ManualClose")
}

// UpdateTick stores a new tick, activates pending stop orders whose entry
// level was reached and closes filled orders whose stop-loss or take-profit
// was hit. The resulting lifecycle events are queued for DrainEvents.
func (e *Engine) UpdateTick(tick market.Tick) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ticks.Set(tick)

	for _, t := range e.orders {
		if t.Instrument != tick.Instrument {
			continue
		}

		switch t.State {
		case broker.StatePending:
			if stopEntryReached(t, tick) {
				t.State = broker.StateOpened
				t.openTime = tick.Time
				t.Commission = e.commPerLot * t.Amount
				e.queueLocked(broker.Event{Type: broker.OrderFillOK, Order: snapshot(t)})
			}

		case broker.StateOpened:
			mark := tick.Bid
			if !t.Cmd.IsLong() {
				mark = tick.Ask
			}

			switch {
			case hitStopLoss(t, mark):
				if err := e.closeLocked(t, t.StopLoss, tick.Time, "StopLoss"); err != nil {
					return err
				}
			case hitTakeProfit(t, mark):
				if err := e.closeLocked(t, t.TakeProfit, tick.Time, "TakeProfit"); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// DrainEvents returns queued lifecycle events in order and clears the queue.
// The host loop delivers them to the strategy one at a time.
func (e *Engine) DrainEvents() []broker.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	evs := e.events
	e.events = nil
	return evs
}

func (e *Engine) activeLocked(label broker.Label) (*trackedOrder, bool) {
	t, ok := e.orders[label]
	if !ok || (t.State != broker.StatePending && t.State != broker.StateOpened) {
		return nil, false
	}
	return t, true
}

func (e *Engine) queueLocked(ev broker.Event) {
	e.events = append(e.events, ev)
}

// floatingLocked values an open order at the current tick, marked on the
// close side and converted into the account currency.
func (e *Engine) floatingLocked(t *trackedOrder) (float64, error) {
	tick, err := e.ticks.Get(t.Instrument)
	if err != nil {
		return 0, err
	}

	mark := tick.Bid
	if !t.Cmd.IsLong() {
		mark = tick.Ask
	}
	return e.plLocked(t, mark)
}

func (e *Engine) plLocked(t *trackedOrder, price float64) (float64, error) {
	meta, ok := market.Find(t.Instrument)
	if !ok {
		return 0, fmt.Errorf("unknown instrument %q", t.Instrument)
	}

	rate, err := market.QuoteToAccountRate(context.Background(), meta, e.acct.Currency, e.ticks)
	if err != nil {
		return 0, err
	}

	units := t.Amount * 1_000_000
	move := price - t.OpenPrice
	if !t.Cmd.IsLong() {
		move = -move
	}
	return units * move * rate, nil
}

func (e *Engine) closeLocked(t *trackedOrder, price float64, tm time.Time, reason string) error {
	pl, err := e.plLocked(t, price)
	if err != nil {
		return err
	}

	t.State = broker.StateClosed
	t.Profit = pl
	t.closePrice = price
	t.closeTime = tm
	e.acct.Balance += pl - t.Commission

	if err := e.jour.RecordTrade(journal.TradeRecord{
		RunID:      e.runID,
		Label:      string(t.Label),
		Instrument: t.Instrument,
		Command:    t.Cmd.String(),
		Lots:       t.Amount,
		OpenPrice:  t.OpenPrice,
		ClosePrice: price,
		OpenTime:   t.openTime,
		CloseTime:  tm,
		Profit:     pl,
		Commission: t.Commission,
		Reason:     reason,
	}); err != nil {
		return err
	}

	e.queueLocked(broker.Event{Type: broker.OrderCloseOK, Order: snapshot(t), Text: reason})
	return nil
}

func snapshot(t *trackedOrder) *broker.Order {
	o := t.Order
	return &o
}

func stopEntryReached(t *trackedOrder, tick market.Tick) bool {
	if t.Cmd == broker.BuyStop {
		return tick.Ask >= t.OpenPrice
	}
	return tick.Bid <= t.OpenPrice
}

func hitStopLoss(t *trackedOrder, mark float64) bool {
	if t.StopLoss == 0 {
		return false
	}
	if t.Cmd.IsLong() {
		return mark <= t.StopLoss
	}
	return mark >= t.StopLoss
}

func hitTakeProfit(t *trackedOrder, mark float64) bool {
	if t.TakeProfit == 0 {
		return false
	}
	if t.Cmd.IsLong() {
		return mark >= t.TakeProfit
	}
	return mark <= t.TakeProfit
}
