package broker

import (
	"context"

	"github.com/fxtools/constrisk/market"
)

// Command is the order side and entry type. Stop commands place a pending
// order that goes live once price reaches the entry level.
type Command int

const (
	Buy Command = iota
	Sell
	BuyStop
	SellStop
)

func (c Command) IsLong() bool {
	return c == Buy || c == BuyStop
}

func (c Command) IsStop() bool {
	return c == BuyStop || c == SellStop
}

func (c Command) Side() market.Side {
	if c.IsLong() {
		return market.Buy
	}
	return market.Sell
}

func (c Command) String() string {
	switch c {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	case BuyStop:
		return "BUYSTOP"
	case SellStop:
		return "SELLSTOP"
	}
	return "UNKNOWN"
}

// State is the order lifecycle state as tracked by the platform.
type State int

const (
	StatePending State = iota // stop order placed, entry not reached
	StateOpened               // filled, position live
	StateClosed
	StateRejected
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateOpened:
		return "OPENED"
	case StateClosed:
		return "CLOSED"
	case StateRejected:
		return "REJECTED"
	}
	return "UNKNOWN"
}

// Label correlates a strategy's run state with the platform's order
// objects. It is the sole lookup key; there is no numeric order ID. A
// distinct type keeps labels from mixing with other strings.
type Label string

// Order is a snapshot of one working or filled position. The label is the
// sole correlation key between a strategy's run state and the platform;
// snapshots are never cached across callbacks, callers re-fetch by label.
type Order struct {
	Label      Label
	Instrument string
	Cmd        Command
	Amount     float64 // requested lots
	OpenPrice  float64
	StopLoss   float64
	TakeProfit float64
	State      State
	Profit     float64 // account currency; floating while open, realized after close
	Commission float64
}

// OrderRequest submits a new order. EntryPrice 0 means fill at market.
type OrderRequest struct {
	Label        Label
	Instrument   string
	Cmd          Command
	Amount       float64 // lots
	EntryPrice   float64
	SlippagePips float64
	StopLoss     float64
	TakeProfit   float64 // 0 means no take profit
}

type Account struct {
	ID       string
	Currency string
	Balance  float64
	Equity   float64
}

// Broker is the host trading platform surface the strategies run against.
// Submit and the mutating calls are fire-and-forget: their outcomes arrive
// later as lifecycle events, never as return values.
type Broker interface {
	market.TickSource
	GetAccount(ctx context.Context) (Account, error)
	Subscribe(ctx context.Context, instruments []string) error
	Submit(ctx context.Context, req OrderRequest) (Order, error)
	// OrderByLabel returns the current snapshot, or false when no active
	// order with that label exists (closed and rejected orders are gone).
	OrderByLabel(ctx context.Context, label Label) (Order, bool)
	SetStopLoss(ctx context.Context, label Label, price float64) error
	SetRequestedAmount(ctx context.Context, label Label, lots float64) error
	CloseOrder(ctx context.Context, label Label) error
}
