// Package strategy implements the constant-risk trade management tools.
//
// Every tool shares one core: it sizes a position so the loss at the stop
// equals a fixed account-currency amount, submits the order with a
// millisecond-stamped label, and then manages the stop through bar-driven
// rules until the platform reports the close. The five tools differ only in
// how the entry and the exit levels are derived.
package strategy

import (
	"context"

	"github.com/fxtools/constrisk/broker"
	"github.com/fxtools/constrisk/console"
	"github.com/fxtools/constrisk/market"
)

// Strategy is the callback surface the host loop drives. Callbacks are
// delivered sequentially on a single goroutine; implementations keep their
// state unsynchronized.
type Strategy interface {
	OnStart(ctx context.Context) error
	OnTick(ctx context.Context, instrument string, tick market.Tick) error
	OnBar(ctx context.Context, instrument string, period market.Period, askBar, bidBar market.Candle) error
	OnMessage(ctx context.Context, ev broker.Event) error
	OnAccount(ctx context.Context, acct broker.Account) error
	OnStop(ctx context.Context) error
}

// Session bundles the platform handles a tool runs against.
type Session struct {
	Broker  broker.Broker
	Console *console.Console
}

// NewSession wires a broker to the default console.
func NewSession(b broker.Broker) *Session {
	return &Session{Broker: b, Console: console.New()}
}
