package strategy

import (
	"context"

	"github.com/fxtools/constrisk/broker"
	"github.com/fxtools/constrisk/indicators"
	"github.com/fxtools/constrisk/market"
)

// BarRule is one exit-management behavior evaluated on each completed bar
// of the traded pair. Rules re-fetch the order snapshot by label and treat
// a missing order as already gone.
type BarRule interface {
	OnBar(ctx context.Context, t *Tool, period market.Period, askBar, bidBar market.Candle) error
}

// BreakEvenOnTarget moves the stop to the open price once the floating
// profit reaches 90% of the profit target. Comparing the stop against the
// open price keeps the move idempotent across bars.
type BreakEvenOnTarget struct {
	TargetProfit float64
}

func (r *BreakEvenOnTarget) OnBar(ctx context.Context, t *Tool, period market.Period, askBar, bidBar market.Candle) error {
	if period != market.OneMin {
		return nil
	}
	slot := &t.state.Slots[0]
	if !slot.Open {
		return nil
	}
	o, ok := t.sess.Broker.OrderByLabel(ctx, slot.Label)
	if !ok {
		t.sess.Console.Err("Order %s not found", slot.Label)
		return nil
	}
	if o.State != broker.StateOpened || o.StopLoss == o.OpenPrice {
		return nil
	}
	if o.Profit >= 0.9*r.TargetProfit {
		if err := t.sess.Broker.SetStopLoss(ctx, slot.Label, o.OpenPrice); err != nil {
			t.sess.Console.Err("Order %s: %v", slot.Label, err)
			return nil
		}
		t.sess.Console.Out("Order %s: stop moved to break even", slot.Label)
	}
	return nil
}

// BreakEvenAtPrice moves the stop to the open price once a bar reaches the
// trigger level: the ask high for longs, the bid low for shorts. One-shot.
type BreakEvenAtPrice struct {
	TriggerPrice float64

	moved bool
}

func (r *BreakEvenAtPrice) OnBar(ctx context.Context, t *Tool, period market.Period, askBar, bidBar market.Candle) error {
	if period != market.OneMin || r.moved {
		return nil
	}
	slot := &t.state.Slots[0]
	if !slot.Open {
		return nil
	}

	reached := false
	if t.cmd.IsLong() {
		reached = askBar.High >= r.TriggerPrice
	} else {
		reached = bidBar.Low <= r.TriggerPrice
	}
	if !reached {
		return nil
	}

	o, ok := t.sess.Broker.OrderByLabel(ctx, slot.Label)
	if !ok {
		t.sess.Console.Err("Order %s not found", slot.Label)
		return nil
	}
	if o.State != broker.StateOpened {
		return nil
	}
	if err := t.sess.Broker.SetStopLoss(ctx, slot.Label, o.OpenPrice); err != nil {
		t.sess.Console.Err("Order %s: %v", slot.Label, err)
		return nil
	}
	r.moved = true
	t.sess.Console.Out("Order %s: stop moved to break even at %.5f", slot.Label, r.TriggerPrice)
	return nil
}

// BreakEvenShared moves the stop of every open order to its own open price
// once the side-matched tick reaches the trigger level. Used by the
// scale-out tool where both orders share one trigger.
type BreakEvenShared struct {
	TriggerPrice float64
}

func (r *BreakEvenShared) OnBar(ctx context.Context, t *Tool, period market.Period, askBar, bidBar market.Candle) error {
	if period != market.OneMin {
		return nil
	}
	tick, err := t.sess.Broker.GetTick(ctx, t.instrument.Name)
	if err != nil {
		return err
	}
	px := tick.ForSide(t.cmd.Side())

	reached := false
	if t.cmd.IsLong() {
		reached = px >= r.TriggerPrice
	} else {
		reached = px <= r.TriggerPrice
	}
	if !reached {
		return nil
	}

	for i := range t.state.Slots {
		slot := &t.state.Slots[i]
		if !slot.Open {
			continue
		}
		o, ok := t.sess.Broker.OrderByLabel(ctx, slot.Label)
		if !ok {
			t.sess.Console.Err("Order %s not found", slot.Label)
			continue
		}
		if o.State != broker.StateOpened || o.StopLoss == o.OpenPrice {
			continue
		}
		if err := t.sess.Broker.SetStopLoss(ctx, slot.Label, o.OpenPrice); err != nil {
			t.sess.Console.Err("Order %s: %v", slot.Label, err)
			continue
		}
		t.sess.Console.Out("Order %s: stop moved to break even", slot.Label)
	}
	return nil
}

// CloseOnReversal closes the position when a Heikin-Ashi candle of the
// tool's period completes against the trade direction.
type CloseOnReversal struct {
	Period market.Period

	ha indicators.HeikinAshi
}

func (r *CloseOnReversal) OnBar(ctx context.Context, t *Tool, period market.Period, askBar, bidBar market.Candle) error {
	if period != r.Period {
		return nil
	}
	c := r.ha.Update(bidBar)

	opposed := false
	if t.cmd.IsLong() {
		opposed = c.Close < c.Open
	} else {
		opposed = c.Close > c.Open
	}
	if !opposed {
		return nil
	}

	slot := &t.state.Slots[0]
	if !slot.Open {
		return nil
	}
	if _, ok := t.sess.Broker.OrderByLabel(ctx, slot.Label); !ok {
		t.sess.Console.Err("Order %s not found", slot.Label)
		return nil
	}
	if err := t.sess.Broker.CloseOrder(ctx, slot.Label); err != nil {
		t.sess.Console.Err("Order %s: %v", slot.Label, err)
		return nil
	}
	// Mark closed now so a reversal and the close confirmation racing the
	// next bar cannot trigger a second close.
	slot.Open = false
	t.sess.Console.Out("Order %s: trend reversal, closing", slot.Label)
	return nil
}

// RefreshPendingSize re-sizes a still-pending stop order every minute so
// the filled amount reflects the latest conversion rates.
type RefreshPendingSize struct {
	StopLossPips float64
}

func (r *RefreshPendingSize) OnBar(ctx context.Context, t *Tool, period market.Period, askBar, bidBar market.Candle) error {
	if period != market.OneMin {
		return nil
	}
	slot := &t.state.Slots[0]
	if !slot.Open {
		return nil
	}
	o, ok := t.sess.Broker.OrderByLabel(ctx, slot.Label)
	if !ok {
		t.sess.Console.Err("Order %s not found", slot.Label)
		return nil
	}
	if o.State != broker.StatePending {
		return nil
	}

	sz, err := t.positionSize(ctx, r.StopLossPips, float64(t.cfg.CurrencyRisk))
	if err != nil {
		t.sess.Console.Err("Order %s: %v", slot.Label, err)
		return nil
	}
	if o.Amount != sz.Lots {
		if err := t.sess.Broker.SetRequestedAmount(ctx, slot.Label, sz.Lots); err != nil {
			t.sess.Console.Err("Order %s: %v", slot.Label, err)
			return nil
		}
	}
	t.sess.Console.Out("Order %s pending size: %.3f lots", slot.Label, sz.Lots)
	return nil
}
