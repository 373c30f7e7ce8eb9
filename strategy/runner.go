package strategy

import (
	"context"

	"github.com/fxtools/constrisk/market"
	"github.com/fxtools/constrisk/sim"
)

// Runner is the host loop for a simulated run: it feeds ticks into the
// engine, folds them into bars, and delivers callbacks and lifecycle events
// to the strategy in submission order on a single goroutine.
type Runner struct {
	engine   *sim.Engine
	strat    Strategy
	builders []*sim.CandleBuilder
}

// NewRunner builds the bar pipeline for the given instrument. The one
// minute period is always built because the stop-management rules run on
// it; further periods come from the tool configuration.
func NewRunner(engine *sim.Engine, strat Strategy, instrument string, periods ...market.Period) *Runner {
	seen := map[market.Period]bool{market.OneMin: true}
	builders := []*sim.CandleBuilder{sim.NewCandleBuilder(instrument, market.OneMin)}
	for _, p := range periods {
		if seen[p] {
			continue
		}
		seen[p] = true
		builders = append(builders, sim.NewCandleBuilder(instrument, p))
	}
	return &Runner{engine: engine, strat: strat, builders: builders}
}

// Start runs the strategy's start callback and delivers any events it
// produced, such as fills or rejections of the initial orders.
func (r *Runner) Start(ctx context.Context) error {
	if err := r.strat.OnStart(ctx); err != nil {
		return err
	}
	return r.deliver(ctx)
}

// Step advances the run by one tick: engine update, tick callback, then any
// completed bars with their follow-up events.
func (r *Runner) Step(ctx context.Context, tick market.Tick) error {
	if err := r.engine.UpdateTick(tick); err != nil {
		return err
	}
	if err := r.strat.OnTick(ctx, tick.Instrument, tick); err != nil {
		return err
	}
	if err := r.deliver(ctx); err != nil {
		return err
	}

	for _, b := range r.builders {
		ask, bid, done := b.Add(tick)
		if !done {
			continue
		}
		if err := r.strat.OnBar(ctx, b.Instrument, b.Period, ask, bid); err != nil {
			return err
		}
		if err := r.deliver(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Stop delivers the final events and the stop callback.
func (r *Runner) Stop(ctx context.Context) error {
	if err := r.deliver(ctx); err != nil {
		return err
	}
	return r.strat.OnStop(ctx)
}

func (r *Runner) deliver(ctx context.Context) error {
	for _, ev := range r.engine.DrainEvents() {
		if err := r.strat.OnMessage(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}
