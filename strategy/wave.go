package strategy

import (
	"context"

	"github.com/fxtools/constrisk/broker"
	"github.com/fxtools/constrisk/risk"
)

// WaveConfig configures the trend-riding tool: no take profit, exit on a
// Heikin-Ashi reversal of the configured period. The optional break-even
// trigger mirrors the stop distance to the profit side of the entry.
type WaveConfig struct {
	ToolConfig
	StopLossPrice float64
	BreakEven     bool
}

// WaveTool rides a trend until a Heikin-Ashi candle completes against it.
type WaveTool struct {
	*Tool
	cfg WaveConfig
}

func NewWaveTool(cfg WaveConfig, sess *Session) (*WaveTool, error) {
	t, err := newTool(cfg.ToolConfig, sess)
	if err != nil {
		return nil, err
	}
	return &WaveTool{Tool: t, cfg: cfg}, nil
}

func (s *WaveTool) OnStart(ctx context.Context) error {
	if !s.begin(ctx, broker.Buy, broker.Sell) {
		return nil
	}
	if s.cfg.StopLossPrice <= 0 {
		s.sess.Console.Err("Stop loss price must be positive, strategy will be idle")
		return nil
	}

	tick, err := s.sess.Broker.GetTick(ctx, s.instrument.Name)
	if err != nil {
		s.sess.Console.Err("No tick for %s: %v", s.instrument.Name, err)
		return nil
	}

	entry := tick.ForSide(s.cmd.Side())
	if s.cmd.IsLong() && s.cfg.StopLossPrice >= entry {
		s.sess.Console.Err("Stop loss %.5f is not below the ask, strategy will be idle", s.cfg.StopLossPrice)
		return nil
	}
	if !s.cmd.IsLong() && s.cfg.StopLossPrice <= entry {
		s.sess.Console.Err("Stop loss %.5f is not above the bid, strategy will be idle", s.cfg.StopLossPrice)
		return nil
	}

	slPips := risk.PriceToPips(s.cfg.StopLossPrice, entry, s.instrument.PipScale)

	if _, err := s.submit(ctx, 0, float64(s.cfg.CurrencyRisk), slPips, 0, s.cfg.StopLossPrice, 0); err != nil {
		s.sess.Console.Err("Submit: %v", err)
		return nil
	}

	if s.cfg.BreakEven {
		// Trigger at the stop distance mirrored above (long) or below
		// (short) the entry: one R of open profit.
		var trigger float64
		if s.cmd.IsLong() {
			trigger = entry + (entry - s.cfg.StopLossPrice)
		} else {
			trigger = entry - (s.cfg.StopLossPrice - entry)
		}
		s.rules = append(s.rules, &BreakEvenAtPrice{TriggerPrice: trigger})
	}
	s.rules = append(s.rules, &CloseOnReversal{Period: s.Tool.cfg.Period})
	return nil
}
