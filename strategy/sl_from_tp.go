package strategy

import (
	"context"

	"github.com/fxtools/constrisk/broker"
	"github.com/fxtools/constrisk/risk"
)

// SLFromTPConfig configures the tool that derives the stop from a chosen
// take-profit level: the stop mirrors the target distance 1:1 on the other
// side of the entry.
type SLFromTPConfig struct {
	ToolConfig
	TakeProfitPrice float64
	BreakEven       bool
}

// SLFromTPTool opens at market with a symmetric stop and target.
type SLFromTPTool struct {
	*Tool
	cfg SLFromTPConfig
}

func NewSLFromTPTool(cfg SLFromTPConfig, sess *Session) (*SLFromTPTool, error) {
	t, err := newTool(cfg.ToolConfig, sess)
	if err != nil {
		return nil, err
	}
	return &SLFromTPTool{Tool: t, cfg: cfg}, nil
}

func (s *SLFromTPTool) OnStart(ctx context.Context) error {
	if !s.begin(ctx, broker.Buy, broker.Sell) {
		return nil
	}
	if s.cfg.TakeProfitPrice <= 0 {
		s.sess.Console.Err("Take profit price must be positive, strategy will be idle")
		return nil
	}

	tick, err := s.sess.Broker.GetTick(ctx, s.instrument.Name)
	if err != nil {
		s.sess.Console.Err("No tick for %s: %v", s.instrument.Name, err)
		return nil
	}

	entry := tick.ForSide(s.cmd.Side())
	if s.cmd.IsLong() && s.cfg.TakeProfitPrice <= entry {
		s.sess.Console.Err("Take profit %.5f is not above the ask, strategy will be idle", s.cfg.TakeProfitPrice)
		return nil
	}
	if !s.cmd.IsLong() && s.cfg.TakeProfitPrice >= entry {
		s.sess.Console.Err("Take profit %.5f is not below the bid, strategy will be idle", s.cfg.TakeProfitPrice)
		return nil
	}

	pip := s.instrument.PipValue()
	slPips := risk.PriceToPips(s.cfg.TakeProfitPrice, entry, s.instrument.PipScale)

	var sl float64
	if s.cmd.IsLong() {
		sl = entry - slPips*pip
	} else {
		sl = entry + slPips*pip
	}

	if _, err := s.submit(ctx, 0, float64(s.cfg.CurrencyRisk), slPips, 0, sl, s.cfg.TakeProfitPrice); err != nil {
		s.sess.Console.Err("Submit: %v", err)
		return nil
	}

	if s.cfg.BreakEven {
		// Symmetric stop and target: the profit target equals the risk.
		s.rules = append(s.rules, &BreakEvenOnTarget{TargetProfit: float64(s.cfg.CurrencyRisk)})
	}
	return nil
}
