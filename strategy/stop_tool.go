package strategy

import (
	"context"

	"github.com/fxtools/constrisk/broker"
	"github.com/fxtools/constrisk/risk"
)

// StopToolConfig configures the pending-entry tool: a stop order at a
// chosen level with stop and target distances anchored to that level.
type StopToolConfig struct {
	ToolConfig
	EntryPrice      float64
	StopLossPips    float64
	RewardRiskRatio float64
	BreakEven       bool
}

// StopTool places a stop order and keeps its size current until the entry
// level trades.
type StopTool struct {
	*Tool
	cfg StopToolConfig
}

func NewStopTool(cfg StopToolConfig, sess *Session) (*StopTool, error) {
	t, err := newTool(cfg.ToolConfig, sess)
	if err != nil {
		return nil, err
	}
	return &StopTool{Tool: t, cfg: cfg}, nil
}

func (s *StopTool) OnStart(ctx context.Context) error {
	if !s.begin(ctx, broker.BuyStop, broker.SellStop) {
		return nil
	}
	if s.cfg.EntryPrice <= 0 {
		s.sess.Console.Err("Entry price must be positive, strategy will be idle")
		return nil
	}
	if s.cfg.StopLossPips <= 0 {
		s.sess.Console.Err("Stop loss pips must be positive, strategy will be idle")
		return nil
	}
	if s.cfg.RewardRiskRatio <= 0 {
		s.sess.Console.Err("Reward:risk ratio must be positive, strategy will be idle")
		return nil
	}

	pip := s.instrument.PipValue()
	tpPips := risk.TakeProfitPips(s.cfg.StopLossPips, s.cfg.RewardRiskRatio)

	var sl, tp float64
	if s.cmd.IsLong() {
		sl = s.cfg.EntryPrice - s.cfg.StopLossPips*pip
		tp = s.cfg.EntryPrice + tpPips*pip
	} else {
		sl = s.cfg.EntryPrice + s.cfg.StopLossPips*pip
		tp = s.cfg.EntryPrice - tpPips*pip
	}

	if _, err := s.submit(ctx, 0, float64(s.cfg.CurrencyRisk), s.cfg.StopLossPips, s.cfg.EntryPrice, sl, tp); err != nil {
		s.sess.Console.Err("Submit: %v", err)
		return nil
	}

	// Conversion rates drift while the order waits at the entry level, so
	// the pending amount is recomputed every minute.
	s.rules = append(s.rules, &RefreshPendingSize{StopLossPips: s.cfg.StopLossPips})
	if s.cfg.BreakEven {
		s.rules = append(s.rules, &BreakEvenOnTarget{
			TargetProfit: float64(s.cfg.CurrencyRisk) * s.cfg.RewardRiskRatio,
		})
	}
	return nil
}
