package strategy

import (
	"context"

	"github.com/fxtools/constrisk/broker"
	"github.com/fxtools/constrisk/risk"
)

// MarketToolConfig configures the market-entry tool: immediate fill with a
// stop distance in pips and a take profit scaled by the reward:risk ratio.
type MarketToolConfig struct {
	ToolConfig
	StopLossPips    float64
	RewardRiskRatio float64
	BreakEven       bool // move the stop to break even at 90% of target
}

// MarketTool opens at market and lets the platform exit at the stop or the
// take profit.
type MarketTool struct {
	*Tool
	cfg MarketToolConfig
}

func NewMarketTool(cfg MarketToolConfig, sess *Session) (*MarketTool, error) {
	t, err := newTool(cfg.ToolConfig, sess)
	if err != nil {
		return nil, err
	}
	return &MarketTool{Tool: t, cfg: cfg}, nil
}

func (s *MarketTool) OnStart(ctx context.Context) error {
	if !s.begin(ctx, broker.Buy, broker.Sell) {
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

	tick, err := s.sess.Broker.GetTick(ctx, s.instrument.Name)
	if err != nil {
		s.sess.Console.Err("No tick for %s: %v", s.instrument.Name, err)
		return nil
	}

	pip := s.instrument.PipValue()
	tpPips := risk.TakeProfitPips(s.cfg.StopLossPips, s.cfg.RewardRiskRatio)

	var sl, tp float64
	if s.cmd.IsLong() {
		sl = tick.Ask - s.cfg.StopLossPips*pip
		tp = tick.Ask + tpPips*pip
	} else {
		sl = tick.Bid + s.cfg.StopLossPips*pip
		tp = tick.Bid - tpPips*pip
	}

	if _, err := s.submit(ctx, 0, float64(s.cfg.CurrencyRisk), s.cfg.StopLossPips, 0, sl, tp); err != nil {
		s.sess.Console.Err("Submit: %v", err)
		return nil
	}

	if s.cfg.BreakEven {
		s.rules = append(s.rules, &BreakEvenOnTarget{
			TargetProfit: float64(s.cfg.CurrencyRisk) * s.cfg.RewardRiskRatio,
		})
	}
	return nil
}
