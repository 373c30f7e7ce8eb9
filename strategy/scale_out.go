package strategy

import (
	"context"

	"github.com/fxtools/constrisk/broker"
	"github.com/fxtools/constrisk/risk"
)

// ScaleOutConfig configures the two-target tool. Target2Price 0 disables
// the second order: a single order takes the full risk at Target1Price.
type ScaleOutConfig struct {
	ToolConfig
	StopLossPrice    float64
	Target1Price     float64
	Target2Price     float64
	BreakEvenTrigger float64 // 0 disables the shared break-even move
}

// ScaleOutTool splits the position into two market orders sharing one stop
// but exiting at separate targets. When scaling out, risk, and the safety
// cap, are halved per order so the combined exposure stays constant.
type ScaleOutTool struct {
	*Tool
	cfg ScaleOutConfig
}

func NewScaleOutTool(cfg ScaleOutConfig, sess *Session) (*ScaleOutTool, error) {
	t, err := newTool(cfg.ToolConfig, sess)
	if err != nil {
		return nil, err
	}
	t.tagSlots = true
	return &ScaleOutTool{Tool: t, cfg: cfg}, nil
}

func (s *ScaleOutTool) OnStart(ctx context.Context) error {
	if !s.begin(ctx, broker.Buy, broker.Sell) {
		return nil
	}
	if s.cfg.StopLossPrice <= 0 {
		s.sess.Console.Err("Stop loss price must be positive, strategy will be idle")
		return nil
	}
	if s.cfg.Target1Price <= 0 {
		s.sess.Console.Err("Target price must be positive, strategy will be idle")
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

	scaleOut := s.cfg.Target2Price > 0
	riskAmount := s.cfg.CurrencyRisk
	if scaleOut {
		riskAmount /= 2
		s.maxLots = risk.MaxPositionLots / 2
	}

	slPips := risk.PriceToPips(s.cfg.StopLossPrice, entry, s.instrument.PipScale)

	if _, err := s.submit(ctx, 0, float64(riskAmount), slPips, 0, s.cfg.StopLossPrice, s.cfg.Target1Price); err != nil {
		s.sess.Console.Err("Submit: %v", err)
		return nil
	}
	if scaleOut {
		if _, err := s.submit(ctx, 1, float64(riskAmount), slPips, 0, s.cfg.StopLossPrice, s.cfg.Target2Price); err != nil {
			s.sess.Console.Err("Submit: %v", err)
		}
	}

	if s.cfg.BreakEvenTrigger > 0 {
		s.rules = append(s.rules, &BreakEvenShared{TriggerPrice: s.cfg.BreakEvenTrigger})
	}
	return nil
}
