package strategy

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/fxtools/constrisk/broker"
	"github.com/fxtools/constrisk/market"
	"github.com/fxtools/constrisk/risk"
)

// SlippagePips is the fixed slippage tolerance on every submission.
const SlippagePips = 5

// ToolConfig is the shared configuration of all tools. Exactly one of Buy
// and Sell must be set; a tool with neither or both reports the error at
// start and stays idle for the rest of the run.
type ToolConfig struct {
	Instrument   string
	Period       market.Period
	Buy          bool
	Sell         bool
	CurrencyRisk int // account currency lost if the stop is hit
}

// Tool is the shared core. Variants embed it and contribute OnStart plus
// the bar rules that manage their exits.
type Tool struct {
	cfg        ToolConfig
	instrument market.InstrumentMeta
	sess       *Session

	cmd      broker.Command
	state    RunState
	rules    []BarRule
	maxLots  float64
	tagSlots bool // label orders ORDER1/ORDER2 (scale-out)
	active   bool // false until OnStart validated the config
}

func newTool(cfg ToolConfig, sess *Session) (*Tool, error) {
	meta, ok := market.Find(cfg.Instrument)
	if !ok {
		return nil, fmt.Errorf("unknown instrument %q", cfg.Instrument)
	}
	if cfg.Period == "" {
		cfg.Period = market.Daily
	}
	return &Tool{
		cfg:        cfg,
		instrument: meta,
		sess:       sess,
		maxLots:    risk.MaxPositionLots,
	}, nil
}

// State exposes the run bookkeeping, read-only by convention.
func (t *Tool) State() *RunState { return &t.state }

// Instrument returns the traded pair.
func (t *Tool) Instrument() market.InstrumentMeta { return t.instrument }

// begin runs the common OnStart prologue: subscribe the traded pair plus
// its conversion pair, then validate the order side. It returns false when
// the tool must stay idle.
func (t *Tool) begin(ctx context.Context, long, short broker.Command) bool {
	t.sess.Console.Out("Starting %s tool on %s", t.instrument.Name, t.cfg.Period)
	t.subscribeInstruments(ctx)

	if t.cfg.Buy == t.cfg.Sell {
		t.sess.Console.Err("Set exactly one of buy or sell, strategy will be idle")
		return false
	}
	if t.cfg.Buy {
		t.cmd = long
	} else {
		t.cmd = short
	}
	if t.cfg.CurrencyRisk <= 0 {
		t.sess.Console.Err("Currency risk must be positive, strategy will be idle")
		return false
	}
	t.active = true
	return true
}

// subscribeInstruments subscribes the traded pair and, when sizing needs a
// cross rate, the conversion pair feeding it.
func (t *Tool) subscribeInstruments(ctx context.Context) {
	instruments := []string{t.instrument.Name}
	if acct, err := t.sess.Broker.GetAccount(ctx); err == nil {
		if conv, ok := market.ConversionInstrument(t.instrument, acct.Currency); ok && conv.Name != t.instrument.Name {
			instruments = append(instruments, conv.Name)
		}
	}
	if err := t.sess.Broker.Subscribe(ctx, instruments); err != nil {
		t.sess.Console.Err("Subscribe: %v", err)
	}
}

// positionSize resolves the account snapshot, the conversion rate and the
// current tick, then runs the sizing calculation. A capped size is reported
// and degraded to zero lots; the order is still submitted so the rejection
// surfaces through the normal lifecycle events.
func (t *Tool) positionSize(ctx context.Context, stopLossPips, riskAmount float64) (risk.Sizing, error) {
	acct, err := t.sess.Broker.GetAccount(ctx)
	if err != nil {
		return risk.Sizing{}, err
	}
	side := t.cmd.Side()
	rate, err := market.AccountExchangeRate(ctx, t.instrument, acct.Currency, side, t.sess.Broker)
	if err != nil {
		return risk.Sizing{}, fmt.Errorf("resolve %s rate: %w", acct.Currency, err)
	}
	tick, err := t.sess.Broker.GetTick(ctx, t.instrument.Name)
	if err != nil {
		return risk.Sizing{}, err
	}

	sz := risk.Size(risk.Inputs{
		PipValue:     t.instrument.PipValue(),
		PairRate:     tick.ForSide(side),
		AccountRate:  rate,
		CrossAccount: t.instrument.Primary != acct.Currency,
		StopLossPips: stopLossPips,
		CurrencyRisk: riskAmount,
		MaxLots:      t.maxLots,
	})
	if sz.Capped {
		t.sess.Console.Err("Position size %.3f lots exceeds the %.3f lot safety limit, submitting zero",
			sz.Units/1_000_000, sz.MaxLots)
	}
	return sz, nil
}

// newLabel builds the order label: the command token, an optional slot tag
// for the scale-out tool, and the current time in milliseconds.
func (t *Tool) newLabel(slot int) broker.Label {
	tag := ""
	if t.tagSlots {
		tag = fmt.Sprintf("ORDER%d", slot+1)
	}
	return broker.Label(t.cmd.String() + tag + strconv.FormatInt(time.Now().UnixMilli(), 10))
}

// submit sizes and places one order into the given slot. entry 0 places a
// market order. The slot is marked open immediately; a rejection arrives
// later as a lifecycle event and frees it again.
func (t *Tool) submit(ctx context.Context, slot int, riskAmount, stopLossPips, entry, stopLoss, takeProfit float64) (broker.Order, error) {
	sz, err := t.positionSize(ctx, stopLossPips, riskAmount)
	if err != nil {
		return broker.Order{}, err
	}

	label := t.newLabel(slot)
	ord, err := t.sess.Broker.Submit(ctx, broker.OrderRequest{
		Label:        label,
		Instrument:   t.instrument.Name,
		Cmd:          t.cmd,
		Amount:       sz.Lots,
		EntryPrice:   entry,
		SlippagePips: SlippagePips,
		StopLoss:     stopLoss,
		TakeProfit:   takeProfit,
	})
	if err != nil {
		return broker.Order{}, err
	}
	t.state.Slots[slot] = Slot{Label: label, Open: true}
	t.sess.Console.Info("Submitted %s %s %.3f lots, SL %.5f TP %.5f",
		ord.Label, t.cmd, sz.Lots, stopLoss, takeProfit)
	return ord, nil
}

// OnTick is unused by the bar-driven tools.
func (t *Tool) OnTick(ctx context.Context, instrument string, tick market.Tick) error {
	return nil
}

// OnBar dispatches completed bars of the traded pair to the exit rules.
func (t *Tool) OnBar(ctx context.Context, instrument string, period market.Period, askBar, bidBar market.Candle) error {
	if !t.active || instrument != t.instrument.Name || !t.state.AnyOpen() {
		return nil
	}
	for _, r := range t.rules {
		if err := r.OnBar(ctx, t, period, askBar, bidBar); err != nil {
			t.sess.Console.Err("%v", err)
		}
	}
	return nil
}

// OnMessage handles lifecycle events. Order-less status noise is dropped;
// events for this run's labels update the slots and the running totals.
func (t *Tool) OnMessage(ctx context.Context, ev broker.Event) error {
	if ev.Order == nil {
		switch ev.Type {
		case broker.InstrumentStatus, broker.Calendar:
			return nil
		}
		t.sess.Console.Out("Message: %s", ev)
		return nil
	}

	slot, num := t.state.SlotByLabel(ev.Order.Label)
	if slot == nil {
		t.sess.Console.Out("Message: %s", ev)
		return nil
	}

	switch ev.Type {
	case broker.OrderCloseOK:
		slot.Open = false
		t.state.TotalProfit += ev.Order.Profit
		t.state.TotalCommission += ev.Order.Commission
		t.sess.Console.Info("Order %d closed: %s profit %.2f commission %.2f",
			num, ev.Order.Label, ev.Order.Profit, ev.Order.Commission)
	case broker.OrderSubmitRejected:
		slot.Open = false
		t.sess.Console.Err("Order %s rejected: %s", ev.Order.Label, ev.Text)
	case broker.OrderChangedRejected:
		t.sess.Console.Err("Order %s change rejected: %s", ev.Order.Label, ev.Text)
	case broker.OrderFillOK:
		t.sess.Console.Info("Order %s filled at %.5f", ev.Order.Label, ev.Order.OpenPrice)
	default:
		t.sess.Console.Out("Message: %s", ev)
	}
	return nil
}

// OnAccount is informational only.
func (t *Tool) OnAccount(ctx context.Context, acct broker.Account) error {
	return nil
}

// OnStop reports the run summary.
func (t *Tool) OnStop(ctx context.Context) error {
	t.sess.Console.Notif("Strategy stopped. Profit: %.2f Commission: %.2f Net: %.2f",
		t.state.TotalProfit, t.state.TotalCommission, t.state.NetProfit())
	return nil
}
