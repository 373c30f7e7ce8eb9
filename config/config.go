// Package config loads and validates run configuration from YAML or JSON
// files. Direction (buy/sell) is deliberately not validated here: the tools
// report a bad direction on the live console at start and stay idle.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fxtools/constrisk/market"
	"gopkg.in/yaml.v3"
)

// Tool variant names accepted in ToolSettings.Variant.
const (
	VariantMarket   = "market"
	VariantStop     = "stop"
	VariantSLFromTP = "sl-from-tp"
	VariantScaleOut = "scale-out"
	VariantWave     = "wave"
)

// Config is the complete run configuration.
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Tool    ToolSettings  `json:"tool" yaml:"tool"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Feed    FeedConfig    `json:"feed,omitempty" yaml:"feed,omitempty"`
	Sim     SimConfig     `json:"simulation,omitempty" yaml:"simulation,omitempty"`
}

// AccountConfig initializes the simulated account.
type AccountConfig struct {
	ID       string  `json:"id" yaml:"id"`
	Currency string  `json:"currency" yaml:"currency"`
	Balance  float64 `json:"balance" yaml:"balance"`
}

// ToolSettings selects and parameterizes one tool variant. Fields not used
// by the chosen variant are ignored.
type ToolSettings struct {
	Variant      string `json:"variant" yaml:"variant"`
	Instrument   string `json:"instrument" yaml:"instrument"`
	Period       string `json:"period,omitempty" yaml:"period,omitempty"`
	Buy          bool   `json:"buy" yaml:"buy"`
	Sell         bool   `json:"sell" yaml:"sell"`
	CurrencyRisk int    `json:"currency_risk" yaml:"currency_risk"`

	StopLossPips    float64 `json:"stop_loss_pips,omitempty" yaml:"stop_loss_pips,omitempty"`
	RewardRiskRatio float64 `json:"reward_risk_ratio,omitempty" yaml:"reward_risk_ratio,omitempty"`
	EntryPrice      float64 `json:"entry_price,omitempty" yaml:"entry_price,omitempty"`
	TakeProfitPrice float64 `json:"take_profit_price,omitempty" yaml:"take_profit_price,omitempty"`
	StopLossPrice   float64 `json:"stop_loss_price,omitempty" yaml:"stop_loss_price,omitempty"`
	Target1Price    float64 `json:"target1_price,omitempty" yaml:"target1_price,omitempty"`
	Target2Price    float64 `json:"target2_price,omitempty" yaml:"target2_price,omitempty"`
	BreakEvenPrice  float64 `json:"break_even_price,omitempty" yaml:"break_even_price,omitempty"`
	BreakEven       bool    `json:"break_even,omitempty" yaml:"break_even,omitempty"`
}

// JournalConfig selects the trade journal backend: "none", "csv" or
// "sqlite".
type JournalConfig struct {
	Type string `json:"type" yaml:"type"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// FeedConfig points at a websocket tick feed.
type FeedConfig struct {
	URL         string   `json:"url,omitempty" yaml:"url,omitempty"`
	Instruments []string `json:"instruments,omitempty" yaml:"instruments,omitempty"`
}

// SimConfig seeds the simulated market and replays scripted price steps.
type SimConfig struct {
	InitialBid       float64     `json:"initial_bid,omitempty" yaml:"initial_bid,omitempty"`
	InitialAsk       float64     `json:"initial_ask,omitempty" yaml:"initial_ask,omitempty"`
	CommissionPerLot float64     `json:"commission_per_lot,omitempty" yaml:"commission_per_lot,omitempty"`
	PriceSteps       []PriceStep `json:"price_steps,omitempty" yaml:"price_steps,omitempty"`
}

// PriceStep is one scripted price update.
type PriceStep struct {
	Bid   float64 `json:"bid" yaml:"bid"`
	Ask   float64 `json:"ask" yaml:"ask"`
	Delay string  `json:"delay,omitempty" yaml:"delay,omitempty"` // "1m", "30s"
}

// ParseDuration converts the delay string, empty meaning no delay.
func (ps PriceStep) ParseDuration() (time.Duration, error) {
	if ps.Delay == "" {
		return 0, nil
	}
	return time.ParseDuration(ps.Delay)
}

// Load reads a configuration file, YAML first with a JSON fallback, and
// validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if yerr := yaml.Unmarshal(data, cfg); yerr != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", yerr)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration, YAML for .yaml/.yml paths, JSON otherwise.
func (c *Config) Save(path string) error {
	var data []byte
	var err error
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the structural settings. Tool-level trade parameters are
// re-checked by the tool itself at start.
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}

	switch c.Tool.Variant {
	case VariantMarket, VariantStop, VariantSLFromTP, VariantScaleOut, VariantWave:
	case "":
		return fmt.Errorf("tool.variant is required")
	default:
		return fmt.Errorf("unknown tool.variant %q", c.Tool.Variant)
	}

	if _, ok := market.Find(c.Tool.Instrument); !ok {
		return fmt.Errorf("unknown tool.instrument %q", c.Tool.Instrument)
	}
	if c.Tool.CurrencyRisk <= 0 {
		return fmt.Errorf("tool.currency_risk must be positive")
	}
	if c.Tool.Period != "" {
		if _, err := market.ParsePeriod(c.Tool.Period); err != nil {
			return err
		}
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv", "sqlite":
		if c.Journal.Path == "" {
			return fmt.Errorf("journal.path is required for %s journals", c.Journal.Type)
		}
	default:
		return fmt.Errorf("unknown journal.type %q", c.Journal.Type)
	}

	for _, ps := range c.Sim.PriceSteps {
		if _, err := ps.ParseDuration(); err != nil {
			return fmt.Errorf("price step delay %q: %w", ps.Delay, err)
		}
	}
	return nil
}

// Default returns a runnable example configuration.
func Default() *Config {
	return &Config{
		Account: AccountConfig{ID: "SIM-001", Currency: "USD", Balance: 10000},
		Tool: ToolSettings{
			Variant:         VariantMarket,
			Instrument:      "EUR/USD",
			Buy:             true,
			CurrencyRisk:    10,
			StopLossPips:    50,
			RewardRiskRatio: 2,
		},
		Journal: JournalConfig{Type: "none"},
		Sim: SimConfig{
			InitialBid: 1.0998,
			InitialAsk: 1.1000,
		},
	}
}
