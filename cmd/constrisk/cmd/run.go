package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fxtools/constrisk/broker"
	"github.com/fxtools/constrisk/config"
	"github.com/fxtools/constrisk/journal"
	"github.com/fxtools/constrisk/market"
	"github.com/fxtools/constrisk/sim"
	"github.com/fxtools/constrisk/strategy"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a tool against the simulated market",
	Long: `Run one tool variant in the simulator using settings from a config file.

The config seeds the initial bid/ask and replays scripted price steps;
each step advances the simulated clock by its delay.

Example:
  constrisk run -f examples/market.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return err
	}

	jour, err := openJournal(cfg.Journal)
	if err != nil {
		return err
	}
	if jour != nil {
		defer jour.Close()
	}

	engine := sim.NewEngine(broker.Account{
		ID:       cfg.Account.ID,
		Currency: cfg.Account.Currency,
		Balance:  cfg.Account.Balance,
		Equity:   cfg.Account.Balance,
	}, jour)
	if cfg.Sim.CommissionPerLot > 0 {
		engine.SetCommissionPerLot(cfg.Sim.CommissionPerLot)
	}

	clock := time.Now()
	if err := engine.UpdateTick(market.Tick{
		Instrument: cfg.Tool.Instrument,
		Bid:        cfg.Sim.InitialBid,
		Ask:        cfg.Sim.InitialAsk,
		Time:       clock,
	}); err != nil {
		return err
	}

	sess := strategy.NewSession(engine)
	tool, periods, err := buildTool(cfg, sess)
	if err != nil {
		return err
	}

	ctx := context.Background()
	runner := strategy.NewRunner(engine, tool, cfg.Tool.Instrument, periods...)
	if err := runner.Start(ctx); err != nil {
		return err
	}

	for _, step := range cfg.Sim.PriceSteps {
		d, err := step.ParseDuration()
		if err != nil {
			return err
		}
		clock = clock.Add(d)
		if err := runner.Step(ctx, market.Tick{
			Instrument: cfg.Tool.Instrument,
			Bid:        step.Bid,
			Ask:        step.Ask,
			Time:       clock,
		}); err != nil {
			return err
		}
	}

	if err := runner.Stop(ctx); err != nil {
		return err
	}

	acct, err := engine.GetAccount(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Final balance: %.2f %s (run %s)\n", acct.Balance, acct.Currency, engine.RunID())
	return nil
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "", "none":
		return nil, nil
	case "csv":
		return journal.NewCSV(jc.Path)
	case "sqlite":
		return journal.NewSQLite(jc.Path)
	}
	return nil, fmt.Errorf("unknown journal type %q", jc.Type)
}

// buildTool constructs the configured variant and the bar periods its rules
// run on.
func buildTool(cfg *config.Config, sess *strategy.Session) (strategy.Strategy, []market.Period, error) {
	tc := strategy.ToolConfig{
		Instrument:   cfg.Tool.Instrument,
		Period:       market.Period(cfg.Tool.Period),
		Buy:          cfg.Tool.Buy,
		Sell:         cfg.Tool.Sell,
		CurrencyRisk: cfg.Tool.CurrencyRisk,
	}

	var periods []market.Period
	if tc.Period != "" {
		periods = append(periods, tc.Period)
	}

	switch cfg.Tool.Variant {
	case config.VariantMarket:
		s, err := strategy.NewMarketTool(strategy.MarketToolConfig{
			ToolConfig:      tc,
			StopLossPips:    cfg.Tool.StopLossPips,
			RewardRiskRatio: cfg.Tool.RewardRiskRatio,
			BreakEven:       cfg.Tool.BreakEven,
		}, sess)
		return s, periods, err
	case config.VariantStop:
		s, err := strategy.NewStopTool(strategy.StopToolConfig{
			ToolConfig:      tc,
			EntryPrice:      cfg.Tool.EntryPrice,
			StopLossPips:    cfg.Tool.StopLossPips,
			RewardRiskRatio: cfg.Tool.RewardRiskRatio,
			BreakEven:       cfg.Tool.BreakEven,
		}, sess)
		return s, periods, err
	case config.VariantSLFromTP:
		s, err := strategy.NewSLFromTPTool(strategy.SLFromTPConfig{
			ToolConfig:      tc,
			TakeProfitPrice: cfg.Tool.TakeProfitPrice,
			BreakEven:       cfg.Tool.BreakEven,
		}, sess)
		return s, periods, err
	case config.VariantScaleOut:
		s, err := strategy.NewScaleOutTool(strategy.ScaleOutConfig{
			ToolConfig:       tc,
			StopLossPrice:    cfg.Tool.StopLossPrice,
			Target1Price:     cfg.Tool.Target1Price,
			Target2Price:     cfg.Tool.Target2Price,
			BreakEvenTrigger: cfg.Tool.BreakEvenPrice,
		}, sess)
		return s, periods, err
	case config.VariantWave:
		s, err := strategy.NewWaveTool(strategy.WaveConfig{
			ToolConfig:    tc,
			StopLossPrice: cfg.Tool.StopLossPrice,
			BreakEven:     cfg.Tool.BreakEven,
		}, sess)
		return s, periods, err
	}
	return nil, nil, fmt.Errorf("unknown tool variant %q", cfg.Tool.Variant)
}
