package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fxtools/constrisk/broker"
	"github.com/fxtools/constrisk/config"
	"github.com/fxtools/constrisk/feed"
	"github.com/fxtools/constrisk/market"
	"github.com/fxtools/constrisk/sim"
	"github.com/fxtools/constrisk/strategy"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Run a tool against a live websocket tick feed",
	Long: `Run one tool variant with ticks streamed from the configured websocket
feed instead of scripted price steps. Stops on Ctrl-C, delivering the run
summary before exit.`,
	RunE: runFeed,
}

var feedConfigPath string

func init() {
	rootCmd.AddCommand(feedCmd)

	feedCmd.Flags().StringVarP(&feedConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	feedCmd.MarkFlagRequired("config")
}

func runFeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(feedConfigPath)
	if err != nil {
		return err
	}
	if cfg.Feed.URL == "" {
		return fmt.Errorf("feed.url is required for the feed command")
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := feed.Dial(ctx, cfg.Feed.URL)
	if err != nil {
		return err
	}
	defer client.Close()

	instruments := cfg.Feed.Instruments
	if len(instruments) == 0 {
		instruments = []string{cfg.Tool.Instrument}
	}
	if err := client.Subscribe(instruments); err != nil {
		return err
	}

	sess := strategy.NewSession(engine)
	tool, periods, err := buildTool(cfg, sess)
	if err != nil {
		return err
	}
	runner := strategy.NewRunner(engine, tool, cfg.Tool.Instrument, periods...)

	// The tools need a price before they can size the first order; wait for
	// the first tick of the traded pair, then start.
	started := false
	err = client.Run(ctx, func(tk market.Tick) error {
		if !started {
			if err := engine.UpdateTick(tk); err != nil {
				return err
			}
			if tk.Instrument != cfg.Tool.Instrument {
				return nil
			}
			started = true
			return runner.Start(ctx)
		}
		return runner.Step(ctx, tk)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return runner.Stop(context.Background())
}
