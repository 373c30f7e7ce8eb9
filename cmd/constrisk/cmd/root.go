package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "constrisk",
	Short: "Constant-risk FX trade management tools",
	Long: `Constrisk opens and manages FX positions sized so that the loss at the
stop always equals a fixed account-currency amount.

It provides five tool variants sharing one sizing core:
  - market:     immediate entry, stop and target in pips
  - stop:       pending stop-order entry with live re-sizing
  - sl-from-tp: stop distance mirrored from a chosen target price
  - scale-out:  two orders, one stop, two targets
  - wave:       no target, exit on a Heikin-Ashi trend reversal`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Optional .env overlay for paths and endpoints.
		_ = godotenv.Load()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
