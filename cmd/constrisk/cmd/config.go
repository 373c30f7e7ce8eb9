package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fxtools/constrisk/config"
)

var configCmd = &cobra.Command{
	Use:   "config <path>",
	Short: "Write a default config file",
	Long:  `Write a runnable example configuration to the given path, YAML or JSON by extension.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Default().Save(args[0]); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
