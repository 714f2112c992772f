package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:          "bot",
		Short:        "RSI/SMA signal bot for spot crypto markets",
		Long:         `Polls prices, evaluates RSI/SMA signals, places market orders on signal and reports PnL to Telegram`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				return os.Setenv("CONFIG_FILE", cfgFile)
			}
			return nil
		},
		RunE: runBot,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "yaml config file (overrides CONFIG_FILE)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run the scheduler until interrupted (default)",
			RunE:  runBot,
		},
		&cobra.Command{
			Use:   "balance",
			Short: "Print the profit report once",
			RunE:  runBalance,
		},
		newEvaluateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
