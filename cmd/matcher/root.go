// cmd/matcher/root.go
package main

import (
	"github.com/spf13/cobra"
)

const app = "subsidy-matcher"

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "subsidy-matcher scores funding programs against company profiles and keeps the recommendations fresh",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is configs/config.yaml)")
}
