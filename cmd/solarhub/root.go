package main

import (
	"github.com/spf13/cobra"

	"solarhub/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "solarhub",
	Short: "Collect solar inverter and weather telemetry into Postgres",
	Long: `Solarhub polls a SolaxCloud inverter and two weather providers on a
batch schedule, persists the normalized measurements with idempotent upserts,
and pushes debounced energy-flow alerts to an ntfy topic.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
