package main

import (
	"github.com/spf13/cobra"

	"github.com/i474232898/drive-sensor-logger/internal/config"
)

var cfg *config.AppConfig

var rootCmd = &cobra.Command{
	Use:          "drive-sensor-logger",
	Short:        "Log phone motion sensors, speed, weather and road info to CSV",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		if cmd.Flags().Changed("simulate") {
			cfg.Simulate, _ = cmd.Flags().GetBool("simulate")
		}
		if cmd.Flags().Changed("log-dir") {
			cfg.LogDir, _ = cmd.Flags().GetString("log-dir")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-dir", "", "directory holding sensor_log.csv (overrides LOG_DIR)")
}
