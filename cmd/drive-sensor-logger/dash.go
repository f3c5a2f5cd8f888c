package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/i474232898/drive-sensor-logger/internal/dashboard"
	"github.com/i474232898/drive-sensor-logger/internal/telemetry"
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Run the logger with the terminal dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		// The dashboard owns the terminal; send log and access output to a file.
		if err := os.MkdirAll(filepath.Dir(cfg.DashboardLogFile), 0o755); err != nil {
			return err
		}
		logFile, err := tea.LogToFile(cfg.DashboardLogFile, "dash")
		if err != nil {
			return err
		}
		defer logFile.Close()

		p, err := newPipeline(cfg, logFile)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		updates, unsubscribe := p.monitor.Subscribe()
		defer unsubscribe()

		monitorErr, err := p.start(ctx)
		if err != nil {
			return err
		}
		defer p.stop()

		program := tea.NewProgram(
			dashboard.New(telemetry.InitialDisplay(), updates, p.sharer),
			tea.WithAltScreen(),
		)

		exitErr := make(chan error, 1)
		go func() {
			err := <-monitorErr
			exitErr <- err
			if err != nil {
				program.Quit()
			}
		}()

		final, err := program.Run()
		cancel()
		if mErr := <-exitErr; mErr != nil {
			return fmt.Errorf("monitor: %w", mErr)
		}
		if err != nil {
			return err
		}
		if m, ok := final.(dashboard.Model); ok && m.Err() != nil {
			return m.Err()
		}
		return nil
	},
}

func init() {
	dashCmd.Flags().Bool("simulate", false, "drive the logger from simulated sensors and route (overrides SIMULATE)")
	rootCmd.AddCommand(dashCmd)
}
