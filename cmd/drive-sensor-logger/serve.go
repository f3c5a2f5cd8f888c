package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the logger headless with the HTTP ingest and display API",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(cfg, os.Stdout)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		monitorErr, err := p.start(ctx)
		if err != nil {
			return err
		}
		defer p.stop()

		select {
		case <-ctx.Done():
			<-monitorErr
			return nil
		case err := <-monitorErr:
			if err != nil {
				return fmt.Errorf("monitor: %w", err)
			}
			return nil
		}
	},
}

func init() {
	serveCmd.Flags().Bool("simulate", false, "drive the logger from simulated sensors and route (overrides SIMULATE)")
	rootCmd.AddCommand(serveCmd)
}
