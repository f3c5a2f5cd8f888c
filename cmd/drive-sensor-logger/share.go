package main

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/i474232898/drive-sensor-logger/internal/share"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Open the sensor log with the desktop's default handler",
	RunE: func(cmd *cobra.Command, args []string) error {
		opener, _ := cmd.Flags().GetString("opener")

		shared, err := share.New(cfg.LogPath(), share.SystemOpener{Command: opener}).Share(context.Background())
		if err != nil {
			return err
		}
		if shared {
			log.Printf("INFO: shared %s", cfg.LogPath())
		}
		return nil
	},
}

func init() {
	shareCmd.Flags().String("opener", "", "command used to open the log (default: xdg-open/open)")
	rootCmd.AddCommand(shareCmd)
}
