package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/udl-lesson-backend/internal/app"
)

var rootCmd = &cobra.Command{
	Use:           "udl-lesson",
	Short:         "Staged UDL lesson generator",
	Long:          "Generates baseline lessons and layers UDL principles on top, one stage at a time.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lesson API over HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log, err := app.NewLogger()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, log)
	if err != nil {
		log.Sync()
		return err
	}
	defer a.Close()
	return a.Run(ctx)
}
