package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"wastewise-backend/internal/client"
	"wastewise-backend/internal/logger"
)

var (
	serverURL string
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "wastectl",
	Short:         "Operator console for the WasteWise dispatch API",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	defaultURL := os.Getenv("WASTEWISE_API")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", defaultURL, "dispatch API base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func newClient() *client.Client {
	return client.New(serverURL, client.WithLogger(logger.New("wastectl")))
}

// commandContext is cancelled on SIGINT/SIGTERM or after the request timeout.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}
