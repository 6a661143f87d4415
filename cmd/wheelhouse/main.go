package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Minimal logger until flags are parsed.
	slog.SetDefault(newLogger(os.Stderr, slog.LevelInfo))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	go func() {
		// Restore default handling so a second signal terminates at once.
		<-ctx.Done()
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error(err.Error())
		cancel()
		os.Exit(1)
	}
}
