package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pocket-ledger/internal/app"
)

func main() {
	a, err := app.New("config.yaml", false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Serve(ctx); err != nil {
		a.Log.Error().Err(err).Msg("server stopped")
	}
}
