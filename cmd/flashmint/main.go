package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ggonzalez94/flashmint-cli/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := app.NewRunner().RunContext(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
