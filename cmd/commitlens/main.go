// File: cmd/commitlens/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/commitlens/commitlens-cli/cmd"
	"github.com/commitlens/commitlens-cli/internal/observability"
)

func main() {
	// Graceful shutdown on SIGINT/SIGTERM; subcommands honor the context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
