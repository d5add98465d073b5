package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hcaim/ai-footprint/internal/apperr"
)

// version is set at build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	root.Version = version

	if err := root.ExecuteContext(ctx); err != nil {
		if apperr.IsUser(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "[ai-footprint] Error: %v\n", err)
		}
		os.Exit(1)
	}
}
