// Package utils provides utility functions for the apicase application.
package utils

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// NewCtx returns a context that is cancelled on SIGINT or SIGTERM.
func NewCtx() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigs:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigs)
	}()

	return ctx
}
