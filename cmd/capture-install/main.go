// Command capture-install is the npm post-install step of the capture
// package. It downloads the prebuilt capture binary for the host into
// <package-root>/native.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AloisH/capture-cli/internal/platform"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err))
		os.Exit(1)
	}
}

// errorMessage renders err as the single stderr line npm users see: an
// unsupported host is reported bare, everything else as an install failure.
func errorMessage(err error) string {
	var perr *platform.UnsupportedPlatformError
	if errors.As(err, &perr) {
		return perr.Error()
	}
	var aerr *platform.UnsupportedArchitectureError
	if errors.As(err, &aerr) {
		return aerr.Error()
	}
	return "Failed to install capture: " + err.Error()
}
