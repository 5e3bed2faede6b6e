// Package main is the entry point for the compass CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/compass/cmd/compass/commands"
	"go.trai.ch/compass/internal/app"
	"go.trai.ch/compass/internal/core/domain"
	_ "go.trai.ch/compass/internal/wiring"
)

func main() {
	os.Exit(run())
}

// run builds the node graph and executes the command line. opts adjust the
// App before any command runs.
func run(opts ...func(*app.App)) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// No logger exists when the graph fails to build.
		reportInitError(os.Stderr, err)
		return 1
	}

	for _, opt := range opts {
		opt(components.App)
	}

	if err := commands.New(components.App).Execute(ctx); err != nil {
		components.App.ReportError(err)
		return 1
	}
	return 0
}

func reportInitError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %v\nHint: %s\n", err, domain.Remediation(err))
}
