package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/denoseu/dn-house/internal/cli"
	dnerrors "github.com/denoseu/dn-house/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, dnerrors.UserMessage(err, err.Error()))
		os.Exit(1)
	}
}

// run builds the command tree and executes it. --verbose and the log level
// from the config file are applied by the root command before any
// subcommand runs.
func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}
