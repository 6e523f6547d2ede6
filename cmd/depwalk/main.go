package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/depwalk/depwalk/internal/cli"
	dwerrors "github.com/depwalk/depwalk/pkg/errors"
)

// Exit codes. Validation failures and missing fixtures get distinct codes
// so scripts can tell them apart from transient failures.
const (
	exitError      = 1
	exitValidation = 2
	exitFixture    = 3
	exitInterrupt  = 130
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(exitInterrupt)
		}
		fmt.Fprintln(os.Stderr, dwerrors.UserMessage(err))
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	originalPreRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := cli.LogInfo
		if verbose {
			level = cli.LogDebug
		}
		c.SetLogLevel(level)

		if originalPreRun != nil {
			return originalPreRun(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}

// exitCode maps structured error codes to process exit codes.
func exitCode(err error) int {
	switch dwerrors.GetCode(err) {
	case dwerrors.ErrCodeInvalidInput,
		dwerrors.ErrCodeInvalidCoordinate,
		dwerrors.ErrCodeInvalidPackage,
		dwerrors.ErrCodeInvalidMode,
		dwerrors.ErrCodeInvalidFormat:
		return exitValidation
	case dwerrors.ErrCodeFixtureUnavailable:
		return exitFixture
	}
	return exitError
}
