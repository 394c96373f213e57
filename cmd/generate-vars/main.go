package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ovirt-dr/generate-vars/internal/cmd"
	"github.com/ovirt-dr/generate-vars/internal/exitcode"
	"github.com/ovirt-dr/generate-vars/internal/ux"
	"github.com/ovirt-dr/generate-vars/internal/workflow"
)

func main() {
	// Create a context that listens for interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		// a second interrupt terminates immediately
		stop()
	}()

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		exitcode.Exit(exitcode.Success)
	}

	// Check if error was due to context cancellation (e.g., Ctrl+C)
	if errors.Is(ctx.Err(), context.Canceled) {
		fmt.Fprintln(os.Stderr, "\nOperation cancelled by user")
		exitcode.Exit(exitcode.Interrupted)
	}

	// aborted runs were already reported on the console and in the log
	var abort *workflow.Abort
	if errors.As(err, &abort) {
		exitcode.Exit(exitcode.ForAbort(err, cmd.StrictExit()))
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", ux.EnhanceError(err))
	exitcode.ExitWithError(err)
}
