package runner

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ovirt-dr/generate-vars/internal/errors"
	"github.com/ovirt-dr/generate-vars/internal/log"
)

// Runner executes automation runner invocations.
type Runner struct {
	logger *log.Logger
}

// New creates a Runner.
func New(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Discard()
	}
	return &Runner{logger: logger}
}

// Run starts inv and streams both of its output pipes into sink until the
// process exits. The exit status is logged but not returned: whether the run
// worked is decided by the presence of the output file. An error is only
// returned when the process cannot be started.
func (r *Runner) Run(ctx context.Context, inv Invocation, sink Sink) error {
	r.logger.Info("Executing command", "command", inv.String())

	cmd := exec.CommandContext(ctx, inv.Runner, inv.Args()...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.NewRunnerStartError(inv.Runner, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return errors.NewRunnerStartError(inv.Runner, err)
	}

	if err := cmd.Start(); err != nil {
		return errors.NewRunnerStartError(inv.Runner, err)
	}

	// Both pipes must be drained at once: a child blocked on a full stderr
	// buffer never closes stdout.
	var g errgroup.Group
	g.Go(func() error { return drain(stdout, sink.Stdout) })
	g.Go(func() error { return drain(stderr, sink.Stderr) })
	if err := g.Wait(); err != nil {
		r.logger.Warn("reading runner output failed", "error", err.Error())
	}

	if err := cmd.Wait(); err != nil {
		r.logger.Warn("automation runner exited with an error", "runner", inv.Runner, "error", err.Error())
		return nil
	}
	r.logger.Debug("automation runner finished", "runner", inv.Runner)
	return nil
}

func drain(r io.Reader, emit func(string)) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			emit(strings.TrimRight(line, "\r\n"))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
