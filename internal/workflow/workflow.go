// Package workflow runs a single mapping file generation: load settings,
// resolve missing values, validate the connection, guard the output path,
// invoke the automation runner and check its result.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ovirt-dr/generate-vars/internal/console"
	"github.com/ovirt-dr/generate-vars/internal/engine"
	drerrors "github.com/ovirt-dr/generate-vars/internal/errors"
	"github.com/ovirt-dr/generate-vars/internal/log"
	"github.com/ovirt-dr/generate-vars/internal/output"
	"github.com/ovirt-dr/generate-vars/internal/prompt"
	"github.com/ovirt-dr/generate-vars/internal/runner"
	"github.com/ovirt-dr/generate-vars/internal/settings"
)

const (
	msgStart   = "Start generate variable mapping file for oVirt ansible disaster recovery"
	msgSuccess = "Finished generating variable mapping file for oVirt ansible disaster recovery."
	msgFailure = "Failed to generate var file."
)

// Stage names a step of the run.
type Stage string

const (
	StageLoad     Stage = "load_settings"
	StageResolve  Stage = "resolve_prompts"
	StageValidate Stage = "validate_connection"
	StageGuard    Stage = "guard_output_path"
	StageInvoke   Stage = "invoke_automation"
	StageCheck    Stage = "check_result"
)

// Abort ends a run early. The process exit status for an Abort is decided
// by the caller.
type Abort struct {
	Stage Stage
	Err   error
}

func (a *Abort) Error() string {
	return fmt.Sprintf("%s: %v", a.Stage, a.Err)
}

func (a *Abort) Unwrap() error {
	return a.Err
}

// Validator probes the management API with a set of credentials.
type Validator interface {
	Validate(ctx context.Context, creds engine.Credentials) engine.Result
}

// Invoker runs the automation play.
type Invoker interface {
	Run(ctx context.Context, inv runner.Invocation, sink runner.Sink) error
}

// Config contains the collaborators of a run
type Config struct {
	// Store is the settings file the run starts from
	Store *settings.Store
	// Prompter asks the operator for missing values and confirmations
	Prompter prompt.Prompter
	// Console receives operator-facing messages
	Console *console.Presenter
	// Logger receives the run's records. When its output is a file the
	// runner's output is appended to the same file.
	Logger *log.Logger
	// Validator defaults to an engine.Validator logging to the run's logger
	Validator Validator
	// Invoker defaults to a runner.Runner logging to the run's logger
	Invoker Invoker
	// Runner is the automation runner executable (defaults to ansible-playbook)
	Runner string
}

// Result describes a successful run
type Result struct {
	RunID       string
	DataCenters int
	Artifact    *output.Artifact
	Duration    time.Duration
}

// Workflow orchestrates a mapping file generation
type Workflow struct {
	config Config
}

// NewWorkflow creates a new workflow
func NewWorkflow(config Config) *Workflow {
	if config.Logger == nil {
		config.Logger = log.Discard()
	}
	if config.Console == nil {
		config.Console = console.New(console.Options{})
	}
	return &Workflow{config: config}
}

// Execute performs one run. Every failure is returned as an *Abort after it
// has been reported on the console and in the log.
func (w *Workflow) Execute(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := w.config.Logger.With("run_id", runID)
	logger.Info(msgStart)

	rec, err := w.config.Store.Load()
	if err != nil {
		return nil, w.abort(logger, StageLoad, err)
	}

	rec, err = prompt.NewResolver(w.config.Prompter, logger).Resolve(rec)
	if err != nil {
		return nil, w.abort(logger, StageResolve, err)
	}
	logSummary(logger, rec)

	validator := w.config.Validator
	if validator == nil {
		validator = engine.NewValidator(logger)
	}
	probe := validator.Validate(ctx, engine.Credentials{
		URL:      rec.Site,
		Username: rec.Username,
		Password: rec.Password,
		CAFile:   rec.CAFile,
	})
	if !probe.OK {
		w.config.Console.Fail("Connection to setup has failed. Please check your credentials:")
		w.config.Console.Fail("URL: %s", rec.Site)
		w.config.Console.Fail("USER: %s", rec.Username)
		w.config.Console.Fail("CA file: %s", rec.CAFile)
		return nil, w.abort(logger, StageValidate,
			drerrors.NewConnectionFailedError(rec.Site, rec.Username, rec.CAFile, probe.Reason))
	}

	guard := output.NewGuard(w.config.Prompter, w.config.Console, logger)
	if err := guard.Prepare(rec.OutputFile); err != nil {
		return nil, w.abort(logger, StageGuard, err)
	}

	invoker := w.config.Invoker
	if invoker == nil {
		invoker = runner.New(logger)
	}
	inv := runner.NewInvocation(w.config.Runner, rec)
	if err := invoker.Run(ctx, inv, w.sink(logger)); err != nil {
		return nil, w.abort(logger, StageInvoke, err)
	}

	artifact, err := output.Check(rec.OutputFile, logger)
	if err != nil {
		return nil, w.abort(logger, StageCheck, err)
	}

	logger.Info(msgSuccess, "duration", time.Since(start).String())
	w.config.Console.Success(msgSuccess)

	return &Result{
		RunID:       runID,
		DataCenters: probe.DataCenters,
		Artifact:    artifact,
		Duration:    time.Since(start),
	}, nil
}

// sink selects where the runner's output goes: appended to the log file
// when there is one, through the logger otherwise.
func (w *Workflow) sink(logger *log.Logger) runner.Sink {
	if out := logger.Config().Output; out.IsFile() {
		return runner.NewFileSink(out.Writer(), w.config.Console)
	}
	return runner.NewLogSink(logger)
}

// abort reports err and wraps it. Output path failures carry their own
// operator message; every other stage ends with the generic failure line.
func (w *Workflow) abort(logger *log.Logger, stage Stage, err error) *Abort {
	logger.With("stage", string(stage)).LogError(msgFailure, err)

	if stage != StageValidate && stage != StageCheck {
		w.config.Console.Fail("%s", operatorMessage(err))
	}
	if stage != StageGuard {
		w.config.Console.Fail(msgFailure)
	}

	return &Abort{Stage: stage, Err: err}
}

func operatorMessage(err error) string {
	var coded *drerrors.Error
	if errors.As(err, &coded) {
		return coded.Message
	}
	return err.Error()
}

func logSummary(logger *log.Logger, rec settings.Record) {
	logger.Info("resolved settings",
		"site", rec.Site,
		"username", rec.Username,
		"password", "*******",
		"ca_file", rec.CAFile,
		"output_file", rec.OutputFile,
		"ansible_play", rec.AnsiblePlay)
}
