package engine

import (
	"context"
	"strings"

	"github.com/ovirt-dr/generate-vars/internal/log"
)

// Result is the outcome of a credential probe.
type Result struct {
	OK bool
	// Reason describes the failure with the password scrubbed. Empty when OK.
	Reason string
	// DataCenters is the number of data centers listed by a successful probe.
	DataCenters int
}

// Validator checks credentials by listing the engine's data centers.
type Validator struct {
	logger *log.Logger
}

// NewValidator creates a Validator.
func NewValidator(logger *log.Logger) *Validator {
	if logger == nil {
		logger = log.Discard()
	}
	return &Validator{logger: logger}
}

// Validate connects with creds and lists data centers. It never returns an
// error: every failure becomes a Result with OK unset. The client is closed
// before Validate returns.
func (v *Validator) Validate(ctx context.Context, creds Credentials) Result {
	client, err := NewClient(creds)
	if err != nil {
		return v.fail(creds, err)
	}
	defer client.Close()

	dcs, err := client.ListDataCenters(ctx)
	if err != nil {
		return v.fail(creds, err)
	}

	v.logger.Debug("connection validated", "url", creds.URL, "username", creds.Username, "data_centers", len(dcs))
	return Result{OK: true, DataCenters: len(dcs)}
}

func (v *Validator) fail(creds Credentials, err error) Result {
	reason := scrub(err.Error(), creds.Password)
	v.logger.Error("Connection to setup has failed. Please check your credentials",
		"url", scrub(creds.URL, creds.Password),
		"username", creds.Username,
		"ca_file", creds.CAFile,
		"error", reason)
	return Result{Reason: reason}
}

func scrub(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, log.Masked)
}
