// Package runner invokes ansible-playbook to generate the mapping file.
package runner

import (
	"fmt"
	"strings"

	"github.com/ovirt-dr/generate-vars/internal/log"
	"github.com/ovirt-dr/generate-vars/internal/settings"
)

const (
	// DefaultRunner is the automation runner looked up on PATH.
	DefaultRunner = "ansible-playbook"
	// Tag selects the mapping generation tasks of the disaster recovery play.
	Tag = "generate_mapping"
	// Verbosity is passed to the runner so the log holds the full task output.
	Verbosity = "-vvvvv"
)

// Invocation is a single automation runner command line.
type Invocation struct {
	Runner string
	Play   string
	vars   settings.Record
}

// NewInvocation builds the invocation generating the mapping file described
// by rec with the given runner executable ("" selects DefaultRunner).
func NewInvocation(runner string, rec settings.Record) Invocation {
	if runner == "" {
		runner = DefaultRunner
	}
	return Invocation{Runner: runner, Play: rec.AnsiblePlay, vars: rec}
}

// ExtraVars returns the inline key=value string passed with -e.
func (i Invocation) ExtraVars() string {
	return extraVars(i.vars, i.vars.Password)
}

func extraVars(rec settings.Record, password string) string {
	return fmt.Sprintf("site=%s username=%s password=%s ca=%s var_file=%s",
		rec.Site, rec.Username, password, rec.CAFile, rec.OutputFile)
}

// Args returns the runner arguments.
func (i Invocation) Args() []string {
	return []string{i.Play, "-t", Tag, "-e", i.ExtraVars(), Verbosity}
}

// String renders the command line for logs with the password masked.
func (i Invocation) String() string {
	args := []string{i.Runner, i.Play, "-t", Tag, "-e", extraVars(i.vars, log.Masked), Verbosity}
	return strings.Join(args, " ")
}
