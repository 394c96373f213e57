package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid ErrorCode = "CONFIG-001"
	ErrCodeConfigExists  ErrorCode = "CONFIG-002"
	ErrCodeConfigWrite   ErrorCode = "CONFIG-003"

	// Prompt errors (PROMPT-001 to PROMPT-099)
	ErrCodePromptInputClosed ErrorCode = "PROMPT-001"
	ErrCodePromptCancelled   ErrorCode = "PROMPT-002"

	// Connection errors (CONN-001 to CONN-099)
	ErrCodeConnectionFailed ErrorCode = "CONN-001"

	// Output file errors (IO-001 to IO-099)
	ErrCodeOutputDirFailed    ErrorCode = "IO-001"
	ErrCodeOutputNotOverwrite ErrorCode = "IO-002"
	ErrCodeOutputRemoveFailed ErrorCode = "IO-003"

	// Automation runner errors (RUN-001 to RUN-099)
	ErrCodeRunnerStartFailed ErrorCode = "RUN-001"
	ErrCodeOutputMissing     ErrorCode = "RUN-002"
)

// Category returns the prefix of the code, e.g. "CONN" for "CONN-001".
func (c ErrorCode) Category() string {
	if i := strings.IndexByte(string(c), '-'); i > 0 {
		return string(c)[:i]
	}
	return string(c)
}

// Error represents an error with a code, recovery suggestions and an optional cause
type Error struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new Error wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *Error) WithSuggestions(suggestions ...string) *Error {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *Error) WithDocs(url string) *Error {
	e.DocsURL = url
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}

// NewConfigInvalidError creates a malformed configuration file error
func NewConfigInvalidError(path string, cause error) *Error {
	return Wrap(ErrCodeConfigInvalid, fmt.Sprintf("failed to parse configuration file: %s", path), cause).
		WithSuggestion("Check that the file is a valid INI file").
		WithSuggestion("Settings must live under the [generate_vars] section")
}

// NewInputClosedError is returned when the operator's input ends while a value is still required
func NewInputClosedError(field string) *Error {
	return New(ErrCodePromptInputClosed, fmt.Sprintf("input closed before a value for %q was provided", field)).
		WithSuggestion(fmt.Sprintf("Set %s in the [generate_vars] section of the configuration file", field)).
		WithSuggestion("Run the command from an interactive terminal")
}

// NewPromptCancelledError is returned when the operator cancels an interactive prompt
func NewPromptCancelledError(cause error) *Error {
	return Wrap(ErrCodePromptCancelled, "prompt cancelled by user", cause)
}

// NewConnectionFailedError creates a credential validation error. The password is never part of it.
func NewConnectionFailedError(url, username, caFile, reason string) *Error {
	return New(ErrCodeConnectionFailed, fmt.Sprintf("connection to %s as %s failed: %s", url, username, reason)).
		WithSuggestion("Check the site URL, username and password").
		WithSuggestion(fmt.Sprintf("Check that the CA file %s matches the engine certificate", caFile))
}

// NewOutputDirError creates an error for an output directory that could not be created
func NewOutputDirError(dir string, cause error) *Error {
	return Wrap(ErrCodeOutputDirFailed, fmt.Sprintf("failed to create output directory: %s", dir), cause).
		WithSuggestion("Verify you have write permissions on the parent directory")
}

// NewOutputNotOverwrittenError is returned when the operator declines to overwrite the output file
func NewOutputNotOverwrittenError(path string) *Error {
	return New(ErrCodeOutputNotOverwrite, fmt.Sprintf("Failed to create output file. File %s could not be overridden.", path)).
		WithSuggestion("Choose a different output_file or move the existing file away")
}

// NewOutputRemoveError creates an error for an existing output file that could not be removed
func NewOutputRemoveError(path string, cause error) *Error {
	return Wrap(ErrCodeOutputRemoveFailed, fmt.Sprintf("File %s could not be replaced.", path), cause).
		WithSuggestion("Verify you have write permissions on the file and its directory")
}

// NewRunnerStartError creates an error for an automation runner that could not be started
func NewRunnerStartError(runner string, cause error) *Error {
	return Wrap(ErrCodeRunnerStartFailed, fmt.Sprintf("failed to start %s", runner), cause).
		WithSuggestion("Install ansible or pass the runner path with --ansible-playbook").
		WithDocs("https://docs.ansible.com/ansible/latest/installation_guide/")
}

// NewOutputMissingError is returned when the automation run finished without producing the output file
func NewOutputMissingError(path string) *Error {
	return New(ErrCodeOutputMissing, fmt.Sprintf("Can not find output file in '%s'.", path)).
		WithSuggestion("Inspect the log file for ansible errors").
		WithSuggestion("Check that the play defines the generate_mapping tag")
}
