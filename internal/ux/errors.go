package ux

import (
	"errors"
	"fmt"
	"strings"

	drerrors "github.com/ovirt-dr/generate-vars/internal/errors"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\nSuggestion: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError adds a suggestion to errors that do not carry one. Coded
// errors are returned unchanged since they list their own suggestions.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	var coded *drerrors.Error
	if errors.As(err, &coded) {
		return err
	}

	errMsg := err.Error()

	if strings.Contains(errMsg, "unknown flag") || strings.Contains(errMsg, "unknown command") ||
		strings.Contains(errMsg, "invalid flag") || strings.Contains(errMsg, "invalid argument") {
		return NewErrorWithSuggestion(err, "Run 'generate-vars --help' to list the available commands and flags")
	}

	if strings.Contains(errMsg, "log file") {
		if strings.Contains(errMsg, "permission denied") {
			return NewErrorWithSuggestion(err,
				"Choose a writable location with --log-file, or pass --log-file '' to log to the console")
		}
		if strings.Contains(errMsg, "no such file or directory") {
			return NewErrorWithSuggestion(err, "Create the log directory or choose another path with --log-file")
		}
	}

	if strings.Contains(errMsg, "permission denied") {
		return NewErrorWithSuggestion(err,
			"Check file permissions and ensure you have access to the required files/directories")
	}

	if strings.Contains(errMsg, "no such file or directory") {
		return NewErrorWithSuggestion(err,
			"Check the path, or run 'generate-vars config init' to create a configuration file")
	}

	return err
}

// FormatError provides consistent error formatting with context
func FormatError(err error, context string) error {
	if err == nil {
		return nil
	}

	enhanced := EnhanceError(err)
	if context != "" {
		return fmt.Errorf("%s: %w", context, enhanced)
	}
	return enhanced
}
