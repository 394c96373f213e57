package exitcode

import (
	"os"
	"strings"

	"github.com/ovirt-dr/generate-vars/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution. Aborted runs also exit with
	// Success unless strict exit codes are requested.
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// AuthError indicates the management API rejected the credentials
	AuthError = 5

	// NetworkError indicates a network connectivity issue
	NetworkError = 6

	// IOError indicates the output file could not be prepared
	IOError = 7

	// AutomationError indicates the automation runner failed to produce the output
	AutomationError = 8

	// Interrupted indicates the run was cancelled by the operator
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	code := DetermineExitCode(err)
	Exit(code)
}

// ForAbort returns the exit code of an aborted run. Aborts exit with Success
// unless strict is set, in which case the error decides.
func ForAbort(err error, strict bool) int {
	if !strict {
		return Success
	}
	return DetermineExitCode(err)
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	switch code := errors.CodeOf(err); code {
	case "":
	case errors.ErrCodeOutputNotOverwrite:
		// declining the overwrite is an operator choice, not a failure
		return Success
	default:
		switch code.Category() {
		case "CONN":
			return AuthError
		case "IO":
			return IOError
		case "RUN":
			return AutomationError
		case "PROMPT":
			return Interrupted
		case "CONFIG":
			return UsageError
		}
	}

	errMsg := strings.ToLower(err.Error())

	// Authentication errors
	if strings.Contains(errMsg, "authentication") || strings.Contains(errMsg, "unauthorized") {
		return AuthError
	}

	// Network errors
	if strings.Contains(errMsg, "network") || strings.Contains(errMsg, "connection") {
		return NetworkError
	}
	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "unreachable") {
		return NetworkError
	}

	// Usage errors
	if strings.Contains(errMsg, "invalid flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "unknown flag") {
		return UsageError
	}

	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags, arguments or configuration file)"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Network error"
	case IOError:
		return "Output file error"
	case AutomationError:
		return "Automation run did not produce the output file"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
