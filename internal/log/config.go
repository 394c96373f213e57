package log

import (
	"fmt"
	"io"
	"os"
)

// Format represents the output format for logs
type Format int

const (
	// FormatText outputs logs as "time=... level=... msg=..." lines
	FormatText Format = iota
	// FormatJSON outputs one JSON object per record
	FormatJSON
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	default:
		return "text"
	}
}

// ParseFormat parses a string into a Format
func ParseFormat(s string) Format {
	switch s {
	case "json", "JSON":
		return FormatJSON
	default:
		return FormatText
	}
}

// Output is where log records are written. Outputs backed by a file own it
// and release it on Close.
type Output struct {
	writer io.Writer
	closer io.Closer
	path   string
}

// Writer returns the underlying io.Writer
func (o Output) Writer() io.Writer {
	if o.writer == nil {
		return os.Stdout
	}
	return o.writer
}

// Path returns the log file path, or "" for stream outputs.
func (o Output) Path() string {
	return o.path
}

// IsFile reports whether records go to a log file rather than the console.
func (o Output) IsFile() bool {
	return o.path != ""
}

// Close releases the log file, if any.
func (o Output) Close() error {
	if o.closer == nil {
		return nil
	}
	return o.closer.Close()
}

// NewOutput creates an Output from an io.Writer
func NewOutput(w io.Writer) Output {
	return Output{writer: w}
}

// OutputStdout creates an Output that writes to stdout
func OutputStdout() Output {
	return Output{writer: os.Stdout}
}

// OpenFile opens path in append mode, creating it when missing.
// An empty path selects stdout.
func OpenFile(path string) (Output, error) {
	if path == "" {
		return OutputStdout(), nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return Output{}, fmt.Errorf("open log file %s: %w", path, err)
	}
	return Output{writer: f, closer: f, path: path}, nil
}

// Config holds configuration for the logger
type Config struct {
	// Level is the minimum log level to output
	Level Level

	// Format is the output format (Text or JSON)
	Format Format

	// Output is where logs should be written
	Output Output

	// AddSource includes source file and line number in logs
	AddSource bool

	// ServiceName is attached to every record as "service"
	ServiceName string
}

// DefaultConfig logs at DEBUG level in text format to stdout, which matches
// what operators of the disaster recovery tooling expect to find in the log.
func DefaultConfig() Config {
	return Config{
		Level:       LevelDebug,
		Format:      FormatText,
		Output:      OutputStdout(),
		ServiceName: "generate-vars",
	}
}
