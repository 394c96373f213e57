package runner

import (
	"fmt"
	"io"
	"sync"

	"github.com/ovirt-dr/generate-vars/internal/console"
	"github.com/ovirt-dr/generate-vars/internal/log"
)

// Sink receives the runner's output one line at a time. Stdout and Stderr
// are called from different goroutines.
type Sink interface {
	Stdout(line string)
	Stderr(line string)
}

// FileSink appends every line to a log file and echoes stderr lines to the
// console in the failure style.
type FileSink struct {
	mu      sync.Mutex
	w       io.Writer
	console *console.Presenter
}

// NewFileSink creates a FileSink writing to w.
func NewFileSink(w io.Writer, c *console.Presenter) *FileSink {
	return &FileSink{w: w, console: c}
}

func (s *FileSink) Stdout(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, line)
}

func (s *FileSink) Stderr(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, line)
	s.console.Echo(line)
}

// LogSink forwards stdout lines at INFO and stderr lines at ERROR.
type LogSink struct {
	logger *log.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *log.Logger) *LogSink {
	return &LogSink{logger: logger.With("source", "ansible")}
}

func (s *LogSink) Stdout(line string) { s.logger.Info(line) }
func (s *LogSink) Stderr(line string) { s.logger.Error(line) }
