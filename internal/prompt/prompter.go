package prompt

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/ovirt-dr/generate-vars/internal/console"
)

// Prompter asks the operator for a single value.
type Prompter interface {
	// Ask shows message and returns the answer.
	Ask(message string) (string, error)
	// AskSecret is like Ask but the answer is not echoed where the
	// implementation can avoid it.
	AskSecret(message string) (string, error)
}

// LinePrompter reads one answer per line from a stream. It is used when
// stdin is not a terminal and in tests. Secrets are read like any other
// line since there is no terminal to turn echo off on.
type LinePrompter struct {
	in      *bufio.Reader
	console *console.Presenter
}

// NewLinePrompter creates a LinePrompter reading from in and printing
// questions through p.
func NewLinePrompter(in io.Reader, p *console.Presenter) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), console: p}
}

// Ask prints message and reads the next line, trimmed of surrounding space.
func (l *LinePrompter) Ask(message string) (string, error) {
	line, err := l.readLine(message)
	return strings.TrimSpace(line), err
}

// AskSecret prints message and reads the next line, keeping inner and
// surrounding spaces other than the line terminator.
func (l *LinePrompter) AskSecret(message string) (string, error) {
	return l.readLine(message)
}

func (l *LinePrompter) readLine(message string) (string, error) {
	l.console.Prompt("%s", message)
	line, err := l.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// FormPrompter asks through huh input forms. Secrets use password echo mode.
type FormPrompter struct {
	console *console.Presenter
}

// NewFormPrompter creates a FormPrompter titling its forms through p.
func NewFormPrompter(p *console.Presenter) *FormPrompter {
	return &FormPrompter{console: p}
}

// Ask shows an input form titled message.
func (f *FormPrompter) Ask(message string) (string, error) {
	value, err := f.run(message, huh.EchoModeNormal)
	return strings.TrimSpace(value), err
}

// AskSecret shows a masked input form titled message.
func (f *FormPrompter) AskSecret(message string) (string, error) {
	return f.run(message, huh.EchoModePassword)
}

func (f *FormPrompter) run(message string, mode huh.EchoMode) (string, error) {
	var value string

	input := huh.NewInput().
		Title(f.console.PromptText("%s", message)).
		EchoMode(mode).
		Value(&value)

	form := huh.NewForm(huh.NewGroup(input)).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return "", err
	}
	return value, nil
}

// IsInteractive returns true if in is a terminal (not piped)
func IsInteractive(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// New picks the FormPrompter when in is a terminal and a LinePrompter over
// in otherwise. plain forces the LinePrompter.
func New(in io.Reader, p *console.Presenter, plain bool) Prompter {
	if !plain && IsInteractive(in) {
		return NewFormPrompter(p)
	}
	return NewLinePrompter(in, p)
}
