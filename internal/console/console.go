// Package console renders operator-facing messages. Styling is carried by a
// Presenter value so callers and tests choose where output goes and whether
// it is colored.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Prefix starts every operator-facing message.
const Prefix = "[Generate Mapping File] "

// Presenter writes styled messages to a single writer.
type Presenter struct {
	out io.Writer

	info  lipgloss.Style
	input lipgloss.Style
	warn  lipgloss.Style
	fail  lipgloss.Style
}

// Options configures a Presenter.
type Options struct {
	// Writer receives all output (defaults to os.Stdout)
	Writer io.Writer
	// NoColor renders every message without terminal styling
	NoColor bool
}

// New creates a Presenter. Colors follow the capabilities of the writer, so
// a non-terminal writer gets plain text even when NoColor is false.
func New(opts Options) *Presenter {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	p := &Presenter{out: opts.Writer}
	if opts.NoColor {
		plain := lipgloss.NewStyle()
		p.info, p.input, p.warn, p.fail = plain, plain, plain, plain
		return p
	}

	r := lipgloss.NewRenderer(opts.Writer)
	p.info = r.NewStyle().Foreground(lipgloss.Color("2"))
	p.input = r.NewStyle().Foreground(lipgloss.Color("2"))
	p.warn = r.NewStyle().Foreground(lipgloss.Color("3"))
	p.fail = r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	return p
}

// Plain returns a Presenter that never styles output.
func Plain(w io.Writer) *Presenter {
	return New(Options{Writer: w, NoColor: true})
}

// Writer returns the destination of the Presenter.
func (p *Presenter) Writer() io.Writer {
	return p.out
}

// Success prints a prefixed success message on its own line.
func (p *Presenter) Success(format string, args ...any) {
	p.line(p.info, format, args...)
}

// Warn prints a prefixed warning on its own line.
func (p *Presenter) Warn(format string, args ...any) {
	p.line(p.warn, format, args...)
}

// Fail prints a prefixed failure message on its own line.
func (p *Presenter) Fail(format string, args ...any) {
	p.line(p.fail, format, args...)
}

// Prompt prints a prefixed question without a trailing newline.
func (p *Presenter) Prompt(format string, args ...any) {
	fmt.Fprint(p.out, p.input.Render(Prefix+fmt.Sprintf(format, args...))+" ")
}

// Echo prints text in the failure style without the prefix. Lines written by
// the automation runner on stderr are echoed this way.
func (p *Presenter) Echo(text string) {
	fmt.Fprintln(p.out, p.fail.Render(text))
}

// PromptText renders a question the way Prompt would print it, for prompt
// implementations that draw their own input widget.
func (p *Presenter) PromptText(format string, args ...any) string {
	return Prefix + fmt.Sprintf(format, args...)
}

func (p *Presenter) line(style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(p.out, style.Render(Prefix+fmt.Sprintf(format, args...)))
}
