package prompt

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/huh"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovirt-dr/generate-vars/internal/console"
	"github.com/ovirt-dr/generate-vars/internal/errors"
	"github.com/ovirt-dr/generate-vars/internal/settings"
)

// recorder answers from a fixed list and records every question.
type recorder struct {
	answers   []string
	questions []string
	secrets   int
}

func (r *recorder) Ask(message string) (string, error) {
	r.questions = append(r.questions, message)
	if len(r.answers) == 0 {
		return "", io.EOF
	}
	a := r.answers[0]
	r.answers = r.answers[1:]
	return a, nil
}

func (r *recorder) AskSecret(message string) (string, error) {
	r.secrets++
	return r.Ask(message)
}

func writePlay(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dr_play.yml")
	require.NoError(t, os.WriteFile(path, []byte("- hosts: localhost\n"), 0o644))
	return path
}

func fullRecord(play string) settings.Record {
	return settings.Record{
		Site:        "https://engine/ovirt-engine/api",
		Username:    "admin@internal",
		Password:    "secret",
		CAFile:      "/etc/pki/ovirt-engine/ca.pem",
		OutputFile:  "/tmp/mapping_vars.yml",
		AnsiblePlay: play,
	}
}

func TestResolveCompleteRecordAsksNothing(t *testing.T) {
	rec := fullRecord(writePlay(t))
	p := &recorder{}

	got, err := NewResolver(p, nil).Resolve(rec)

	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.Empty(t, p.questions)
}

func TestResolveEmptyInputsUseDefaults(t *testing.T) {
	play := writePlay(t)
	// site, username: bare enter; password: two empty tries then a value;
	// ca_file, output_file: bare enter; ansible_play: a real file.
	p := &recorder{answers: []string{"", "", "", "", "pw", "", "", play}}

	got, err := NewResolver(p, nil).Resolve(settings.Record{})

	require.NoError(t, err)
	assert.Equal(t, settings.Record{
		Site:        settings.DefaultSite,
		Username:    settings.DefaultUsername,
		Password:    "pw",
		CAFile:      settings.DefaultCAFile,
		OutputFile:  settings.DefaultOutputFile,
		AnsiblePlay: play,
	}, got)
	assert.Len(t, p.questions, 8)
	assert.Equal(t, 3, p.secrets)
	assert.Contains(t, p.questions[2], "password for username admin@internal")
}

func TestResolvePasswordHasNoDefault(t *testing.T) {
	rec := fullRecord(writePlay(t))
	rec.Password = ""
	p := &recorder{answers: []string{"", "", "", "", ""}}

	_, err := NewResolver(p, nil).Resolve(rec)

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodePromptInputClosed, errors.CodeOf(err))
	assert.Len(t, p.questions, 6)
	assert.Equal(t, 6, p.secrets)
}

func TestResolveRejectsMissingPlay(t *testing.T) {
	play := writePlay(t)
	rec := fullRecord(filepath.Join(t.TempDir(), "missing.yml"))
	p := &recorder{answers: []string{"/nonexistent/play.yml", filepath.Dir(play), play}}

	got, err := NewResolver(p, nil).Resolve(rec)

	require.NoError(t, err)
	assert.Equal(t, play, got.AnsiblePlay)
	require.Len(t, p.questions, 3)
	assert.Contains(t, p.questions[1], "'/nonexistent/play.yml'")
	assert.Contains(t, p.questions[2], fmt.Sprintf("'%s'", filepath.Dir(play)))
}

func TestResolveKeepsPromptingForPlayUntilInputEnds(t *testing.T) {
	rec := fullRecord("")
	p := &recorder{answers: []string{"", ""}}

	_, err := NewResolver(p, nil).Resolve(rec)

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodePromptInputClosed, errors.CodeOf(err))
	assert.Len(t, p.questions, 3)
}

type abortingPrompter struct{}

func (abortingPrompter) Ask(string) (string, error)       { return "", huh.ErrUserAborted }
func (abortingPrompter) AskSecret(string) (string, error) { return "", huh.ErrUserAborted }

func TestResolveCancelled(t *testing.T) {
	_, err := NewResolver(abortingPrompter{}, nil).Resolve(settings.Record{})

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodePromptCancelled, errors.CodeOf(err))
}

func TestResolveWithLinePrompter(t *testing.T) {
	play := writePlay(t)
	var out bytes.Buffer
	in := strings.NewReader("https://dr/api\n\n  pass word \n/tmp/ca.pem\n/tmp/out.yml\n" + play)

	got, err := NewResolver(NewLinePrompter(in, console.Plain(&out)), nil).Resolve(settings.Record{})

	require.NoError(t, err)
	assert.Equal(t, "https://dr/api", got.Site)
	assert.Equal(t, settings.DefaultUsername, got.Username)
	assert.Equal(t, "  pass word ", got.Password)
	assert.Equal(t, "/tmp/ca.pem", got.CAFile)
	assert.Equal(t, "/tmp/out.yml", got.OutputFile)
	assert.Equal(t, play, got.AnsiblePlay)
	assert.Equal(t, 6, strings.Count(out.String(), console.Prefix))
	assert.NotContains(t, out.String(), "pass word")
}

func TestResolveWhitespaceAnswerTakesDefault(t *testing.T) {
	rec := fullRecord(writePlay(t))
	rec.Site, rec.Username = "", ""
	in := strings.NewReader("   \n\t\n")

	got, err := NewResolver(NewLinePrompter(in, console.Plain(io.Discard)), nil).Resolve(rec)

	require.NoError(t, err)
	assert.Equal(t, settings.DefaultSite, got.Site)
	assert.Equal(t, settings.DefaultUsername, got.Username)
}

func TestResolveNeverAsksForPopulatedKeys_Property(t *testing.T) {
	play := writePlay(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("only empty keys are asked for", prop.ForAll(
		func(mask uint8) bool {
			full := fullRecord(play)
			var rec settings.Record
			populated := map[string]bool{}
			for i, key := range settings.Keys {
				if mask&(1<<i) != 0 {
					rec.Set(key, full.Get(key))
					populated[key] = true
				}
			}

			// every question is answered with the value of the full record
			var answers []string
			for _, key := range settings.Keys {
				if !populated[key] {
					answers = append(answers, full.Get(key))
				}
			}
			p := &recorder{answers: answers}

			got, err := NewResolver(p, nil).Resolve(rec)
			if err != nil {
				return false
			}
			return got == full && len(p.questions) == 6-len(populated)
		},
		gen.UInt8Range(0, 63),
	))

	properties.TestingRun(t)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name      string
		answers   []string
		want      bool
		wantAsked int
	}{
		{"yes", []string{"yes"}, true, 1},
		{"upper Y", []string{"Y"}, true, 1},
		{"ye", []string{"ye"}, true, 1},
		{"no", []string{"No"}, false, 1},
		{"n", []string{"n"}, false, 1},
		{"retry until recognized", []string{"maybe", "", "yess", "n"}, false, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &recorder{answers: tt.answers}

			got, err := Confirm(p, "override?", "Please respond with 'yes' or 'no':")

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			require.Len(t, p.questions, tt.wantAsked)
			assert.Equal(t, "override?", p.questions[0])
			for _, q := range p.questions[1:] {
				assert.Equal(t, "Please respond with 'yes' or 'no':", q)
			}
		})
	}
}

func TestConfirmInputClosed(t *testing.T) {
	_, err := Confirm(&recorder{answers: []string{"what"}}, "q", "r")

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodePromptInputClosed, errors.CodeOf(err))
}

func TestLinePrompterEOFWithoutNewline(t *testing.T) {
	p := NewLinePrompter(strings.NewReader("last"), console.Plain(io.Discard))

	got, err := p.Ask("q")
	require.NoError(t, err)
	assert.Equal(t, "last", got)

	_, err = p.Ask("q")
	assert.ErrorIs(t, err, io.EOF)
}

func TestNewWithoutTerminalUsesLines(t *testing.T) {
	c := console.Plain(io.Discard)

	assert.IsType(t, &LinePrompter{}, New(strings.NewReader("x\n"), c, false))
	assert.IsType(t, &LinePrompter{}, New(strings.NewReader("x\n"), c, true))
	assert.False(t, IsInteractive(strings.NewReader("")))
}
