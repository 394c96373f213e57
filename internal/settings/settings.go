// Package settings loads the generate_vars section of the disaster recovery
// configuration file.
package settings

import (
	"fmt"
	"os"

	"gopkg.in/ini.v1"

	"github.com/ovirt-dr/generate-vars/internal/errors"
)

// Section is the INI section holding the generator settings.
const Section = "generate_vars"

// Recognized keys of the generate_vars section.
const (
	KeySite        = "site"
	KeyUsername    = "username"
	KeyPassword    = "password"
	KeyCAFile      = "ca_file"
	KeyOutputFile  = "output_file"
	KeyAnsiblePlay = "ansible_play"
)

// Keys lists the recognized keys in file order.
var Keys = []string{KeySite, KeyUsername, KeyPassword, KeyCAFile, KeyOutputFile, KeyAnsiblePlay}

// Documented defaults offered when a value has to be prompted for.
const (
	DefaultSite        = "http://localhost:8080/ovirt-engine/api"
	DefaultUsername    = "admin@internal"
	DefaultCAFile      = "/etc/pki/ovirt-engine/ca.pem"
	DefaultOutputFile  = "/var/lib/ovirt-ansible-disaster-recovery/mapping_vars.yml"
	DefaultAnsiblePlay = "../examples/dr_play.yml"
)

// Record holds the six settings of a run. Empty fields are unresolved.
type Record struct {
	Site        string `json:"site" yaml:"site"`
	Username    string `json:"username" yaml:"username"`
	Password    string `json:"password" yaml:"password"`
	CAFile      string `json:"ca_file" yaml:"ca_file"`
	OutputFile  string `json:"output_file" yaml:"output_file"`
	AnsiblePlay string `json:"ansible_play" yaml:"ansible_play"`
}

// Defaults returns the documented default of every key. The password has none.
func Defaults() Record {
	return Record{
		Site:        DefaultSite,
		Username:    DefaultUsername,
		CAFile:      DefaultCAFile,
		OutputFile:  DefaultOutputFile,
		AnsiblePlay: DefaultAnsiblePlay,
	}
}

// Get returns the value of key, or "" for an unknown key.
func (r Record) Get(key string) string {
	if p := r.field(key); p != nil {
		return *p
	}
	return ""
}

// Set assigns value to key. Unknown keys are ignored.
func (r *Record) Set(key, value string) {
	if p := r.field(key); p != nil {
		*p = value
	}
}

func (r *Record) field(key string) *string {
	switch key {
	case KeySite:
		return &r.Site
	case KeyUsername:
		return &r.Username
	case KeyPassword:
		return &r.Password
	case KeyCAFile:
		return &r.CAFile
	case KeyOutputFile:
		return &r.OutputFile
	case KeyAnsiblePlay:
		return &r.AnsiblePlay
	}
	return nil
}

// Missing returns the keys whose value is empty, in file order.
func (r Record) Missing() []string {
	var missing []string
	for _, key := range Keys {
		if r.Get(key) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// Layer returns the first non-empty value, or "" when all are empty.
func Layer(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Merge layers the fields of r over fallback.
func (r Record) Merge(fallback Record) Record {
	var out Record
	for _, key := range Keys {
		out.Set(key, Layer(r.Get(key), fallback.Get(key)))
	}
	return out
}

// Store reads settings from an INI file.
type Store struct {
	path string
}

// NewStore creates a Store for the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the configuration file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the generate_vars section. A missing or unreadable file, a
// missing section and missing keys all resolve to empty values; only a
// malformed file fails. Values are taken verbatim: quotes are kept and a
// trailing backslash does not continue the line.
func (s *Store) Load() (Record, error) {
	var rec Record
	if s.path == "" {
		return rec, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return rec, nil
	}

	cfg, err := ini.LoadSources(ini.LoadOptions{
		Loose:                   true,
		Insensitive:             true,
		IgnoreInlineComment:     true,
		IgnoreContinuation:      true,
		PreserveSurroundedQuote: true,
	}, data)
	if err != nil {
		return rec, errors.NewConfigInvalidError(s.path, err)
	}

	sec := cfg.Section(Section)
	for _, key := range Keys {
		rec.Set(key, sec.Key(key).MustString(""))
	}
	return rec, nil
}

// WriteTemplate writes a configuration file containing every key, filled with
// the values of rec. An existing file is only replaced when force is set.
func (s *Store) WriteTemplate(rec Record, force bool) error {
	if !force {
		if _, err := os.Stat(s.path); err == nil {
			return errors.New(errors.ErrCodeConfigExists, fmt.Sprintf("configuration file already exists: %s", s.path)).
				WithSuggestion("Pass --force to replace it")
		}
	}

	cfg := ini.Empty()
	sec, err := cfg.NewSection(Section)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfigWrite, "failed to create section", err)
	}
	for _, key := range Keys {
		if _, err := sec.NewKey(key, rec.Get(key)); err != nil {
			return errors.Wrap(errors.ErrCodeConfigWrite, fmt.Sprintf("failed to add key %s", key), err)
		}
	}

	if err := cfg.SaveTo(s.path); err != nil {
		return errors.Wrap(errors.ErrCodeConfigWrite, fmt.Sprintf("failed to write configuration file: %s", s.path), err)
	}
	return nil
}
