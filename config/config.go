// Package config implements the durable preference record (config.toml):
// translation endpoint settings, the primary/secondary language pair and
// the list of languages offered as translation targets.
package config

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/minios-linux/cliptr/language"
)

const (
	// DirName is the per-user configuration directory name.
	DirName = "translator"
	// FileName is the configuration file name inside DirName.
	FileName = "config.toml"

	DefaultAPIURL = "https://openrouter.ai/api/v1"
	DefaultModel  = "openai/gpt-4o"
)

// Config is the persisted preference record.
type Config struct {
	APIURL            string              `toml:"api_url" yaml:"api_url" json:"api_url"`
	ModelVersion      string              `toml:"model_version" yaml:"model_version" json:"model_version"`
	PrimaryLanguage   language.Language   `toml:"primary_language" yaml:"primary_language" json:"primary_language"`
	SecondaryLanguage language.Language   `toml:"secondary_language" yaml:"secondary_language" json:"secondary_language"`
	Languages         []language.Language `toml:"all_target_languages" yaml:"all_target_languages" json:"all_target_languages"`
}

// requiredKeys must be present in a config file for it to parse.
// all_target_languages is optional and defaults when missing.
var requiredKeys = []string{"api_url", "model_version", "primary_language", "secondary_language"}

// DefaultLanguages returns the built-in selectable language list.
func DefaultLanguages() []language.Language {
	return []language.Language{
		language.English,
		language.Russian,
		language.Portuguese,
		language.Ukrainian,
		language.German,
		language.French,
		language.Spanish,
		language.Italian,
		language.Polish,
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIURL:            DefaultAPIURL,
		ModelVersion:      DefaultModel,
		PrimaryLanguage:   language.English,
		SecondaryLanguage: language.French,
		Languages:         DefaultLanguages(),
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Languages = slices.Clone(c.Languages)
	return &out
}

// Selectable reports whether l is one of the configured target languages.
func (c *Config) Selectable(l language.Language) bool {
	return language.Contains(c.Languages, l)
}

// Validate returns load-time warnings: the primary or secondary language
// missing from the selectable list. It does not modify c.
func Validate(c *Config) []string {
	var warnings []string
	if !c.Selectable(c.PrimaryLanguage) {
		warnings = append(warnings, fmt.Sprintf("primary language %s is not in all_target_languages", c.PrimaryLanguage))
	}
	if !c.Selectable(c.SecondaryLanguage) {
		warnings = append(warnings, fmt.Sprintf("secondary language %s is not in all_target_languages", c.SecondaryLanguage))
	}
	return warnings
}

// repairList drops duplicates and restores defaults when nothing is left.
// It reports whether the defaults were used.
func repairList(c *Config) bool {
	c.Languages = language.Dedup(c.Languages)
	if len(c.Languages) == 0 {
		c.Languages = DefaultLanguages()
		return true
	}
	return false
}

// Normalize returns the copy of c that Save persists: the language list is
// deduplicated, restored to defaults if empty, and extended with the primary
// and secondary languages when they are missing.
func Normalize(c *Config) *Config {
	out := c.Clone()
	repairList(out)
	for _, l := range []language.Language{out.PrimaryLanguage, out.SecondaryLanguage} {
		if l.Valid() && !out.Selectable(l) {
			out.Languages = append(out.Languages, l)
		}
	}
	return out
}

// Decode parses a config document. Unknown keys are returned separately so
// the caller can report them without failing.
func Decode(data []byte) (*Config, []string, error) {
	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, nil, err
	}

	var missing []string
	for _, key := range requiredKeys {
		if !md.IsDefined(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("missing required keys: %s", strings.Join(missing, ", "))
	}

	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	return &c, unknown, nil
}

const fileHeader = `# cliptr configuration
# ---------------------
# Languages may be written as ISO 639-1 codes ("EN") or English names ("English").
# all_target_languages lists the languages offered as translation targets.

`

// Encode renders c as a TOML document.
func Encode(c *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}
