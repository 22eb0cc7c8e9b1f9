package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minios-linux/cliptr/atomicfile"
	"github.com/minios-linux/cliptr/language"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), DirName), slog.New(slog.DiscardHandler))
}

func TestLoadFirstRunWritesDefaults(t *testing.T) {
	s := newTestStore(t)

	cfg, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err, "first load should create the config file")
	onDisk, _, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, Default(), onDisk)
}

func TestLoadInvalidFileIsBackedUp(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))

	garbage := "this is = = not toml [[[\n\x00"
	require.NoError(t, os.WriteFile(s.Path(), []byte(garbage), 0o644))

	cfg, err := s.Load()
	require.ErrorIs(t, err, ErrParseFailed)
	assert.Equal(t, Default(), cfg)

	backup := s.Path() + ".invalid_1700000000"
	got, readErr := os.ReadFile(backup)
	require.NoError(t, readErr, "backup should exist")
	assert.Equal(t, garbage, string(got), "backup must keep the original bytes")

	reloaded, err := s.Load()
	require.NoError(t, err, "defaults should have been written in place of the invalid file")
	assert.Equal(t, Default(), reloaded)
}

func TestBackupPathAvoidsCollisions(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.Unix(42, 0) }
	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))

	first := s.backupPath(s.Path())
	assert.Equal(t, s.Path()+".invalid_42", first)

	require.NoError(t, os.WriteFile(first, nil, 0o644))
	assert.Equal(t, s.Path()+".invalid_42_1", s.backupPath(s.Path()))
}

// deepDir creates a directory under a temp dir such that
// filepath.Join(dir, FileName) is exactly total bytes long.
func deepDir(t *testing.T, total int) string {
	t.Helper()
	dir := t.TempDir()
	remaining := total - len(dir) - 1 - len(FileName)
	require.Greater(t, remaining, 1)
	for remaining > 0 {
		n := min(200, remaining-1)
		if remaining-(n+1) == 1 {
			n--
		}
		dir = filepath.Join(dir, strings.Repeat("d", n))
		remaining -= n + 1
	}
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

func TestBackupPathStopsOnStatError(t *testing.T) {
	s := NewStore(deepDir(t, 4094), slog.New(slog.DiscardHandler))
	s.now = func() time.Time { return time.Unix(1700000000, 0) }

	done := make(chan string, 1)
	go func() { done <- s.backupPath(s.Path()) }()

	select {
	case got := <-done:
		assert.Equal(t, s.Path()+".invalid_1700000000", got)
	case <-time.After(3 * time.Second):
		t.Fatal("backupPath did not return for a name that cannot be stat'ed")
	}
}

func TestLoadInvalidFileWhenBackupFails(t *testing.T) {
	// The backup and staging names exceed PATH_MAX, so both the rename
	// and the default write fail.
	var logs bytes.Buffer
	s := NewStore(deepDir(t, 4094), slog.New(slog.NewTextHandler(&logs, nil)))
	s.now = func() time.Time { return time.Unix(1700000000, 0) }

	garbage := "not = = toml"
	require.NoError(t, os.WriteFile(s.Path(), []byte(garbage), 0o644))

	type result struct {
		cfg *Config
		err error
	}
	done := make(chan result, 1)
	go func() {
		cfg, err := s.Load()
		done <- result{cfg, err}
	}()

	var res result
	select {
	case res = <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Load did not return")
	}

	require.ErrorIs(t, res.err, ErrParseFailed)
	assert.Equal(t, Default(), res.cfg)
	assert.Contains(t, logs.String(), "failed to back up invalid config")
	assert.Contains(t, logs.String(), "failed to save new default config")

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, garbage, string(data), "original file stays in place when it cannot be moved")
}

func TestLoadLogsValidationWarning(t *testing.T) {
	var logs bytes.Buffer
	s := NewStore(filepath.Join(t.TempDir(), DirName), slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte(`
api_url = "https://openrouter.ai/api/v1"
model_version = "openai/gpt-4o"
primary_language = "HI"
secondary_language = "FR"
all_target_languages = ["EN", "FR"]
`), 0o644))

	cfg, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, language.Hindi, cfg.PrimaryLanguage, "load does not correct the primary language")
	assert.Equal(t, []language.Language{language.English, language.French}, cfg.Languages)

	out := logs.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "primary language")
	assert.Contains(t, out, "is not in all_target_languages")
	assert.NotContains(t, out, "secondary language")
}

func TestLoadMissingRequiredKeyIsParseFailure(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte(`primary_language = "DE"`+"\n"), 0o644))

	cfg, err := s.Load()
	require.ErrorIs(t, err, ErrParseFailed)
	assert.Equal(t, language.English, cfg.PrimaryLanguage)
}

func TestLoadUnknownLanguageIsParseFailure(t *testing.T) {
	_, _, err := Decode([]byte(`
api_url = "https://example.test"
model_version = "m"
primary_language = "Klingon"
secondary_language = "FR"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Klingon")
}

func TestLoadReadFailure(t *testing.T) {
	s := newTestStore(t)
	// A directory where the file should be makes the read fail without
	// the file being absent.
	require.NoError(t, os.MkdirAll(s.Path(), 0o755))

	cfg, err := s.Load()
	require.ErrorIs(t, err, ErrReadFailed)
	assert.Equal(t, Default(), cfg)

	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, s.Path(), cerr.Path)
}

func TestPathUnavailable(t *testing.T) {
	s := NewStore("", slog.New(slog.DiscardHandler))
	assert.Empty(t, s.Path())

	cfg, err := s.Load()
	require.ErrorIs(t, err, ErrPathUnavailable)
	assert.Equal(t, Default(), cfg)

	err = s.Save(Default())
	require.ErrorIs(t, err, ErrWriteFailed)
	assert.ErrorIs(t, err, ErrPathUnavailable)
}

func TestSaveDirectoryFailure(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	s := NewStore(filepath.Join(blocker, DirName), slog.New(slog.DiscardHandler))
	err := s.Save(Default())
	require.ErrorIs(t, err, ErrWriteFailed)
}

func TestSaveRoundTripAndIdempotence(t *testing.T) {
	s := newTestStore(t)
	want := &Config{
		APIURL:            "https://llm.example.test/v1",
		ModelVersion:      "vendor/model-2",
		PrimaryLanguage:   language.German,
		SecondaryLanguage: language.Japanese,
		Languages:         []language.Language{language.German, language.Japanese, language.English},
	}

	require.NoError(t, s.Save(want))
	first, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, s.Save(got))
	second, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	_, statErr := os.Stat(atomicfile.TempPath(s.Path()))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSaveRepairsList(t *testing.T) {
	t.Run("empty list restores defaults", func(t *testing.T) {
		s := newTestStore(t)
		cfg := Default()
		cfg.Languages = nil

		require.NoError(t, s.Save(cfg))
		assert.Nil(t, cfg.Languages, "Save must not modify its argument")

		got, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, DefaultLanguages(), got.Languages)
	})

	t.Run("primary and secondary are appended", func(t *testing.T) {
		s := newTestStore(t)
		cfg := Default()
		cfg.PrimaryLanguage = language.Korean
		cfg.SecondaryLanguage = language.Greek
		cfg.Languages = []language.Language{language.English, language.English}

		require.NoError(t, s.Save(cfg))
		got, err := s.Load()
		require.NoError(t, err)
		assert.Equal(t, []language.Language{language.English, language.Korean, language.Greek}, got.Languages)
	})
}

func TestLoadRepairsEmptyList(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte(`
api_url = "https://openrouter.ai/api/v1"
model_version = "openai/gpt-4o"
primary_language = "EN"
secondary_language = "FR"
all_target_languages = []
`), 0o644))

	cfg, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguages(), cfg.Languages)
}

func TestLoadAcceptsLegacyForms(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte(`
api_url = "https://openrouter.ai/api/v1"
model_version = "openai/gpt-4o"
primary_language = "English"
secondary_language = "ru"
all_target_languages = ["English", "RU", "Deutsch"]
last_target_language = "English"
`), 0o644))

	cfg, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, language.English, cfg.PrimaryLanguage)
	assert.Equal(t, language.Russian, cfg.SecondaryLanguage)
	assert.Equal(t, []language.Language{language.English, language.Russian, language.German}, cfg.Languages)
}

func TestDecodeReportsUnknownKeys(t *testing.T) {
	_, unknown, err := Decode([]byte(`
api_url = "u"
model_version = "m"
primary_language = "EN"
secondary_language = "FR"
last_target_language = "EN"
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"last_target_language"}, unknown)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.Empty(t, Validate(cfg))

	cfg.PrimaryLanguage = language.Hindi
	warnings := Validate(cfg)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "primary")
}

func TestCloneIsDeep(t *testing.T) {
	cfg := Default()
	c := cfg.Clone()
	c.Languages[0] = language.Czech
	assert.Equal(t, language.English, cfg.Languages[0])
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Kind: ErrReadFailed, Path: "/x/config.toml", Err: errors.New("boom")}
	assert.Equal(t, "reading configuration failed: /x/config.toml: boom", err.Error())
	assert.Equal(t, "configuration directory unavailable", (&Error{Kind: ErrPathUnavailable}).Error())
}
