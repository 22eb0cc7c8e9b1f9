package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/minios-linux/cliptr/atomicfile"
	"github.com/minios-linux/cliptr/language"
)

// Load conditions. Load never fails outright; these describe what it
// recovered from. Save wraps every failure in ErrWriteFailed.
var (
	ErrPathUnavailable = errors.New("configuration directory unavailable")
	ErrReadFailed      = errors.New("reading configuration failed")
	ErrParseFailed     = errors.New("parsing configuration failed")
	ErrWriteFailed     = errors.New("writing configuration failed")
)

// Error carries one of the condition sentinels together with the path and
// the underlying cause. errors.Is matches both.
type Error struct {
	Kind error
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Path == "" && e.Err == nil:
		return e.Kind.Error()
	case e.Path == "":
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	case e.Err == nil:
		return fmt.Sprintf("%v: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// DefaultDir returns <user config dir>/translator.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", &Error{Kind: ErrPathUnavailable, Err: err}
	}
	return filepath.Join(base, DirName), nil
}

// maxBackupAttempts bounds the numeric suffixes tried by backupPath.
const maxBackupAttempts = 1000

// Store loads and saves Config in a directory. An empty dir means the
// platform directory could not be determined: Load returns defaults without
// touching the disk and Save fails.
type Store struct {
	dir string
	log *slog.Logger
	now func() time.Time
}

// NewStore returns a store rooted at dir. A nil logger uses slog.Default().
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, log: logger, now: time.Now}
}

// Dir returns the configuration directory ("" if unavailable).
func (s *Store) Dir() string { return s.dir }

// Path returns the configuration file path ("" if unavailable).
func (s *Store) Path() string {
	if s.dir == "" {
		return ""
	}
	return filepath.Join(s.dir, FileName)
}

// Load returns the stored configuration. The returned Config is always
// usable; a non-nil error reports which condition was recovered from
// (ErrPathUnavailable, ErrReadFailed or ErrParseFailed).
func (s *Store) Load() (*Config, error) {
	path := s.Path()
	if path == "" {
		s.log.Warn("could not determine config directory, using defaults")
		return Default(), &Error{Kind: ErrPathUnavailable}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Info("config file not found, creating with defaults", "path", path)
			cfg := Default()
			if err := s.Save(cfg); err != nil {
				s.log.Error("failed to save default config", "error", err)
			}
			return cfg, nil
		}
		s.log.Error("failed to read config file, using defaults", "path", path, "error", err)
		return Default(), &Error{Kind: ErrReadFailed, Path: path, Err: err}
	}

	cfg, unknown, err := Decode(data)
	if err != nil {
		s.log.Error("failed to parse config file, using defaults", "path", path, "error", err)
		s.recoverInvalid(path)
		return Default(), &Error{Kind: ErrParseFailed, Path: path, Err: err}
	}

	for _, key := range unknown {
		s.log.Warn("ignoring unknown config key", "key", key, "path", path)
	}
	if repairList(cfg) {
		s.log.Warn("all_target_languages was empty, using default list", "path", path)
	}
	for _, w := range Validate(cfg) {
		s.log.Warn(w, "path", path)
	}

	s.log.Debug("loaded config",
		"path", path,
		"primary", cfg.PrimaryLanguage.Code(),
		"secondary", cfg.SecondaryLanguage.Code(),
		"languages", language.Codes(cfg.Languages),
	)
	return cfg, nil
}

// recoverInvalid moves an unparsable file aside and writes fresh defaults.
// Both steps are best effort.
func (s *Store) recoverInvalid(path string) {
	backup := s.backupPath(path)
	s.log.Warn("backing up invalid config", "from", path, "to", backup)
	if err := os.Rename(path, backup); err != nil {
		s.log.Error("failed to back up invalid config", "error", err)
	}
	if err := s.Save(Default()); err != nil {
		s.log.Error("failed to save new default config", "error", err)
	}
}

// backupPath returns <path>.invalid_<unix-seconds>, with a numeric suffix
// if a backup from the same second already exists. A candidate that cannot
// be stat'ed is returned as is and left for the rename to report.
func (s *Store) backupPath(path string) string {
	base := path + ".invalid_" + strconv.FormatInt(s.now().Unix(), 10)
	candidate := base
	for i := 1; i <= maxBackupAttempts; i++ {
		if _, err := os.Lstat(candidate); err != nil {
			return candidate
		}
		candidate = base + "_" + strconv.Itoa(i)
	}
	return base
}

// Save validates a copy of cfg (see Normalize) and atomically writes it.
// cfg itself is not modified. Every failure is returned wrapped in
// ErrWriteFailed.
func (s *Store) Save(cfg *Config) error {
	path := s.Path()
	if path == "" {
		return &Error{Kind: ErrWriteFailed, Err: ErrPathUnavailable}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &Error{Kind: ErrWriteFailed, Path: s.dir, Err: fmt.Errorf("creating config directory: %w", err)}
	}

	validated := Normalize(cfg)
	if len(language.Dedup(cfg.Languages)) == 0 {
		s.log.Warn("all_target_languages is empty during save, restoring defaults")
	} else {
		for _, l := range validated.Languages {
			if !cfg.Selectable(l) {
				s.log.Warn("language not in all_target_languages during save, adding it", "language", l.Code())
			}
		}
	}

	data, err := Encode(validated)
	if err != nil {
		return &Error{Kind: ErrWriteFailed, Path: path, Err: err}
	}
	if err := atomicfile.Write(path, data, 0o644); err != nil {
		return &Error{Kind: ErrWriteFailed, Path: path, Err: err}
	}

	s.log.Debug("config saved", "path", path)
	return nil
}
