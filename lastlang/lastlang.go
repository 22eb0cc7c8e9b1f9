// Package lastlang persists the most recently resolved target language in a
// single-value file (last_language.txt) next to config.toml.
//
// The file holds one upper-case ISO 639-1 code. Older files written with a
// lower-case code or a full language name are still read.
package lastlang

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/minios-linux/cliptr/atomicfile"
	"github.com/minios-linux/cliptr/config"
	"github.com/minios-linux/cliptr/language"
)

// FileName is the last-selection file name inside the config directory.
const FileName = "last_language.txt"

// Default is returned when nothing usable is stored.
const Default = language.English

// ErrInvalid is returned by Save for the zero Language.
var ErrInvalid = errors.New("invalid language")

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

// Store reads and writes the last selection. An empty dir behaves like the
// config store: Load returns Default and Save fails.
type Store struct {
	dir string
	log *slog.Logger
}

// NewStore returns a store rooted at dir. A nil logger uses slog.Default().
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, log: logger}
}

// Path returns the file path ("" if the directory is unavailable).
func (s *Store) Path() string {
	if s.dir == "" {
		return ""
	}
	return filepath.Join(s.dir, FileName)
}

// Load returns the stored language, or Default when the file is missing,
// unreadable or holds something that is not a language.
func (s *Store) Load() language.Language {
	path := s.Path()
	if path == "" {
		return Default
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("could not read last language, using default", "path", path, "error", err)
		}
		return Default
	}

	raw := strings.TrimSpace(string(data))
	l, err := parse(raw)
	if err != nil {
		s.log.Warn("invalid last language, using default", "path", path, "value", raw)
		return Default
	}
	return l
}

// parse tries the canonical code first, then the legacy forms.
func parse(raw string) (language.Language, error) {
	if l, err := language.ParseCode(raw); err == nil {
		return l, nil
	}
	return language.ParseName(raw)
}

// Save writes l as its upper-case code.
func (s *Store) Save(l language.Language) error {
	if !l.Valid() {
		return &config.Error{Kind: config.ErrWriteFailed, Err: ErrInvalid}
	}
	path := s.Path()
	if path == "" {
		return &config.Error{Kind: config.ErrWriteFailed, Err: config.ErrPathUnavailable}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &config.Error{Kind: config.ErrWriteFailed, Path: s.dir, Err: err}
	}
	if err := atomicfile.Write(path, []byte(l.Code()), 0o644); err != nil {
		return &config.Error{Kind: config.ErrWriteFailed, Path: path, Err: err}
	}

	s.log.Debug("saved last language", "language", l.Code(), "path", path)
	return nil
}
