// Package prefs holds the in-memory configuration and last selection for a
// running process and applies explicit preference changes to them.
//
// Every change is read-modify-write-persist: a copy is modified, saved via
// the store, and swapped in only when the save succeeds. SetLast is the
// exception and keeps the new value in memory even if saving fails.
package prefs

import (
	"errors"
	"fmt"
	"sync"

	"github.com/minios-linux/cliptr/config"
	"github.com/minios-linux/cliptr/language"
	"github.com/minios-linux/cliptr/lastlang"
)

// ErrLastLanguage is returned when removing the only selectable language.
var ErrLastLanguage = errors.New("cannot remove the last selectable language")

// ConfigStore is the persistence used for the configuration.
type ConfigStore interface {
	Load() (*config.Config, error)
	Save(*config.Config) error
}

// LastStore is the persistence used for the last selection.
type LastStore interface {
	Load() language.Language
	Save(language.Language) error
}

// Compile-time checks.
var (
	_ ConfigStore = (*config.Store)(nil)
	_ LastStore   = (*lastlang.Store)(nil)
)

// State is the process-wide preference state. It is safe for concurrent use.
type State struct {
	mu      sync.Mutex
	cfg     *config.Config
	last    language.Language
	cfgs    ConfigStore
	lasts   LastStore
	loadErr error
}

// Open loads both records. It never fails; LoadErr reports whether the
// configuration had to be recovered.
func Open(cfgStore ConfigStore, lastStore LastStore) *State {
	s := &State{cfgs: cfgStore, lasts: lastStore}
	s.reload()
	return s
}

func (s *State) reload() {
	s.cfg, s.loadErr = s.cfgs.Load()
	s.last = s.lasts.Load()
}

// Reload re-reads both files.
func (s *State) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reload()
}

// LoadErr returns the condition the last load recovered from, if any.
func (s *State) LoadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Config returns a copy of the current configuration.
func (s *State) Config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Clone()
}

// Last returns the last selected target language.
func (s *State) Last() language.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// SetLast records l as the last selection and persists it. The in-memory
// value changes even when the returned error is non-nil.
func (s *State) SetLast(l language.Language) error {
	if !l.Valid() {
		return fmt.Errorf("setting last language: %w", lastlang.ErrInvalid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = l
	return s.lasts.Save(l)
}

// update applies fn to a copy of the configuration, saves it and, on
// success, swaps in the normalized result.
func (s *State) update(fn func(c *config.Config) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.cfgs.Save(next); err != nil {
		return err
	}
	s.cfg = config.Normalize(next)
	return nil
}

// SetPrimary sets the primary language, adding it to the list if needed.
func (s *State) SetPrimary(l language.Language) error {
	if !l.Valid() {
		return &language.UnknownLanguageError{Input: l.String()}
	}
	return s.update(func(c *config.Config) error {
		c.PrimaryLanguage = l
		return nil
	})
}

// SetSecondary sets the secondary language, adding it to the list if needed.
func (s *State) SetSecondary(l language.Language) error {
	if !l.Valid() {
		return &language.UnknownLanguageError{Input: l.String()}
	}
	return s.update(func(c *config.Config) error {
		c.SecondaryLanguage = l
		return nil
	})
}

// AddLanguage appends l to the selectable list. Adding a listed language is
// a no-op save.
func (s *State) AddLanguage(l language.Language) error {
	if !l.Valid() {
		return &language.UnknownLanguageError{Input: l.String()}
	}
	return s.update(func(c *config.Config) error {
		if !c.Selectable(l) {
			c.Languages = append(c.Languages, l)
		}
		return nil
	})
}

// RemoveLanguage removes l from the selectable list. Removing the primary
// or secondary language is refused since save would add it back.
func (s *State) RemoveLanguage(l language.Language) error {
	return s.update(func(c *config.Config) error {
		i := language.Index(c.Languages, l)
		switch {
		case i < 0:
			return fmt.Errorf("%s is not a selectable language", l)
		case len(c.Languages) == 1:
			return ErrLastLanguage
		case l == c.PrimaryLanguage:
			return fmt.Errorf("%s is the primary language", l)
		case l == c.SecondaryLanguage:
			return fmt.Errorf("%s is the secondary language", l)
		}
		c.Languages = append(c.Languages[:i:i], c.Languages[i+1:]...)
		return nil
	})
}

// SetEndpoint changes the translation endpoint. An empty model keeps the
// current one.
func (s *State) SetEndpoint(url, model string) error {
	if url == "" {
		return errors.New("endpoint URL is empty")
	}
	return s.update(func(c *config.Config) error {
		c.APIURL = url
		if model != "" {
			c.ModelVersion = model
		}
		return nil
	})
}
