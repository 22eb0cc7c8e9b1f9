// Package detect provides language detectors for clipboard text.
package detect

import (
	"context"
	"fmt"
	"strings"

	"github.com/minios-linux/cliptr/language"
)

// Backend names accepted by New.
const (
	BackendLingua   = "lingua"
	BackendWhatlang = "whatlang"
)

// MinTextLength is the shortest trimmed text either backend will guess for.
const MinTextLength = 3

// Detector matches selection.Detector.
type Detector interface {
	Detect(ctx context.Context, text string) (language.Language, error)
}

// New returns the detector for backend ("" means lingua). langs restricts
// the candidate set for backends that support it.
func New(backend string, langs []language.Language) (Detector, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendLingua:
		return NewLingua(langs), nil
	case BackendWhatlang:
		return NewWhatlang(DefaultMinConfidence), nil
	default:
		return nil, fmt.Errorf("unknown detector backend %q (want %s or %s)", backend, BackendLingua, BackendWhatlang)
	}
}

// prepare trims text and reports whether it is long enough to detect.
func prepare(ctx context.Context, text string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	text = strings.TrimSpace(text)
	return text, len([]rune(text)) >= MinTextLength, nil
}

// fromISO maps a two-letter code reported by a backend.
func fromISO(code string) language.Language {
	l, err := language.ParseCode(code)
	if err != nil {
		return language.Unknown
	}
	return l
}
