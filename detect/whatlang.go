package detect

import (
	"context"

	"github.com/abadojack/whatlanggo"

	"github.com/minios-linux/cliptr/language"
)

// DefaultMinConfidence is the whatlanggo confidence below which no guess is
// returned.
const DefaultMinConfidence = 0.5

// Whatlang detects with github.com/abadojack/whatlanggo. It is lighter than
// Lingua and does not restrict candidates.
type Whatlang struct {
	minConfidence float64
}

// NewWhatlang returns a detector that reports guesses at or above
// minConfidence.
func NewWhatlang(minConfidence float64) *Whatlang {
	return &Whatlang{minConfidence: minConfidence}
}

// Detect returns the detected language or Unknown.
func (w *Whatlang) Detect(ctx context.Context, text string) (language.Language, error) {
	text, ok, err := prepare(ctx, text)
	if err != nil || !ok {
		return language.Unknown, err
	}
	info := whatlanggo.Detect(text)
	if info.Confidence < w.minConfidence {
		return language.Unknown, nil
	}
	return fromISO(info.Lang.Iso6391()), nil
}
