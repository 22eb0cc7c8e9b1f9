package detect

import (
	"context"
	"strings"

	"github.com/pemistahl/lingua-go"

	"github.com/minios-linux/cliptr/language"
)

// DefaultMinRelativeDistance makes lingua return no guess when the top
// candidates are too close to call.
const DefaultMinRelativeDistance = 0.1

// alwaysDetected languages are always candidates so that common clipboard
// text is recognized even when the target list is narrow.
var alwaysDetected = []language.Language{
	language.English, language.Russian, language.Ukrainian, language.Portuguese,
}

// Lingua detects with github.com/pemistahl/lingua-go.
type Lingua struct {
	detector lingua.LanguageDetector
}

// NewLingua builds a detector over langs plus a few always-present
// languages. Languages lingua does not know are skipped.
func NewLingua(langs []language.Language) *Lingua {
	candidates := linguaLanguages(language.Dedup(append(append([]language.Language{}, alwaysDetected...), langs...)))
	d := lingua.NewLanguageDetectorBuilder().
		FromLanguages(candidates...).
		WithMinimumRelativeDistance(DefaultMinRelativeDistance).
		Build()
	return &Lingua{detector: d}
}

// Detect returns the most likely language, or Unknown if lingua is unsure.
func (l *Lingua) Detect(ctx context.Context, text string) (language.Language, error) {
	text, ok, err := prepare(ctx, text)
	if err != nil || !ok {
		return language.Unknown, err
	}
	found, exists := l.detector.DetectLanguageOf(text)
	if !exists {
		return language.Unknown, nil
	}
	return fromLingua(found), nil
}

func fromLingua(l lingua.Language) language.Language {
	return fromISO(strings.ToLower(l.IsoCode639_1().String()))
}

// linguaLanguages maps langs to lingua's enum by ISO code.
func linguaLanguages(langs []language.Language) []lingua.Language {
	byCode := make(map[language.Language]lingua.Language)
	for _, ll := range lingua.AllLanguages() {
		if l := fromLingua(ll); l.Valid() {
			if _, seen := byCode[l]; !seen {
				byCode[l] = ll
			}
		}
	}

	out := make([]lingua.Language, 0, len(langs))
	for _, l := range langs {
		if ll, ok := byCode[l]; ok {
			out = append(out, ll)
		}
	}
	return out
}
