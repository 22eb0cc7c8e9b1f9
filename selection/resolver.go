package selection

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/minios-linux/cliptr/config"
	"github.com/minios-linux/cliptr/language"
)

// DefaultDetectTimeout bounds a single detection call.
const DefaultDetectTimeout = 2 * time.Second

// Detector guesses the language of text. A zero Language means no guess.
type Detector interface {
	Detect(ctx context.Context, text string) (language.Language, error)
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(ctx context.Context, text string) (language.Language, error)

func (f DetectorFunc) Detect(ctx context.Context, text string) (language.Language, error) {
	return f(ctx, text)
}

// ConfigSource provides the current configuration snapshot.
type ConfigSource interface {
	Config() *config.Config
}

// LastStore holds the last resolved target.
type LastStore interface {
	Last() language.Language
	SetLast(language.Language) error
}

// Decision is the outcome of one Resolve call.
type Decision struct {
	Source    language.Language
	Candidate language.Language
	Target    language.Language
	Reason    Reason
	Persisted bool
}

// MarshalJSON writes languages as codes; an absent source becomes "".
func (d Decision) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Source    string `json:"source"`
		Candidate string `json:"candidate"`
		Target    string `json:"target"`
		Reason    Reason `json:"reason"`
		Persisted bool   `json:"persisted"`
	}{d.Source.Code(), d.Candidate.Code(), d.Target.Code(), d.Reason, d.Persisted})
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout sets the detection timeout. Non-positive values keep the
// default.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// Resolver turns clipboard text into a target language.
type Resolver struct {
	detector Detector
	config   ConfigSource
	last     LastStore
	timeout  time.Duration
	log      *slog.Logger
}

// NewResolver returns a Resolver. A nil detector never detects anything.
func NewResolver(d Detector, cfg ConfigSource, last LastStore, opts ...Option) *Resolver {
	r := &Resolver{
		detector: d,
		config:   cfg,
		last:     last,
		timeout:  DefaultDetectTimeout,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve detects the language of text, chooses a target, narrows it to the
// configured list and records it as the last selection when it changed.
// Resolve always produces a Decision; persistence failures are logged.
func (r *Resolver) Resolve(ctx context.Context, text string) Decision {
	source := r.detect(ctx, text)

	cfg := r.config.Config()
	last := r.last.Last()

	candidate, reason := choose(source, cfg.PrimaryLanguage, cfg.SecondaryLanguage, last)
	target, reason := available(candidate, last, cfg.Languages, reason)

	d := Decision{Source: source, Candidate: candidate, Target: target, Reason: reason}

	if target != last {
		if err := r.last.SetLast(target); err != nil {
			r.log.Error("failed to save last language", "language", target.Code(), "error", err)
		} else {
			d.Persisted = true
		}
	}

	r.log.Debug("resolved target language",
		"source", source.String(),
		"candidate", candidate.Code(),
		"target", target.Code(),
		"reason", string(reason),
	)
	return d
}

type detectResult struct {
	lang language.Language
	err  error
}

// detect runs the detector under the timeout. A late result is dropped into
// a buffered channel nobody reads.
func (r *Resolver) detect(ctx context.Context, text string) language.Language {
	if r.detector == nil {
		return language.Unknown
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	ch := make(chan detectResult, 1)
	go func() {
		l, err := r.detector.Detect(ctx, text)
		ch <- detectResult{lang: l, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			r.log.Warn("language detection failed", "error", res.err)
			return language.Unknown
		}
		if !res.lang.Valid() {
			return language.Unknown
		}
		return res.lang
	case <-ctx.Done():
		r.log.Warn("language detection timed out", "timeout", r.timeout)
		return language.Unknown
	}
}
