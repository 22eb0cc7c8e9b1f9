// Package selection decides which language clipboard text should be
// translated into.
//
// ChooseTarget is the pure rule. Resolver wraps it with detection, the
// configured availability list and persistence of the last choice.
package selection

import "github.com/minios-linux/cliptr/language"

// Reason explains how a Decision's target was reached.
type Reason string

const (
	ReasonPrimary         Reason = "primary"
	ReasonLast            Reason = "last"
	ReasonSecondary       Reason = "secondary"
	ReasonFallbackLast    Reason = "fallback-last"
	ReasonFallbackFirst   Reason = "fallback-first"
	ReasonFallbackDefault Reason = "fallback-default"
)

// ChooseTarget picks the target for text detected as source. A zero source
// means detection produced nothing.
//
// Text not in the primary language goes to the primary language. Text
// already in the primary language goes to the last used target, unless that
// is the primary language itself, in which case it goes to secondary.
func ChooseTarget(source, primary, secondary, last language.Language) language.Language {
	target, _ := choose(source, primary, secondary, last)
	return target
}

func choose(source, primary, secondary, last language.Language) (language.Language, Reason) {
	switch {
	case source == language.Unknown || source != primary:
		return primary, ReasonPrimary
	case last != primary:
		return last, ReasonLast
	default:
		return secondary, ReasonSecondary
	}
}

// available narrows candidate to a member of list.
func available(candidate, last language.Language, list []language.Language, reason Reason) (language.Language, Reason) {
	switch {
	case language.Contains(list, candidate):
		return candidate, reason
	case language.Contains(list, last):
		return last, ReasonFallbackLast
	case len(list) > 0:
		return list[0], ReasonFallbackFirst
	default:
		return language.Fallback, ReasonFallbackDefault
	}
}
