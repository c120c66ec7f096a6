package dialogue

import (
	"strings"
	"unicode/utf8"
)

// DefaultActivationThreshold is the utterance length, in runes, below which
// a detected persona trigger is applied even when a persona is already
// active. Longer texts that merely contain a trigger token are treated as
// ordinary dialogue. The value is a heuristic tuned for the current trigger
// vocabulary, not a hard boundary.
const DefaultActivationThreshold = 10

// resetTriggers return the conversation to the start screen regardless of
// the active persona. They take priority over persona detection.
var resetTriggers = []string{"もどる", "スタート"}

// personaTriggers maps each persona to its trigger tokens. Matching is
// case-insensitive substring containment; tokens cover the ordinal digit,
// its circled and full-width glyphs, and the persona's name.
var personaTriggers = map[Mode][]string{
	ModeReflect:  {"①", "１", "1", "かんがろう"},
	ModeTraining: {"②", "２", "2", "おもこ"},
	ModeIdea:     {"③", "３", "3", "やるきち"},
}

// Router maps user-entered text to mode-switch decisions. Decisions are
// pure detection; whether a detected switch is applied is a separate
// activation policy, see [Router.ShouldActivate].
type Router struct {
	activationThreshold int
}

// RouterOption configures a [Router].
type RouterOption func(*Router)

// WithActivationThreshold overrides [DefaultActivationThreshold].
func WithActivationThreshold(runes int) RouterOption {
	return func(r *Router) {
		r.activationThreshold = runes
	}
}

// NewRouter creates a router with the default trigger vocabulary.
func NewRouter(opts ...RouterOption) *Router {
	router := &Router{
		activationThreshold: DefaultActivationThreshold,
	}

	for _, opt := range opts {
		opt(router)
	}

	return router
}

// Decide inspects trimmed, non-empty user text for mode triggers and
// returns the target mode if one matched. Reset triggers win over persona
// triggers; persona candidates are evaluated in [PersonaModes] order and
// the first match wins, so text containing triggers for two personas
// resolves to the earlier one. Decide is referentially transparent and has
// no side effects.
func (r *Router) Decide(text string) (Mode, bool) {
	normalized := strings.ToLower(text)

	for _, trigger := range resetTriggers {
		if strings.Contains(normalized, trigger) {
			return ModeUnselected, true
		}
	}

	for _, mode := range PersonaModes() {
		for _, trigger := range personaTriggers[mode] {
			if strings.Contains(normalized, trigger) {
				return mode, true
			}
		}
	}

	return ModeUnselected, false
}

// ShouldActivate reports whether a detected persona switch should be
// applied. Switches are always applied from the start screen; with a
// persona already active they are applied only for short utterances, so a
// long message that happens to contain a stray digit is not mistaken for a
// switch command. Reset decisions bypass this policy entirely.
func (r *Router) ShouldActivate(current Mode, text string) bool {
	if current == ModeUnselected {
		return true
	}
	return utf8.RuneCountInString(text) < r.activationThreshold
}
