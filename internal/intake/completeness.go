package intake

import (
	"regexp"
	"strings"
)

// The three predicates below are deliberately independent and named so the
// completion heuristic stays replaceable without touching the orchestrator's
// state machine. Each one is a cheap lexical approximation, not NLU.

// namePattern matches two consecutive capitalized words, a heuristic for
// "first name + last name". Covers the German uppercase umlauts; RE2 word
// boundaries are ASCII-only, so no \b anchors here.
var namePattern = regexp.MustCompile(`[A-ZÄÖÜ][a-zäöüß]+\s+[A-ZÄÖÜ][a-zäöüß]+`)

// contactPattern matches an email marker, a German/common domain suffix, or
// a digit run of at least four (phone number heuristic).
var contactPattern = regexp.MustCompile(`@|\.de|\.com|[0-9]{4,}`)

// timePattern matches weekday names, HH:MM, "N Uhr", or coarse time-of-day
// words. Evaluated against lowercased text.
var timePattern = regexp.MustCompile(`montag|dienstag|mittwoch|donnerstag|freitag|samstag|sonntag|[0-9]{1,2}:[0-9]{2}|[0-9]{1,2}\s?uhr|vormittag|nachmittag|morgen|heute`)

// HasFullName reports whether the text plausibly contains a full name.
func HasFullName(text string) bool {
	return namePattern.MatchString(text)
}

// HasContact reports whether the text plausibly contains an email address or
// phone number.
func HasContact(text string) bool {
	return contactPattern.MatchString(text)
}

// HasTimePreference reports whether the text plausibly names a day or time.
func HasTimePreference(text string) bool {
	return timePattern.MatchString(strings.ToLower(text))
}

// UserText concatenates all user-authored turns of a transcript.
func UserText(transcript []Turn) string {
	var parts []string
	for _, t := range transcript {
		if t.Role == RoleUser {
			parts = append(parts, t.Text)
		}
	}
	return strings.Join(parts, " ")
}

// IsComplete reports whether the accumulated user turns plausibly contain all
// required intake fields: a full name, a contact, and a time preference.
// It is recomputed from scratch over the full transcript after every
// assistant turn; that is intentional for simplicity and idempotence, and it
// makes the check order-independent across user turns.
func IsComplete(transcript []Turn) bool {
	text := UserText(transcript)
	return HasFullName(text) && HasContact(text) && HasTimePreference(text)
}
