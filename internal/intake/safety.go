package intake

import "strings"

// blockedTerms is a coarse denylist of harmful-intent keywords. This is a
// tripwire, not NLP: a single case-insensitive substring hit blocks the
// message before any other processing.
var blockedTerms = []string{
	"crack", "kokain", "droge", "waffe", "bombe",
	"mord", "töten", "selbstmord", "terror",
	"hack", "illegal", "betrug",
}

// ContainsBlockedTerm reports whether the message trips the content denylist.
func ContainsBlockedTerm(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range blockedTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
