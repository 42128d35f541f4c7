package intake

import "strings"

// consentTokens is the fixed affirmative vocabulary. Matching is substring
// based and has no negation handling: a refusal that happens to embed one of
// these tokens ("ok, dann lieber nicht") still counts as consent. That is a
// known limitation of the heuristic, kept deliberately.
var consentTokens = []string{
	"ja", "gerne", "ok", "klar", "weiter", "senden", "schicken", "yes",
}

// IsConsent reports whether the message contains an affirmative token.
// Only meaningful while the session awaits confirmation; the orchestrator
// never consults it in the Collecting phase.
func IsConsent(text string) bool {
	lower := strings.ToLower(text)
	for _, tok := range consentTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// offerKeywords are the words the system prompt instructs the assistant to
// use when it offers to forward the request ("Soll ich diese Anfrage
// weiterleiten?"). This is a contract between the prompt template and the
// state machine: rewording the prompt's summary instruction is a breaking
// change to the phase transition.
var offerKeywords = []string{"weiterleiten", "senden"}

// IsHandoffOffer reports whether an assistant reply constitutes a handoff
// offer.
func IsHandoffOffer(reply string) bool {
	lower := strings.ToLower(reply)
	for _, kw := range offerKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
