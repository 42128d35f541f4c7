package intake

import "fmt"

// Practice identifies the clinic the assistant speaks for. The values are
// interpolated into the system prompt and the fixed replies.
type Practice struct {
	Name    string
	Phone   string
	Address string
}

// systemPromptTemplate is the fixed instruction set for the generation
// service. The closing question "Soll ich diese Anfrage weiterleiten?" is
// what IsHandoffOffer keys on; keep them in sync.
const systemPromptTemplate = `Du bist die virtuelle Assistenz der %s.

WICHTIG: Merke dir ALLE Informationen die der Patient bereits genannt hat.
Frage NIE zweimal nach der gleichen Information!

SAMMLE diese 4 Informationen:
1. Name des Patienten
2. Email ODER Telefonnummer
3. Terminwunsch (Tag/Uhrzeit)
4. Grund (z.B. Zahnreinigung, Schmerzen)

KONVERSATIONSFLUSS:
- Frage freundlich nach fehlenden Informationen
- Stelle MAXIMAL eine Frage pro Nachricht
- Wenn der Patient etwas bereits gesagt hat, frage NICHT nochmal danach
- Wenn du ALLE 4 Informationen hast, fasse kurz zusammen

WICHTIG:
- Wenn du die Zusammenfassung gibst, beende mit: "Soll ich diese Anfrage weiterleiten?"

PRAXIS-INFOS:
- Öffnungszeiten: Mo-Fr 8-12 und 14-18 Uhr, Mi Nachmittag geschlossen
- Adresse: %s
- Telefon: %s

REGELN:
- Keine medizinischen Diagnosen
- Bei Notfällen → 112
- Freundlich & professionell

Antworte auf Deutsch.`

// SystemPrompt renders the assistant's system instructions for a practice.
func SystemPrompt(p Practice) string {
	return fmt.Sprintf(systemPromptTemplate, p.Name, p.Address, p.Phone)
}

// RefusalReply is returned when the safety gate blocks a message.
const RefusalReply = "Ich kann Ihnen bei dieser Anfrage nicht helfen. " +
	"Bitte wenden Sie sich mit zahnmedizinischen Fragen an mich."

// SuccessReply is returned after a successful handoff dispatch. The webchat
// layer keys its celebration indicator on this reply.
const SuccessReply = "Perfekt! Ihre Terminanfrage wurde erfolgreich weitergeleitet.\n\n" +
	"Die Praxis wird sich in Kürze bei Ihnen melden.\n\n" +
	"Gibt es noch etwas, bei dem ich Ihnen helfen kann?"

// TechnicalDifficultyReply is returned when the generation service fails.
func TechnicalDifficultyReply(phone string) string {
	return fmt.Sprintf("Entschuldigung, es gibt gerade ein technisches Problem. "+
		"Bitte versuchen Sie es erneut oder rufen Sie uns an: %s", phone)
}

// DispatchFailureReply is returned when the handoff dispatch fails. It
// embeds the raw error detail so the patient can report it by phone.
func DispatchFailureReply(phone, errDetail string) string {
	if errDetail == "" {
		errDetail = "Unbekannt"
	}
	return fmt.Sprintf("Entschuldigung, technisches Problem beim Versenden.\n\n"+
		"Bitte rufen Sie direkt an: %s\n\nFehler: %s", phone, errDetail)
}

// WelcomeMessage greets a new webchat session.
func WelcomeMessage(practiceName string) string {
	return fmt.Sprintf("Willkommen in der %s! "+
		"Ich bin Ihr virtueller Assistent und helfe Ihnen gerne bei der Terminvereinbarung.\n\n"+
		"Nennen Sie mir einfach Ihren Namen, und wir legen los.", practiceName)
}
