package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"

	"github.com/mkoellner/praxis-agent/internal/intake"
	"github.com/mkoellner/praxis-agent/internal/llm"
	"github.com/mkoellner/praxis-agent/pkg/logging"
)

var tracer = otel.Tracer("praxis.internal.extract")

// notesFallbackLimit caps how much raw transcript ends up in the notes field
// when extraction fails.
const notesFallbackLimit = 500

// extractionPromptTemplate instructs the model to emit exactly one JSON
// object with the six record fields.
const extractionPromptTemplate = `Analysiere diese Konversation zwischen Patient und Zahnarztpraxis-Assistent.
Extrahiere folgende Informationen:

KONVERSATION:
%s

Finde und extrahiere (falls vorhanden):
- patient_name: Vollständiger Name des Patienten
- patient_email: Email-Adresse
- patient_phone: Telefonnummer
- appointment_request: Gewünschter Termin oder Zeitraum
- reason: Grund des Besuchs (z.B. Zahnreinigung, Schmerzen, Kontrolle)
- notes: Andere wichtige Details

Antworte NUR mit einem JSON-Objekt in diesem Format:
{
  "patient_name": "Name oder null",
  "patient_email": "email oder null",
  "patient_phone": "telefon oder null",
  "appointment_request": "terminwunsch oder null",
  "reason": "grund oder null",
  "notes": "notizen oder null"
}

Wenn eine Information nicht in der Konversation vorhanden ist, nutze null.`

// Extractor derives a structured appointment record from a transcript via a
// JSON-constrained completion call. It is total: every failure path degrades
// into a record that still carries the raw transcript in its notes.
type Extractor struct {
	client    llm.Client
	model     string
	maxTokens int32
	logger    *logging.Logger
}

// NewExtractor creates an extraction adapter. model may be empty to use the
// client's default.
func NewExtractor(client llm.Client, model string, logger *logging.Logger) *Extractor {
	if client == nil {
		panic("extract: llm client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Extractor{
		client:    client,
		model:     model,
		maxTokens: 1024,
		logger:    logger,
	}
}

// Extract maps the transcript into an intake.Record. On any failure (service
// error, parse failure, schema mismatch) it returns an empty record whose
// Notes field carries the first part of the formatted transcript, so the
// handoff always has human-readable content. It never returns an error.
func (e *Extractor) Extract(ctx context.Context, transcript []intake.Turn) intake.Record {
	ctx, span := tracer.Start(ctx, "extract.record")
	defer span.End()

	formatted := FormatTranscript(transcript)
	if strings.TrimSpace(formatted) == "" {
		return intake.Record{}
	}

	prompt := fmt.Sprintf(extractionPromptTemplate, formatted)

	resp, err := e.client.Complete(ctx, llm.Request{
		Model:       e.model,
		Messages:    []llm.ChatMessage{{Role: llm.ChatRoleUser, Content: prompt}},
		MaxTokens:   e.maxTokens,
		Temperature: 0,
		ForceJSON:   true,
	})
	if err != nil {
		e.logger.Error("extract: completion failed, using transcript fallback", "error", err)
		return fallbackRecord(formatted)
	}

	record, err := parseRecord(resp.Text)
	if err != nil {
		e.logger.Error("extract: response parse failed, using transcript fallback", "error", err)
		return fallbackRecord(formatted)
	}

	return record
}

// FormatTranscript renders the transcript as alternating labeled lines, the
// shape the extraction prompt and the notes fallback both use.
func FormatTranscript(transcript []intake.Turn) string {
	var b strings.Builder
	for i, t := range transcript {
		if i > 0 {
			b.WriteString("\n")
		}
		label := "Patient"
		if t.Role == intake.RoleAssistant {
			label = "Assistent"
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(t.Text)
	}
	return b.String()
}

// parseRecord validates the model output against the record schema right at
// the boundary. Models occasionally wrap JSON in code fences even in JSON
// mode, so those are stripped first.
func parseRecord(raw string) (intake.Record, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return intake.Record{}, fmt.Errorf("extract: empty response")
	}

	var record intake.Record
	if err := json.Unmarshal([]byte(cleaned), &record); err != nil {
		return intake.Record{}, fmt.Errorf("extract: invalid JSON: %w", err)
	}

	// Models sometimes emit the literal string "null" instead of JSON null.
	record.PatientName = dropNullString(record.PatientName)
	record.PatientEmail = dropNullString(record.PatientEmail)
	record.PatientPhone = dropNullString(record.PatientPhone)
	record.AppointmentRequest = dropNullString(record.AppointmentRequest)
	record.Reason = dropNullString(record.Reason)
	record.Notes = dropNullString(record.Notes)

	return record, nil
}

func dropNullString(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), "null") {
		return ""
	}
	return s
}

// fallbackRecord is the last line of defense before dispatch: all fields
// empty except notes, which carries the raw formatted transcript.
func fallbackRecord(formatted string) intake.Record {
	runes := []rune(formatted)
	if len(runes) > notesFallbackLimit {
		formatted = string(runes[:notesFallbackLimit])
	}
	return intake.Record{Notes: formatted}
}

// Ensure interface compliance
var _ intake.RecordExtractor = (*Extractor)(nil)
