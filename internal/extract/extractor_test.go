package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoellner/praxis-agent/internal/intake"
	"github.com/mkoellner/praxis-agent/internal/llm"
)

type fakeLLM struct {
	resp    llm.Response
	err     error
	lastReq llm.Request
}

func (f *fakeLLM) Complete(_ context.Context, req llm.Request) (llm.Response, error) {
	f.lastReq = req
	return f.resp, f.err
}

func sampleTranscript() []intake.Turn {
	return []intake.Turn{
		{Role: intake.RoleUser, Text: "Hallo ich brauche einen Termin"},
		{Role: intake.RoleAssistant, Text: "Gerne! Wie ist Ihr Name?"},
		{Role: intake.RoleUser, Text: "Max Mustermann, max@example.com, Dienstag wegen Zahnreinigung"},
	}
}

func TestExtract_ValidJSON(t *testing.T) {
	client := &fakeLLM{resp: llm.Response{Text: `{
		"patient_name": "Max Mustermann",
		"patient_email": "max@example.com",
		"patient_phone": null,
		"appointment_request": "Dienstag",
		"reason": "Zahnreinigung",
		"notes": null
	}`}}
	e := NewExtractor(client, "", nil)

	record := e.Extract(context.Background(), sampleTranscript())

	assert.Equal(t, "Max Mustermann", record.PatientName)
	assert.Equal(t, "max@example.com", record.PatientEmail)
	assert.Empty(t, record.PatientPhone)
	assert.Equal(t, "Dienstag", record.AppointmentRequest)
	assert.Equal(t, "Zahnreinigung", record.Reason)

	assert.True(t, client.lastReq.ForceJSON, "extraction must request JSON-constrained output")
	assert.Contains(t, client.lastReq.Messages[0].Content, "Patient: Hallo ich brauche einen Termin")
	assert.Contains(t, client.lastReq.Messages[0].Content, "Assistent: Gerne! Wie ist Ihr Name?")
}

func TestExtract_CodeFencedJSON(t *testing.T) {
	client := &fakeLLM{resp: llm.Response{Text: "```json\n{\"patient_name\": \"Anna Schmidt\"}\n```"}}
	e := NewExtractor(client, "", nil)

	record := e.Extract(context.Background(), sampleTranscript())
	assert.Equal(t, "Anna Schmidt", record.PatientName)
}

func TestExtract_LiteralNullStrings(t *testing.T) {
	client := &fakeLLM{resp: llm.Response{Text: `{"patient_name": "null", "reason": "Schmerzen"}`}}
	e := NewExtractor(client, "", nil)

	record := e.Extract(context.Background(), sampleTranscript())
	assert.Empty(t, record.PatientName)
	assert.Equal(t, "Schmerzen", record.Reason)
}

func TestExtract_ServiceFailureFallsBack(t *testing.T) {
	client := &fakeLLM{err: errors.New("timeout")}
	e := NewExtractor(client, "", nil)

	record := e.Extract(context.Background(), sampleTranscript())

	assert.Empty(t, record.PatientName)
	assert.Empty(t, record.PatientEmail)
	require.NotEmpty(t, record.Notes, "fallback must carry the raw transcript")
	assert.Contains(t, record.Notes, "Max Mustermann")
}

func TestExtract_GarbageResponseFallsBack(t *testing.T) {
	client := &fakeLLM{resp: llm.Response{Text: "Hier sind die Daten: Name ist Max"}}
	e := NewExtractor(client, "", nil)

	record := e.Extract(context.Background(), sampleTranscript())
	assert.Contains(t, record.Notes, "Patient: Hallo ich brauche einen Termin")
}

func TestExtract_FallbackNotesTruncated(t *testing.T) {
	long := strings.Repeat("ä", 2000)
	client := &fakeLLM{err: errors.New("down")}
	e := NewExtractor(client, "", nil)

	record := e.Extract(context.Background(), []intake.Turn{{Role: intake.RoleUser, Text: long}})
	assert.Equal(t, notesFallbackLimit, len([]rune(record.Notes)))
}

func TestExtract_EmptyTranscript(t *testing.T) {
	client := &fakeLLM{err: errors.New("must not be called")}
	e := NewExtractor(client, "", nil)

	record := e.Extract(context.Background(), nil)
	assert.True(t, record.IsEmpty())
	assert.Empty(t, record.Notes)
}

func TestFormatTranscript(t *testing.T) {
	got := FormatTranscript(sampleTranscript())
	want := "Patient: Hallo ich brauche einen Termin\n" +
		"Assistent: Gerne! Wie ist Ihr Name?\n" +
		"Patient: Max Mustermann, max@example.com, Dienstag wegen Zahnreinigung"
	assert.Equal(t, want, got)
}
