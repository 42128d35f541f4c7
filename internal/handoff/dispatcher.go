package handoff

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/mkoellner/praxis-agent/internal/extract"
	"github.com/mkoellner/praxis-agent/internal/intake"
	"github.com/mkoellner/praxis-agent/internal/notify"
	"github.com/mkoellner/praxis-agent/pkg/logging"
)

// notProvided marks missing record fields in the notification; staff should
// see explicitly that a field is absent, not wonder whether it was dropped.
const notProvided = "Nicht angegeben"

// EmailDispatcher forwards an appointment request to the practice inbox.
// One attempt per call; retry policy belongs to the caller.
type EmailDispatcher struct {
	sender       notify.EmailSender
	to           string
	practiceName string
	logger       *logging.Logger
	now          func() time.Time
}

// NewEmailDispatcher creates a dispatcher targeting the practice address.
func NewEmailDispatcher(sender notify.EmailSender, to, practiceName string, logger *logging.Logger) *EmailDispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &EmailDispatcher{
		sender:       sender,
		to:           to,
		practiceName: practiceName,
		logger:       logger,
		now:          time.Now,
	}
}

// Dispatch renders the notification and sends it. Transport failures are
// classified into an authentication or generic error message; both surface
// as Success=false with a human-readable detail.
func (d *EmailDispatcher) Dispatch(ctx context.Context, record intake.Record, transcript []intake.Turn) intake.DispatchResult {
	if d.sender == nil || strings.TrimSpace(d.to) == "" {
		return intake.DispatchResult{Error: "Email-Versand ist nicht konfiguriert"}
	}

	receivedAt := d.now()
	msg := notify.EmailMessage{
		To:      d.to,
		Subject: subjectFor(record),
		Body:    renderText(record, transcript, receivedAt),
		HTML:    renderHTML(record, receivedAt),
	}

	if err := d.sender.Send(ctx, msg); err != nil {
		detail := classifyError(err)
		d.logger.Error("handoff: email dispatch failed", "error", err, "to", d.to)
		return intake.DispatchResult{Error: detail}
	}

	d.logger.Info("handoff: appointment request forwarded",
		"to", d.to,
		"patient", record.PatientName,
		"turns", len(transcript),
	)
	return intake.DispatchResult{Success: true}
}

// classifyError maps transport errors onto the two categories the
// orchestrator's reply needs: rejected credentials vs everything else.
func classifyError(err error) string {
	if errors.Is(err, notify.ErrAuthentication) {
		return fmt.Sprintf("Email-Login fehlgeschlagen: %v", err)
	}
	return fmt.Sprintf("Email konnte nicht versendet werden: %v", err)
}

func subjectFor(record intake.Record) string {
	name := strings.TrimSpace(record.PatientName)
	if name == "" {
		name = "Neuer Patient"
	}
	return fmt.Sprintf("Terminanfrage: %s", name)
}

func renderText(record intake.Record, transcript []intake.Turn, receivedAt time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "NEUE TERMINANFRAGE - %s\n\n", receivedAt.Format("02.01.2006 15:04 Uhr"))

	b.WriteString("PATIENTENINFORMATIONEN:\n")
	fmt.Fprintf(&b, "Name: %s\n", valueOrMarker(record.PatientName))
	fmt.Fprintf(&b, "Email: %s\n", valueOrMarker(record.PatientEmail))
	fmt.Fprintf(&b, "Telefon: %s\n\n", valueOrMarker(record.PatientPhone))

	b.WriteString("TERMINDETAILS:\n")
	fmt.Fprintf(&b, "Terminwunsch: %s\n", valueOrMarker(record.AppointmentRequest))
	fmt.Fprintf(&b, "Grund: %s\n", valueOrMarker(record.Reason))
	fmt.Fprintf(&b, "Notizen: %s\n", valueOrMarker(record.Notes))

	if len(transcript) > 0 {
		b.WriteString("\nKONVERSATIONSVERLAUF:\n")
		b.WriteString(extract.FormatTranscript(transcript))
		b.WriteString("\n")
	}

	b.WriteString("\n---\nAutomatisch erstellt vom Praxis-Assistenten\n")
	b.WriteString("Bitte kontaktieren Sie den Patienten zeitnah\n")

	return b.String()
}

func renderHTML(record intake.Record, receivedAt time.Time) string {
	var notesRow string
	if strings.TrimSpace(record.Notes) != "" {
		notesRow = fmt.Sprintf(`<h3>Zusätzliche Notizen:</h3><div style="background:#f5f5f5;padding:15px;margin:10px 0;border-left:4px solid #667eea;border-radius:4px;"><p>%s</p></div>`,
			html.EscapeString(record.Notes))
	}

	return fmt.Sprintf(`<div style="font-family:Arial,sans-serif;line-height:1.6;color:#333;max-width:600px;">
<div style="background:linear-gradient(135deg,#667eea 0%%,#764ba2 100%%);color:white;padding:20px;border-radius:8px 8px 0 0;">
<h2>Neue Terminanfrage</h2>
<p>Eingegangen am %s</p>
</div>
<div style="padding:20px;background:#ffffff;">
<h3>Patienteninformationen:</h3>
<div style="background:#f5f5f5;padding:15px;margin:10px 0;border-left:4px solid #667eea;border-radius:4px;">
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Telefon:</strong> %s</p>
</div>
<h3>Termindetails:</h3>
<div style="background:#f5f5f5;padding:15px;margin:10px 0;border-left:4px solid #667eea;border-radius:4px;">
<p><strong>Terminwunsch:</strong> %s</p>
<p><strong>Grund:</strong> %s</p>
</div>
%s
<div style="margin-top:30px;padding-top:20px;border-top:1px solid #ddd;color:#666;font-size:12px;">
<p>Diese Anfrage wurde automatisch vom virtuellen Praxis-Assistenten erstellt.</p>
<p>Bitte kontaktieren Sie den Patienten zeitnah.</p>
</div>
</div>
</div>`,
		receivedAt.Format("02.01.2006 um 15:04 Uhr"),
		html.EscapeString(valueOrMarker(record.PatientName)),
		html.EscapeString(valueOrMarker(record.PatientEmail)),
		html.EscapeString(valueOrMarker(record.PatientPhone)),
		html.EscapeString(valueOrMarker(record.AppointmentRequest)),
		html.EscapeString(valueOrMarker(record.Reason)),
		notesRow,
	)
}

func valueOrMarker(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	return s
}

// Ensure interface compliance
var _ intake.Dispatcher = (*EmailDispatcher)(nil)
