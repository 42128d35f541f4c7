package intake

import "strings"

// Record is the structured appointment request derived from a transcript.
// It is produced fresh on every handoff attempt and never mutated, only
// replaced. Empty fields mean "not provided".
type Record struct {
	PatientName        string `json:"patient_name"`
	PatientEmail       string `json:"patient_email"`
	PatientPhone       string `json:"patient_phone"`
	AppointmentRequest string `json:"appointment_request"`
	Reason             string `json:"reason"`
	Notes              string `json:"notes"`
}

// IsEmpty reports whether no field carries any content.
func (r Record) IsEmpty() bool {
	return strings.TrimSpace(r.PatientName) == "" &&
		strings.TrimSpace(r.PatientEmail) == "" &&
		strings.TrimSpace(r.PatientPhone) == "" &&
		strings.TrimSpace(r.AppointmentRequest) == "" &&
		strings.TrimSpace(r.Reason) == "" &&
		strings.TrimSpace(r.Notes) == ""
}

// DispatchResult is the outcome of one handoff dispatch attempt. It is
// consumed immediately by the orchestrator to choose the next reply.
type DispatchResult struct {
	Success bool
	Error   string
}
