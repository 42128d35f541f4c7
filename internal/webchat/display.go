package webchat

import (
	"sync"
	"time"
)

// DisplayMessage is one rendered chat bubble. The display transcript is what
// the widget shows and is kept separately from the intake transcript: a
// successful handoff clears the intake state but the patient still sees the
// whole conversation.
type DisplayMessage struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// displayLimit caps how many messages a session's display history retains.
const displayLimit = 200

// DisplayStore keeps per-session display transcripts in memory.
type DisplayStore struct {
	mu       sync.RWMutex
	sessions map[string][]DisplayMessage
}

// NewDisplayStore creates an empty display store.
func NewDisplayStore() *DisplayStore {
	return &DisplayStore{sessions: make(map[string][]DisplayMessage)}
}

// Append records one message for a session, trimming the oldest entries past
// the retention limit.
func (d *DisplayStore) Append(sessionID, role, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	msgs := append(d.sessions[sessionID], DisplayMessage{
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UTC(),
	})
	if len(msgs) > displayLimit {
		msgs = msgs[len(msgs)-displayLimit:]
	}
	d.sessions[sessionID] = msgs
}

// List returns a copy of a session's display history.
func (d *DisplayStore) List(sessionID string) []DisplayMessage {
	d.mu.RLock()
	defer d.mu.RUnlock()
	msgs := d.sessions[sessionID]
	out := make([]DisplayMessage, len(msgs))
	copy(out, msgs)
	return out
}

// Clear drops a session's display history.
func (d *DisplayStore) Clear(sessionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sessions, sessionID)
}
