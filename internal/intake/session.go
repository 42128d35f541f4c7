package intake

import "sync"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one utterance by either the patient or the assistant.
// Turns are immutable once appended.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Phase is the conversation's position in the intake state machine.
type Phase string

const (
	// PhaseCollecting: the assistant is still gathering the four required
	// pieces of information (name, contact, appointment wish, reason).
	PhaseCollecting Phase = "collecting"
	// PhaseAwaitingConfirmation: the assistant has summarized and offered to
	// forward the request; the next affirmative patient message triggers the
	// handoff.
	PhaseAwaitingConfirmation Phase = "awaiting_confirmation"
)

// Session is the sole mutable unit of conversation state. One Session exists
// per active conversation and is never shared across conversations. Access is
// strictly sequential; callers that expose a session to concurrent requests
// must hold the embedded mutex around each turn.
type Session struct {
	sync.Mutex

	ID         string
	Transcript []Turn
	Phase      Phase
}

// NewSession creates an empty session in the Collecting phase.
func NewSession(id string) *Session {
	return &Session{ID: id, Phase: PhaseCollecting}
}

// AppendExchange records one completed exchange, user turn first.
func (s *Session) AppendExchange(userText, assistantText string) {
	s.Transcript = append(s.Transcript,
		Turn{Role: RoleUser, Text: userText},
		Turn{Role: RoleAssistant, Text: assistantText},
	)
}

// Snapshot returns a copy of the transcript safe to hand to slower
// downstream consumers (extraction, dispatch).
func (s *Session) Snapshot() []Turn {
	out := make([]Turn, len(s.Transcript))
	copy(out, s.Transcript)
	return out
}

// Reset empties the transcript and returns the session to Collecting.
// Called on explicit reset and after a successful handoff dispatch.
func (s *Session) Reset() {
	s.Transcript = nil
	s.Phase = PhaseCollecting
}

// Store owns all active sessions, keyed by session ID.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Get returns the session for id, creating it if it does not exist yet.
func (st *Store) Get(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		s = NewSession(id)
		st.sessions[id] = s
	}
	return s
}

// Lookup returns the session for id without creating one.
func (st *Store) Lookup(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete removes a session entirely.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len reports the number of active sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
