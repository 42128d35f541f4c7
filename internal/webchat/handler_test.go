package webchat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoellner/praxis-agent/internal/intake"
	"github.com/mkoellner/praxis-agent/pkg/logging"
)

// mockTurns replies with a fixed result and records incoming messages.
type mockTurns struct {
	result   intake.Result
	messages []string
	sessions []*intake.Session
}

func (m *mockTurns) HandleTurn(_ context.Context, s *intake.Session, userMessage string) intake.Result {
	m.messages = append(m.messages, userMessage)
	m.sessions = append(m.sessions, s)
	return m.result
}

func newTestHandler(turns TurnHandler) (*Handler, *intake.Store, *DisplayStore) {
	store := intake.NewStore()
	display := NewDisplayStore()
	h := NewHandler(turns, store, display, "Zahnarztpraxis Dr. Müller", logging.New("error"))
	return h, store, display
}

func TestGenerateSessionID(t *testing.T) {
	s1 := generateSessionID()
	s2 := generateSessionID()
	assert.NotEmpty(t, s1)
	assert.NotEqual(t, s1, s2)
	assert.Len(t, s1, 32) // 16 bytes = 32 hex chars
}

func TestHandleMessage_HTTP(t *testing.T) {
	turns := &mockTurns{result: intake.Result{Reply: "Gerne! Wie ist Ihr Name?"}}
	h, store, display := newTestHandler(turns)

	body := `{"session_id":"sess1","text":"Hallo"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/message", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleMessage(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SessionID string `json:"session_id"`
		Reply     string `json:"reply"`
		Celebrate bool   `json:"celebrate"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "sess1", resp.SessionID)
	assert.Equal(t, "Gerne! Wie ist Ihr Name?", resp.Reply)
	assert.False(t, resp.Celebrate)

	require.Len(t, turns.messages, 1)
	assert.Equal(t, "Hallo", turns.messages[0])
	assert.Equal(t, "sess1", turns.sessions[0].ID)
	assert.Equal(t, 1, store.Len())

	msgs := display.List("sess1")
	require.Len(t, msgs, 2)
	assert.Equal(t, intake.RoleUser, msgs[0].Role)
	assert.Equal(t, "Hallo", msgs[0].Text)
	assert.Equal(t, intake.RoleAssistant, msgs[1].Role)
}

func TestHandleMessage_CelebrateOnDispatch(t *testing.T) {
	turns := &mockTurns{result: intake.Result{Reply: intake.SuccessReply, Dispatched: true}}
	h, _, _ := newTestHandler(turns)

	body := `{"session_id":"sess1","text":"ja bitte"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/message", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.HandleMessage(w, req)

	var resp struct {
		Celebrate bool `json:"celebrate"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Celebrate)
}

func TestHandleMessage_MissingText(t *testing.T) {
	h, _, _ := newTestHandler(&mockTurns{})

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/message", strings.NewReader(`{"session_id":"x"}`))
	w := httptest.NewRecorder()

	h.HandleMessage(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleMessage_GeneratesSessionID(t *testing.T) {
	h, _, _ := newTestHandler(&mockTurns{result: intake.Result{Reply: "Hallo!"}})

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/message", strings.NewReader(`{"text":"Hi"}`))
	w := httptest.NewRecorder()

	h.HandleMessage(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
}

func TestHandleHistory(t *testing.T) {
	h, _, display := newTestHandler(&mockTurns{})
	display.Append("sess1", intake.RoleUser, "Hallo")
	display.Append("sess1", intake.RoleAssistant, "Guten Tag!")

	req := httptest.NewRequest(http.MethodGet, "/v1/chat/history?session=sess1", nil)
	w := httptest.NewRecorder()

	h.HandleHistory(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Messages []DisplayMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, intake.RoleUser, resp.Messages[0].Role)
	assert.Equal(t, "Hallo", resp.Messages[0].Text)
	assert.Equal(t, intake.RoleAssistant, resp.Messages[1].Role)
}

func TestHandleHistory_MissingSession(t *testing.T) {
	h, _, _ := newTestHandler(&mockTurns{})

	req := httptest.NewRequest(http.MethodGet, "/v1/chat/history", nil)
	w := httptest.NewRecorder()

	h.HandleHistory(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// The display transcript keeps what the patient sees even though a handoff
// resets the intake transcript.
func TestDisplayTranscriptSurvivesIntakeReset(t *testing.T) {
	turns := &mockTurns{result: intake.Result{Reply: intake.SuccessReply, Dispatched: true}}
	h, store, display := newTestHandler(turns)

	s := store.Get("sess1")
	s.AppendExchange("Anna Schmidt, anna@test.de, Montag 10 Uhr", "Soll ich diese Anfrage weiterleiten?")

	body := `{"session_id":"sess1","text":"ja"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/message", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleMessage(w, req)

	assert.Len(t, display.List("sess1"), 2, "display history must keep the exchange")
}

func TestHandleReset(t *testing.T) {
	h, store, display := newTestHandler(&mockTurns{})

	s := store.Get("sess1")
	s.AppendExchange("Hallo", "Guten Tag!")
	s.Phase = intake.PhaseAwaitingConfirmation
	display.Append("sess1", intake.RoleUser, "Hallo")

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/reset", strings.NewReader(`{"session_id":"sess1"}`))
	w := httptest.NewRecorder()

	h.HandleReset(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Empty(t, s.Transcript)
	assert.Equal(t, intake.PhaseCollecting, s.Phase)

	msgs := display.List("sess1")
	require.Len(t, msgs, 1, "reset leaves only the fresh welcome message")
	assert.Contains(t, msgs[0].Text, "Willkommen")
}

func TestHandleReset_MissingSessionID(t *testing.T) {
	h, _, _ := newTestHandler(&mockTurns{})

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/reset", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	h.HandleReset(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleWidgetJS(t *testing.T) {
	h, _, _ := newTestHandler(&mockTurns{})

	req := httptest.NewRequest(http.MethodGet, "/widget.js", nil)
	w := httptest.NewRecorder()

	h.HandleWidgetJS(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/javascript", w.Header().Get("Content-Type"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Body.String())
}

func TestDisplayStore_TrimsToLimit(t *testing.T) {
	d := NewDisplayStore()
	for i := 0; i < displayLimit+10; i++ {
		d.Append("s", intake.RoleUser, "msg")
	}
	assert.Len(t, d.List("s"), displayLimit)
}
