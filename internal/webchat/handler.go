package webchat

import (
	"context"
	"crypto/rand"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/mkoellner/praxis-agent/internal/intake"
	"github.com/mkoellner/praxis-agent/pkg/logging"
)

//go:embed widget.js
var widgetJS []byte

// TurnHandler processes one patient message against a session.
type TurnHandler interface {
	HandleTurn(ctx context.Context, s *intake.Session, userMessage string) intake.Result
}

// Handler serves the chat widget, the WebSocket endpoint and the HTTP
// fallback. Each turn runs synchronously: the reply is computed before the
// response (or the next WebSocket frame) goes out, and the session mutex
// serializes concurrent turns on the same session.
type Handler struct {
	turns        TurnHandler
	sessions     *intake.Store
	display      *DisplayStore
	practiceName string
	logger       *logging.Logger
}

// InboundMessage is what the widget sends over the WebSocket.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what the handler sends to the widget.
type OutboundMessage struct {
	Type      string           `json:"type"` // "message", "typing", "pong", "history", "session", "error"
	Text      string           `json:"text,omitempty"`
	Role      string           `json:"role,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
	Celebrate bool             `json:"celebrate,omitempty"`
	Messages  []DisplayMessage `json:"messages,omitempty"`
}

// NewHandler creates a webchat handler.
func NewHandler(turns TurnHandler, sessions *intake.Store, display *DisplayStore, practiceName string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if display == nil {
		display = NewDisplayStore()
	}
	return &Handler{
		turns:        turns,
		sessions:     sessions,
		display:      display,
		practiceName: practiceName,
		logger:       logger,
	}
}

// generateSessionID creates a random session identifier.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// HandleWebSocket upgrades to WebSocket and runs the turn loop.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = generateSessionID()
	}

	_ = websocket.JSON.Send(conn, OutboundMessage{Type: "session", SessionID: sessionID})

	if history := h.display.List(sessionID); len(history) > 0 {
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "history", Messages: history})
	} else {
		welcome := intake.WelcomeMessage(h.practiceName)
		h.display.Append(sessionID, intake.RoleAssistant, welcome)
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "message", Role: intake.RoleAssistant, Text: welcome})
	}

	h.logger.Info("webchat: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		}

		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "typing"})

		res := h.processTurn(r.Context(), sessionID, msg.Text)
		_ = websocket.JSON.Send(conn, OutboundMessage{
			Type:      "message",
			Role:      intake.RoleAssistant,
			Text:      res.Reply,
			Celebrate: res.Dispatched,
		})
	}
}

// processTurn runs one message through the state machine and records both
// sides in the display transcript.
func (h *Handler) processTurn(ctx context.Context, sessionID, text string) intake.Result {
	h.display.Append(sessionID, intake.RoleUser, text)

	s := h.sessions.Get(sessionID)
	s.Lock()
	res := h.turns.HandleTurn(ctx, s, text)
	s.Unlock()

	h.display.Append(sessionID, intake.RoleAssistant, res.Reply)
	return res
}

// HandleMessage is the HTTP fallback for widgets without WebSocket support.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Text      string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = generateSessionID()
	}

	res := h.processTurn(r.Context(), req.SessionID, req.Text)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"session_id": req.SessionID,
		"reply":      res.Reply,
		"celebrate":  res.Dispatched,
	})
}

// HandleHistory returns the display transcript for a session. Unlike the
// intake transcript it survives a successful handoff.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"messages": h.display.List(sessionID),
	})
}

// HandleReset clears a session entirely and returns a fresh welcome message.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	if s, ok := h.sessions.Lookup(req.SessionID); ok {
		s.Lock()
		s.Reset()
		s.Unlock()
	}
	h.display.Clear(req.SessionID)

	welcome := intake.WelcomeMessage(h.practiceName)
	h.display.Append(req.SessionID, intake.RoleAssistant, welcome)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"session_id": req.SessionID,
		"reply":      welcome,
	})
}

// HandleWidgetJS serves the embeddable widget JavaScript.
func (h *Handler) HandleWidgetJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_, _ = w.Write(widgetJS)
}
