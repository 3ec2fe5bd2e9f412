package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lamnguyen/cvstudio/internal/assistant"
	"github.com/lamnguyen/cvstudio/internal/llm"
	"github.com/lamnguyen/cvstudio/internal/profile"
	"github.com/lamnguyen/cvstudio/internal/storage"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // single-user local app
	},
}

// wsIncoming is a message from the client.
type wsIncoming struct {
	Type    string               `json:"type"`
	Content string               `json:"content"`
	Profile *profile.UserProfile `json:"profile,omitempty"`
	JDText  string               `json:"jd_text,omitempty"`
}

// wsOutgoing is a message to the client.
type wsOutgoing struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	Name    string `json:"name,omitempty"`
	Args    string `json:"args,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Verify session exists
	sess, err := s.store.GetSession(r.Context(), id)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	as := s.sessions.GetOrCreate(sess.ID)

	// Read loop
	for {
		var msg wsIncoming
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			s.log.Warn("websocket read failed", zap.Error(err))
			return
		}

		if msg.Type != "message" || msg.Content == "" {
			s.wsWriteJSON(conn, wsOutgoing{Type: "error", Content: "invalid message"})
			continue
		}

		s.processWebSocketMessage(conn, as, sess, msg)
	}
}

func (s *Server) processWebSocketMessage(conn *websocket.Conn, as *ActiveSession, sess *storage.Session, msg wsIncoming) {
	// One message at a time per session
	as.mu.Lock()
	defer as.mu.Unlock()

	ctx := context.Background()

	// Serialize writes to the connection; tool callbacks fire from the
	// orchestration path.
	var wsMu sync.Mutex
	send := func(out wsOutgoing) {
		wsMu.Lock()
		defer wsMu.Unlock()
		s.wsWriteJSON(conn, out)
	}

	if sess.Title == "" {
		sess.Title = generateTitle(msg.Content)
		s.store.UpdateSession(ctx, sess)
	}

	history, err := s.store.LoadMessages(ctx, sess.ID)
	if err != nil {
		send(wsOutgoing{Type: "error", Content: err.Error()})
		return
	}

	req := chatRequest{Content: msg.Content, Profile: msg.Profile, JDText: msg.JDText}

	obs := &assistant.ToolObserver{
		OnToolCall: func(name string, args string) {
			send(wsOutgoing{Type: "tool_call", Name: name, Args: args})
		},
		OnToolResult: func(name string, result string) {
			send(wsOutgoing{Type: "tool_result", Name: name, Content: result})
		},
	}

	content := s.chat.ChatWithTools(ctx, s.buildChatMessages(req, history), obs)

	history = append(history, llm.UserMessage(msg.Content), llm.AssistantMessage(content))
	if saveErr := s.store.SaveMessages(ctx, sess.ID, history); saveErr != nil {
		s.log.Warn("saving websocket messages failed",
			zap.String("session", sess.ID), zap.Error(saveErr))
	}

	send(wsOutgoing{Type: "done", Content: content})
}

func (s *Server) wsWriteJSON(conn *websocket.Conn, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("websocket marshal failed", zap.Error(err))
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.log.Warn("websocket write failed", zap.Error(err))
	}
}
