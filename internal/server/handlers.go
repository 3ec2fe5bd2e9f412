package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lamnguyen/cvstudio/internal/assistant"
	"github.com/lamnguyen/cvstudio/internal/export"
	"github.com/lamnguyen/cvstudio/internal/extract"
	"github.com/lamnguyen/cvstudio/internal/llm"
	"github.com/lamnguyen/cvstudio/internal/profile"
	"github.com/lamnguyen/cvstudio/internal/storage"
)

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// --- Session handlers ---

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	opts := storage.SessionListOptions{}

	if status := r.URL.Query().Get("status"); status != "" {
		opts.Status = storage.SessionStatus(status)
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			opts.Limit = n
		}
	}
	if offset := r.URL.Query().Get("offset"); offset != "" {
		if n, err := strconv.Atoi(offset); err == nil {
			opts.Offset = n
		}
	}

	sessions, err := s.store.ListSessions(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if sessions == nil {
		sessions = []storage.Session{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

type createSessionRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	sess := &storage.Session{
		ID:     uuid.New().String(),
		Title:  req.Title,
		Status: storage.StatusActive,
		Model:  s.cfg.LLM.Model,
	}

	if err := s.store.CreateSession(r.Context(), sess); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.store.GetSession(r.Context(), id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, http.StatusNotFound, "session not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Drop the per-session lock first
	s.sessions.Remove(id)

	if err := s.store.DeleteSession(r.Context(), id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, http.StatusNotFound, "session not found")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Conversation handlers ---

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	messages, err := s.store.LoadMessages(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	if messages == nil {
		messages = []llm.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

type chatRequest struct {
	Content string               `json:"content"`
	Profile *profile.UserProfile `json:"profile,omitempty"`
	JDText  string               `json:"jd_text,omitempty"`
}

// buildChatMessages assembles the model input: the chat persona with the
// user's current context, a bounded window of prior history, and the new
// user message.
func (s *Server) buildChatMessages(req chatRequest, history []llm.Message) []llm.Message {
	system := assistant.ChatSystemPrompt
	p := profile.UserProfile{}
	if req.Profile != nil {
		p = *req.Profile
	}
	system += assistant.ContextInfo(p, req.JDText)

	window := assistant.RecentWindow(history, s.cfg.Chat.HistoryWindow)
	messages := make([]llm.Message, 0, len(window)+2)
	messages = append(messages, llm.SystemMessage(system))
	messages = append(messages, window...)
	messages = append(messages, llm.UserMessage(req.Content))
	return messages
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	s.serveChat(w, r, func(req chatRequest, messages []llm.Message) string {
		return s.chat.ChatWithTools(r.Context(), messages, nil)
	})
}

func (s *Server) handleChatBatched(w http.ResponseWriter, r *http.Request) {
	s.serveChat(w, r, func(req chatRequest, messages []llm.Message) string {
		return s.batcher.Submit(r.Context(), messages)
	})
}

func (s *Server) serveChat(w http.ResponseWriter, r *http.Request, call func(chatRequest, []llm.Message) string) {
	id := chi.URLParam(r, "id")

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	sess, err := s.store.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	// One message at a time per session
	as := s.sessions.GetOrCreate(sess.ID)
	as.mu.Lock()
	defer as.mu.Unlock()

	history, err := s.store.LoadMessages(r.Context(), sess.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Auto-generate title from first message
	if sess.Title == "" {
		sess.Title = generateTitle(req.Content)
		s.store.UpdateSession(r.Context(), sess)
	}

	content := call(req, s.buildChatMessages(req, history))

	history = append(history, llm.UserMessage(req.Content), llm.AssistantMessage(content))
	if err := s.store.SaveMessages(r.Context(), sess.ID, history); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("saving messages: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"content": content})
}

// --- CV generation & document handlers ---

type generateRequest struct {
	SessionID    string              `json:"session_id,omitempty"`
	Profile      profile.UserProfile `json:"profile"`
	JDText       string              `json:"jd_text,omitempty"`
	UploadedText string              `json:"uploaded_text,omitempty"`
}

// mergedJD combines pasted JD text with text extracted from an upload, the
// same way the "improve from upload" action does.
func (req generateRequest) mergedJD() string {
	switch {
	case req.UploadedText != "" && req.JDText != "":
		return req.UploadedText + "\n\nJD:\n" + req.JDText
	case req.UploadedText != "":
		return req.UploadedText
	default:
		return req.JDText
	}
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	content := s.chat.GenerateCV(r.Context(), req.Profile, profile.JobDescription{RawText: req.mergedJD()})

	if req.SessionID != "" {
		if err := s.store.SaveCV(r.Context(), req.SessionID, content); err != nil {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"content": content})
}

func (s *Server) handleGetCV(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	text, err := s.store.LoadCV(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"content": text})
}

const maxUploadBytes = 10 << 20

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reading upload: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"filename": header.Filename,
		"text":     extract.Text(header.Filename, data),
	})
}

type exportRequest struct {
	Text     string `json:"text"`
	Filename string `json:"filename,omitempty"`
}

func (s *Server) handleExportDocument(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")

	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.Filename == "" {
		req.Filename = "CV"
	}

	var (
		data        []byte
		err         error
		contentType string
	)
	switch format {
	case "docx":
		data, err = export.Docx(req.Text)
		contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case "pdf":
		data, err = export.PDF(req.Text)
		contentType = "application/pdf"
	default:
		writeError(w, http.StatusBadRequest, "unknown format: "+format)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", req.Filename+"."+format))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleExportSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess, err := s.store.GetSession(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	messages, err := s.store.LoadMessages(r.Context(), sess.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "json":
		data, err := storage.ExportJSON(sess, messages)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	case "", "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, storage.ExportMarkdown(sess, messages))
	default:
		writeError(w, http.StatusBadRequest, "unknown format: "+format)
	}
}

// generateTitle creates a session title from the first user message.
func generateTitle(firstMessage string) string {
	t := strings.TrimSpace(firstMessage)
	if len(t) > 80 {
		t = t[:80] + "..."
	}
	return t
}
