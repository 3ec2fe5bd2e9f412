// Package server exposes the CV assistant over HTTP: session CRUD,
// orchestrated and coalesced chat, CV generation, file extraction, and
// document export.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lamnguyen/cvstudio/internal/assistant"
	"github.com/lamnguyen/cvstudio/internal/config"
	"github.com/lamnguyen/cvstudio/internal/llm"
	"github.com/lamnguyen/cvstudio/internal/profile"
	"github.com/lamnguyen/cvstudio/internal/storage"
)

// ChatService is what the server needs from the assistant layer. Plain
// non-tool chat reaches the model through the Batcher instead.
type ChatService interface {
	ChatWithTools(ctx context.Context, messages []llm.Message, obs *assistant.ToolObserver) string
	GenerateCV(ctx context.Context, p profile.UserProfile, jd profile.JobDescription) string
}

// Batcher is the coalesced submission path for quick-action chat.
type Batcher interface {
	Submit(ctx context.Context, messages []llm.Message) string
}

// Server is the HTTP server for the cvstudio web API.
type Server struct {
	cfg      *config.Config
	store    storage.Store
	chat     ChatService
	batcher  Batcher
	sessions *SessionManager
	log      *zap.Logger
	router   chi.Router
	http     *http.Server
}

// New creates a Server.
func New(cfg *config.Config, store storage.Store, chat ChatService, batcher Batcher, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		store:    store,
		chat:     chat,
		batcher:  batcher,
		sessions: NewSessionManager(),
		log:      log,
		router:   chi.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Route("/api", func(r chi.Router) {
		r.Use(jsonContentType)

		// Sessions
		r.Get("/sessions", s.handleListSessions)
		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Delete("/sessions/{id}", s.handleDeleteSession)

		// Conversation
		r.Get("/sessions/{id}/messages", s.handleGetMessages)
		r.Post("/sessions/{id}/chat", s.handleChat)
		r.Post("/sessions/{id}/chat/batched", s.handleChatBatched)
		r.Get("/sessions/{id}/cv", s.handleGetCV)
		r.Get("/sessions/{id}/export", s.handleExportSession)

		// WebSocket (no JSON content-type)
		r.Get("/sessions/{id}/ws", s.handleWebSocket)

		// CV generation & documents
		r.Post("/generate", s.handleGenerate)
		r.Post("/extract", s.handleExtract)
		r.Post("/export/{format}", s.handleExportDocument)
	})
}

// jsonContentType sets Content-Type to application/json for API routes.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Handler returns the root HTTP handler (used by tests).
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening on the given port.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.http = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	s.log.Info("cvstudio server starting", zap.String("addr", "http://localhost"+addr))
	return s.http.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return s.http.Shutdown(shutdownCtx)
}
