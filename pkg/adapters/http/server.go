// Package http exposes the workflow service as a JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/peoplehub/hrflow"
	"github.com/peoplehub/hrflow/pkg/domain"
)

// Service defines what the handler needs from the workflow facade.
type Service interface {
	Message(ctx context.Context, req hrflow.MessageRequest) (hrflow.Reply, error)
	Cancel(ctx context.Context, conversationID string) (domain.Directive, error)
	Render(directive domain.Directive, locale string) string
	Inspect(ctx context.Context, conversationID string) (*domain.SessionState, error)
	End(ctx context.Context, conversationID string) error
	Conversations(ctx context.Context) ([]string, error)
}

// Server routes HTTP requests to the workflow service.
type Server struct {
	service  Service
	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics mounts GET /metrics for the given gatherer.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// NewHandler builds the HTTP handler for the service.
func NewHandler(service Service, opts ...Option) http.Handler {
	s := &Server{service: service, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Route("/conversations", func(r chi.Router) {
		r.Get("/", s.listConversations)
		r.Route("/{conversationID}", func(r chi.Router) {
			r.Post("/messages", s.postMessage)
			r.Post("/cancel", s.postCancel)
			r.Get("/", s.getConversation)
			r.Delete("/", s.deleteConversation)
		})
	})
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// messageBody is the POST /conversations/{id}/messages payload.
type messageBody struct {
	ActorID string `json:"actor_id,omitempty"`
	Locale  string `json:"locale,omitempty"`
	Text    string `json:"text"`
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	var body messageBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("message: invalid request body", "error", err)
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	reply, err := s.service.Message(r.Context(), hrflow.MessageRequest{
		ConversationID: conversationID,
		ActorID:        body.ActorID,
		Locale:         body.Locale,
		Text:           body.Text,
	})
	if err != nil {
		if errors.Is(err, hrflow.ErrInputTooLarge) || errors.Is(err, hrflow.ErrInvalidUTF8) {
			http.Error(w, "input rejected", http.StatusBadRequest)
			s.logger.Warn("message: input rejected", "conversation", conversationID, "error", err)
			return
		}
		http.Error(w, "message handling failed", http.StatusInternalServerError)
		s.logger.Error("message handling failed", "conversation", conversationID, "error", err)
		return
	}

	writeJSON(w, s.logger, http.StatusOK, reply)
}

func (s *Server) postCancel(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	directive, err := s.service.Cancel(r.Context(), conversationID)
	if err != nil {
		http.Error(w, "cancel failed", http.StatusInternalServerError)
		s.logger.Error("cancel failed", "conversation", conversationID, "error", err)
		return
	}

	writeJSON(w, s.logger, http.StatusOK, map[string]any{
		"directive": directive,
		"text":      s.service.Render(directive, ""),
	})
}

func (s *Server) getConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	state, err := s.service.Inspect(r.Context(), conversationID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.Error(w, "conversation not found", http.StatusNotFound)
			return
		}
		http.Error(w, "inspect failed", http.StatusInternalServerError)
		s.logger.Error("inspect failed", "conversation", conversationID, "error", err)
		return
	}

	writeJSON(w, s.logger, http.StatusOK, state)
}

func (s *Server) deleteConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversationID")

	if err := s.service.End(r.Context(), conversationID); err != nil {
		http.Error(w, "delete failed", http.StatusInternalServerError)
		s.logger.Error("delete failed", "conversation", conversationID, "error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listConversations(w http.ResponseWriter, r *http.Request) {
	ids, err := s.service.Conversations(r.Context())
	if err != nil {
		http.Error(w, "list failed", http.StatusInternalServerError)
		s.logger.Error("list failed", "error", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, s.logger, http.StatusOK, map[string]any{"conversations": ids})
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{
		"app":     "hrflow-http",
		"version": strings.TrimSpace(hrflow.Version),
	})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
