// Package web provides the HTTP server and handlers for the civicmap API.
package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/civicmap/civicmap/internal/comment"
	"github.com/civicmap/civicmap/internal/feed"
	"github.com/civicmap/civicmap/internal/logging"
)

// ThemeClassifier assigns a theme to comment text.
type ThemeClassifier interface {
	Classify(ctx context.Context, text string) (comment.Theme, error)
}

// Server is the civicmap API HTTP server.
type Server struct {
	commentRepo *comment.Repository
	classifier  ThemeClassifier
	feed        feed.Broadcaster
	mux         *http.ServeMux
}

// NewServer creates an API server over the given database, classifier, and
// realtime broadcaster.
func NewServer(db *sql.DB, classifier ThemeClassifier, broadcaster feed.Broadcaster) *Server {
	s := &Server{
		commentRepo: comment.NewRepository(db),
		classifier:  classifier,
		feed:        broadcaster,
		mux:         http.NewServeMux(),
	}

	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("/api/classify", s.handleClassify)
	s.mux.HandleFunc("/api/comments", s.handleComments)
	s.mux.HandleFunc("/api/comments/", s.handleCommentRoute)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server with request logging.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	return http.ListenAndServe(addr, logging.RequestLogger(s))
}

// handleHealth reports server liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}
