package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/civicmap/civicmap/internal/comment"
	"github.com/civicmap/civicmap/internal/metrics"
)

// handleClassify implements POST /api/classify. Validation runs in a fixed
// order, each failure terminating the request; classifier failures surface
// as a generic 502 with the proximate cause logged server-side only.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		metrics.ClassifyRequests.WithLabelValues("rejected").Inc()
		apiError(w, "Invalid JSON body.", http.StatusBadRequest)
		return
	}

	// Unmarshal leaves the target untouched for JSON null, so null has to
	// be rejected explicitly or it would pass as an empty string.
	var text string
	raw, ok := body["comment_text"]
	if !ok || string(raw) == "null" || json.Unmarshal(raw, &text) != nil {
		metrics.ClassifyRequests.WithLabelValues("rejected").Inc()
		apiError(w, `Request body must include a "comment_text" string field.`, http.StatusUnprocessableEntity)
		return
	}

	text = strings.TrimSpace(text)
	if text == "" {
		metrics.ClassifyRequests.WithLabelValues("rejected").Inc()
		apiError(w, `"comment_text" must not be empty.`, http.StatusUnprocessableEntity)
		return
	}
	if utf8.RuneCountInString(text) > comment.MaxTextLen {
		metrics.ClassifyRequests.WithLabelValues("rejected").Inc()
		apiError(w, `"comment_text" must be 2000 characters or fewer.`, http.StatusUnprocessableEntity)
		return
	}

	theme, err := s.classifier.Classify(r.Context(), text)
	if err != nil {
		slog.Error("classification failed", "error", err)
		metrics.ClassifyRequests.WithLabelValues("unavailable").Inc()
		apiError(w, "Classification failed. Please try again.", http.StatusBadGateway)
		return
	}

	metrics.ClassifyRequests.WithLabelValues("ok").Inc()
	apiJSON(w, map[string]comment.Theme{"theme": theme}, http.StatusOK)
}
