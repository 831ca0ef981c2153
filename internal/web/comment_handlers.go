package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/civicmap/civicmap/internal/comment"
	"github.com/civicmap/civicmap/internal/metrics"
)

// handleComments routes /api/comments, snapshot or insert.
func (s *Server) handleComments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.apiListComments(w)
	case http.MethodPost:
		s.apiCreateComment(w, r)
	default:
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleCommentRoute routes /api/comments/{id}/upvotes and the stream.
func (s *Server) handleCommentRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/comments/")

	if path == "stream" {
		s.handleStream(w, r)
		return
	}

	if idStr, ok := strings.CutSuffix(path, "/upvotes"); ok {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			apiError(w, "invalid comment ID", http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodPost {
			apiError(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.apiUpdateUpvotes(w, r, id)
		return
	}

	apiError(w, "not found", http.StatusNotFound)
}

// apiListComments returns the full comments snapshot.
func (s *Server) apiListComments(w http.ResponseWriter) {
	comments, err := s.commentRepo.List()
	if err != nil {
		slog.Error("listing comments", "error", err)
		apiError(w, "Could not load comments. Please try again.", http.StatusInternalServerError)
		return
	}

	if comments == nil {
		comments = make([]*comment.Comment, 0)
	}

	apiJSON(w, comments, http.StatusOK)
}

// apiCreateComment inserts a comment and broadcasts it on the realtime
// feed. The feed echoes the insert to every subscriber, the committing
// client included.
func (s *Server) apiCreateComment(w http.ResponseWriter, r *http.Request) {
	var req comment.NewComment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "Invalid JSON body.", http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		apiError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	c, err := s.commentRepo.Insert(req)
	if err != nil {
		slog.Error("saving comment", "error", err)
		apiError(w, "Could not save your comment. Please try again.", http.StatusInternalServerError)
		return
	}

	metrics.CommentsCreated.Inc()
	s.feed.Publish(c)

	apiJSON(w, c, http.StatusCreated)
}

// apiUpdateUpvotes sets the upvote counter for a comment.
func (s *Server) apiUpdateUpvotes(w http.ResponseWriter, r *http.Request, id int64) {
	var req struct {
		Upvotes int64 `json:"upvotes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiError(w, "Invalid JSON body.", http.StatusBadRequest)
		return
	}
	if req.Upvotes < 0 {
		apiError(w, "upvotes must not be negative", http.StatusBadRequest)
		return
	}

	if err := s.commentRepo.UpdateUpvotes(id, req.Upvotes); err != nil {
		if errors.Is(err, comment.ErrNotFound) {
			apiError(w, "comment not found", http.StatusNotFound)
			return
		}
		slog.Error("updating upvotes", "error", err, "comment", id)
		apiError(w, "Could not update upvotes. Please try again.", http.StatusInternalServerError)
		return
	}

	metrics.UpvoteUpdates.Inc()
	if device := r.Header.Get("X-Device-ID"); device != "" {
		slog.Debug("upvotes updated", "comment", id, "upvotes", req.Upvotes, "device", device)
	}
	apiJSON(w, map[string]int64{"id": id, "upvotes": req.Upvotes}, http.StatusOK)
}
