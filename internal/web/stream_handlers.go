package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/civicmap/civicmap/internal/metrics"
)

// heartbeatInterval keeps idle SSE connections alive through proxies.
const heartbeatInterval = 15 * time.Second

// handleStream implements GET /api/comments/stream: a server-sent-events
// feed of comment inserts. Every subscriber receives every insert; dedup
// against a client's own inserts is the client's responsibility.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		apiError(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, cancel := s.feed.Subscribe()
	defer cancel()

	metrics.FeedSubscribers.Inc()
	defer metrics.FeedSubscribers.Dec()

	slog.Info("feed subscriber connected", "ip", r.RemoteAddr)
	defer slog.Info("feed subscriber disconnected", "ip", r.RemoteAddr)

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case c, open := <-events:
			if !open {
				return
			}
			data, err := json.Marshal(c)
			if err != nil {
				slog.Error("encoding insert event", "error", err, "comment", c.ID)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: insert\nid: %d\ndata: %s\n\n", c.ID, data); err != nil {
				return
			}
			flusher.Flush()

		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
