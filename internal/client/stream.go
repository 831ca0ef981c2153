package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/civicmap/civicmap/internal/comment"
)

// StreamInserts connects to the realtime insert feed and delivers each
// inserted comment on the returned channel until ctx is canceled or the
// connection drops. The channel is closed when the stream ends.
func (c *Client) StreamInserts(ctx context.Context) (<-chan *comment.Comment, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/comments/stream", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	// The stream outlives the default request timeout.
	streamClient := &http.Client{Transport: c.httpClient.Transport}
	resp, err := streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connecting to stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("closing stream body", "error", cerr)
		}
		return nil, fmt.Errorf("stream returned status %d", resp.StatusCode)
	}

	events := make(chan *comment.Comment)
	go func() {
		defer close(events)
		defer func() {
			if cerr := resp.Body.Close(); cerr != nil && ctx.Err() == nil {
				slog.Warn("closing stream body", "error", cerr)
			}
		}()

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			data, ok := strings.CutPrefix(scanner.Text(), "data: ")
			if !ok {
				continue // event/id/heartbeat lines
			}

			var ev comment.Comment
			if err := json.Unmarshal([]byte(data), &ev); err != nil {
				slog.Warn("decoding insert event", "error", err)
				continue
			}

			select {
			case events <- &ev:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			slog.Warn("insert stream ended", "error", err)
		}
	}()

	return events, nil
}
