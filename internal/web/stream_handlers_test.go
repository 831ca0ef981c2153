package web

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/civicmap/civicmap/internal/comment"
)

func TestStreamDeliversInserts(t *testing.T) {
	srv, env := testServer(t)

	ts := httptest.NewServer(srv)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", ts.URL+"/api/comments/stream", nil)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connecting to stream: %v", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil && ctx.Err() == nil {
			t.Errorf("close body: %v", err)
		}
	}()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content-type = %q, want text/event-stream", ct)
	}

	waitForSubscriber(t, env)

	// The handler publishes after the repository insert; do the same here.
	c, err := env.repo.Insert(comment.NewComment{
		CommentText: "Pothole on Elm St",
		Theme:       comment.ThemeInfrastructure,
		Latitude:    37.75,
		Longitude:   -122.41,
		ZipCode:     "94110",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	env.hub.Publish(c)

	got := readInsertEvent(t, resp)
	if got.CommentText != "Pothole on Elm St" {
		t.Errorf("event text = %q, want the inserted comment", got.CommentText)
	}
	if got.ID != c.ID {
		t.Errorf("event id = %d, want %d", got.ID, c.ID)
	}
}

func TestStreamMethodNotAllowed(t *testing.T) {
	srv, _ := testServer(t)

	r := httptest.NewRequest("POST", "/api/comments/stream", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestStreamUnsubscribesOnDisconnect(t *testing.T) {
	srv, env := testServer(t)

	ts := httptest.NewServer(srv)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, "GET", ts.URL+"/api/comments/stream", nil)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connecting to stream: %v", err)
	}

	waitForSubscriber(t, env)

	cancel()
	_ = resp.Body.Close()

	deadline := time.Now().Add(2 * time.Second)
	for env.hub.SubscriberCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber count = %d after disconnect, want 0", env.hub.SubscriberCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// waitForSubscriber blocks until the stream handler has registered its
// feed subscription.
func waitForSubscriber(t *testing.T, env *testEnv) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for env.hub.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream handler never subscribed")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// readInsertEvent reads SSE lines until an insert event's data arrives.
func readInsertEvent(t *testing.T, resp *http.Response) *comment.Comment {
	t.Helper()
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if data, ok := strings.CutPrefix(line, "data: "); ok {
			var c comment.Comment
			if err := json.Unmarshal([]byte(data), &c); err != nil {
				t.Fatalf("decoding event data %q: %v", data, err)
			}
			return &c
		}
	}
	t.Fatalf("stream ended without an insert event: %v", scanner.Err())
	return nil
}
