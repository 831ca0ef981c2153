package web

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/civicmap/civicmap/internal/comment"
	"github.com/civicmap/civicmap/internal/db"
	"github.com/civicmap/civicmap/internal/feed"
)

// testEnv exposes the fakes behind a test server.
type testEnv struct {
	classifier *fakeClassifier
	hub        *feed.Hub
	repo       *comment.Repository
	db         *sql.DB
}

// testServer creates an API server over a temporary database.
func testServer(t *testing.T) (*Server, *testEnv) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	d, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})

	env := &testEnv{
		classifier: &fakeClassifier{theme: comment.ThemeOther},
		hub:        feed.NewHub(),
		repo:       comment.NewRepository(d),
		db:         d,
	}
	return NewServer(d, env.classifier, env.hub), env
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := testServer(t)

	r := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q, want status ok", w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := testServer(t)

	r := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "civicmap_") {
		t.Error("expected civicmap collectors in metrics output")
	}
}

func TestUnknownCommentSubrouteNotFound(t *testing.T) {
	srv, _ := testServer(t)

	r := httptest.NewRequest("GET", "/api/comments/42/nonsense", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
