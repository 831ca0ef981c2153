package upvote

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/civicmap/civicmap/internal/comment"
)

type fakeUpdater struct {
	err   error
	calls int
	gotID int64
	gotN  int64
}

func (f *fakeUpdater) SetUpvotes(id, upvotes int64) error {
	f.calls++
	f.gotID = id
	f.gotN = upvotes
	return f.err
}

func testStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "upvoted.json"))
}

func TestVoteSuccess(t *testing.T) {
	store := testStore(t)
	updater := &fakeUpdater{}
	var committedID, committedN int64
	u := New(store, updater, func(id, n int64) { committedID, committedN = id, n })

	c := &comment.Comment{ID: 5, Upvotes: 2}
	if err := u.Vote(c); err != nil {
		t.Fatalf("vote: %v", err)
	}

	if c.Upvotes != 3 {
		t.Errorf("local count = %d, want previous+1", c.Upvotes)
	}
	if !store.Has(5) {
		t.Error("expected id in the persisted voted set")
	}
	if updater.gotID != 5 || updater.gotN != 3 {
		t.Errorf("update = (%d, %d), want (5, 3)", updater.gotID, updater.gotN)
	}
	if committedID != 5 || committedN != 3 {
		t.Errorf("commit callback = (%d, %d), want (5, 3)", committedID, committedN)
	}
}

func TestVoteFailureRollsBack(t *testing.T) {
	store := testStore(t)
	updater := &fakeUpdater{err: fmt.Errorf("store down")}
	u := New(store, updater, nil)

	c := &comment.Comment{ID: 5, Upvotes: 2}
	if err := u.Vote(c); err == nil {
		t.Fatal("expected error, got nil")
	}

	if c.Upvotes != 2 {
		t.Errorf("local count = %d, want rolled back to 2", c.Upvotes)
	}
	if store.Has(5) {
		t.Error("expected id removed from the persisted voted set")
	}
	if u.HasVoted(5) {
		t.Error("expected device able to retry after rollback")
	}
}

func TestSecondVoteIsNoOp(t *testing.T) {
	store := testStore(t)
	updater := &fakeUpdater{}
	u := New(store, updater, nil)

	c := &comment.Comment{ID: 7, Upvotes: 0}
	if err := u.Vote(c); err != nil {
		t.Fatalf("first vote: %v", err)
	}

	err := u.Vote(c)
	if !errors.Is(err, ErrAlreadyVoted) {
		t.Errorf("err = %v, want ErrAlreadyVoted", err)
	}
	if updater.calls != 1 {
		t.Errorf("network calls = %d, want 1 (second vote must not call)", updater.calls)
	}
	if c.Upvotes != 1 {
		t.Errorf("count = %d, want unchanged 1", c.Upvotes)
	}
}

func TestRetryAfterFailureSucceeds(t *testing.T) {
	store := testStore(t)
	updater := &fakeUpdater{err: fmt.Errorf("transient")}
	u := New(store, updater, nil)

	c := &comment.Comment{ID: 9, Upvotes: 0}
	if err := u.Vote(c); err == nil {
		t.Fatal("expected first vote to fail")
	}

	updater.err = nil
	if err := u.Vote(c); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if c.Upvotes != 1 {
		t.Errorf("count = %d, want 1", c.Upvotes)
	}
	if !store.Has(9) {
		t.Error("expected id persisted after successful retry")
	}
}

func TestFileStorePersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upvoted.json")

	s1 := NewFileStore(path)
	s1.Add(3)
	s1.Add(11)

	// Simulates a page reload: a fresh store sees the persisted set.
	s2 := NewFileStore(path)
	if !s2.Has(3) || !s2.Has(11) {
		t.Error("expected persisted ids visible after reload")
	}
	if s2.Has(4) {
		t.Error("unexpected id in reloaded set")
	}
}

func TestFileStoreEncodesStringArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upvoted.json")

	s := NewFileStore(path)
	s.Add(42)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading store file: %v", err)
	}
	if string(data) != `["42"]` {
		t.Errorf("file contents = %s, want a JSON array of id strings", data)
	}
}

func TestFileStoreToleratesMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if s.Has(1) {
		t.Error("expected empty set for missing file")
	}
}

func TestFileStoreToleratesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upvoted.json")
	if err := os.WriteFile(path, []byte("{corrupt"), 0o644); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	s := NewFileStore(path)
	if s.Has(1) {
		t.Error("expected corrupt file treated as empty set")
	}

	// The store still works after recovering from corruption.
	s.Add(1)
	if !s.Has(1) {
		t.Error("expected add to work after corrupt load")
	}
}

func TestFileStoreIgnoresNonNumericIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upvoted.json")
	if err := os.WriteFile(path, []byte(`["12", "nope", "7"]`), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	s := NewFileStore(path)
	if !s.Has(12) || !s.Has(7) {
		t.Error("expected numeric ids loaded")
	}
}
