package upvote

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/civicmap/civicmap/internal/comment"
)

// ErrAlreadyVoted is returned when this device has already upvoted the
// comment, or a vote for it is in flight. No network call is made.
var ErrAlreadyVoted = errors.New("already upvoted from this device")

// Updater persists the new counter value, keyed by comment id.
type Updater interface {
	SetUpvotes(id, upvotes int64) error
}

// Upvoter runs the optimistic upvote flow. The local count, the voted
// flag, and the persisted device set all change before the network call
// and all roll back together when it fails.
type Upvoter struct {
	store   VoteStore
	updater Updater

	// onCommit, when set, observes each committed (id, newCount) so other
	// views of the same comment can stay in sync.
	onCommit func(id, newCount int64)

	mu       sync.Mutex
	inFlight map[int64]bool
}

// New creates an upvoter. onCommit may be nil.
func New(store VoteStore, updater Updater, onCommit func(id, newCount int64)) *Upvoter {
	return &Upvoter{
		store:    store,
		updater:  updater,
		onCommit: onCommit,
		inFlight: make(map[int64]bool),
	}
}

// HasVoted reports whether this device already upvoted the comment.
func (u *Upvoter) HasVoted(id int64) bool {
	return u.store.Has(id)
}

// Vote increments the comment's counter once per device. The optimistic
// local update is applied before the network call, so a reload mid-flight
// still shows the vote; a failed call rolls everything back.
func (u *Upvoter) Vote(c *comment.Comment) error {
	u.mu.Lock()
	if u.inFlight[c.ID] || u.store.Has(c.ID) {
		u.mu.Unlock()
		return ErrAlreadyVoted
	}
	u.inFlight[c.ID] = true

	newCount := c.Upvotes + 1
	c.Upvotes = newCount
	u.store.Add(c.ID)
	u.mu.Unlock()

	defer func() {
		u.mu.Lock()
		delete(u.inFlight, c.ID)
		u.mu.Unlock()
	}()

	if err := u.updater.SetUpvotes(c.ID, newCount); err != nil {
		slog.Error("upvote failed, rolling back", "comment", c.ID, "error", err)
		u.mu.Lock()
		c.Upvotes = newCount - 1
		u.store.Remove(c.ID)
		u.mu.Unlock()
		return fmt.Errorf("upvoting comment %d: %w", c.ID, err)
	}

	if u.onCommit != nil {
		u.onCommit(c.ID, newCount)
	}
	return nil
}
