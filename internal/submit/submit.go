// Package submit drives the comment submission flow: validate locally,
// classify, then persist, with exactly one classify call and at most one
// insert per attempt.
package submit

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/civicmap/civicmap/internal/comment"
	"github.com/civicmap/civicmap/internal/mapview"
)

// State is the submission flow state.
type State int

const (
	StateEditing State = iota
	StateSubmitting
	StateSuccess
)

// User-facing validation messages, surfaced inline with no network call.
const (
	MsgEmptyComment = "Please enter a comment before submitting."
	MsgInvalidZip   = "Please enter a valid 5-digit ZIP code."

	// Generic failure messages; the proximate cause is logged, not shown.
	MsgClassifyFailed = "We couldn't classify your comment. Please try again."
	MsgSaveFailed     = "We couldn't save your comment. Please try again."
)

// Classifier asks the classify endpoint for a theme.
type Classifier interface {
	Classify(text string) (comment.Theme, error)
}

// Store persists a classified comment.
type Store interface {
	CreateComment(n comment.NewComment) (*comment.Comment, error)
}

// Flow is a single pending submission bound to a clicked location.
// Entered text survives a failed attempt; states move
// Editing -> Submitting -> (Success | back to Editing with an error).
type Flow struct {
	classifier Classifier
	store      Store

	mu       sync.Mutex
	state    State
	errorMsg string
}

// NewFlow creates a submission flow in the editing state.
func NewFlow(classifier Classifier, store Store) *Flow {
	return &Flow{classifier: classifier, store: store}
}

// State returns the current flow state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// ErrorMessage returns the message for the status region, if any.
func (f *Flow) ErrorMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errorMsg
}

// Submit runs one attempt for the given form input and pending location.
// Validation failures stay in Editing and issue no network call. On
// success the stored row, with its server-assigned id and created_at, is
// returned for the caller to render and clear the pending location.
func (f *Flow) Submit(text, zip string, loc mapview.Location) (*comment.Comment, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return nil, fmt.Errorf("a submission is already in flight")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		f.errorMsg = MsgEmptyComment
		f.mu.Unlock()
		return nil, fmt.Errorf("%s", MsgEmptyComment)
	}
	if !comment.ValidZip(zip) {
		f.errorMsg = MsgInvalidZip
		f.mu.Unlock()
		return nil, fmt.Errorf("%s", MsgInvalidZip)
	}

	f.state = StateSubmitting
	f.errorMsg = ""
	f.mu.Unlock()

	theme, err := f.classifier.Classify(text)
	if err != nil {
		slog.Error("classify call failed", "error", err)
		f.fail(MsgClassifyFailed)
		return nil, fmt.Errorf("%s", MsgClassifyFailed)
	}

	stored, err := f.store.CreateComment(comment.NewComment{
		CommentText: text,
		Theme:       theme,
		Latitude:    loc.Lat,
		Longitude:   loc.Lng,
		ZipCode:     zip,
	})
	if err != nil {
		slog.Error("comment insert failed", "error", err)
		f.fail(MsgSaveFailed)
		return nil, fmt.Errorf("%s", MsgSaveFailed)
	}

	f.mu.Lock()
	f.state = StateSuccess
	f.mu.Unlock()
	return stored, nil
}

// fail returns the flow to Editing with a user-facing message,
// preserving whatever the user entered.
func (f *Flow) fail(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateEditing
	f.errorMsg = msg
}
