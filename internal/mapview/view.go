// Package mapview maintains the client-side marker set for the civic map:
// a snapshot-loaded, realtime-updated cache of comments keyed by id.
package mapview

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/civicmap/civicmap/internal/comment"
)

// Location is a clicked map point not yet associated with a saved comment.
type Location struct {
	Lat float64
	Lng float64
}

// MarkerAdder is the command interface a view owner uses to render a
// just-created comment immediately, ahead of any realtime echo.
type MarkerAdder interface {
	AddMarker(c *comment.Comment)
}

// Snapshotter loads the full comments table.
type Snapshotter interface {
	ListComments() ([]*comment.Comment, error)
}

// View holds one client session's markers. The rendered-id set doubles as
// the dedup guard against the feed echoing this client's own inserts.
type View struct {
	mu      sync.Mutex
	markers map[int64]*comment.Comment
	pending *Location

	// onAdd, when set, observes every newly rendered marker.
	onAdd func(c *comment.Comment)
}

// New creates an empty view. onAdd may be nil.
func New(onAdd func(c *comment.Comment)) *View {
	return &View{
		markers: make(map[int64]*comment.Comment),
		onAdd:   onAdd,
	}
}

// Load replaces the marker set with the store snapshot. A fetch failure is
// logged and leaves the view empty; the live feed still applies afterwards.
func (v *View) Load(src Snapshotter) {
	comments, err := src.ListComments()
	if err != nil {
		slog.Error("loading comments snapshot", "error", err)
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for _, c := range comments {
		if _, ok := v.markers[c.ID]; ok {
			continue
		}
		v.markers[c.ID] = c
		if v.onAdd != nil {
			v.onAdd(c)
		}
	}
}

// AddMarker renders this client's own just-created comment and records its
// id so the feed's echo of the same insert is discarded. The id is recorded
// in the same critical section as the render, before any echo can be seen.
func (v *View) AddMarker(c *comment.Comment) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.markers[c.ID]; ok {
		return
	}
	v.markers[c.ID] = c
	v.pending = nil
	if v.onAdd != nil {
		v.onAdd(c)
	}
}

// HandleInsert applies a remote-origin insert from the realtime feed.
// Already-rendered ids are discarded, making delivery idempotent.
func (v *View) HandleInsert(c *comment.Comment) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.markers[c.ID]; ok {
		return
	}
	v.markers[c.ID] = c
	if v.onAdd != nil {
		v.onAdd(c)
	}
}

// Run consumes the realtime feed until ctx is canceled or the channel
// closes. The caller owns the subscription and its release.
func (v *View) Run(ctx context.Context, events <-chan *comment.Comment) {
	for {
		select {
		case <-ctx.Done():
			return
		case c, open := <-events:
			if !open {
				return
			}
			v.HandleInsert(c)
		}
	}
}

// SetUpvotes updates a rendered marker's counter, keeping other views of
// the same comment in sync after a committed vote.
func (v *View) SetUpvotes(id, upvotes int64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if c, ok := v.markers[id]; ok {
		c.Upvotes = upvotes
	}
}

// SetPending replaces the single ephemeral pending-location marker.
func (v *View) SetPending(loc Location) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending = &loc
}

// ClearPending removes the pending marker.
func (v *View) ClearPending() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending = nil
}

// Pending returns the pending location, if any.
func (v *View) Pending() (Location, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pending == nil {
		return Location{}, false
	}
	return *v.pending, true
}

// Marker returns a rendered comment by id.
func (v *View) Marker(id int64) (*comment.Comment, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	c, ok := v.markers[id]
	return c, ok
}

// Markers returns all rendered comments ordered by id.
func (v *View) Markers() []*comment.Comment {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]*comment.Comment, 0, len(v.markers))
	for _, c := range v.markers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
