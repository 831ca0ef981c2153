// Package feed delivers newly inserted comments to every connected
// subscriber, including the client that performed the insert.
package feed

import "github.com/civicmap/civicmap/internal/comment"

// Broadcaster fans out insert events. Delivery is at-least-once with no
// ordering guarantee relative to the inserting client's local state.
type Broadcaster interface {
	// Publish delivers a comment to all current subscribers.
	Publish(c *comment.Comment)

	// Subscribe returns a channel of insert events and a cancel function
	// that releases the subscription. The channel is closed on cancel.
	Subscribe() (<-chan *comment.Comment, func())

	// SubscriberCount reports the number of live subscriptions.
	SubscriberCount() int
}
