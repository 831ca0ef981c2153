package feed

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/civicmap/civicmap/internal/comment"
)

// insertChannel is the Redis pub/sub channel carrying insert events.
const insertChannel = "civicmap.comments.inserts"

// RedisBroadcaster bridges the local hub across server instances through
// Redis pub/sub. Every publish goes to Redis; the background subscriber
// re-injects messages (including this instance's own) into the local hub,
// so each instance's subscribers see the full shared feed.
type RedisBroadcaster struct {
	rdb    *redis.Client
	hub    *Hub
	cancel context.CancelFunc
}

// NewRedisBroadcaster connects to Redis at addr and starts the bridge.
func NewRedisBroadcaster(addr string) (*RedisBroadcaster, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  0, // pub/sub reads block until a message arrives
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		closeErr := rdb.Close()
		if closeErr != nil {
			return nil, errors.Join(err, closeErr)
		}
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &RedisBroadcaster{
		rdb:    rdb,
		hub:    NewHub(),
		cancel: cancel,
	}
	go b.consume(ctx)
	return b, nil
}

// Publish sends the comment to the shared Redis channel. Local delivery
// happens when the message comes back through the bridge; on a publish
// failure the comment is delivered locally so this instance's subscribers
// still see it.
func (b *RedisBroadcaster) Publish(c *comment.Comment) {
	payload, err := json.Marshal(c)
	if err != nil {
		slog.Error("marshaling insert event", "error", err, "comment", c.ID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := b.rdb.Publish(ctx, insertChannel, payload).Err(); err != nil {
		slog.Error("publishing insert event to redis", "error", err, "comment", c.ID)
		b.hub.Publish(c)
	}
}

// Subscribe registers a subscriber on the local hub.
func (b *RedisBroadcaster) Subscribe() (<-chan *comment.Comment, func()) {
	return b.hub.Subscribe()
}

// SubscriberCount reports the number of live local subscriptions.
func (b *RedisBroadcaster) SubscriberCount() int {
	return b.hub.SubscriberCount()
}

// Close stops the bridge and releases the Redis connection.
func (b *RedisBroadcaster) Close() error {
	b.cancel()
	return b.rdb.Close()
}

// consume forwards Redis messages into the local hub until ctx is canceled.
func (b *RedisBroadcaster) consume(ctx context.Context) {
	sub := b.rdb.Subscribe(ctx, insertChannel)
	defer func() {
		if err := sub.Close(); err != nil {
			slog.Warn("closing redis subscription", "error", err)
		}
	}()

	for {
		msg, err := sub.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("receiving insert event from redis", "error", err)
			continue
		}

		var c comment.Comment
		if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
			slog.Error("decoding insert event", "error", err)
			continue
		}
		b.hub.Publish(&c)
	}
}
