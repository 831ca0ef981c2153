// Package metrics defines the prometheus collectors for civicmap.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CommentsCreated counts successfully persisted comments.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "civicmap_comments_created_total",
		Help: "Number of comments inserted.",
	})

	// ClassifyRequests counts classification endpoint calls by outcome.
	// Outcomes: ok, rejected, unavailable.
	ClassifyRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "civicmap_classify_requests_total",
		Help: "Number of classification requests by outcome.",
	}, []string{"outcome"})

	// UpvoteUpdates counts upvote counter writes.
	UpvoteUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "civicmap_upvote_updates_total",
		Help: "Number of upvote counter updates.",
	})

	// FeedSubscribers tracks live realtime feed subscriptions.
	FeedSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "civicmap_feed_subscribers",
		Help: "Number of connected realtime feed subscribers.",
	})
)
