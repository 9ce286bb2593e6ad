package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ChatMessagesTotal counts answered chat messages by action tag.
	ChatMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "todo_chat_messages_total",
		Help: "Chat messages answered, by action",
	}, []string{"action"})

	// ChatDuration tracks time spent interpreting and executing a message.
	ChatDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "todo_chat_duration_seconds",
		Help:    "Chat message processing time, by action",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"action"})

	// StoreErrorsTotal counts failed store calls by operation.
	StoreErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "todo_store_errors_total",
		Help: "Todo store failures, by operation",
	}, []string{"op"})
)
