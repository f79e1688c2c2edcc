// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	CachedRooms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_cached_rooms",
			Help: "Number of room rows currently held by the read-through cache.",
		})

	RoomLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_room_load_total",
			Help: "Cumulative number of room rows loaded from the store.",
		})

	RoomLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_room_load_errors_total",
			Help: "Cumulative number of room load errors.",
		})

	MessagesSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_sent_total",
			Help: "Cumulative number of messages persisted.",
		})

	MessagesDeletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_deleted_total",
			Help: "Cumulative number of messages soft-deleted.",
		})

	AuthDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_auth_denied_total",
			Help: "Cumulative number of capability checks that were refused.",
		})

	ContentQueriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "content_queries_total",
			Help: "Cumulative number of content list derivations served.",
		})
)

func init() {
	prometheus.MustRegister(
		CachedRooms,
		RoomLoadTotal,
		RoomLoadErrorsTotal,
		MessagesSentTotal,
		MessagesDeletedTotal,
		AuthDeniedTotal,
		ContentQueriesTotal,
	)
}
