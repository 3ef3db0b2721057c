package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion metrics
	MessagesIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_messages_ingested_total",
			Help: "Total messages accepted by the ingestion gateway",
		},
		[]string{"kind"},
	)

	MessagesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_messages_rejected_total",
			Help: "Total submissions rejected by validation",
		},
		[]string{"kind", "field"},
	)

	MessagesEvicted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_messages_evicted_total",
			Help: "Total messages evicted by the per-kind retention cap",
		},
		[]string{"kind"},
	)

	// Fan-out metrics
	EventsBroadcast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_events_broadcast_total",
			Help: "Total events pushed through the subscription hub",
		},
		[]string{"type"},
	)

	SubscribersDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_subscribers_dropped_total",
			Help: "Subscribers removed after a failed or overflowing send",
		},
		[]string{"reason"},
	)

	SubscribersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_subscribers_active",
			Help: "Currently connected live subscribers",
		},
	)

	// Alert metrics
	AlertsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_alerts_active",
			Help: "Alerts currently classified active",
		},
	)
)
