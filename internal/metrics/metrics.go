package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "village_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "village_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "village_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "village_events_published_total",
			Help: "Total number of events published by type",
		},
		[]string{"type"},
	)
)

// Simulation Metrics
var (
	NodesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "village_nodes_completed_total",
			Help: "Resource nodes swept to completion by kind",
		},
		[]string{"kind"},
	)

	ResourcesGranted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "village_resources_granted_total",
			Help: "Resources paid out to player inventories by type",
		},
		[]string{"resource"},
	)

	ResourcesDonated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "village_resources_donated_total",
			Help: "Resources donated to the village stock by type",
		},
		[]string{"resource"},
	)

	ToolsBroken = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "village_tools_broken_total",
			Help: "Tools destroyed by durability wear",
		},
		[]string{"tool"},
	)

	PlayersEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "village_players_evicted_total",
			Help: "Players sent off-screen by the idle sweep",
		},
	)

	SkillLevelUps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "village_skill_level_ups_total",
			Help: "Skill level-ups by skill kind",
		},
		[]string{"skill"},
	)
)
