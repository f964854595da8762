package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Game Metrics
var (
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameActiveSessions,
			Help: HelpTextActiveSessions,
		},
	)

	GamesStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGamesStarted,
			Help: HelpTextGamesStarted,
		},
		[]string{LabelKind},
	)

	GamesSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGamesSettled,
			Help: HelpTextGamesSettled,
		},
		[]string{LabelKind},
	)

	GameTimeouts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGameTimeouts,
			Help: HelpTextGameTimeouts,
		},
		[]string{LabelKind},
	)

	CoinsWagered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCoinsWagered,
			Help: HelpTextCoinsWagered,
		},
		[]string{LabelKind},
	)

	CoinsPaidOut = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCoinsPaidOut,
			Help: HelpTextCoinsPaidOut,
		},
		[]string{LabelKind},
	)
)
