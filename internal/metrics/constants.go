package metrics

// Metric names
const (
	MetricNameHTTPRequestsTotal    = "coinbot_http_requests_total"
	MetricNameHTTPRequestDuration  = "coinbot_http_request_duration_seconds"
	MetricNameEventsPublished      = "coinbot_events_published_total"
	MetricNameEventHandlerErrors   = "coinbot_event_handler_errors_total"
	MetricNameActiveSessions       = "coinbot_active_sessions"
	MetricNameGamesStarted         = "coinbot_games_started_total"
	MetricNameGamesSettled         = "coinbot_games_settled_total"
	MetricNameGameTimeouts         = "coinbot_game_timeouts_total"
	MetricNameCoinsWagered         = "coinbot_coins_wagered_total"
	MetricNameCoinsPaidOut         = "coinbot_coins_paid_out_total"
)

// Help texts
const (
	HelpTextHTTPRequestsTotal   = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration = "HTTP request latency in seconds"
	HelpTextEventsPublished     = "Total number of events published"
	HelpTextEventHandlerErrors  = "Total number of event handler failures"
	HelpTextActiveSessions      = "Number of currently active game sessions"
	HelpTextGamesStarted        = "Total number of game sessions started"
	HelpTextGamesSettled        = "Total number of game sessions settled"
	HelpTextGameTimeouts        = "Total number of game sessions force-resolved by timeout"
	HelpTextCoinsWagered        = "Total coins placed at risk"
	HelpTextCoinsPaidOut        = "Total coins credited back by settlements"
)

// Label names
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelKind   = "kind"
)

// HTTPLatencyBuckets are the histogram buckets for request latency.
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
