package session

import "time"

// Inactivity timeouts per game kind. Accepted input re-arms the timer
// except for fixed-deadline sessions.
const (
	BlackjackTimeout = 90 * time.Second
	SlotsTimeout     = 90 * time.Second
	HighLowTimeout   = 60 * time.Second
	RouletteWindow   = 60 * time.Second
)

// Log message constants
const (
	LogMsgSessionStarted     = "Game session started"
	LogMsgSessionSettled     = "Game session settled"
	LogMsgSessionTimedOut    = "Game session timed out"
	LogMsgFailedApplyDelta   = "Failed to apply ledger delta"
	LogMsgFailedPublishEvent = "Failed to publish event"
	LogMsgShutdownResolving  = "Force-resolving open sessions on shutdown"
)

// Timeout returns the inactivity window for a game kind.
func Timeout(k Kind) time.Duration {
	switch k {
	case KindHighLow:
		return HighLowTimeout
	case KindRoulette:
		return RouletteWindow
	default:
		return BlackjackTimeout
	}
}
