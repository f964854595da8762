package event

import (
	"github.com/guildforge/coinbot/internal/domain"
)

// Event represents a generic event in the system
type Event struct {
	Version string           `json:"version"` // Event schema version (e.g., "1.0")
	Type    domain.EventType `json:"type"`
	Payload interface{}      `json:"payload"`
}

// SchemaVersion is the current event schema version.
const SchemaVersion = "1.0"

// New builds an event with the current schema version.
func New(t domain.EventType, payload interface{}) Event {
	return Event{Version: SchemaVersion, Type: t, Payload: payload}
}
