package domain

// EventType identifies a published domain event.
type EventType string

// Game lifecycle events
const (
	EventGameStarted      EventType = "game.started"
	EventGameSettled      EventType = "game.settled"
	EventGameTimedOut     EventType = "game.timed_out"
	EventRouletteResolved EventType = "roulette.resolved"
	EventLevelUp          EventType = "profile.level_up"
)

// GameSettledPayload is published when a session reaches a terminal state.
type GameSettledPayload struct {
	SessionID string `json:"session_id"`
	OwnerKey  string `json:"owner_key"`
	GuildID   string `json:"guild_id"`
	Kind      string `json:"kind"`
	TimedOut  bool   `json:"timed_out"`
	NetDelta  int64  `json:"net_delta"`
}

// RouletteResolvedPayload is published when a roulette round spins so the
// gateway shell can announce results in the originating channel.
type RouletteResolvedPayload struct {
	ChannelID string               `json:"channel_id"`
	GuildID   string               `json:"guild_id"`
	Pocket    int                  `json:"pocket"`
	Color     string               `json:"color"`
	Results   []RouletteBetOutcome `json:"results"`
}

// RouletteBetOutcome is one settled bet in a resolved round.
type RouletteBetOutcome struct {
	UserID string `json:"user_id"`
	Space  string `json:"space"`
	Amount int64  `json:"amount"`
	Won    bool   `json:"won"`
	Payout int64  `json:"payout"`
}

// LevelUpPayload is published when message XP pushes a profile past a level.
type LevelUpPayload struct {
	UserID   string `json:"user_id"`
	GuildID  string `json:"guild_id"`
	NewLevel int    `json:"new_level"`
}
