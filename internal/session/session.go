package session

import (
	"sync"
	"time"

	"github.com/guildforge/coinbot/internal/event"
)

// Kind identifies a game variant.
type Kind string

// Game kinds
const (
	KindBlackjack Kind = "blackjack"
	KindRoulette  Kind = "roulette"
	KindHighLow   Kind = "highlow"
	KindSlots     Kind = "slots"
)

// Input is one externally delivered action event (a button press or a
// follow-up command) routed to an active session.
type Input struct {
	ActorID string
	Action  string
	Amount  int64  // stake for actions that carry one (roulette bets)
	Arg     string // free-form argument (roulette space)
}

// Delta is one ledger adjustment produced by a game.
type Delta struct {
	UserID string
	Amount int64
}

// Update is the result of routing one input or of a forced resolution.
type Update struct {
	// State is the game's public snapshot for the render collaborator.
	State any
	// Actions lists the action ids currently legal for the owner.
	Actions []string
	// Terminal marks the session as finished; the manager settles and
	// releases the key.
	Terminal bool
	// Immediate holds credits applied as soon as the input is accepted
	// (per-spin slots payouts). Reservations are not listed here; they are
	// quoted before the state advances.
	Immediate []Delta
	// Settlement holds the terminal credits. Applied exactly once.
	Settlement []Delta
	// Events are domain events the manager publishes after settling.
	Events []event.Event
	// Notice is a message for the acting user.
	Notice string
}

// Game is one interactive state machine plugged into the lifecycle manager.
// Implementations are not safe for concurrent use; the manager serializes
// access per session.
type Game interface {
	Kind() Kind
	// Begin deals the opening state. It may already be terminal (a natural
	// blackjack settles on the spot).
	Begin() Update
	// Quote validates the input against the current state and reports any
	// additional stake to reserve before the action is applied. Returning
	// an error leaves the session untouched.
	Quote(in Input) (reserve int64, err error)
	// Advance applies a quoted input. The manager has already reserved the
	// quoted stake, so Advance cannot fail on funds.
	Advance(in Input) Update
	// ForceResolve ends the game from the manager's timeout path.
	ForceResolve() Update
}

// Session represents one in-progress interactive game.
type Session struct {
	ID       string
	OwnerKey string
	OwnerID  string // acting user for single-player games; empty when shared
	GuildID  string
	Kind     Kind

	// Shared sessions (roulette rounds) accept input from any guild member
	// and their deadline is not extended by accepted input.
	Shared        bool
	FixedDeadline bool

	CreatedAt      time.Time
	LastActivityAt time.Time
	Deadline       time.Time

	mu      sync.Mutex
	game    Game
	timer   *time.Timer
	settled bool
	wagered int64
	paid    int64
}

// Settled reports whether the session has reached its terminal state.
func (s *Session) Settled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settled
}
