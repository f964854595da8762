package roulette

import (
	"fmt"

	"github.com/guildforge/coinbot/internal/domain"
	"github.com/guildforge/coinbot/internal/event"
	"github.com/guildforge/coinbot/internal/random"
	"github.com/guildforge/coinbot/internal/session"
)

// ActionBet places a bet into the open round.
const ActionBet = "bet"

// Pockets on the wheel (0-36).
const Pockets = 37

// Bet is one accepted stake in the round.
type Bet struct {
	UserID string `json:"user_id"`
	Space  Space  `json:"space"`
	Amount int64  `json:"amount"`
}

// State is the public snapshot of the round.
type State struct {
	ChannelID string `json:"channel_id"`
	Bets      []Bet  `json:"bets"`
	Spun      bool   `json:"spun"`
	Pocket    int    `json:"pocket"`
	Color     string `json:"color"`
}

// Round is a shared betting round for one channel. Any guild member may bet
// while the window is open; the wheel spins when the fixed deadline expires
// and every bet settles against the same pocket.
type Round struct {
	channelID string
	guildID   string
	rng       random.Source
	bets      []Bet
	spun      bool
	pocket    int
}

// NewRound opens a round with the initiating bet already validated by the
// caller through ParseSpace.
func NewRound(channelID, guildID string, rng random.Source) *Round {
	return &Round{channelID: channelID, guildID: guildID, rng: rng}
}

func (r *Round) Kind() session.Kind { return session.KindRoulette }

func (r *Round) Begin() session.Update {
	return r.update()
}

// Quote validates the bet and stakes its amount.
func (r *Round) Quote(in session.Input) (int64, error) {
	if in.Action != ActionBet {
		return 0, fmt.Errorf("%w: %s", domain.ErrIllegalAction, in.Action)
	}
	if in.Amount <= 0 {
		return 0, fmt.Errorf("%w: bet must be positive", domain.ErrInvalidWager)
	}
	if _, err := ParseSpace(in.Arg); err != nil {
		return 0, err
	}
	return in.Amount, nil
}

// Advance records a quoted bet. Bets never close the round; only the window
// expiring does.
func (r *Round) Advance(in session.Input) session.Update {
	space, _ := ParseSpace(in.Arg)
	r.bets = append(r.bets, Bet{UserID: in.ActorID, Space: space, Amount: in.Amount})
	u := r.update()
	u.Notice = fmt.Sprintf("Bet accepted: %d on %s", in.Amount, space)
	return u
}

// ForceResolve spins the wheel and settles every bet.
func (r *Round) ForceResolve() session.Update {
	if !r.spun {
		r.spun = true
		r.pocket = r.rng.Intn(Pockets)
	}

	payload := domain.RouletteResolvedPayload{
		ChannelID: r.channelID,
		GuildID:   r.guildID,
		Pocket:    r.pocket,
		Color:     PocketColor(r.pocket),
	}

	credits := make(map[string]int64)
	order := make([]string, 0, len(r.bets))
	for _, b := range r.bets {
		outcome := domain.RouletteBetOutcome{
			UserID: b.UserID,
			Space:  b.Space.String(),
			Amount: b.Amount,
		}
		if b.Space.Hits(r.pocket) {
			outcome.Won = true
			outcome.Payout = b.Amount * int64(b.Space.Multiplier())
			if _, seen := credits[b.UserID]; !seen {
				order = append(order, b.UserID)
			}
			credits[b.UserID] += outcome.Payout
		}
		payload.Results = append(payload.Results, outcome)
	}

	u := r.update()
	u.Terminal = true
	for _, userID := range order {
		u.Settlement = append(u.Settlement, session.Delta{UserID: userID, Amount: credits[userID]})
	}
	u.Events = []event.Event{event.New(domain.EventRouletteResolved, payload)}
	return u
}

func (r *Round) update() session.Update {
	st := State{
		ChannelID: r.channelID,
		Bets:      append([]Bet(nil), r.bets...),
		Spun:      r.spun,
		Pocket:    r.pocket,
	}
	if r.spun {
		st.Color = PocketColor(r.pocket)
	}
	u := session.Update{State: st}
	if !r.spun {
		u.Actions = []string{ActionBet}
	}
	return u
}
