package blackjack

import (
	"fmt"

	"github.com/guildforge/coinbot/internal/domain"
	"github.com/guildforge/coinbot/internal/random"
	"github.com/guildforge/coinbot/internal/session"
)

// HandState is the public snapshot of one player hand.
type HandState struct {
	Cards   []Card `json:"cards"`
	Value   int    `json:"value"`
	Wager   int64  `json:"wager"`
	Outcome string `json:"outcome,omitempty"`
}

// State is the public snapshot rendered by the gateway shell. The dealer's
// hole card stays hidden until the player turn ends.
type State struct {
	Dealer      []Card      `json:"dealer"`
	DealerValue int         `json:"dealer_value"`
	HoleHidden  bool        `json:"hole_hidden"`
	Hands       []HandState `json:"hands"`
	Active      int         `json:"active"`
	Finished    bool        `json:"finished"`
	Net         int64       `json:"net"`
}

type hand struct {
	cards       []Card
	wager       int64
	doubled     bool
	surrendered bool
	done        bool
	outcome     string
}

// Game plays one blackjack round from a multi-deck shoe. One split is
// allowed; doubling and splitting stake an additional wager quoted to the
// lifecycle manager before the action is applied.
type Game struct {
	userID   string
	rng      random.Source
	shoe     []Card
	dealer   []Card
	hands    []*hand
	active   int
	finished bool
	credit   int64
}

// New deals a fresh round for the user's wager.
func New(userID string, wager int64, rng random.Source) *Game {
	g := &Game{
		userID: userID,
		rng:    rng,
		shoe:   newShoe(rng, ShoeDecks),
	}
	first := &hand{wager: wager}
	first.cards = append(first.cards, g.draw(), g.draw())
	g.dealer = append(g.dealer, g.draw(), g.draw())
	g.hands = []*hand{first}
	return g
}

func (g *Game) Kind() session.Kind { return session.KindBlackjack }

// Begin resolves naturals on the spot; otherwise the player turn opens.
func (g *Game) Begin() session.Update {
	player := isNatural(g.hands[0].cards)
	dealer := isNatural(g.dealer)

	switch {
	case player && dealer:
		g.hands[0].outcome = OutcomePush
		return g.finish()
	case player:
		g.hands[0].outcome = OutcomeBlackjack
		return g.finish()
	case dealer:
		g.hands[0].outcome = OutcomeLose
		return g.finish()
	}
	return g.update()
}

// Quote validates the action and reports the extra stake it needs.
func (g *Game) Quote(in session.Input) (int64, error) {
	if g.finished {
		return 0, domain.ErrIllegalAction
	}
	h := g.hands[g.active]
	switch in.Action {
	case ActionHit, ActionStand:
		return 0, nil
	case ActionDouble:
		if len(h.cards) != 2 {
			return 0, fmt.Errorf("%w: can only double on the first two cards", domain.ErrIllegalAction)
		}
		return h.wager, nil
	case ActionSplit:
		if len(g.hands) >= MaxHands {
			return 0, fmt.Errorf("%w: already split", domain.ErrIllegalAction)
		}
		if len(h.cards) != 2 || cardTen(h.cards[0]) != cardTen(h.cards[1]) {
			return 0, fmt.Errorf("%w: split requires a matching pair", domain.ErrIllegalAction)
		}
		return h.wager, nil
	case ActionSurrender:
		if len(g.hands) > 1 || len(h.cards) != 2 {
			return 0, fmt.Errorf("%w: surrender is only available on the opening hand", domain.ErrIllegalAction)
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %s", domain.ErrIllegalAction, in.Action)
	}
}

// Advance applies a quoted action.
func (g *Game) Advance(in session.Input) session.Update {
	h := g.hands[g.active]
	switch in.Action {
	case ActionHit:
		h.cards = append(h.cards, g.draw())
		if HandValue(h.cards) > 21 {
			h.outcome = OutcomeBust
			g.closeHand(h)
		}
	case ActionStand:
		g.closeHand(h)
	case ActionDouble:
		h.wager *= 2
		h.doubled = true
		h.cards = append(h.cards, g.draw())
		if HandValue(h.cards) > 21 {
			h.outcome = OutcomeBust
		}
		g.closeHand(h)
	case ActionSplit:
		second := &hand{wager: h.wager, cards: []Card{h.cards[1]}}
		h.cards = h.cards[:1]
		h.cards = append(h.cards, g.draw())
		second.cards = append(second.cards, g.draw())
		g.hands = append(g.hands, second)
	case ActionSurrender:
		h.surrendered = true
		h.outcome = OutcomeSurrender
		g.closeHand(h)
	}

	if g.playerDone() {
		return g.resolve()
	}
	return g.update()
}

// ForceResolve forfeits the round. Every unresolved hand is scored as a
// loss and the dealer never plays; the reserved stakes stay with the house.
func (g *Game) ForceResolve() session.Update {
	if g.finished {
		return g.update()
	}
	for _, h := range g.hands {
		h.done = true
		if h.outcome == "" {
			h.outcome = OutcomeLose
		}
	}
	return g.finish()
}

func (g *Game) draw() Card {
	c := g.shoe[0]
	g.shoe = g.shoe[1:]
	return c
}

func (g *Game) closeHand(h *hand) {
	h.done = true
	for g.active < len(g.hands) && g.hands[g.active].done {
		g.active++
	}
}

func (g *Game) playerDone() bool {
	for _, h := range g.hands {
		if !h.done {
			return false
		}
	}
	return true
}

// resolve plays the dealer and scores every hand.
func (g *Game) resolve() session.Update {
	if anyLive(g.hands) {
		for HandValue(g.dealer) < DealerStandsAt {
			g.dealer = append(g.dealer, g.draw())
		}
	}
	dealerValue := HandValue(g.dealer)
	dealerBust := dealerValue > 21

	for _, h := range g.hands {
		if h.outcome != "" {
			continue
		}
		value := HandValue(h.cards)
		switch {
		case dealerBust || value > dealerValue:
			h.outcome = OutcomeWin
		case value == dealerValue:
			h.outcome = OutcomePush
		default:
			h.outcome = OutcomeLose
		}
	}
	return g.finish()
}

// finish computes the terminal credit. Stakes were debited when accepted, so
// the settlement only pays out.
func (g *Game) finish() session.Update {
	g.finished = true
	var credit int64
	for _, h := range g.hands {
		switch h.outcome {
		case OutcomeBlackjack:
			credit += h.wager + h.wager*3/2
		case OutcomeWin:
			credit += 2 * h.wager
		case OutcomePush:
			credit += h.wager
		case OutcomeSurrender:
			credit += h.wager - h.wager/2
		}
	}
	g.credit = credit

	update := g.update()
	update.Terminal = true
	if credit > 0 {
		update.Settlement = []session.Delta{{UserID: g.userID, Amount: credit}}
	}
	return update
}

func (g *Game) update() session.Update {
	st := State{
		Active:   g.active,
		Finished: g.finished,
	}

	var staked int64
	for _, h := range g.hands {
		st.Hands = append(st.Hands, HandState{
			Cards:   append([]Card(nil), h.cards...),
			Value:   HandValue(h.cards),
			Wager:   h.wager,
			Outcome: h.outcome,
		})
		staked += h.wager
	}

	if g.finished {
		st.Dealer = append([]Card(nil), g.dealer...)
		st.DealerValue = HandValue(g.dealer)
		st.Net = g.credit - staked
	} else {
		st.Dealer = []Card{g.dealer[0]}
		st.DealerValue = HandValue(st.Dealer)
		st.HoleHidden = true
	}

	u := session.Update{State: st}
	if !g.finished {
		u.Actions = g.actions()
	}
	return u
}

func (g *Game) actions() []string {
	h := g.hands[g.active]
	actions := []string{ActionHit, ActionStand}
	if len(h.cards) == 2 {
		actions = append(actions, ActionDouble)
		if len(g.hands) < MaxHands && cardTen(h.cards[0]) == cardTen(h.cards[1]) {
			actions = append(actions, ActionSplit)
		}
		if len(g.hands) == 1 {
			actions = append(actions, ActionSurrender)
		}
	}
	return actions
}

// anyLive reports whether any hand still competes against the dealer.
func anyLive(hands []*hand) bool {
	for _, h := range hands {
		if h.outcome == "" {
			return true
		}
	}
	return false
}

// cardTen collapses ten-value ranks so 10/J/Q/K pairs are splittable.
func cardTen(c Card) string {
	switch c.Rank {
	case "10", "J", "Q", "K":
		return "10"
	}
	return c.Rank
}
