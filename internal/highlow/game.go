package highlow

import (
	"fmt"
	"math"

	"github.com/guildforge/coinbot/internal/domain"
	"github.com/guildforge/coinbot/internal/random"
	"github.com/guildforge/coinbot/internal/session"
)

// Action identifiers
const (
	ActionHigher  = "higher"
	ActionLower   = "lower"
	ActionCashout = "cashout"
)

// Escalator tuning. The range shrinks after every won round so guesses get
// riskier, and the reward increment is the complement of the round's win
// probability. A small share of draws is biased toward the player's guess.
const (
	StartRange     = 100
	MinRange       = 10
	RangeShrink    = 0.8
	GenerosityBias = 0.15
)

// State is the public snapshot rendered by the gateway shell.
type State struct {
	Range      int     `json:"range"`
	Current    int     `json:"current"`
	LastDraw   int     `json:"last_draw"`
	Multiplier float64 `json:"multiplier"`
	Rounds     int     `json:"rounds"`
	Bet        int64   `json:"bet"`
	Finished   bool    `json:"finished"`
	Won        bool    `json:"won"`
	Credit     int64   `json:"credit"`
}

// Game plays the higher-or-lower escalator. The stake is debited at start;
// cashing out credits the stake times the accumulated multiplier, a wrong
// guess credits nothing. A tie counts as a win.
type Game struct {
	userID     string
	bet        int64
	rng        random.Source
	rangeMax   int
	current    int
	lastDraw   int
	multiplier float64
	rounds     int
	finished   bool
	cashedOut  bool
	credit     int64
}

// New draws the opening number.
func New(userID string, bet int64, rng random.Source) *Game {
	return &Game{
		userID:     userID,
		bet:        bet,
		rng:        rng,
		rangeMax:   StartRange,
		current:    rng.Intn(StartRange),
		multiplier: 1.0,
	}
}

func (g *Game) Kind() session.Kind { return session.KindHighLow }

func (g *Game) Begin() session.Update {
	return g.update()
}

func (g *Game) Quote(in session.Input) (int64, error) {
	if g.finished {
		return 0, domain.ErrIllegalAction
	}
	switch in.Action {
	case ActionHigher, ActionLower, ActionCashout:
		return 0, nil
	}
	return 0, fmt.Errorf("%w: %s", domain.ErrIllegalAction, in.Action)
}

func (g *Game) Advance(in session.Input) session.Update {
	if in.Action == ActionCashout {
		return g.cashout()
	}
	return g.guess(in.Action == ActionHigher)
}

// ForceResolve forfeits the stake. Only an explicit cashout pays out;
// letting the timer run is a loss.
func (g *Game) ForceResolve() session.Update {
	if g.finished {
		return g.update()
	}
	g.finished = true
	u := g.update()
	u.Terminal = true
	return u
}

func (g *Game) guess(higher bool) session.Update {
	next := g.draw(higher)
	g.lastDraw = next

	won := next == g.current
	if !won {
		if higher {
			won = next > g.current
		} else {
			won = next < g.current
		}
	}

	if !won {
		g.finished = true
		u := g.update()
		u.Terminal = true
		return u
	}

	g.multiplier += 1 - g.winProbability(higher)
	g.rounds++
	g.rangeMax = max(MinRange, int(float64(g.rangeMax)*RangeShrink))
	g.current = g.rng.Intn(g.rangeMax)
	return g.update()
}

// draw picks the next number, occasionally biased into the winning band.
func (g *Game) draw(higher bool) int {
	if g.rng.Float64() < GenerosityBias {
		if higher {
			return g.current + g.rng.Intn(g.rangeMax-g.current)
		}
		return g.rng.Intn(g.current + 1)
	}
	return g.rng.Intn(g.rangeMax)
}

// winProbability ignores the tie so the reward stays strictly positive.
func (g *Game) winProbability(higher bool) float64 {
	if higher {
		return float64(g.rangeMax-g.current-1) / float64(g.rangeMax)
	}
	return float64(g.current) / float64(g.rangeMax)
}

func (g *Game) cashout() session.Update {
	g.finished = true
	g.cashedOut = true
	g.credit = int64(math.Floor(float64(g.bet) * g.multiplier))

	u := g.update()
	u.Terminal = true
	if g.credit > 0 {
		u.Settlement = []session.Delta{{UserID: g.userID, Amount: g.credit}}
	}
	return u
}

func (g *Game) update() session.Update {
	st := State{
		Range:      g.rangeMax,
		Current:    g.current,
		LastDraw:   g.lastDraw,
		Multiplier: g.multiplier,
		Rounds:     g.rounds,
		Bet:        g.bet,
		Finished:   g.finished,
		Won:        g.cashedOut,
		Credit:     g.credit,
	}
	u := session.Update{State: st}
	if !g.finished {
		u.Actions = []string{ActionHigher, ActionLower, ActionCashout}
	}
	return u
}
