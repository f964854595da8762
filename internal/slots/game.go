package slots

import (
	"fmt"
	"math"
	"strings"

	"github.com/guildforge/coinbot/internal/domain"
	"github.com/guildforge/coinbot/internal/random"
	"github.com/guildforge/coinbot/internal/session"
)

// Symbol is one reel face with its triple-match multiplier.
type Symbol struct {
	Emoji      string
	Multiplier int
}

var symbols = []Symbol{
	{"🍒", 3},
	{"🍋", 4},
	{"🍊", 5},
	{"🍉", 8},
	{"🔔", 12},
	{"⭐", 15},
	{"7️⃣", 50},
}

// Rarer symbols pay more.
var symbolWeights = []int{45, 35, 30, 20, 10, 5, 1}

const cherryEmoji = "🍒"

// BalanceFunc reports the player's live balance so spins can clamp the bet.
type BalanceFunc func() (int64, error)

// State is the public snapshot rendered by the gateway shell.
type State struct {
	Grid       [][]string `json:"grid"` // rows of symbols
	Bet        int64      `json:"bet"`
	LastPayout int64      `json:"last_payout"`
	Spins      int        `json:"spins"`
	Net        int64      `json:"net"`
	Finished   bool       `json:"finished"`
	Notice     string     `json:"notice,omitempty"`
}

// Game runs a slot machine session. Each spin settles on the spot: the bet
// is reserved when the spin is quoted and the payout credited immediately,
// so nothing is outstanding between spins.
type Game struct {
	userID  string
	rng     random.Source
	balance BalanceFunc

	bet        int64
	pendingBet int64
	grid       [][]string
	lastPayout int64
	spins      int
	net        int64
	finished   bool
	notice     string
}

// New opens a machine at the requested bet, clamped to the table limits.
func New(userID string, bet int64, rng random.Source, balance BalanceFunc) *Game {
	return &Game{
		userID:  userID,
		rng:     rng,
		balance: balance,
		bet:     clampBet(bet),
	}
}

func (g *Game) Kind() session.Kind { return session.KindSlots }

func (g *Game) Begin() session.Update {
	return g.update()
}

// Quote stages the spin stake. The bet clamps down in increments while the
// balance cannot cover it; a balance below the minimum bet ends the session
// on the next Advance.
func (g *Game) Quote(in session.Input) (int64, error) {
	if g.finished {
		return 0, domain.ErrIllegalAction
	}
	switch in.Action {
	case ActionBetUp, ActionBetDown, ActionMaxBet, ActionQuit:
		return 0, nil
	case ActionSpin:
		bal, err := g.balance()
		if err != nil {
			return 0, err
		}
		if bal < MinBet {
			g.pendingBet = 0
			return 0, nil
		}
		bet := g.bet
		for bet > bal {
			bet -= BetIncrement
		}
		g.pendingBet = bet
		return bet, nil
	}
	return 0, fmt.Errorf("%w: %s", domain.ErrIllegalAction, in.Action)
}

func (g *Game) Advance(in session.Input) session.Update {
	switch in.Action {
	case ActionBetUp:
		g.bet = clampBet(g.bet + BetIncrement)
		return g.update()
	case ActionBetDown:
		g.bet = clampBet(g.bet - BetIncrement)
		return g.update()
	case ActionMaxBet:
		g.bet = MaxBet
		return g.update()
	case ActionQuit:
		g.finished = true
		u := g.update()
		u.Terminal = true
		return u
	}
	return g.spin()
}

// ForceResolve ends the session. Every spin already settled, so there is
// nothing to pay out.
func (g *Game) ForceResolve() session.Update {
	g.finished = true
	return g.update()
}

func (g *Game) spin() session.Update {
	if g.pendingBet == 0 {
		g.finished = true
		g.notice = "Out of coins"
		u := g.update()
		u.Terminal = true
		return u
	}

	bet := g.pendingBet
	if bet != g.bet {
		g.bet = bet
		g.notice = fmt.Sprintf("Bet lowered to %d", bet)
	} else {
		g.notice = ""
	}

	grid := g.roll()
	if gridPayout(grid, bet) > 0 && g.rng.Float64() < LoseBias {
		for range LoseRerolls {
			grid = g.roll()
			if gridPayout(grid, bet) == 0 {
				break
			}
		}
	}

	g.grid = grid
	g.lastPayout = gridPayout(grid, bet)
	g.spins++
	g.net += g.lastPayout - bet

	u := g.update()
	if g.lastPayout > 0 {
		u.Immediate = []session.Delta{{UserID: g.userID, Amount: g.lastPayout}}
	}
	return u
}

// roll draws a fresh grid, one weighted pick per cell.
func (g *Game) roll() [][]string {
	grid := make([][]string, Rows)
	for r := range grid {
		row := make([]string, Columns)
		for c := range row {
			row[c] = symbols[random.Weighted(g.rng, symbolWeights)].Emoji
		}
		grid[r] = row
	}
	return grid
}

// gridPayout scores every row: a triple pays the symbol multiplier, two or
// more cherries pay a partial win.
func gridPayout(grid [][]string, bet int64) int64 {
	var payout int64
	for _, row := range grid {
		if row[0] == row[1] && row[1] == row[2] {
			payout += bet * int64(multiplierFor(row[0]))
			continue
		}
		cherries := 0
		for _, s := range row {
			if s == cherryEmoji {
				cherries++
			}
		}
		if cherries >= 2 {
			payout += int64(math.Floor(float64(bet) * cherryPairMultiplier))
		}
	}
	return payout
}

func multiplierFor(emoji string) int {
	for _, s := range symbols {
		if s.Emoji == emoji {
			return s.Multiplier
		}
	}
	return 0
}

// clampBet keeps bets on increment multiples within the table limits, so
// the spin-time clamp-down loop always lands on a legal bet.
func clampBet(bet int64) int64 {
	bet -= bet % BetIncrement
	if bet < MinBet {
		return MinBet
	}
	if bet > MaxBet {
		return MaxBet
	}
	return bet
}

func (g *Game) update() session.Update {
	st := State{
		Grid:       g.grid,
		Bet:        g.bet,
		LastPayout: g.lastPayout,
		Spins:      g.spins,
		Net:        g.net,
		Finished:   g.finished,
		Notice:     g.notice,
	}
	u := session.Update{State: st}
	if !g.finished {
		u.Actions = []string{ActionSpin, ActionBetUp, ActionBetDown, ActionMaxBet, ActionQuit}
	}
	return u
}

// PayoutTable renders the triple-match multipliers for display.
func PayoutTable() string {
	var sb strings.Builder
	for _, s := range symbols {
		fmt.Fprintf(&sb, "%s%s%s ×%d\n", s.Emoji, s.Emoji, s.Emoji, s.Multiplier)
	}
	fmt.Fprintf(&sb, "%s%s pair ×%.1f", cherryEmoji, cherryEmoji, cherryPairMultiplier)
	return sb.String()
}
