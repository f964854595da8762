package slots

// Bet limits. Bets move in fixed increments and clamp down when the balance
// cannot cover the current bet.
const (
	MinBet       = 1000
	MaxBet       = 50000
	BetIncrement = 1000
)

// Reel geometry
const (
	Columns = 3
	Rows    = 3
)

// House edge tuning. A winning grid is resampled into a losing one with
// LoseBias probability, giving up after LoseRerolls attempts.
const (
	LoseBias    = 0.40
	LoseRerolls = 10
)

// Two cherries on a row pay a partial win.
const cherryPairMultiplier = 1.5

// Action identifiers
const (
	ActionSpin    = "spin"
	ActionBetUp   = "bet_up"
	ActionBetDown = "bet_down"
	ActionMaxBet  = "bet_max"
	ActionQuit    = "quit"
)
