package blackjack

// Shoe configuration
const (
	ShoeDecks      = 6
	DealerStandsAt = 17
	MaxHands       = 2
)

// Action identifiers routed from the gateway shell.
const (
	ActionHit       = "hit"
	ActionStand     = "stand"
	ActionDouble    = "double"
	ActionSplit     = "split"
	ActionSurrender = "surrender"
)

// Hand outcomes
const (
	OutcomeWin       = "win"
	OutcomeLose      = "lose"
	OutcomePush      = "push"
	OutcomeBlackjack = "blackjack"
	OutcomeBust      = "bust"
	OutcomeSurrender = "surrender"
)
