package roulette

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/guildforge/coinbot/internal/domain"
)

// Space is a normalized betting space.
type Space struct {
	Kind   string
	Number int // set for single-number bets
}

// Space kinds
const (
	SpaceNumber = "number"
	SpaceRed    = "red"
	SpaceBlack  = "black"
	SpaceOdd    = "odd"
	SpaceEven   = "even"
	SpaceLow    = "low"
	SpaceHigh   = "high"
	SpaceDozen1 = "dozen1"
	SpaceDozen2 = "dozen2"
	SpaceDozen3 = "dozen3"
)

// Payout multipliers applied to the staked amount on a win.
const (
	NumberPayout = 35
	EvenPayout   = 2
	DozenPayout  = 3
)

var spaceSynonyms = map[string]string{
	"red": SpaceRed, "reds": SpaceRed, "r": SpaceRed,
	"black": SpaceBlack, "blacks": SpaceBlack, "b": SpaceBlack,
	"odd": SpaceOdd, "odds": SpaceOdd, "o": SpaceOdd,
	"even": SpaceEven, "evens": SpaceEven, "e": SpaceEven,
	"low": SpaceLow, "lows": SpaceLow, "l": SpaceLow, "1-18": SpaceLow,
	"high": SpaceHigh, "highs": SpaceHigh, "h": SpaceHigh, "19-36": SpaceHigh,
	"dozen1": SpaceDozen1, "first": SpaceDozen1, "1st": SpaceDozen1, "d1": SpaceDozen1,
	"dozen2": SpaceDozen2, "second": SpaceDozen2, "2nd": SpaceDozen2, "d2": SpaceDozen2,
	"dozen3": SpaceDozen3, "third": SpaceDozen3, "3rd": SpaceDozen3, "d3": SpaceDozen3,
}

var redPockets = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// ParseSpace normalizes user input into a betting space. Numbers 0-36 are
// single-number bets; everything else goes through the synonym table.
func ParseSpace(raw string) (Space, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return Space{}, domain.ErrInvalidBetSpace
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 36 {
			return Space{}, fmt.Errorf("%w: number must be 0-36", domain.ErrInvalidBetSpace)
		}
		return Space{Kind: SpaceNumber, Number: n}, nil
	}

	if kind, ok := spaceSynonyms[s]; ok {
		return Space{Kind: kind}, nil
	}
	return Space{}, fmt.Errorf("%w: %q", domain.ErrInvalidBetSpace, raw)
}

// Multiplier returns the payout multiplier for the space.
func (s Space) Multiplier() int {
	switch s.Kind {
	case SpaceNumber:
		return NumberPayout
	case SpaceDozen1, SpaceDozen2, SpaceDozen3:
		return DozenPayout
	default:
		return EvenPayout
	}
}

// Hits reports whether the space covers the spun pocket. Zero only pays on
// a straight zero bet.
func (s Space) Hits(pocket int) bool {
	switch s.Kind {
	case SpaceNumber:
		return s.Number == pocket
	case SpaceRed:
		return redPockets[pocket]
	case SpaceBlack:
		return pocket != 0 && !redPockets[pocket]
	case SpaceOdd:
		return pocket != 0 && pocket%2 == 1
	case SpaceEven:
		return pocket != 0 && pocket%2 == 0
	case SpaceLow:
		return pocket >= 1 && pocket <= 18
	case SpaceHigh:
		return pocket >= 19 && pocket <= 36
	case SpaceDozen1:
		return pocket >= 1 && pocket <= 12
	case SpaceDozen2:
		return pocket >= 13 && pocket <= 24
	case SpaceDozen3:
		return pocket >= 25 && pocket <= 36
	}
	return false
}

// PocketColor names the color of a pocket for announcements.
func PocketColor(pocket int) string {
	switch {
	case pocket == 0:
		return "green"
	case redPockets[pocket]:
		return "red"
	default:
		return "black"
	}
}

func (s Space) String() string {
	if s.Kind == SpaceNumber {
		return strconv.Itoa(s.Number)
	}
	return s.Kind
}
