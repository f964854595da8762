package blackjack

import "github.com/guildforge/coinbot/internal/random"

// Card is one playing card.
type Card struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

func (c Card) String() string {
	return c.Rank + c.Suit
}

var (
	ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
	suits = []string{"♠", "♥", "♦", "♣"}
)

// newShoe builds a shuffled multi-deck shoe.
func newShoe(rng random.Source, decks int) []Card {
	shoe := make([]Card, 0, decks*len(ranks)*len(suits))
	for range decks {
		for _, s := range suits {
			for _, r := range ranks {
				shoe = append(shoe, Card{Rank: r, Suit: s})
			}
		}
	}
	for i := len(shoe) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shoe[i], shoe[j] = shoe[j], shoe[i]
	}
	return shoe
}

// HandValue scores a hand, counting aces as 11 and dropping them to 1
// while the total exceeds 21.
func HandValue(cards []Card) int {
	total := 0
	aces := 0
	for _, c := range cards {
		switch c.Rank {
		case "A":
			total += 11
			aces++
		case "J", "Q", "K", "10":
			total += 10
		default:
			total += int(c.Rank[0] - '0')
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// isNatural reports a two-card 21.
func isNatural(cards []Card) bool {
	return len(cards) == 2 && HandValue(cards) == 21
}
