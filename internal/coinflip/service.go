package coinflip

import (
	"context"
	"fmt"
	"strings"

	"github.com/guildforge/coinbot/internal/domain"
	"github.com/guildforge/coinbot/internal/economy"
	"github.com/guildforge/coinbot/internal/logger"
	"github.com/guildforge/coinbot/internal/metrics"
	"github.com/guildforge/coinbot/internal/random"
)

// Sides
const (
	Heads = "heads"
	Tails = "tails"
)

const metricKind = "coinflip"

// Result is one resolved flip.
type Result struct {
	Call       string
	Side       string
	Won        bool
	Wager      int64
	Net        int64
	NewBalance int64
}

// Service resolves even-money coin flips. A flip settles in one call, so no
// session is opened; the wager is debited up front and a win credits double.
type Service interface {
	Flip(ctx context.Context, userID, guildID string, wager int64, call string) (*Result, error)
}

type service struct {
	ledger economy.Ledger
	rng    random.Source // Injectable for testing
}

// NewService creates a coinflip service
func NewService(ledger economy.Ledger, rng random.Source) Service {
	return &service{ledger: ledger, rng: rng}
}

func (s *service) Flip(ctx context.Context, userID, guildID string, wager int64, call string) (*Result, error) {
	if wager <= 0 {
		return nil, fmt.Errorf("%w: wager must be positive", domain.ErrInvalidWager)
	}
	call = strings.ToLower(strings.TrimSpace(call))
	if call != Heads && call != Tails {
		return nil, fmt.Errorf("%w: call heads or tails", domain.ErrInvalidInput)
	}

	balance, err := s.ledger.AdjustBalance(ctx, userID, guildID, -wager)
	if err != nil {
		return nil, err
	}
	metrics.CoinsWagered.WithLabelValues(metricKind).Add(float64(wager))

	side := Heads
	if s.rng.Intn(2) == 1 {
		side = Tails
	}

	result := &Result{
		Call:       call,
		Side:       side,
		Wager:      wager,
		Net:        -wager,
		NewBalance: balance,
	}
	if side == call {
		result.Won = true
		result.Net = wager
		payout := 2 * wager
		result.NewBalance, err = s.ledger.AdjustBalance(ctx, userID, guildID, payout)
		if err != nil {
			logger.FromContext(ctx).Error("Failed to credit coinflip payout",
				"user_id", userID, "amount", payout, "error", err)
			return nil, err
		}
		metrics.CoinsPaidOut.WithLabelValues(metricKind).Add(float64(payout))
	}

	logger.FromContext(ctx).Info("Coinflip resolved",
		"user_id", userID, "call", call, "side", side, "won", result.Won, "wager", wager)
	return result, nil
}
