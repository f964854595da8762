package coinflip

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildforge/coinbot/internal/domain"
)

type fakeLedger struct {
	balances map[string]int64
}

func (l *fakeLedger) GetBalance(ctx context.Context, userID, guildID string) (int64, error) {
	return l.balances[userID], nil
}

func (l *fakeLedger) AdjustBalance(ctx context.Context, userID, guildID string, delta int64) (int64, error) {
	if delta < 0 && l.balances[userID]+delta < 0 {
		return 0, fmt.Errorf("%w: balance %d", domain.ErrInsufficientFunds, l.balances[userID])
	}
	l.balances[userID] += delta
	return l.balances[userID], nil
}

func (l *fakeLedger) SetBalance(ctx context.Context, userID, guildID string, amount int64) error {
	l.balances[userID] = amount
	return nil
}

type fixedSource struct {
	n int
}

func (s fixedSource) Intn(n int) int   { return s.n }
func (s fixedSource) Float64() float64 { return 0 }

func TestFlip_WinPaysEvenMoney(t *testing.T) {
	ledger := &fakeLedger{balances: map[string]int64{"user1": 1000}}
	svc := NewService(ledger, fixedSource{n: 0}) // lands heads

	result, err := svc.Flip(context.Background(), "user1", "guild1", 100, "heads")
	require.NoError(t, err)

	assert.True(t, result.Won)
	assert.Equal(t, Heads, result.Side)
	assert.Equal(t, int64(100), result.Net)
	assert.Equal(t, int64(1100), result.NewBalance)
	assert.Equal(t, int64(1100), ledger.balances["user1"])
}

func TestFlip_LossKeepsStake(t *testing.T) {
	ledger := &fakeLedger{balances: map[string]int64{"user1": 1000}}
	svc := NewService(ledger, fixedSource{n: 1}) // lands tails

	result, err := svc.Flip(context.Background(), "user1", "guild1", 100, "heads")
	require.NoError(t, err)

	assert.False(t, result.Won)
	assert.Equal(t, Tails, result.Side)
	assert.Equal(t, int64(-100), result.Net)
	assert.Equal(t, int64(900), ledger.balances["user1"])
}

func TestFlip_NormalizesCall(t *testing.T) {
	ledger := &fakeLedger{balances: map[string]int64{"user1": 1000}}
	svc := NewService(ledger, fixedSource{n: 1})

	result, err := svc.Flip(context.Background(), "user1", "guild1", 100, "  TAILS ")
	require.NoError(t, err)
	assert.True(t, result.Won)
}

func TestFlip_Validation(t *testing.T) {
	ledger := &fakeLedger{balances: map[string]int64{"user1": 1000}}
	svc := NewService(ledger, fixedSource{n: 0})

	_, err := svc.Flip(context.Background(), "user1", "guild1", 0, "heads")
	assert.ErrorIs(t, err, domain.ErrInvalidWager)

	_, err = svc.Flip(context.Background(), "user1", "guild1", 100, "edge")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFlip_InsufficientFunds(t *testing.T) {
	ledger := &fakeLedger{balances: map[string]int64{"user1": 50}}
	svc := NewService(ledger, fixedSource{n: 0})

	_, err := svc.Flip(context.Background(), "user1", "guild1", 100, "heads")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, int64(50), ledger.balances["user1"])
}
