package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildforge/coinbot/internal/domain"
)

// fakeLedger is an in-memory balance store keyed by user id.
type fakeLedger struct {
	mu       sync.Mutex
	balances map[string]int64
}

func newFakeLedger(balances map[string]int64) *fakeLedger {
	return &fakeLedger{balances: balances}
}

func (l *fakeLedger) GetBalance(ctx context.Context, userID, guildID string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[userID], nil
}

func (l *fakeLedger) AdjustBalance(ctx context.Context, userID, guildID string, delta int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if delta < 0 && l.balances[userID]+delta < 0 {
		return 0, fmt.Errorf("%w: balance %d", domain.ErrInsufficientFunds, l.balances[userID])
	}
	l.balances[userID] += delta
	return l.balances[userID], nil
}

func (l *fakeLedger) SetBalance(ctx context.Context, userID, guildID string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[userID] = amount
	return nil
}

func (l *fakeLedger) balance(userID string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[userID]
}

// stubGame is a scriptable game for exercising the manager.
type stubGame struct {
	beginUpdate   Update
	quoteReserve  int64
	quoteErr      error
	advanceUpdate Update
	forceUpdate   Update
	forceCalls    int
}

func (g *stubGame) Kind() Kind    { return KindBlackjack }
func (g *stubGame) Begin() Update { return g.beginUpdate }

func (g *stubGame) Quote(in Input) (int64, error) {
	return g.quoteReserve, g.quoteErr
}

func (g *stubGame) Advance(in Input) Update { return g.advanceUpdate }

func (g *stubGame) ForceResolve() Update {
	g.forceCalls++
	return g.forceUpdate
}

func startConfig(game Game, wager int64) StartConfig {
	return StartConfig{
		OwnerKey:     "user:guild1:user1",
		OwnerID:      "user1",
		GuildID:      "guild1",
		Wager:        wager,
		ReserveWager: true,
		Game:         game,
	}
}

func TestManager_Start_InvalidWager(t *testing.T) {
	ledger := newFakeLedger(map[string]int64{"user1": 1000})
	m := NewManager(ledger, nil)

	_, _, err := m.Start(context.Background(), startConfig(&stubGame{}, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidWager)

	_, _, err = m.Start(context.Background(), startConfig(&stubGame{}, -5))
	assert.ErrorIs(t, err, domain.ErrInvalidWager)
}

func TestManager_Start_InsufficientFunds(t *testing.T) {
	ledger := newFakeLedger(map[string]int64{"user1": 100})
	m := NewManager(ledger, nil)

	_, _, err := m.Start(context.Background(), startConfig(&stubGame{}, 500))
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// Registration rolled back, balance untouched
	_, active := m.Get("user:guild1:user1")
	assert.False(t, active)
	assert.Equal(t, int64(100), ledger.balance("user1"))
}

func TestManager_Start_UnreservedWagerNeedsBalance(t *testing.T) {
	ledger := newFakeLedger(map[string]int64{"user1": 100})
	m := NewManager(ledger, nil)

	cfg := startConfig(&stubGame{}, 500)
	cfg.ReserveWager = false
	_, _, err := m.Start(context.Background(), cfg)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// Registration rolled back, nothing debited
	_, active := m.Get("user:guild1:user1")
	assert.False(t, active)
	assert.Equal(t, int64(100), ledger.balance("user1"))

	// An affordable wager opens without debiting
	cfg.Wager = 100
	_, _, err = m.Start(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(100), ledger.balance("user1"))
}

func TestManager_Start_Conflict(t *testing.T) {
	ledger := newFakeLedger(map[string]int64{"user1": 1000})
	m := NewManager(ledger, nil)

	_, _, err := m.Start(context.Background(), startConfig(&stubGame{}, 100))
	require.NoError(t, err)

	_, _, err = m.Start(context.Background(), startConfig(&stubGame{}, 100))
	assert.ErrorIs(t, err, domain.ErrSessionConflict)

	// Only the first wager was debited
	assert.Equal(t, int64(900), ledger.balance("user1"))
}

func TestManager_Start_TerminalBegin(t *testing.T) {
	ledger := newFakeLedger(map[string]int64{"user1": 1000})
	m := NewManager(ledger, nil)

	// A natural settles on the deal
	game := &stubGame{beginUpdate: Update{
		Terminal:   true,
		Settlement: []Delta{{UserID: "user1", Amount: 250}},
	}}
	s, update, err := m.Start(context.Background(), startConfig(game, 100))
	require.NoError(t, err)

	assert.True(t, update.Terminal)
	assert.True(t, s.Settled())
	assert.Equal(t, int64(1150), ledger.balance("user1"))

	_, active := m.Get("user:guild1:user1")
	assert.False(t, active)
}

func TestManager_HandleInput_NotFound(t *testing.T) {
	m := NewManager(newFakeLedger(map[string]int64{}), nil)

	_, _, err := m.HandleInput(context.Background(), "user:guild1:nobody", Input{ActorID: "nobody"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_HandleInput_NotOwner(t *testing.T) {
	ledger := newFakeLedger(map[string]int64{"user1": 1000})
	m := NewManager(ledger, nil)

	_, _, err := m.Start(context.Background(), startConfig(&stubGame{}, 100))
	require.NoError(t, err)

	_, _, err = m.HandleInput(context.Background(), "user:guild1:user1", Input{ActorID: "intruder", Action: "hit"})
	assert.ErrorIs(t, err, domain.ErrNotOwner)
}

func TestManager_HandleInput_QuoteErrorLeavesSessionOpen(t *testing.T) {
	ledger := newFakeLedger(map[string]int64{"user1": 1000})
	game := &stubGame{quoteErr: domain.ErrIllegalAction}
	m := NewManager(ledger, nil)

	_, _, err := m.Start(context.Background(), startConfig(game, 100))
	require.NoError(t, err)

	_, _, err = m.HandleInput(context.Background(), "user:guild1:user1", Input{ActorID: "user1", Action: "bogus"})
	assert.ErrorIs(t, err, domain.ErrIllegalAction)

	_, active := m.Get("user:guild1:user1")
	assert.True(t, active)
	assert.Equal(t, int64(900), ledger.balance("user1"))
}

func TestManager_HandleInput_ReservesQuotedStake(t *testing.T) {
	ledger := newFakeLedger(map[string]int64{"user1": 1000})
	game := &stubGame{quoteReserve: 100}
	m := NewManager(ledger, nil)

	_, _, err := m.Start(context.Background(), startConfig(game, 100))
	require.NoError(t, err)

	_, _, err = m.HandleInput(context.Background(), "user:guild1:user1", Input{ActorID: "user1", Action: "double"})
	require.NoError(t, err)
	assert.Equal(t, int64(800), ledger.balance("user1"))
}

func TestManager_HandleInput_ReserveFailureRejectsAction(t *testing.T) {
	ledger := newFakeLedger(map[string]int64{"user1": 150})
	game := &stubGame{quoteReserve: 100}
	m := NewManager(ledger, nil)

	_, _, err := m.Start(context.Background(), startConfig(game, 100))
	require.NoError(t, err)

	_, _, err = m.HandleInput(context.Background(), "user:guild1:user1", Input{ActorID: "user1", Action: "double"})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// Session survives the rejected action
	_, active := m.Get("user:guild1:user1")
	assert.True(t, active)
	assert.Equal(t, int64(50), ledger.balance("user1"))
}

func TestManager_HandleInput_TerminalSettlesAndReleases(t *testing.T) {
	ledger := newFakeLedger(map[string]int64{"user1": 1000})
	game := &stubGame{advanceUpdate: Update{
		Terminal:   true,
		Settlement: []Delta{{UserID: "user1", Amount: 200}},
	}}
	m := NewManager(ledger, nil)

	_, _, err := m.Start(context.Background(), startConfig(game, 100))
	require.NoError(t, err)

	_, update, err := m.HandleInput(context.Background(), "user:guild1:user1", Input{ActorID: "user1", Action: "stand"})
	require.NoError(t, err)
	assert.True(t, update.Terminal)
	assert.Equal(t, int64(1100), ledger.balance("user1"))

	// Key released; further input finds nothing
	_, _, err = m.HandleInput(context.Background(), "user:guild1:user1", Input{ActorID: "user1", Action: "stand"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_Expire_SettlesExactlyOnce(t *testing.T) {
	ledger := newFakeLedger(map[string]int64{"user1": 1000})
	game := &stubGame{forceUpdate: Update{
		Terminal:   true,
		Settlement: []Delta{{UserID: "user1", Amount: 100}},
	}}
	m := NewManager(ledger, nil)

	s, _, err := m.Start(context.Background(), startConfig(game, 100))
	require.NoError(t, err)

	m.expire(s.OwnerKey, s.ID)
	m.expire(s.OwnerKey, s.ID)

	assert.Equal(t, 1, game.forceCalls)
	assert.Equal(t, int64(1000), ledger.balance("user1"))
	_, active := m.Get(s.OwnerKey)
	assert.False(t, active)
}

func TestManager_Expire_IgnoresStaleSessionID(t *testing.T) {
	ledger := newFakeLedger(map[string]int64{"user1": 1000})
	game := &stubGame{forceUpdate: Update{Terminal: true}}
	m := NewManager(ledger, nil)

	s, _, err := m.Start(context.Background(), startConfig(game, 100))
	require.NoError(t, err)

	m.expire(s.OwnerKey, "some-older-session")
	assert.Equal(t, 0, game.forceCalls)
	_, active := m.Get(s.OwnerKey)
	assert.True(t, active)
}

func TestManager_SweepStale(t *testing.T) {
	ledger := newFakeLedger(map[string]int64{"user1": 1000})
	game := &stubGame{forceUpdate: Update{Terminal: true}}
	m := NewManager(ledger, nil)

	s, _, err := m.Start(context.Background(), startConfig(game, 100))
	require.NoError(t, err)

	// Nothing is stale yet
	assert.Equal(t, 0, m.SweepStale(context.Background()))

	m.now = func() time.Time { return time.Now().Add(12 * time.Minute) }
	assert.Equal(t, 1, m.SweepStale(context.Background()))
	assert.Equal(t, 1, game.forceCalls)

	_, active := m.Get(s.OwnerKey)
	assert.False(t, active)
}

func TestManager_Shutdown_ResolvesOpenSessions(t *testing.T) {
	ledger := newFakeLedger(map[string]int64{"user1": 1000})
	game := &stubGame{forceUpdate: Update{
		Terminal:   true,
		Settlement: []Delta{{UserID: "user1", Amount: 100}},
	}}
	m := NewManager(ledger, nil)

	_, _, err := m.Start(context.Background(), startConfig(game, 100))
	require.NoError(t, err)

	m.Shutdown(context.Background())
	assert.Equal(t, 1, game.forceCalls)
	assert.Equal(t, int64(1000), ledger.balance("user1"))
}
