package economy

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildforge/coinbot/internal/concurrency"
	"github.com/guildforge/coinbot/internal/domain"
	"github.com/guildforge/coinbot/internal/event"
	"github.com/guildforge/coinbot/internal/repository"
)

// memRepo is an in-memory profile store.
type memRepo struct {
	mu       sync.Mutex
	profiles map[string]*domain.Profile
}

func newMemRepo() *memRepo {
	return &memRepo{profiles: make(map[string]*domain.Profile)}
}

func key(userID, guildID string) string { return guildID + ":" + userID }

func (r *memRepo) GetOrCreateProfile(ctx context.Context, userID, guildID string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[key(userID, guildID)]; ok {
		cp := *p
		return &cp, nil
	}
	p := &domain.Profile{UserID: userID, GuildID: guildID}
	r.profiles[key(userID, guildID)] = p
	cp := *p
	return &cp, nil
}

func (r *memRepo) UpdateProfile(ctx context.Context, profile domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := profile
	r.profiles[key(profile.UserID, profile.GuildID)] = &cp
	return nil
}

func (r *memRepo) DeleteProfile(ctx context.Context, userID, guildID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, key(userID, guildID))
	return nil
}

func (r *memRepo) GetBalance(ctx context.Context, userID, guildID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[key(userID, guildID)]; ok {
		return p.Coins, nil
	}
	return 0, nil
}

func (r *memRepo) AdjustBalance(ctx context.Context, userID, guildID string, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[key(userID, guildID)]
	if !ok {
		p = &domain.Profile{UserID: userID, GuildID: guildID}
		r.profiles[key(userID, guildID)] = p
	}
	p.Coins += delta
	return p.Coins, nil
}

func (r *memRepo) SetBalance(ctx context.Context, userID, guildID string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[key(userID, guildID)]
	if !ok {
		p = &domain.Profile{UserID: userID, GuildID: guildID}
		r.profiles[key(userID, guildID)] = p
	}
	p.Coins = amount
	return nil
}

func (r *memRepo) GetLeaderboard(ctx context.Context, guildID string, limit int) ([]domain.LeaderboardEntry, error) {
	return nil, nil
}

func (r *memRepo) GetInventory(ctx context.Context, userID, guildID string) ([]domain.InventorySlot, error) {
	return nil, nil
}

func (r *memRepo) AddInventoryItem(ctx context.Context, userID, guildID, itemID string, quantity int) error {
	return nil
}

func (r *memRepo) BeginTx(ctx context.Context) (repository.ProfileTx, error) {
	return &memTx{repo: r}, nil
}

// memTx applies writes directly; Commit and Rollback are no-ops.
type memTx struct {
	repo *memRepo
}

func (t *memTx) Commit(ctx context.Context) error   { return nil }
func (t *memTx) Rollback(ctx context.Context) error { return fmt.Errorf("already committed") }

func (t *memTx) GetOrCreateProfile(ctx context.Context, userID, guildID string) (*domain.Profile, error) {
	return t.repo.GetOrCreateProfile(ctx, userID, guildID)
}

func (t *memTx) UpdateProfile(ctx context.Context, profile domain.Profile) error {
	return t.repo.UpdateProfile(ctx, profile)
}

func (t *memTx) AdjustBalance(ctx context.Context, userID, guildID string, delta int64) (int64, error) {
	return t.repo.AdjustBalance(ctx, userID, guildID, delta)
}

// memGuildRepo is an in-memory guild settings store.
type memGuildRepo struct {
	mu     sync.Mutex
	guilds map[string]*domain.Guild
}

func newMemGuildRepo() *memGuildRepo {
	return &memGuildRepo{guilds: make(map[string]*domain.Guild)}
}

func (r *memGuildRepo) GetOrCreateGuild(ctx context.Context, guildID string) (*domain.Guild, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.guilds[guildID]; ok {
		cp := *g
		return &cp, nil
	}
	g := &domain.Guild{GuildID: guildID, LevelsEnabled: true}
	r.guilds[guildID] = g
	cp := *g
	return &cp, nil
}

func (r *memGuildRepo) UpdateGuild(ctx context.Context, guild domain.Guild) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := guild
	r.guilds[guild.GuildID] = &cp
	return nil
}

type fixedSource struct {
	n int
}

func (s fixedSource) Intn(n int) int   { return s.n }
func (s fixedSource) Float64() float64 { return 0 }

func newTestService(t *testing.T, repo *memRepo) *service {
	t.Helper()
	svc := NewService(repo, newMemGuildRepo(), event.NewBus(), concurrency.NewLockManager()).(*service)
	svc.rng = fixedSource{n: 0}
	return svc
}

func setCoins(repo *memRepo, userID, guildID string, coins int64) {
	_ = repo.SetBalance(context.Background(), userID, guildID, coins)
}

func TestAdjustBalance_RejectsOverdraw(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo)
	setCoins(repo, "user1", "guild1", 100)

	_, err := svc.AdjustBalance(context.Background(), "user1", "guild1", -200)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	balance, err := svc.GetBalance(context.Background(), "user1", "guild1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)
}

func TestAdjustBalance_AppliesDelta(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo)
	setCoins(repo, "user1", "guild1", 100)

	newBalance, err := svc.AdjustBalance(context.Background(), "user1", "guild1", -60)
	require.NoError(t, err)
	assert.Equal(t, int64(40), newBalance)

	newBalance, err = svc.AdjustBalance(context.Background(), "user1", "guild1", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(50), newBalance)
}

func TestClaimDaily_GrantsAndStampsCooldown(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo)
	// Minimum roll grants the floor of the reward band
	svc.rng = fixedSource{n: 0}

	granted, err := svc.ClaimDaily(context.Background(), "user1", "guild1")
	require.NoError(t, err)
	assert.Equal(t, int64(domain.DailyRewardMin), granted)

	// Second claim inside the window is rejected
	_, err = svc.ClaimDaily(context.Background(), "user1", "guild1")
	assert.ErrorIs(t, err, domain.ErrClaimNotReady)
}

func TestClaimDaily_ReadyAgainAfterCooldown(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo)

	_, err := svc.ClaimDaily(context.Background(), "user1", "guild1")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(DailyCooldown + time.Minute) }
	_, err = svc.ClaimDaily(context.Background(), "user1", "guild1")
	assert.NoError(t, err)
}

func TestClaims_IndependentCooldowns(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo)

	_, err := svc.ClaimDaily(context.Background(), "user1", "guild1")
	require.NoError(t, err)
	_, err = svc.ClaimWeekly(context.Background(), "user1", "guild1")
	require.NoError(t, err)
	_, err = svc.ClaimMonthly(context.Background(), "user1", "guild1")
	require.NoError(t, err)

	profile, err := svc.GetProfile(context.Background(), "user1", "guild1")
	require.NoError(t, err)
	assert.False(t, profile.Cooldowns.DailyClaimedAt.IsZero())
	assert.False(t, profile.Cooldowns.WeeklyClaimedAt.IsZero())
	assert.False(t, profile.Cooldowns.MonthlyClaimedAt.IsZero())
}

func TestPay_TransfersBetweenUsers(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo)
	setCoins(repo, "alice", "guild1", 500)

	err := svc.Pay(context.Background(), "alice", "bob", "guild1", 200)
	require.NoError(t, err)

	aliceBalance, _ := svc.GetBalance(context.Background(), "alice", "guild1")
	bobBalance, _ := svc.GetBalance(context.Background(), "bob", "guild1")
	assert.Equal(t, int64(300), aliceBalance)
	assert.Equal(t, int64(200), bobBalance)
}

func TestPay_Validation(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo)
	setCoins(repo, "alice", "guild1", 500)

	err := svc.Pay(context.Background(), "alice", "bob", "guild1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.Pay(context.Background(), "alice", "alice", "guild1", 100)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.Pay(context.Background(), "alice", "bob", "guild1", 9999)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestAwardMessageXP_GainAndLengthBonus(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo)

	result, err := svc.AwardMessageXP(context.Background(), "user1", "guild1", 40)
	require.NoError(t, err)
	require.NotNil(t, result)
	// Base 5 plus 40/20
	assert.Equal(t, 7, result.XPGained)
}

func TestAwardMessageXP_LengthBonusCapped(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo)

	result, err := svc.AwardMessageXP(context.Background(), "user1", "guild1", 100000)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.MessageXPBase+domain.MessageXPLengthBonus, result.XPGained)
}

func TestAwardMessageXP_CooldownSuppresses(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo)

	first, err := svc.AwardMessageXP(context.Background(), "user1", "guild1", 10)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := svc.AwardMessageXP(context.Background(), "user1", "guild1", 10)
	require.NoError(t, err)
	assert.Nil(t, second)

	// A different user is unaffected
	third, err := svc.AwardMessageXP(context.Background(), "user2", "guild1", 10)
	require.NoError(t, err)
	assert.NotNil(t, third)
}

func TestAwardMessageXP_LevelUp(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo)

	// Seed just below the level threshold
	profile, err := repo.GetOrCreateProfile(context.Background(), "user1", "guild1")
	require.NoError(t, err)
	profile.XP = XPToNextLevel(0) - 1
	require.NoError(t, repo.UpdateProfile(context.Background(), *profile))

	result, err := svc.AwardMessageXP(context.Background(), "user1", "guild1", 10)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, 1, result.NewLevel)
	// Leftover XP carries into the new level
	assert.Equal(t, XPToNextLevel(0)-1+5-XPToNextLevel(0), result.NewXP)
}

func TestAwardMessageXP_LevelsDisabled(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo)

	require.NoError(t, svc.SetLevelsEnabled(context.Background(), "guild1", false))

	result, err := svc.AwardMessageXP(context.Background(), "user1", "guild1", 10)
	require.NoError(t, err)
	assert.Nil(t, result)

	// Re-enabling takes effect immediately
	require.NoError(t, svc.SetLevelsEnabled(context.Background(), "guild1", true))
	result, err = svc.AwardMessageXP(context.Background(), "user1", "guild1", 10)
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestSetLevelsEnabled_InvalidatesCachedSettings(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo)

	settings, err := svc.GetGuildSettings(context.Background(), "guild1")
	require.NoError(t, err)
	assert.True(t, settings.LevelsEnabled)

	require.NoError(t, svc.SetLevelsEnabled(context.Background(), "guild1", false))

	settings, err = svc.GetGuildSettings(context.Background(), "guild1")
	require.NoError(t, err)
	assert.False(t, settings.LevelsEnabled)
}

func TestXPToNextLevel(t *testing.T) {
	assert.Equal(t, 50, XPToNextLevel(0))
	assert.Equal(t, 100, XPToNextLevel(1))
	assert.Equal(t, 500, XPToNextLevel(9))
}

func TestPruneXPCooldowns(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo)

	_, err := svc.AwardMessageXP(context.Background(), "user1", "guild1", 10)
	require.NoError(t, err)

	assert.Equal(t, 0, svc.PruneXPCooldowns())

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	assert.Equal(t, 1, svc.PruneXPCooldowns())
}

func TestGetProfile_CachesReads(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(t, repo)
	setCoins(repo, "user1", "guild1", 100)

	first, err := svc.GetProfile(context.Background(), "user1", "guild1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), first.Coins)

	// A write through the service invalidates the cached profile
	_, err = svc.AdjustBalance(context.Background(), "user1", "guild1", 50)
	require.NoError(t, err)

	second, err := svc.GetProfile(context.Background(), "user1", "guild1")
	require.NoError(t, err)
	assert.Equal(t, int64(150), second.Coins)
}
