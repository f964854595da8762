package economy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/guildforge/coinbot/internal/concurrency"
	"github.com/guildforge/coinbot/internal/domain"
	"github.com/guildforge/coinbot/internal/event"
	"github.com/guildforge/coinbot/internal/logger"
	"github.com/guildforge/coinbot/internal/random"
	"github.com/guildforge/coinbot/internal/repository"
)

// Ledger is the balance gateway used by the game engine. All amounts are
// coins; deltas may be negative. AdjustBalance with a negative delta fails
// with domain.ErrInsufficientFunds rather than driving a balance below zero.
type Ledger interface {
	GetBalance(ctx context.Context, userID, guildID string) (int64, error)
	AdjustBalance(ctx context.Context, userID, guildID string, delta int64) (int64, error)
	SetBalance(ctx context.Context, userID, guildID string, amount int64) error
}

// Service defines the interface for economy operations
type Service interface {
	Ledger

	GetProfile(ctx context.Context, userID, guildID string) (*domain.Profile, error)
	GetLeaderboard(ctx context.Context, guildID string, limit int) ([]domain.LeaderboardEntry, error)

	ClaimDaily(ctx context.Context, userID, guildID string) (int64, error)
	ClaimWeekly(ctx context.Context, userID, guildID string) (int64, error)
	ClaimMonthly(ctx context.Context, userID, guildID string) (int64, error)

	Pay(ctx context.Context, fromUserID, toUserID, guildID string, amount int64) error

	AwardMessageXP(ctx context.Context, userID, guildID string, messageLength int) (*domain.XPAwardResult, error)
	PruneXPCooldowns() int

	GetGuildSettings(ctx context.Context, guildID string) (*domain.Guild, error)
	SetLevelsEnabled(ctx context.Context, guildID string, enabled bool) error
}

type service struct {
	repo       repository.Profile
	guilds     repository.Guild
	eventBus   event.Bus
	locks      *concurrency.LockManager
	cache      *profileCache
	guildCache *guildCache
	rng        random.Source // Injectable for testing

	xpMu        sync.Mutex
	xpCooldowns map[string]time.Time
	now         func() time.Time
}

// NewService creates a new economy service
func NewService(repo repository.Profile, guilds repository.Guild, eventBus event.Bus, locks *concurrency.LockManager) Service {
	return &service{
		repo:        repo,
		guilds:      guilds,
		eventBus:    eventBus,
		locks:       locks,
		cache:       newProfileCache(ProfileCacheSize, ProfileCacheTTL),
		guildCache:  newGuildCache(GuildCacheSize, GuildCacheTTL),
		rng:         random.NewSource(),
		xpCooldowns: make(map[string]time.Time),
		now:         time.Now,
	}
}

func lockKey(userID, guildID string) string {
	return "ledger:" + guildID + ":" + userID
}

// GetBalance reads the current coin balance
func (s *service) GetBalance(ctx context.Context, userID, guildID string) (int64, error) {
	return s.repo.GetBalance(ctx, userID, guildID)
}

// AdjustBalance applies delta under the per-user ledger lock. Negative
// deltas are rejected when they would overdraw the balance.
func (s *service) AdjustBalance(ctx context.Context, userID, guildID string, delta int64) (int64, error) {
	var newBalance int64
	err := s.locks.WithLock(lockKey(userID, guildID), func() error {
		if delta < 0 {
			balance, err := s.repo.GetBalance(ctx, userID, guildID)
			if err != nil {
				return err
			}
			if balance+delta < 0 {
				return fmt.Errorf("%w: balance %d, delta %d", domain.ErrInsufficientFunds, balance, delta)
			}
		}
		var err error
		newBalance, err = s.repo.AdjustBalance(ctx, userID, guildID, delta)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.cache.Invalidate(userID, guildID)
	return newBalance, nil
}

// SetBalance overwrites the coin balance (admin operation)
func (s *service) SetBalance(ctx context.Context, userID, guildID string, amount int64) error {
	err := s.locks.WithLock(lockKey(userID, guildID), func() error {
		return s.repo.SetBalance(ctx, userID, guildID, amount)
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(userID, guildID)
	return nil
}

// GetProfile returns the profile, served from cache when fresh
func (s *service) GetProfile(ctx context.Context, userID, guildID string) (*domain.Profile, error) {
	if p, ok := s.cache.Get(userID, guildID); ok {
		return p, nil
	}
	p, err := s.repo.GetOrCreateProfile(ctx, userID, guildID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(p)
	return p, nil
}

// GetLeaderboard returns the top coin holders for a guild
func (s *service) GetLeaderboard(ctx context.Context, guildID string, limit int) ([]domain.LeaderboardEntry, error) {
	return s.repo.GetLeaderboard(ctx, guildID, limit)
}

// ClaimDaily grants the daily reward if the cooldown has elapsed
func (s *service) ClaimDaily(ctx context.Context, userID, guildID string) (int64, error) {
	return s.claim(ctx, userID, guildID, DailyCooldown, domain.DailyRewardMin, domain.DailyRewardMax,
		func(p *domain.Profile) *time.Time { return &p.Cooldowns.DailyClaimedAt })
}

// ClaimWeekly grants the weekly reward if the cooldown has elapsed
func (s *service) ClaimWeekly(ctx context.Context, userID, guildID string) (int64, error) {
	return s.claim(ctx, userID, guildID, WeeklyCooldown, domain.WeeklyRewardMin, domain.WeeklyRewardMax,
		func(p *domain.Profile) *time.Time { return &p.Cooldowns.WeeklyClaimedAt })
}

// ClaimMonthly grants the monthly reward if the cooldown has elapsed
func (s *service) ClaimMonthly(ctx context.Context, userID, guildID string) (int64, error) {
	return s.claim(ctx, userID, guildID, MonthlyCooldown, domain.MonthlyRewardMin, domain.MonthlyRewardMax,
		func(p *domain.Profile) *time.Time { return &p.Cooldowns.MonthlyClaimedAt })
}

func (s *service) claim(ctx context.Context, userID, guildID string, cooldown time.Duration, min, max int, stamp func(*domain.Profile) *time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	var granted int64
	err := s.locks.WithLock(lockKey(userID, guildID), func() error {
		profile, err := s.repo.GetOrCreateProfile(ctx, userID, guildID)
		if err != nil {
			return err
		}

		last := *stamp(profile)
		now := s.now()
		if !last.IsZero() && now.Sub(last) < cooldown {
			remaining := cooldown - now.Sub(last)
			return fmt.Errorf("%w: %s remaining", domain.ErrClaimNotReady, remaining.Round(time.Second))
		}

		granted = int64(random.IntInRange(s.rng, min, max))
		profile.Coins += granted
		*stamp(profile) = now

		return s.repo.UpdateProfile(ctx, *profile)
	})
	if err != nil {
		return 0, err
	}

	s.cache.Invalidate(userID, guildID)
	log.Info(LogMsgClaimGranted, "user_id", userID, "guild_id", guildID, "coins", granted)
	return granted, nil
}

// Pay transfers coins between two users in the same guild
func (s *service) Pay(ctx context.Context, fromUserID, toUserID, guildID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	if fromUserID == toUserID {
		return fmt.Errorf("%w: cannot pay yourself", domain.ErrInvalidInput)
	}

	err := s.locks.WithLock(lockKey(fromUserID, guildID), func() error {
		balance, err := s.repo.GetBalance(ctx, fromUserID, guildID)
		if err != nil {
			return err
		}
		if balance < amount {
			return fmt.Errorf("%w: balance %d", domain.ErrInsufficientFunds, balance)
		}

		tx, err := s.repo.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer repository.SafeRollback(ctx, tx)

		if _, err := tx.AdjustBalance(ctx, fromUserID, guildID, -amount); err != nil {
			return err
		}
		if _, err := tx.AdjustBalance(ctx, toUserID, guildID, amount); err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(fromUserID, guildID)
	s.cache.Invalidate(toUserID, guildID)
	logger.FromContext(ctx).Info(LogMsgPayCompleted, "from", fromUserID, "to", toUserID, "amount", amount)
	return nil
}

// AwardMessageXP grants XP for a chat message, once per user per minute.
// Returns nil result while the cooldown is active or when the guild has
// levels switched off.
func (s *service) AwardMessageXP(ctx context.Context, userID, guildID string, messageLength int) (*domain.XPAwardResult, error) {
	settings, err := s.GetGuildSettings(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if !settings.LevelsEnabled {
		return nil, nil
	}

	s.xpMu.Lock()
	now := s.now()
	if until, ok := s.xpCooldowns[userID]; ok && now.Before(until) {
		s.xpMu.Unlock()
		return nil, nil
	}
	s.xpCooldowns[userID] = now.Add(XPCooldown)
	s.xpMu.Unlock()

	bonus := messageLength / domain.MessageXPLengthDiv
	if bonus > domain.MessageXPLengthBonus {
		bonus = domain.MessageXPLengthBonus
	}
	gained := domain.MessageXPBase + bonus

	var result domain.XPAwardResult
	err = s.locks.WithLock(lockKey(userID, guildID), func() error {
		profile, err := s.repo.GetOrCreateProfile(ctx, userID, guildID)
		if err != nil {
			return err
		}

		profile.XP += gained
		for profile.XP >= XPToNextLevel(profile.Level) {
			profile.XP -= XPToNextLevel(profile.Level)
			profile.Level++
			result.LeveledUp = true
		}

		result.XPGained = gained
		result.NewXP = profile.XP
		result.NewLevel = profile.Level
		return s.repo.UpdateProfile(ctx, *profile)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(userID, guildID)
	if result.LeveledUp {
		s.publishLevelUp(ctx, userID, guildID, result.NewLevel)
	}
	return &result, nil
}

// PruneXPCooldowns drops expired cooldown entries and returns how many were
// removed. Run periodically from the scheduler.
func (s *service) PruneXPCooldowns() int {
	s.xpMu.Lock()
	defer s.xpMu.Unlock()
	now := s.now()
	pruned := 0
	for userID, until := range s.xpCooldowns {
		if !now.Before(until) {
			delete(s.xpCooldowns, userID)
			pruned++
		}
	}
	return pruned
}

// GetGuildSettings returns guild settings, served from cache when fresh
func (s *service) GetGuildSettings(ctx context.Context, guildID string) (*domain.Guild, error) {
	if g, ok := s.guildCache.Get(guildID); ok {
		return g, nil
	}
	g, err := s.guilds.GetOrCreateGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}
	s.guildCache.Set(g)
	return g, nil
}

// SetLevelsEnabled toggles the XP track for a guild
func (s *service) SetLevelsEnabled(ctx context.Context, guildID string, enabled bool) error {
	g, err := s.guilds.GetOrCreateGuild(ctx, guildID)
	if err != nil {
		return err
	}
	g.LevelsEnabled = enabled
	if err := s.guilds.UpdateGuild(ctx, *g); err != nil {
		return err
	}
	s.guildCache.Invalidate(guildID)
	logger.FromContext(ctx).Info(LogMsgLevelsToggled, "guild_id", guildID, "enabled", enabled)
	return nil
}

// XPToNextLevel returns the XP required to advance from level.
func XPToNextLevel(level int) int {
	return domain.XPPerLevelStep * (level + 1)
}

func (s *service) publishLevelUp(ctx context.Context, userID, guildID string, newLevel int) {
	if s.eventBus == nil {
		return
	}
	evt := event.New(domain.EventLevelUp, domain.LevelUpPayload{
		UserID:   userID,
		GuildID:  guildID,
		NewLevel: newLevel,
	})
	if err := s.eventBus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Error(LogMsgFailedPublishEvent, "type", domain.EventLevelUp, "error", err)
	}
}
