package repository

import (
	"context"

	"github.com/guildforge/coinbot/internal/domain"
)

// Profile defines the interface for profile persistence
type Profile interface {
	// GetOrCreateProfile returns the profile for (userID, guildID), creating
	// an empty one when none exists.
	GetOrCreateProfile(ctx context.Context, userID, guildID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, profile domain.Profile) error
	DeleteProfile(ctx context.Context, userID, guildID string) error

	// GetBalance reads the coin balance without materializing a profile.
	GetBalance(ctx context.Context, userID, guildID string) (int64, error)
	// AdjustBalance atomically applies delta to the coin balance and returns
	// the new amount.
	AdjustBalance(ctx context.Context, userID, guildID string, delta int64) (int64, error)
	SetBalance(ctx context.Context, userID, guildID string, amount int64) error

	GetLeaderboard(ctx context.Context, guildID string, limit int) ([]domain.LeaderboardEntry, error)

	GetInventory(ctx context.Context, userID, guildID string) ([]domain.InventorySlot, error)
	AddInventoryItem(ctx context.Context, userID, guildID, itemID string, quantity int) error

	BeginTx(ctx context.Context) (ProfileTx, error)
}

// ProfileTx defines the interface for profile transactions
type ProfileTx interface {
	Tx
	GetOrCreateProfile(ctx context.Context, userID, guildID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, profile domain.Profile) error
	AdjustBalance(ctx context.Context, userID, guildID string, delta int64) (int64, error)
}
