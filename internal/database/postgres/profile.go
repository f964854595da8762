package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guildforge/coinbot/internal/domain"
	"github.com/guildforge/coinbot/internal/repository"
)

// ProfileRepository implements the profile repository for PostgreSQL
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

type profileQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func getOrCreateProfile(ctx context.Context, q profileQuerier, userID, guildID string) (*domain.Profile, error) {
	query := `
		INSERT INTO profiles (user_id, guild_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, guild_id) DO UPDATE SET updated_at = profiles.updated_at
		RETURNING user_id, guild_id, coins, xp, level,
		          COALESCE(daily_claimed_at, 'epoch'::timestamptz),
		          COALESCE(weekly_claimed_at, 'epoch'::timestamptz),
		          COALESCE(monthly_claimed_at, 'epoch'::timestamptz),
		          created_at, updated_at
	`
	var p domain.Profile
	err := q.QueryRow(ctx, query, userID, guildID).Scan(
		&p.UserID, &p.GuildID, &p.Coins, &p.XP, &p.Level,
		&p.Cooldowns.DailyClaimedAt, &p.Cooldowns.WeeklyClaimedAt, &p.Cooldowns.MonthlyClaimedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create profile: %w", err)
	}
	return &p, nil
}

func updateProfile(ctx context.Context, q profileQuerier, profile domain.Profile) error {
	query := `
		UPDATE profiles
		SET coins = $3, xp = $4, level = $5,
		    daily_claimed_at = NULLIF($6, 'epoch'::timestamptz),
		    weekly_claimed_at = NULLIF($7, 'epoch'::timestamptz),
		    monthly_claimed_at = NULLIF($8, 'epoch'::timestamptz),
		    updated_at = NOW()
		WHERE user_id = $1 AND guild_id = $2
	`
	tag, err := q.Exec(ctx, query, profile.UserID, profile.GuildID,
		profile.Coins, profile.XP, profile.Level,
		profile.Cooldowns.DailyClaimedAt, profile.Cooldowns.WeeklyClaimedAt, profile.Cooldowns.MonthlyClaimedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func adjustBalance(ctx context.Context, q profileQuerier, userID, guildID string, delta int64) (int64, error) {
	query := `
		INSERT INTO profiles (user_id, guild_id, coins)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, guild_id) DO UPDATE
		SET coins = profiles.coins + $3, updated_at = NOW()
		RETURNING coins
	`
	var coins int64
	if err := q.QueryRow(ctx, query, userID, guildID, delta).Scan(&coins); err != nil {
		return 0, fmt.Errorf("failed to adjust balance: %w", err)
	}
	return coins, nil
}

// GetOrCreateProfile returns the profile, creating an empty one when missing
func (r *ProfileRepository) GetOrCreateProfile(ctx context.Context, userID, guildID string) (*domain.Profile, error) {
	return getOrCreateProfile(ctx, r.db, userID, guildID)
}

// UpdateProfile persists mutable profile fields
func (r *ProfileRepository) UpdateProfile(ctx context.Context, profile domain.Profile) error {
	return updateProfile(ctx, r.db, profile)
}

// DeleteProfile removes a profile and its inventory
func (r *ProfileRepository) DeleteProfile(ctx context.Context, userID, guildID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM inventory_slots WHERE user_id = $1 AND guild_id = $2`, userID, guildID); err != nil {
		return fmt.Errorf("failed to delete inventory: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1 AND guild_id = $2`, userID, guildID); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return tx.Commit(ctx)
}

// GetBalance reads the coin balance; missing profiles read as zero
func (r *ProfileRepository) GetBalance(ctx context.Context, userID, guildID string) (int64, error) {
	var coins int64
	query := `SELECT coins FROM profiles WHERE user_id = $1 AND guild_id = $2`
	err := r.db.QueryRow(ctx, query, userID, guildID).Scan(&coins)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return coins, nil
}

// AdjustBalance atomically applies delta and returns the new amount
func (r *ProfileRepository) AdjustBalance(ctx context.Context, userID, guildID string, delta int64) (int64, error) {
	return adjustBalance(ctx, r.db, userID, guildID, delta)
}

// SetBalance overwrites the coin balance
func (r *ProfileRepository) SetBalance(ctx context.Context, userID, guildID string, amount int64) error {
	query := `
		INSERT INTO profiles (user_id, guild_id, coins)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, guild_id) DO UPDATE
		SET coins = $3, updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, userID, guildID, amount); err != nil {
		return fmt.Errorf("failed to set balance: %w", err)
	}
	return nil
}

// GetLeaderboard returns the top profiles by coins for a guild
func (r *ProfileRepository) GetLeaderboard(ctx context.Context, guildID string, limit int) ([]domain.LeaderboardEntry, error) {
	query := `
		SELECT user_id, coins, level
		FROM profiles
		WHERE guild_id = $1
		ORDER BY coins DESC, user_id
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Coins, &e.Level); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetInventory returns all owned item stacks for a profile
func (r *ProfileRepository) GetInventory(ctx context.Context, userID, guildID string) ([]domain.InventorySlot, error) {
	query := `
		SELECT item_id, quantity
		FROM inventory_slots
		WHERE user_id = $1 AND guild_id = $2 AND quantity > 0
		ORDER BY item_id
	`
	rows, err := r.db.Query(ctx, query, userID, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	var slots []domain.InventorySlot
	for rows.Next() {
		var s domain.InventorySlot
		if err := rows.Scan(&s.ItemID, &s.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// AddInventoryItem increments an owned item stack
func (r *ProfileRepository) AddInventoryItem(ctx context.Context, userID, guildID, itemID string, quantity int) error {
	query := `
		INSERT INTO inventory_slots (user_id, guild_id, item_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, guild_id, item_id) DO UPDATE
		SET quantity = inventory_slots.quantity + $4
	`
	if _, err := r.db.Exec(ctx, query, userID, guildID, itemID, quantity); err != nil {
		return fmt.Errorf("failed to add inventory item: %w", err)
	}
	return nil
}

// BeginTx starts a profile transaction
func (r *ProfileRepository) BeginTx(ctx context.Context) (repository.ProfileTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &profileTx{tx: tx}, nil
}

type profileTx struct {
	tx pgx.Tx
}

func (t *profileTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *profileTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

func (t *profileTx) GetOrCreateProfile(ctx context.Context, userID, guildID string) (*domain.Profile, error) {
	return getOrCreateProfile(ctx, t.tx, userID, guildID)
}

func (t *profileTx) UpdateProfile(ctx context.Context, profile domain.Profile) error {
	return updateProfile(ctx, t.tx, profile)
}

func (t *profileTx) AdjustBalance(ctx context.Context, userID, guildID string, delta int64) (int64, error) {
	return adjustBalance(ctx, t.tx, userID, guildID, delta)
}
