package domain

import "time"

// Profile is a user's per-guild economy record.
type Profile struct {
	UserID    string
	GuildID   string
	Coins     int64
	XP        int
	Level     int
	Cooldowns ClaimCooldowns
	Inventory []InventorySlot
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClaimCooldowns tracks when periodic rewards were last collected.
// Zero time means never collected.
type ClaimCooldowns struct {
	DailyClaimedAt   time.Time
	WeeklyClaimedAt  time.Time
	MonthlyClaimedAt time.Time
}

// InventorySlot is one owned shop item stack.
type InventorySlot struct {
	ItemID   string
	Quantity int
}

// LeaderboardEntry is one row of a guild coin leaderboard.
type LeaderboardEntry struct {
	UserID string
	Coins  int64
	Level  int
}

// XPAwardResult describes the outcome of a message XP award.
type XPAwardResult struct {
	XPGained  int
	NewXP     int
	NewLevel  int
	LeveledUp bool
}
