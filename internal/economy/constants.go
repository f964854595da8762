package economy

import "time"

// Claim cooldown windows.
const (
	DailyCooldown   = 24 * time.Hour
	WeeklyCooldown  = 7 * 24 * time.Hour
	MonthlyCooldown = 30 * 24 * time.Hour
)

// Message XP cooldown per user.
const XPCooldown = time.Minute

// Profile cache tuning.
const (
	ProfileCacheSize = 2048
	ProfileCacheTTL  = 30 * time.Second
)

// Guild settings cache tuning.
const (
	GuildCacheSize = 512
	GuildCacheTTL  = time.Minute
)

// Log message constants
const (
	LogMsgClaimGranted       = "Claim granted"
	LogMsgPayCompleted       = "Payment completed"
	LogMsgLevelsToggled      = "Guild levels toggled"
	LogMsgFailedPublishEvent = "Failed to publish event"
)
