package worker

import (
	"context"

	"github.com/guildforge/coinbot/internal/logger"
)

// SessionSweeper settles sessions whose timers never fired.
type SessionSweeper interface {
	SweepStale(ctx context.Context) int
}

// SessionSweepJob is the scheduled backstop behind the per-session timers.
// Under normal operation it finds nothing.
type SessionSweepJob struct {
	Manager SessionSweeper
}

func (j SessionSweepJob) Name() string { return "session_sweep" }

func (j SessionSweepJob) Process(ctx context.Context) error {
	if swept := j.Manager.SweepStale(ctx); swept > 0 {
		logger.FromContext(ctx).Warn(LogMsgSessionsSwept, "count", swept)
	}
	return nil
}

// CooldownPruner drops expired entries from in-memory cooldown tracking.
type CooldownPruner interface {
	PruneXPCooldowns() int
}

// CooldownPruneJob keeps the per-user XP cooldown map from growing without
// bound in large guilds.
type CooldownPruneJob struct {
	Economy CooldownPruner
}

func (j CooldownPruneJob) Name() string { return "cooldown_prune" }

func (j CooldownPruneJob) Process(ctx context.Context) error {
	if pruned := j.Economy.PruneXPCooldowns(); pruned > 0 {
		logger.FromContext(ctx).Debug(LogMsgCooldownsPruned, "count", pruned)
	}
	return nil
}
