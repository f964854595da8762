package repository

import (
	"context"

	"github.com/guildforge/coinbot/internal/logger"
)

// Tx defines the common transaction interface
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// SafeRollback rolls back a transaction and logs any rollback failure.
// Intended for use in defer; rolling back a committed transaction is a no-op
// error and is ignored.
func SafeRollback(ctx context.Context, tx Tx) {
	if tx == nil {
		return
	}
	if err := tx.Rollback(ctx); err != nil {
		logger.FromContext(ctx).Debug("transaction rollback", "error", err)
	}
}
