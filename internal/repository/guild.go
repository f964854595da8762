package repository

import (
	"context"

	"github.com/guildforge/coinbot/internal/domain"
)

// Guild defines the interface for guild settings persistence
type Guild interface {
	GetOrCreateGuild(ctx context.Context, guildID string) (*domain.Guild, error)
	UpdateGuild(ctx context.Context, guild domain.Guild) error
}
