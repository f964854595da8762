package repository

import (
	"context"

	"github.com/guildforge/coinbot/internal/domain"
)

// Shop defines the interface for shop persistence
type Shop interface {
	GetShop(ctx context.Context, guildID string) (*domain.Shop, error)
	GetItem(ctx context.Context, guildID, itemID string) (*domain.ShopItem, error)
	AddItem(ctx context.Context, guildID string, item domain.ShopItem) error
	UpdateItem(ctx context.Context, guildID string, item domain.ShopItem) error
	RemoveItem(ctx context.Context, guildID, itemID string) error
	ClearShop(ctx context.Context, guildID string) error
}
