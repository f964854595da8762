package shop

import (
	"context"
	"fmt"

	"github.com/guildforge/coinbot/internal/domain"
	"github.com/guildforge/coinbot/internal/economy"
	"github.com/guildforge/coinbot/internal/logger"
	"github.com/guildforge/coinbot/internal/repository"
)

// Service defines the interface for shop operations
type Service interface {
	GetShop(ctx context.Context, guildID string) (*domain.Shop, error)
	GetItem(ctx context.Context, guildID, itemID string) (*domain.ShopItem, error)
	BuyItem(ctx context.Context, userID, guildID, itemID string, quantity int) (*domain.ShopItem, error)
	GetInventory(ctx context.Context, userID, guildID string) ([]domain.InventorySlot, error)

	// Admin operations
	AddItem(ctx context.Context, guildID string, item domain.ShopItem) error
	UpdateItem(ctx context.Context, guildID string, item domain.ShopItem) error
	RemoveItem(ctx context.Context, guildID, itemID string) error
	ClearShop(ctx context.Context, guildID string) error
}

type service struct {
	shopRepo    repository.Shop
	profileRepo repository.Profile
	ledger      economy.Ledger
}

// NewService creates a new shop service
func NewService(shopRepo repository.Shop, profileRepo repository.Profile, ledger economy.Ledger) Service {
	return &service{
		shopRepo:    shopRepo,
		profileRepo: profileRepo,
		ledger:      ledger,
	}
}

// GetShop returns the guild's item listing
func (s *service) GetShop(ctx context.Context, guildID string) (*domain.Shop, error) {
	return s.shopRepo.GetShop(ctx, guildID)
}

// GetItem returns a single shop item
func (s *service) GetItem(ctx context.Context, guildID, itemID string) (*domain.ShopItem, error) {
	return s.shopRepo.GetItem(ctx, guildID, itemID)
}

// BuyItem debits the item price and adds it to the buyer's inventory.
// The debit happens first so a failed inventory write can never mint items
// for free; the debit is reversed if the inventory write fails.
func (s *service) BuyItem(ctx context.Context, userID, guildID, itemID string, quantity int) (*domain.ShopItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}

	item, err := s.shopRepo.GetItem(ctx, guildID, itemID)
	if err != nil {
		return nil, err
	}

	cost := item.Price * int64(quantity)
	if _, err := s.ledger.AdjustBalance(ctx, userID, guildID, -cost); err != nil {
		return nil, err
	}

	if err := s.profileRepo.AddInventoryItem(ctx, userID, guildID, itemID, quantity); err != nil {
		if _, refundErr := s.ledger.AdjustBalance(ctx, userID, guildID, cost); refundErr != nil {
			logger.FromContext(ctx).Error("Failed to refund after inventory error",
				"user_id", userID, "amount", cost, "error", refundErr)
		}
		return nil, fmt.Errorf("failed to add item to inventory: %w", err)
	}

	return item, nil
}

// GetInventory returns the buyer's owned item stacks
func (s *service) GetInventory(ctx context.Context, userID, guildID string) ([]domain.InventorySlot, error) {
	return s.profileRepo.GetInventory(ctx, userID, guildID)
}

// AddItem adds an item to the guild shop
func (s *service) AddItem(ctx context.Context, guildID string, item domain.ShopItem) error {
	if item.ItemID == "" || item.Name == "" || item.Price < 0 {
		return fmt.Errorf("%w: item requires id, name and non-negative price", domain.ErrInvalidInput)
	}
	return s.shopRepo.AddItem(ctx, guildID, item)
}

// UpdateItem replaces an item's fields
func (s *service) UpdateItem(ctx context.Context, guildID string, item domain.ShopItem) error {
	return s.shopRepo.UpdateItem(ctx, guildID, item)
}

// RemoveItem deletes an item from the guild shop
func (s *service) RemoveItem(ctx context.Context, guildID, itemID string) error {
	return s.shopRepo.RemoveItem(ctx, guildID, itemID)
}

// ClearShop removes every item from the guild shop
func (s *service) ClearShop(ctx context.Context, guildID string) error {
	return s.shopRepo.ClearShop(ctx, guildID)
}
