package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guildforge/coinbot/internal/domain"
)

// ShopRepository implements the shop repository for PostgreSQL
type ShopRepository struct {
	db *pgxpool.Pool
}

// NewShopRepository creates a new ShopRepository
func NewShopRepository(db *pgxpool.Pool) *ShopRepository {
	return &ShopRepository{db: db}
}

// GetShop returns the full item listing for a guild
func (r *ShopRepository) GetShop(ctx context.Context, guildID string) (*domain.Shop, error) {
	query := `
		SELECT item_id, name, price, description, emoji
		FROM shop_items
		WHERE guild_id = $1
		ORDER BY price, item_id
	`
	rows, err := r.db.Query(ctx, query, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shop: %w", err)
	}
	defer rows.Close()

	shop := &domain.Shop{GuildID: guildID}
	for rows.Next() {
		var item domain.ShopItem
		if err := rows.Scan(&item.ItemID, &item.Name, &item.Price, &item.Description, &item.Emoji); err != nil {
			return nil, fmt.Errorf("failed to scan shop item: %w", err)
		}
		shop.Items = append(shop.Items, item)
	}
	return shop, rows.Err()
}

// GetItem returns a single shop item, or ErrShopItemNotFound
func (r *ShopRepository) GetItem(ctx context.Context, guildID, itemID string) (*domain.ShopItem, error) {
	query := `
		SELECT item_id, name, price, description, emoji
		FROM shop_items
		WHERE guild_id = $1 AND item_id = $2
	`
	var item domain.ShopItem
	err := r.db.QueryRow(ctx, query, guildID, itemID).Scan(
		&item.ItemID, &item.Name, &item.Price, &item.Description, &item.Emoji)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrShopItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop item: %w", err)
	}
	return &item, nil
}

// AddItem inserts a shop item
func (r *ShopRepository) AddItem(ctx context.Context, guildID string, item domain.ShopItem) error {
	query := `
		INSERT INTO shop_items (guild_id, item_id, name, price, description, emoji)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.Exec(ctx, query, guildID, item.ItemID, item.Name, item.Price, item.Description, item.Emoji); err != nil {
		return fmt.Errorf("failed to add shop item: %w", err)
	}
	return nil
}

// UpdateItem replaces a shop item's fields
func (r *ShopRepository) UpdateItem(ctx context.Context, guildID string, item domain.ShopItem) error {
	query := `
		UPDATE shop_items
		SET name = $3, price = $4, description = $5, emoji = $6
		WHERE guild_id = $1 AND item_id = $2
	`
	tag, err := r.db.Exec(ctx, query, guildID, item.ItemID, item.Name, item.Price, item.Description, item.Emoji)
	if err != nil {
		return fmt.Errorf("failed to update shop item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrShopItemNotFound
	}
	return nil
}

// RemoveItem deletes a shop item
func (r *ShopRepository) RemoveItem(ctx context.Context, guildID, itemID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM shop_items WHERE guild_id = $1 AND item_id = $2`, guildID, itemID)
	if err != nil {
		return fmt.Errorf("failed to remove shop item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrShopItemNotFound
	}
	return nil
}

// ClearShop deletes all items for a guild
func (r *ShopRepository) ClearShop(ctx context.Context, guildID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM shop_items WHERE guild_id = $1`, guildID); err != nil {
		return fmt.Errorf("failed to clear shop: %w", err)
	}
	return nil
}
