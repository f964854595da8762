package domain

// ShopItem is one purchasable entry in a guild's shop.
type ShopItem struct {
	ItemID      string
	Name        string
	Price       int64
	Description string
	Emoji       string
}

// Shop is a guild's item listing.
type Shop struct {
	GuildID string
	Items   []ShopItem
}
