package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/guildforge/coinbot/internal/domain"
)

func (b *Bot) shopCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	minQty := float64(1)

	cmd := &discordgo.ApplicationCommand{
		Name:        "shop",
		Description: "Browse and buy from the server shop",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "view",
				Description: "List everything for sale",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "buy",
				Description: "Buy an item",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "item",
						Description: "Item id to buy",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "quantity",
						Description: "How many to buy",
						MinValue:    &minQty,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Add an item to the shop (admin)",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "id",
						Description: "Item id",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "Display name",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "price",
						Description: "Price in coins",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "description",
						Description: "Shop listing text",
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "emoji",
						Description: "Listing emoji",
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Remove an item from the shop (admin)",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "item",
						Description: "Item id to remove",
						Required:    true,
					},
				},
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
		sub := i.ApplicationCommandData().Options[0]
		switch sub.Name {
		case "buy":
			b.handleShopBuy(ctx, s, i, sub)
		case "add":
			b.handleShopAdd(ctx, s, i, sub)
		case "remove":
			b.handleShopRemove(ctx, s, i, sub)
		default:
			b.handleShopView(ctx, s, i)
		}
	}
	return cmd, handler
}

func (b *Bot) handleShopView(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	listing, err := b.shop.GetShop(ctx, i.GuildID)
	if err != nil {
		respondError(ctx, s, i, err)
		return
	}
	if len(listing.Items) == 0 {
		respondText(ctx, s, i, "🏪 The shop is empty.", false)
		return
	}

	var sb strings.Builder
	for _, item := range listing.Items {
		emoji := item.Emoji
		if emoji == "" {
			emoji = "📦"
		}
		fmt.Fprintf(&sb, "%s **%s** (`%s`) — %s coins\n", emoji, item.Name, item.ItemID, formatCoins(item.Price))
		if item.Description != "" {
			fmt.Fprintf(&sb, "  %s\n", item.Description)
		}
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🏪 Server Shop",
		Description: sb.String(),
		Color:       0x2ECC71,
	}
	respondEmbed(ctx, s, i, embed, nil)
}

func (b *Bot) handleShopBuy(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	user := interactionUser(i)
	itemID := ""
	quantity := 1
	for _, o := range sub.Options {
		switch o.Name {
		case "item":
			itemID = o.StringValue()
		case "quantity":
			quantity = int(o.IntValue())
		}
	}

	item, err := b.shop.BuyItem(ctx, user.ID, i.GuildID, itemID, quantity)
	if err != nil {
		respondError(ctx, s, i, err)
		return
	}
	respondText(ctx, s, i,
		fmt.Sprintf("🛍️ You bought **%d× %s** for **%s** coins.", quantity, item.Name, formatCoins(item.Price*int64(quantity))), false)
}

func (b *Bot) handleShopAdd(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	if !hasManageServer(i) {
		respondText(ctx, s, i, MsgAdminOnly, true)
		return
	}

	item := domain.ShopItem{}
	for _, o := range sub.Options {
		switch o.Name {
		case "id":
			item.ItemID = o.StringValue()
		case "name":
			item.Name = o.StringValue()
		case "price":
			item.Price = o.IntValue()
		case "description":
			item.Description = o.StringValue()
		case "emoji":
			item.Emoji = o.StringValue()
		}
	}

	if err := b.shop.AddItem(ctx, i.GuildID, item); err != nil {
		respondError(ctx, s, i, err)
		return
	}
	respondText(ctx, s, i, fmt.Sprintf("✅ Added **%s** to the shop.", item.Name), false)
}

func (b *Bot) handleShopRemove(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption) {
	if !hasManageServer(i) {
		respondText(ctx, s, i, MsgAdminOnly, true)
		return
	}

	itemID := sub.Options[0].StringValue()
	if err := b.shop.RemoveItem(ctx, i.GuildID, itemID); err != nil {
		respondError(ctx, s, i, err)
		return
	}
	respondText(ctx, s, i, fmt.Sprintf("🗑️ Removed `%s` from the shop.", itemID), false)
}

func (b *Bot) inventoryCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "inventory",
		Description: "Show the items you own",
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
		user := interactionUser(i)
		slotList, err := b.shop.GetInventory(ctx, user.ID, i.GuildID)
		if err != nil {
			respondError(ctx, s, i, err)
			return
		}
		if len(slotList) == 0 {
			respondText(ctx, s, i, "🎒 Your inventory is empty.", true)
			return
		}

		var sb strings.Builder
		for _, slot := range slotList {
			fmt.Fprintf(&sb, "• `%s` × %d\n", slot.ItemID, slot.Quantity)
		}
		embed := &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("🎒 Inventory: %s", user.Username),
			Description: sb.String(),
			Color:       0x95A5A6,
		}
		respondEmbed(ctx, s, i, embed, nil)
	}
	return cmd, handler
}

// hasManageServer gates admin subcommands on the Manage Server permission.
func hasManageServer(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionManageServer != 0
}
