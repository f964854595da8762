package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/guildforge/coinbot/internal/economy"
)

func (b *Bot) balanceCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "balance",
		Description: "Check your coin balance",
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
		user := interactionUser(i)
		balance, err := b.economy.GetBalance(ctx, user.ID, i.GuildID)
		if err != nil {
			respondError(ctx, s, i, err)
			return
		}
		respondText(ctx, s, i, fmt.Sprintf("💰 You have **%s** coins.", formatCoins(balance)), true)
	}
	return cmd, handler
}

func (b *Bot) profileCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "profile",
		Description: "Show your coins, level and XP",
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
		user := interactionUser(i)
		profile, err := b.economy.GetProfile(ctx, user.ID, i.GuildID)
		if err != nil {
			respondError(ctx, s, i, err)
			return
		}

		embed := &discordgo.MessageEmbed{
			Title: fmt.Sprintf("Profile: %s", user.Username),
			Color: 0x5865F2,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Coins", Value: formatCoins(profile.Coins), Inline: true},
				{Name: "Level", Value: fmt.Sprintf("%d", profile.Level), Inline: true},
				{Name: "XP", Value: fmt.Sprintf("%d / %d", profile.XP, economy.XPToNextLevel(profile.Level)), Inline: true},
			},
		}
		respondEmbed(ctx, s, i, embed, nil)
	}
	return cmd, handler
}

func (b *Bot) claimCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "claim",
		Description: "Claim a periodic coin reward",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "period",
				Description: "Which reward to claim",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Daily", Value: "daily"},
					{Name: "Weekly", Value: "weekly"},
					{Name: "Monthly", Value: "monthly"},
				},
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
		user := interactionUser(i)
		period := optionMap(i)["period"].StringValue()

		var (
			granted int64
			err     error
		)
		switch period {
		case "weekly":
			granted, err = b.economy.ClaimWeekly(ctx, user.ID, i.GuildID)
		case "monthly":
			granted, err = b.economy.ClaimMonthly(ctx, user.ID, i.GuildID)
		default:
			granted, err = b.economy.ClaimDaily(ctx, user.ID, i.GuildID)
		}
		if err != nil {
			respondError(ctx, s, i, err)
			return
		}
		respondText(ctx, s, i,
			fmt.Sprintf("🎁 You claimed your %s reward: **%s** coins!", period, formatCoins(granted)), false)
	}
	return cmd, handler
}

func (b *Bot) payCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	minAmount := float64(1)
	cmd := &discordgo.ApplicationCommand{
		Name:        "pay",
		Description: "Send coins to another member",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "recipient",
				Description: "Who to pay",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "amount",
				Description: "How many coins to send",
				Required:    true,
				MinValue:    &minAmount,
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
		user := interactionUser(i)
		opts := optionMap(i)
		recipient := opts["recipient"].UserValue(s)
		amount := opts["amount"].IntValue()

		if err := b.economy.Pay(ctx, user.ID, recipient.ID, i.GuildID, amount); err != nil {
			respondError(ctx, s, i, err)
			return
		}
		respondText(ctx, s, i,
			fmt.Sprintf("💸 <@%s> sent **%s** coins to <@%s>.", user.ID, formatCoins(amount), recipient.ID), false)
	}
	return cmd, handler
}

func (b *Bot) levelsCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "levels",
		Description: "Turn the XP and level track on or off (admin)",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "state",
				Description: "Enable or disable levels",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "On", Value: "on"},
					{Name: "Off", Value: "off"},
				},
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
		if !hasManageServer(i) {
			respondText(ctx, s, i, MsgAdminOnly, true)
			return
		}

		enabled := optionMap(i)["state"].StringValue() == "on"
		if err := b.economy.SetLevelsEnabled(ctx, i.GuildID, enabled); err != nil {
			respondError(ctx, s, i, err)
			return
		}
		if enabled {
			respondText(ctx, s, i, "📈 Levels are now **on**. Chat messages earn XP again.", false)
			return
		}
		respondText(ctx, s, i, "📉 Levels are now **off**. Chat messages no longer earn XP.", false)
	}
	return cmd, handler
}

func (b *Bot) leaderboardCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        "leaderboard",
		Description: "Show the richest members of this server",
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
		entries, err := b.economy.GetLeaderboard(ctx, i.GuildID, 10)
		if err != nil {
			respondError(ctx, s, i, err)
			return
		}
		if len(entries) == 0 {
			respondText(ctx, s, i, "Nobody has any coins yet. Be the first!", false)
			return
		}

		var sb strings.Builder
		medals := []string{"🥇", "🥈", "🥉"}
		for idx, e := range entries {
			marker := fmt.Sprintf("%d.", idx+1)
			if idx < len(medals) {
				marker = medals[idx]
			}
			fmt.Fprintf(&sb, "%s <@%s> — **%s** coins (level %d)\n", marker, e.UserID, formatCoins(e.Coins), e.Level)
		}

		embed := &discordgo.MessageEmbed{
			Title:       "🏆 Coin Leaderboard",
			Description: sb.String(),
			Color:       0xFFD700,
		}
		respondEmbed(ctx, s, i, embed, nil)
	}
	return cmd, handler
}
