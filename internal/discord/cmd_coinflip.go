package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/guildforge/coinbot/internal/coinflip"
)

func (b *Bot) coinflipCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	minWager := float64(1)
	cmd := &discordgo.ApplicationCommand{
		Name:        "coinflip",
		Description: "Flip a coin, double or nothing",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "call",
				Description: "Heads or tails",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Heads", Value: coinflip.Heads},
					{Name: "Tails", Value: coinflip.Tails},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "wager",
				Description: "Coins to wager",
				Required:    true,
				MinValue:    &minWager,
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
		user := interactionUser(i)
		opts := optionMap(i)
		call := opts["call"].StringValue()
		wager := opts["wager"].IntValue()

		result, err := b.coinflip.Flip(ctx, user.ID, i.GuildID, wager, call)
		if err != nil {
			respondError(ctx, s, i, err)
			return
		}

		sideEmoji := "🪙"
		title := "🪙 Coinflip — You Lose"
		color := 0xFF0000
		if result.Won {
			title = "🪙 Coinflip — You Win!"
			color = 0x00FF00
		}

		embed := &discordgo.MessageEmbed{
			Title: title,
			Color: color,
			Description: fmt.Sprintf("%s The coin landed on **%s** (you called %s).",
				sideEmoji, result.Side, result.Call),
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Wager", Value: formatCoins(result.Wager) + " coins", Inline: true},
				{Name: "Net", Value: formatNet(result.Net), Inline: true},
				{Name: "Balance", Value: formatCoins(result.NewBalance) + " coins", Inline: true},
			},
			Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Player: %s", user.Username)},
		}
		respondEmbed(ctx, s, i, embed, nil)
	}
	return cmd, handler
}
