package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/guildforge/coinbot/internal/highlow"
	"github.com/guildforge/coinbot/internal/session"
)

func (b *Bot) highlowCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	minBet := float64(1)
	cmd := &discordgo.ApplicationCommand{
		Name:        "highlow",
		Description: "Guess higher or lower to grow your multiplier",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "bet",
				Description: "Coins to put on the run",
				Required:    true,
				MinValue:    &minBet,
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
		user := interactionUser(i)
		bet := optionMap(i)["bet"].IntValue()

		game := highlow.New(user.ID, bet, b.rng)
		_, update, err := b.sessions.Start(ctx, session.StartConfig{
			OwnerKey:     userKey(i.GuildID, user.ID),
			OwnerID:      user.ID,
			GuildID:      i.GuildID,
			Wager:        bet,
			ReserveWager: true,
			Game:         game,
		})
		if err != nil {
			respondError(ctx, s, i, err)
			return
		}

		st := update.State.(highlow.State)
		respondEmbed(ctx, s, i, buildHighLowEmbed(user, st), actionRows(session.KindHighLow, update.Actions))
	}
	return cmd, handler
}

func buildHighLowEmbed(user *discordgo.User, st highlow.State) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Number", Value: fmt.Sprintf("**%d** (range 0-%d)", st.Current, st.Range-1), Inline: true},
		{Name: "Multiplier", Value: fmt.Sprintf("%.2fx", st.Multiplier), Inline: true},
		{Name: "Streak", Value: fmt.Sprintf("%d", st.Rounds), Inline: true},
	}

	title := "🔢 High-Low"
	color := 0x5865F2
	if st.Finished {
		if st.Won {
			title = "🔢 High-Low — Cashed Out!"
			color = 0x00FF00
			fields = append(fields, &discordgo.MessageEmbedField{
				Name: "Payout", Value: formatCoins(st.Credit) + " coins", Inline: true,
			})
		} else {
			title = "🔢 High-Low — Busted"
			color = 0xFF0000
			fields = []*discordgo.MessageEmbedField{
				{Name: "The Number Was", Value: fmt.Sprintf("**%d**", st.LastDraw), Inline: true},
				{Name: "Lost", Value: formatCoins(st.Bet) + " coins", Inline: true},
			}
		}
	} else if st.Rounds > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Cash Out Now For", Value: formatCoins(int64(float64(st.Bet)*st.Multiplier)) + " coins", Inline: false,
		})
	}

	return &discordgo.MessageEmbed{
		Title:  title,
		Color:  color,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Player: %s", user.Username)},
	}
}
