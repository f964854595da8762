package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/guildforge/coinbot/internal/blackjack"
	"github.com/guildforge/coinbot/internal/session"
)

func (b *Bot) blackjackCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	minWager := float64(1)
	cmd := &discordgo.ApplicationCommand{
		Name:        "blackjack",
		Description: "Play a hand of blackjack against the dealer",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "wager",
				Description: "Coins to put on the hand",
				Required:    true,
				MinValue:    &minWager,
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
		user := interactionUser(i)
		wager := optionMap(i)["wager"].IntValue()

		game := blackjack.New(user.ID, wager, b.rng)
		_, update, err := b.sessions.Start(ctx, session.StartConfig{
			OwnerKey:     userKey(i.GuildID, user.ID),
			OwnerID:      user.ID,
			GuildID:      i.GuildID,
			Wager:        wager,
			ReserveWager: true,
			Game:         game,
		})
		if err != nil {
			respondError(ctx, s, i, err)
			return
		}

		st := update.State.(blackjack.State)
		respondEmbed(ctx, s, i, buildBlackjackEmbed(user, st), actionRows(session.KindBlackjack, update.Actions))
	}
	return cmd, handler
}

func buildBlackjackEmbed(user *discordgo.User, st blackjack.State) *discordgo.MessageEmbed {
	dealer := formatCards(st.Dealer)
	if st.HoleHidden {
		dealer += " 🂠"
	} else {
		dealer += fmt.Sprintf(" (%d)", st.DealerValue)
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Dealer", Value: dealer, Inline: false},
	}
	for idx, h := range st.Hands {
		name := "Your Hand"
		if len(st.Hands) > 1 {
			name = fmt.Sprintf("Hand %d", idx+1)
			if !st.Finished && idx == st.Active {
				name += " ◀️"
			}
		}
		value := fmt.Sprintf("%s (%d) — %s coins", formatCards(h.Cards), h.Value, formatCoins(h.Wager))
		if h.Outcome != "" {
			value += " — " + outcomeLabel(h.Outcome)
		}
		fields = append(fields, &discordgo.MessageEmbedField{Name: name, Value: value, Inline: false})
	}

	color := 0x5865F2
	title := "🃏 Blackjack"
	if st.Finished {
		switch {
		case st.Net > 0:
			color = 0x00FF00
			title = "🃏 Blackjack — You Win!"
		case st.Net < 0:
			color = 0xFF0000
			title = "🃏 Blackjack — Dealer Wins"
		default:
			color = 0x95A5A6
			title = "🃏 Blackjack — Push"
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Net", Value: formatNet(st.Net), Inline: true,
		})
	}

	return &discordgo.MessageEmbed{
		Title:  title,
		Color:  color,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Player: %s", user.Username)},
	}
}

func formatCards(cards []blackjack.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func outcomeLabel(outcome string) string {
	switch outcome {
	case blackjack.OutcomeBlackjack:
		return "**Blackjack!** 🎉"
	case blackjack.OutcomeWin:
		return "**Win**"
	case blackjack.OutcomePush:
		return "Push"
	case blackjack.OutcomeBust:
		return "Bust 💥"
	case blackjack.OutcomeSurrender:
		return "Surrendered 🏳️"
	default:
		return "Lose"
	}
}

func formatNet(net int64) string {
	if net > 0 {
		return "+" + formatCoins(net)
	}
	return formatCoins(net)
}
