package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/guildforge/coinbot/internal/domain"
	"github.com/guildforge/coinbot/internal/event"
	"github.com/guildforge/coinbot/internal/logger"
	"github.com/guildforge/coinbot/internal/roulette"
	"github.com/guildforge/coinbot/internal/session"
)

func (b *Bot) rouletteCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	minAmount := float64(1)
	cmd := &discordgo.ApplicationCommand{
		Name:        "roulette",
		Description: "Bet on the channel's roulette round",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "space",
				Description: "Number (0-36), red/black, odd/even, high/low or dozen1-3",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "amount",
				Description: "Coins to bet",
				Required:    true,
				MinValue:    &minAmount,
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
		user := interactionUser(i)
		opts := optionMap(i)
		space := opts["space"].StringValue()
		amount := opts["amount"].IntValue()

		if _, err := roulette.ParseSpace(space); err != nil {
			respondError(ctx, s, i, err)
			return
		}

		key := channelKey(i.ChannelID)
		opened := false
		if _, ok := b.sessions.Get(key); !ok {
			round := roulette.NewRound(i.ChannelID, i.GuildID, b.rng)
			_, _, err := b.sessions.Start(ctx, session.StartConfig{
				OwnerKey:      key,
				OwnerID:       user.ID,
				GuildID:       i.GuildID,
				Wager:         amount,
				Shared:        true,
				FixedDeadline: true,
				Game:          round,
			})
			// A concurrent bet may have opened the round first; fall
			// through and place the bet into it.
			if err != nil && !errors.Is(err, domain.ErrSessionConflict) {
				respondError(ctx, s, i, err)
				return
			}
			opened = err == nil
		}

		_, update, err := b.sessions.HandleInput(ctx, key, session.Input{
			ActorID: user.ID,
			Action:  roulette.ActionBet,
			Amount:  amount,
			Arg:     space,
		})
		if err != nil {
			respondError(ctx, s, i, err)
			return
		}

		st := update.State.(roulette.State)
		msg := fmt.Sprintf("🎡 <@%s> bet **%s** coins on **%s**.", user.ID, formatCoins(amount), space)
		if opened {
			msg = fmt.Sprintf("🎡 **Roulette round open!** Betting closes in %d seconds.\n%s",
				int(session.RouletteWindow.Seconds()), msg)
		}
		msg += fmt.Sprintf("\nBets placed this round: %d", len(st.Bets))
		respondText(ctx, s, i, msg, false)
	}
	return cmd, handler
}

// announceRouletteResult posts the spin outcome to the originating channel
// when the betting window closes.
func (b *Bot) announceRouletteResult(ctx context.Context, evt event.Event) {
	payload, ok := evt.Payload.(domain.RouletteResolvedPayload)
	if !ok {
		return
	}

	colorEmoji := map[string]string{"red": "🔴", "black": "⚫", "green": "🟢"}[payload.Color]
	var sb strings.Builder
	fmt.Fprintf(&sb, "The ball landed on %s **%d**!\n\n", colorEmoji, payload.Pocket)

	if len(payload.Results) == 0 {
		sb.WriteString("No bets were placed.")
	}
	for _, r := range payload.Results {
		if r.Won {
			fmt.Fprintf(&sb, "✅ <@%s> won **%s** on %s\n", r.UserID, formatCoins(r.Payout), r.Space)
		} else {
			fmt.Fprintf(&sb, "❌ <@%s> lost **%s** on %s\n", r.UserID, formatCoins(r.Amount), r.Space)
		}
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🎡 Roulette Results",
		Description: sb.String(),
		Color:       rouletteColor(payload.Color),
	}
	if _, err := b.Session.ChannelMessageSendEmbed(payload.ChannelID, embed); err != nil {
		logger.FromContext(ctx).Error("Failed to announce roulette result",
			"channel_id", payload.ChannelID, "error", err)
	}
}

func rouletteColor(color string) int {
	switch color {
	case "red":
		return 0xE74C3C
	case "black":
		return 0x23272A
	default:
		return 0x2ECC71
	}
}
