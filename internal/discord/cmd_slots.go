package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/guildforge/coinbot/internal/session"
	"github.com/guildforge/coinbot/internal/slots"
)

func (b *Bot) slotsCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	minBet := float64(slots.MinBet)
	maxBet := float64(slots.MaxBet)
	cmd := &discordgo.ApplicationCommand{
		Name:        "slots",
		Description: "Sit down at the slot machine",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "bet",
				Description: fmt.Sprintf("Coins per spin (%d-%d)", slots.MinBet, slots.MaxBet),
				Required:    true,
				MinValue:    &minBet,
				MaxValue:    maxBet,
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
		user := interactionUser(i)
		bet := optionMap(i)["bet"].IntValue()
		guildID := i.GuildID

		balance := func() (int64, error) {
			return b.economy.GetBalance(context.Background(), user.ID, guildID)
		}
		game := slots.New(user.ID, bet, b.rng, balance)
		_, update, err := b.sessions.Start(ctx, session.StartConfig{
			OwnerKey: userKey(guildID, user.ID),
			OwnerID:  user.ID,
			GuildID:  guildID,
			Wager:    bet,
			Game:     game,
		})
		if err != nil {
			respondError(ctx, s, i, err)
			return
		}

		st := update.State.(slots.State)
		respondEmbed(ctx, s, i, buildSlotsEmbed(user, st), actionRows(session.KindSlots, update.Actions))
	}
	return cmd, handler
}

func buildSlotsEmbed(user *discordgo.User, st slots.State) *discordgo.MessageEmbed {
	grid := "`— — —`\n`— — —`\n`— — —`"
	if len(st.Grid) > 0 {
		var rows []string
		for _, row := range st.Grid {
			rows = append(rows, strings.Join(row, " | "))
		}
		grid = strings.Join(rows, "\n")
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Bet", Value: formatCoins(st.Bet) + " coins", Inline: true},
		{Name: "Spins", Value: fmt.Sprintf("%d", st.Spins), Inline: true},
		{Name: "Session Net", Value: formatNet(st.Net), Inline: true},
	}

	title := "🎰 Slots"
	color := 0x9B59B6
	if st.Spins == 0 && !st.Finished {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Payouts", Value: slots.PayoutTable(), Inline: false,
		})
	}
	if st.Spins > 0 {
		if st.LastPayout > 0 {
			title = "🎰 Slots — Win!"
			color = 0x00FF00
			fields = append(fields, &discordgo.MessageEmbedField{
				Name: "Payout", Value: formatCoins(st.LastPayout) + " coins", Inline: true,
			})
		} else {
			color = 0xE74C3C
		}
	}
	if st.Finished {
		title = "🎰 Slots — Session Over"
		color = 0x95A5A6
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: grid,
		Color:       color,
		Fields:      fields,
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Player: %s", user.Username)},
	}
	if st.Notice != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Note", Value: st.Notice, Inline: false,
		})
	}
	return embed
}
