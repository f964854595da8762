package discord

import (
	"context"
	"errors"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/guildforge/coinbot/internal/domain"
	"github.com/guildforge/coinbot/internal/logger"
)

var coinPrinter = message.NewPrinter(language.English)

// formatCoins renders an amount with thousands separators.
func formatCoins(amount int64) string {
	return coinPrinter.Sprintf("%d", amount)
}

// interactionUser works for both guild and DM interactions.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.Interaction.User
}

func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}

// userKey scopes single-player sessions to one user per guild.
func userKey(guildID, userID string) string {
	return "user:" + guildID + ":" + userID
}

// channelKey scopes shared roulette rounds to one channel.
func channelKey(channelID string) string {
	return "channel:" + channelID
}

func respondEmbed(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		logger.FromContext(ctx).Error("Failed to respond to interaction", "error", err)
	}
}

func updateEmbed(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		logger.FromContext(ctx).Error("Failed to update interaction", "error", err)
	}
}

func respondText(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, content string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		logger.FromContext(ctx).Error("Failed to respond to interaction", "error", err)
	}
}

// respondError maps domain errors onto friendly player-facing messages.
func respondError(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	respondText(ctx, s, i, friendlyError(err), true)
}

func friendlyError(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return MsgInsufficientFunds
	case errors.Is(err, domain.ErrInvalidWager):
		return MsgInvalidWager
	case errors.Is(err, domain.ErrSessionConflict):
		return MsgSessionConflict
	case errors.Is(err, domain.ErrSessionNotFound):
		return MsgSessionNotFound
	case errors.Is(err, domain.ErrNotOwner):
		return MsgNotOwner
	case errors.Is(err, domain.ErrIllegalAction):
		return MsgIllegalAction
	case errors.Is(err, domain.ErrClaimNotReady):
		return MsgClaimNotReady
	case errors.Is(err, domain.ErrShopItemNotFound):
		return MsgItemNotFound
	case errors.Is(err, domain.ErrInvalidBetSpace):
		return MsgInvalidBetSpace
	case errors.Is(err, domain.ErrInvalidInput):
		return MsgInvalidInput
	}
	return MsgGenericError
}
