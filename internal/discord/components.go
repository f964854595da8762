package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/guildforge/coinbot/internal/blackjack"
	"github.com/guildforge/coinbot/internal/highlow"
	"github.com/guildforge/coinbot/internal/logger"
	"github.com/guildforge/coinbot/internal/session"
	"github.com/guildforge/coinbot/internal/slots"
)

const componentPrefix = "game"

// componentID builds the custom id for a game action button.
func componentID(kind session.Kind, action string) string {
	return componentPrefix + ":" + string(kind) + ":" + action
}

// handleComponent routes a button press into the session manager and
// re-renders the game message.
func (b *Bot) handleComponent(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	parts := strings.SplitN(i.MessageComponentData().CustomID, ":", 3)
	if len(parts) != 3 || parts[0] != componentPrefix {
		return
	}
	kind := session.Kind(parts[1])
	action := parts[2]
	user := interactionUser(i)

	_, update, err := b.sessions.HandleInput(ctx, userKey(i.GuildID, user.ID), session.Input{
		ActorID: user.ID,
		Action:  action,
	})
	if err != nil {
		respondError(ctx, s, i, err)
		return
	}

	embed := b.renderGame(kind, user, update)
	if embed == nil {
		logger.FromContext(ctx).Error("No renderer for game kind", "kind", kind)
		return
	}
	updateEmbed(ctx, s, i, embed, actionRows(kind, update.Actions))
}

// renderGame dispatches on the game's snapshot type.
func (b *Bot) renderGame(kind session.Kind, user *discordgo.User, update session.Update) *discordgo.MessageEmbed {
	switch st := update.State.(type) {
	case blackjack.State:
		return buildBlackjackEmbed(user, st)
	case highlow.State:
		return buildHighLowEmbed(user, st)
	case slots.State:
		return buildSlotsEmbed(user, st)
	}
	return nil
}

var actionLabels = map[string]string{
	blackjack.ActionHit:       "Hit",
	blackjack.ActionStand:     "Stand",
	blackjack.ActionDouble:    "Double",
	blackjack.ActionSplit:     "Split",
	blackjack.ActionSurrender: "Surrender",
	highlow.ActionHigher:      "Higher ⬆️",
	highlow.ActionLower:       "Lower ⬇️",
	highlow.ActionCashout:     "Cash Out 💰",
	slots.ActionSpin:          "Spin 🎰",
	slots.ActionBetUp:         "Bet +",
	slots.ActionBetDown:       "Bet -",
	slots.ActionMaxBet:        "Max Bet",
	slots.ActionQuit:          "Quit",
}

// actionRows turns the game's legal actions into a button row. Terminal
// updates carry no actions and clear the components.
func actionRows(kind session.Kind, actions []string) []discordgo.MessageComponent {
	if len(actions) == 0 {
		return nil
	}
	buttons := make([]discordgo.MessageComponent, 0, len(actions))
	for _, a := range actions {
		label := actionLabels[a]
		if label == "" {
			label = a
		}
		buttons = append(buttons, discordgo.Button{
			Label:    label,
			Style:    discordgo.PrimaryButton,
			CustomID: componentID(kind, a),
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}
