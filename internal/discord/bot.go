package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/guildforge/coinbot/internal/coinflip"
	"github.com/guildforge/coinbot/internal/domain"
	"github.com/guildforge/coinbot/internal/economy"
	"github.com/guildforge/coinbot/internal/event"
	"github.com/guildforge/coinbot/internal/logger"
	"github.com/guildforge/coinbot/internal/random"
	"github.com/guildforge/coinbot/internal/session"
	"github.com/guildforge/coinbot/internal/shop"
)

// Bot is the Discord gateway shell. It translates slash commands and
// component presses into service calls and renders the results back as
// embeds; all game rules live behind the session manager.
type Bot struct {
	Session *discordgo.Session

	economy  economy.Service
	shop     shop.Service
	coinflip coinflip.Service
	sessions *session.Manager
	bus      event.Bus
	rng      random.Source

	registry *CommandRegistry
}

// Config holds the bot configuration
type Config struct {
	Token string
}

// New creates a new Discord bot
func New(cfg Config, eco economy.Service, shopSvc shop.Service, flip coinflip.Service, sessions *session.Manager, bus event.Bus) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	b := &Bot{
		Session:  s,
		economy:  eco,
		shop:     shopSvc,
		coinflip: flip,
		sessions: sessions,
		bus:      bus,
		rng:      random.NewSource(),
		registry: NewCommandRegistry(),
	}
	b.registerAll()
	b.subscribeEvents()
	return b, nil
}

// Start opens the gateway connection and registers commands.
func (b *Bot) Start() error {
	b.Session.AddHandler(b.ready)
	b.Session.AddHandler(b.interactionCreate)
	b.Session.AddHandler(b.messageCreate)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("error registering commands: %w", err)
	}
	slog.Info("Discord bot is now running")
	return nil
}

// Stop stops the bot
func (b *Bot) Stop() {
	if err := b.Session.Close(); err != nil {
		slog.Error("Failed to close Discord session", "error", err)
	}
}

func (b *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("Bot is ready", "user", s.State.User.Username)
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := logger.WithRequestID(context.Background(), logger.GenerateRequestID())

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.registry.Handle(ctx, s, i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(ctx, s, i)
	}
}

// messageCreate feeds chat activity into the XP track.
func (b *Bot) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	ctx := logger.WithRequestID(context.Background(), logger.GenerateRequestID())
	result, err := b.economy.AwardMessageXP(ctx, m.Author.ID, m.GuildID, len(m.Content))
	if err != nil {
		logger.FromContext(ctx).Error("Failed to award message XP", "user_id", m.Author.ID, "error", err)
		return
	}
	if result != nil && result.LeveledUp {
		msg := fmt.Sprintf("🎉 <@%s> reached level **%d**!", m.Author.ID, result.NewLevel)
		if _, err := s.ChannelMessageSend(m.ChannelID, msg); err != nil {
			logger.FromContext(ctx).Error("Failed to announce level up", "error", err)
		}
		b.grantLevelRoles(ctx, s, m.GuildID, m.Author.ID, result.NewLevel)
	}
}

// grantLevelRoles assigns any configured award roles the member has now
// reached. Roles for lower levels are granted too, so a member who skips
// levels in one message still collects every award.
func (b *Bot) grantLevelRoles(ctx context.Context, s *discordgo.Session, guildID, userID string, level int) {
	settings, err := b.economy.GetGuildSettings(ctx, guildID)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to load guild settings", "guild_id", guildID, "error", err)
		return
	}
	for _, award := range settings.LevelAwardRoles {
		if award.Level > level {
			continue
		}
		if err := s.GuildMemberRoleAdd(guildID, userID, award.RoleID); err != nil {
			logger.FromContext(ctx).Error("Failed to grant level role",
				"guild_id", guildID, "user_id", userID, "role_id", award.RoleID, "error", err)
		}
	}
}

// subscribeEvents wires announcements that happen outside an interaction,
// like a roulette round resolving on its timer.
func (b *Bot) subscribeEvents() {
	b.bus.Subscribe(domain.EventRouletteResolved, b.announceRouletteResult)
}
