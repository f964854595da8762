package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// CommandHandler handles a slash command
type CommandHandler func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate)

// CommandRegistry holds the registered commands
type CommandRegistry struct {
	Commands map[string]*discordgo.ApplicationCommand
	Handlers map[string]CommandHandler
}

// NewCommandRegistry creates a new registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		Commands: make(map[string]*discordgo.ApplicationCommand),
		Handlers: make(map[string]CommandHandler),
	}
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(cmd *discordgo.ApplicationCommand, handler CommandHandler) {
	r.Commands[cmd.Name] = cmd
	r.Handlers[cmd.Name] = handler
}

// Handle processes a slash command interaction
func (r *CommandRegistry) Handle(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if h, ok := r.Handlers[i.ApplicationCommandData().Name]; ok {
		h(ctx, s, i)
	}
}

// registerAll wires every command into the registry.
func (b *Bot) registerAll() {
	b.registry.Register(b.balanceCommand())
	b.registry.Register(b.profileCommand())
	b.registry.Register(b.claimCommand())
	b.registry.Register(b.payCommand())
	b.registry.Register(b.leaderboardCommand())
	b.registry.Register(b.levelsCommand())
	b.registry.Register(b.shopCommand())
	b.registry.Register(b.inventoryCommand())
	b.registry.Register(b.blackjackCommand())
	b.registry.Register(b.rouletteCommand())
	b.registry.Register(b.highlowCommand())
	b.registry.Register(b.slotsCommand())
	b.registry.Register(b.coinflipCommand())
}

// registerCommands pushes the command set to Discord. Bulk overwrite keeps
// stale commands from lingering after a rename.
func (b *Bot) registerCommands() error {
	desired := make([]*discordgo.ApplicationCommand, 0, len(b.registry.Commands))
	for _, cmd := range b.registry.Commands {
		desired = append(desired, cmd)
	}

	appID := b.Session.State.User.ID
	if _, err := b.Session.ApplicationCommandBulkOverwrite(appID, "", desired); err != nil {
		return fmt.Errorf("failed to overwrite commands: %w", err)
	}
	slog.Info("Commands registered", "count", len(desired))
	return nil
}
