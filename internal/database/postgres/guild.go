package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guildforge/coinbot/internal/domain"
)

// GuildRepository implements the guild settings repository for PostgreSQL
type GuildRepository struct {
	db *pgxpool.Pool
}

// NewGuildRepository creates a new GuildRepository
func NewGuildRepository(db *pgxpool.Pool) *GuildRepository {
	return &GuildRepository{db: db}
}

// GetOrCreateGuild returns guild settings, creating defaults when missing
func (r *GuildRepository) GetOrCreateGuild(ctx context.Context, guildID string) (*domain.Guild, error) {
	query := `
		INSERT INTO guilds (guild_id)
		VALUES ($1)
		ON CONFLICT (guild_id) DO UPDATE SET guild_id = EXCLUDED.guild_id
		RETURNING guild_id, levels_enabled
	`
	var g domain.Guild
	if err := r.db.QueryRow(ctx, query, guildID).Scan(&g.GuildID, &g.LevelsEnabled); err != nil {
		return nil, fmt.Errorf("failed to get or create guild: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT role_id, level FROM guild_level_roles WHERE guild_id = $1 ORDER BY level`, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query level roles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lr domain.LevelAwardRole
		if err := rows.Scan(&lr.RoleID, &lr.Level); err != nil {
			return nil, fmt.Errorf("failed to scan level role: %w", err)
		}
		g.LevelAwardRoles = append(g.LevelAwardRoles, lr)
	}
	return &g, rows.Err()
}

// UpdateGuild replaces guild settings and level-award roles
func (r *GuildRepository) UpdateGuild(ctx context.Context, guild domain.Guild) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO guilds (guild_id, levels_enabled)
		VALUES ($1, $2)
		ON CONFLICT (guild_id) DO UPDATE SET levels_enabled = $2
	`
	if _, err := tx.Exec(ctx, query, guild.GuildID, guild.LevelsEnabled); err != nil {
		return fmt.Errorf("failed to upsert guild: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM guild_level_roles WHERE guild_id = $1`, guild.GuildID); err != nil {
		return fmt.Errorf("failed to clear level roles: %w", err)
	}
	for _, lr := range guild.LevelAwardRoles {
		if _, err := tx.Exec(ctx,
			`INSERT INTO guild_level_roles (guild_id, role_id, level) VALUES ($1, $2, $3)`,
			guild.GuildID, lr.RoleID, lr.Level); err != nil {
			return fmt.Errorf("failed to insert level role: %w", err)
		}
	}
	return tx.Commit(ctx)
}
