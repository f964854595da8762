package domain

// Guild holds per-guild bot settings.
type Guild struct {
	GuildID         string
	LevelsEnabled   bool
	LevelAwardRoles []LevelAwardRole
}

// LevelAwardRole maps a level threshold to a role granted on reaching it.
type LevelAwardRole struct {
	RoleID string
	Level  int
}
