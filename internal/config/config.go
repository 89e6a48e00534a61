package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings, populated from the environment.
type Config struct {
	DiscordToken   string        `env:"DISCORD_TOKEN,required"`
	CommandPrefix  string        `env:"COMMAND_PREFIX" envDefault:"!"`
	StoragePath    string        `env:"STORAGE_PATH" envDefault:"data/warden.json"`
	LogFilePath    string        `env:"LOG_FILE"`
	DeveloperID    string        `env:"DEVELOPER_ID"`
	GuildBlacklist []string      `env:"GUILD_BLACKLIST" envSeparator:","`
	SyncCommands   bool          `env:"SYNC_COMMANDS" envDefault:"true"`
	CooldownSweep  time.Duration `env:"COOLDOWN_SWEEP_INTERVAL" envDefault:"1m"`
	AnalyticsDays  int           `env:"ANALYTICS_WINDOW_DAYS" envDefault:"7"`
}

// New loads .env (if present) and parses the environment into a Config.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, using system environment variables")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}

// IsDeveloper reports whether a user ID matches the configured developer.
func IsDeveloper(cfg *Config, userID string) bool {
	return cfg != nil && cfg.DeveloperID != "" && cfg.DeveloperID == userID
}
