// /internal/config/config.go
package config

import (
	"fmt"
	"log"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Scope values for KARAOKE_SCOPE.
const (
	ScopeChannel = "channel"
	ScopeGuild   = "guild"
)

// Storage drivers for STORAGE_DRIVER.
const (
	DriverJSON  = "json"
	DriverBolt  = "bolt"
	DriverRedis = "redis"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}
}

type Config struct {
	DiscordToken          string   `env:"DISCORD_TOKEN,required,notEmpty"`
	GeniusToken           string   `env:"GENIUS_API_TOKEN,required,notEmpty"`
	StorageDriver         string   `env:"STORAGE_DRIVER" envDefault:"json"`
	StoragePath           string   `env:"STORAGE_PATH" envDefault:"datastore.json"`
	RedisURL              string   `env:"REDIS_URL"`
	Port                  int      `env:"PORT" envDefault:"8080"`
	KaraokeScope          string   `env:"KARAOKE_SCOPE" envDefault:"channel"`
	DefaultDelay          float64  `env:"DEFAULT_DELAY" envDefault:"2.0"`
	DeveloperID           string   `env:"DEVELOPER_ID"`
	InitSlashCommands     bool     `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
	DiscordGuildBlacklist []string `env:"DISCORD_GUILD_BLACKLIST" envSeparator:","`
}

// New loads the configuration from the environment. Missing tokens are fatal.
func New() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// Load parses and validates the configuration without exiting.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.KaraokeScope = strings.ToLower(strings.TrimSpace(c.KaraokeScope))
	if c.KaraokeScope != ScopeChannel && c.KaraokeScope != ScopeGuild {
		return fmt.Errorf("KARAOKE_SCOPE must be %q or %q, got %q", ScopeChannel, ScopeGuild, c.KaraokeScope)
	}

	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	if !slices.Contains([]string{DriverJSON, DriverBolt, DriverRedis}, c.StorageDriver) {
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.StorageDriver == DriverRedis && c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required for the redis storage driver")
	}

	if c.DefaultDelay < MinDelay || c.DefaultDelay > MaxDelay {
		return fmt.Errorf("DEFAULT_DELAY must be between %v and %v seconds", MinDelay, MaxDelay)
	}
	return nil
}

// IsDeveloper reports whether userID is the configured developer.
func IsDeveloper(cfg *Config, userID string) bool {
	return cfg != nil && cfg.DeveloperID != "" && cfg.DeveloperID == userID
}
