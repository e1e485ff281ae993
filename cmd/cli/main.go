package main

import (
	"fmt"
	"os"

	"karaoke-bot/internal/config"
	"karaoke-bot/internal/lyrics"
	"karaoke-bot/internal/storage"
	"karaoke-bot/internal/version"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
)

// cliConfig is the subset of the bot configuration the terminal tool needs.
// Unlike the bot, no token is required.
type cliConfig struct {
	GeniusToken   string  `env:"GENIUS_API_TOKEN"`
	StorageDriver string  `env:"STORAGE_DRIVER" envDefault:"json"`
	StoragePath   string  `env:"STORAGE_PATH" envDefault:"datastore.json"`
	RedisURL      string  `env:"REDIS_URL"`
	DefaultDelay  float64 `env:"DEFAULT_DELAY" envDefault:"2.0"`
}

var rootCmd = &cobra.Command{
	Use:           "karaoke-cli",
	Short:         version.AppName + " from the terminal: lyrics, paced karaoke and settings",
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(lyricsCmd, singCmd, diagCmd, delayCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*cliConfig, error) {
	var cfg cliConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.DefaultDelay < config.MinDelay || cfg.DefaultDelay > config.MaxDelay {
		cfg.DefaultDelay = config.FallbackDelay
	}
	return &cfg, nil
}

// newProvider mirrors the bot's lookup chain. Genius is skipped without a token.
func newProvider(cfg *cliConfig) lyrics.Provider {
	if cfg.GeniusToken == "" {
		return lyrics.NewChain(lyrics.NewLyricsOvh())
	}
	return lyrics.NewChain(lyrics.NewGenius(cfg.GeniusToken), lyrics.NewLyricsOvh())
}

func openStorage(cfg *cliConfig) (*storage.Storage, error) {
	return storage.New(cfg.StorageDriver, cfg.StoragePath, cfg.RedisURL)
}
