package discord

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"karaoke-bot/internal/config"
	"karaoke-bot/internal/karaoke"
	"karaoke-bot/internal/storage"
	"karaoke-bot/pkg/cmd"
	"karaoke-bot/pkg/jobmgr"

	"github.com/bwmarrin/discordgo"
)

const (
	commandTimeout  = 2 * time.Minute
	shutdownTimeout = 10 * time.Second
)

// Bot is a Discord bot
type Bot struct {
	dg        *discordgo.Session
	cfg       *config.Config
	storage   *storage.Storage
	sessions  *karaoke.Controller
	jobs      *jobmgr.Manager
	registry  *cmd.Registry
	startedAt time.Time
	ctx       context.Context

	// CommandCacheDir holds the per-guild slash command hash files.
	CommandCacheDir string

	mu        sync.Mutex
	dmGreeted map[string]bool
}

func NewBot(cfg *config.Config, storage *storage.Storage, sessions *karaoke.Controller, jobs *jobmgr.Manager) *Bot {
	return &Bot{
		cfg:             cfg,
		storage:         storage,
		sessions:        sessions,
		jobs:            jobs,
		registry:        cmd.DefaultRegistry,
		startedAt:       time.Now(),
		ctx:             context.Background(),
		CommandCacheDir: "data/commands",
		dmGreeted:       make(map[string]bool),
	}
}

// Run connects to Discord and blocks until ctx is cancelled. Live karaoke
// sessions are stopped before the gateway connection is closed so their
// messages get a final render.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg
	b.ctx = ctx

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsDirectMessageReactions

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(b.onInteractionCreate)
	dg.AddHandler(b.onMessageReactionAdd)
	dg.AddHandler(b.onMessageDelete)
	dg.AddHandler(b.onMessageCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")

	if err := b.jobs.Stop(presenceJob); err != nil {
		log.Printf("[DEBUG] Presence job: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := b.sessions.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] Karaoke sessions did not stop in time: %v", err)
	}

	if err := dg.Close(); err != nil {
		return fmt.Errorf("failed to close Discord session: %w", err)
	}
	return nil
}

func (b *Bot) isGuildBlacklisted(guildID string) bool {
	return slices.Contains(b.cfg.DiscordGuildBlacklist, guildID)
}

// leaveIfBlacklisted reports whether the guild was left.
func (b *Bot) leaveIfBlacklisted(s *discordgo.Session, guildID, name string) bool {
	if !b.isGuildBlacklisted(guildID) {
		return false
	}
	log.Printf("[INFO] Leaving blacklisted guild: %s (%s)", guildID, name)
	if err := s.GuildLeave(guildID); err != nil {
		log.Printf("[ERR] Failed to leave guild %s: %v", guildID, err)
	}
	return true
}
