package lyrics

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"karaoke-bot/internal/bot"
	"karaoke-bot/internal/command"
	"karaoke-bot/internal/lyrics"

	"github.com/bwmarrin/discordgo"
)

const (
	chunkSize     = 1900
	searchTimeout = 30 * time.Second
)

type LyricsCommand struct {
	Lyrics lyrics.Provider
}

func (c *LyricsCommand) Name() string             { return "lyrics" }
func (c *LyricsCommand) Description() string      { return "Show the full lyrics of a song" }
func (c *LyricsCommand) Group() string            { return "lyrics" }
func (c *LyricsCommand) Category() string         { return "🎤 Karaoke" }
func (c *LyricsCommand) UserPermissions() []int64 { return []int64{} }

func (c *LyricsCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "query",
				Description: "Song to search for, e.g. Adele - Hello",
				Required:    true,
			},
		},
	}
}

func (c *LyricsCommand) Run(ctx context.Context, data any) error {
	slash, ok := data.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}
	s, e := slash.Session, slash.Event

	query, err := command.RequireQuery(command.StringOption(e, "query"))
	if err != nil {
		return err
	}

	if err := bot.RespondDeferred(s, e); err != nil {
		return fmt.Errorf("failed to defer /lyrics: %w", err)
	}

	searchCtx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	song, err := c.Lyrics.Search(searchCtx, query)
	if err != nil {
		return err
	}
	log.Printf("[INFO] [Lyrics] %q -> %s via %s (%d lines)", query, song.FullTitle(), song.Source, len(song.Lines))

	if err := bot.EditResponse(s, e, lyricsHeader(song)); err != nil {
		return fmt.Errorf("failed to edit /lyrics response: %w", err)
	}
	for _, block := range lyricsBlocks(song.Text) {
		if err := bot.Followup(s, e, block); err != nil {
			return fmt.Errorf("failed to send lyrics chunk: %w", err)
		}
	}
	return nil
}

func lyricsHeader(song *lyrics.Song) string {
	header := fmt.Sprintf("🎶 Lyrics for **%s** (via %s)", song.FullTitle(), song.Source)
	if song.URL != "" {
		header += fmt.Sprintf("\n<%s>", song.URL)
	}
	return header
}

// lyricsBlocks splits text into code blocks that fit a Discord message.
// Inner fences are defused so they cannot close the block early.
func lyricsBlocks(text string) []string {
	text = strings.ReplaceAll(text, "```", "`​``")
	chunks := lyrics.Chunk(text, chunkSize)
	blocks := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		blocks = append(blocks, "```\n"+chunk+"\n```")
	}
	return blocks
}
