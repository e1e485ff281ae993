package lyrics

import (
	"context"
	"fmt"

	"karaoke-bot/internal/bot"
	"karaoke-bot/internal/command"
	"karaoke-bot/internal/lyrics"

	"github.com/bwmarrin/discordgo"
)

// Diagnoser is implemented by *lyrics.Genius.
type Diagnoser interface {
	Diagnose(ctx context.Context, query string) *lyrics.Report
}

type LyricsDiagCommand struct {
	Genius Diagnoser
}

func (c *LyricsDiagCommand) Name() string        { return "lyricsdiag" }
func (c *LyricsDiagCommand) Description() string { return "Check connectivity to the lyrics service" }
func (c *LyricsDiagCommand) Group() string       { return "lyrics" }
func (c *LyricsDiagCommand) Category() string    { return "🛠️ Maintenance" }
func (c *LyricsDiagCommand) UserPermissions() []int64 {
	return []int64{discordgo.PermissionManageGuild}
}

func (c *LyricsDiagCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "query",
				Description: "Search to try with the API token",
				Required:    false,
			},
		},
	}
}

func (c *LyricsDiagCommand) Run(ctx context.Context, data any) error {
	slash, ok := data.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}
	s, e := slash.Session, slash.Event

	if err := bot.RespondDeferredEphemeral(s, e); err != nil {
		return fmt.Errorf("failed to defer /lyricsdiag: %w", err)
	}

	diagCtx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	report := c.Genius.Diagnose(diagCtx, command.StringOption(e, "query"))
	return bot.EditResponse(s, e, "🩺 Lyrics diagnostics\n```\n"+report.Summary()+"\n```")
}
