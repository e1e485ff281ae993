package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"karaoke-bot/internal/bot"
	"karaoke-bot/internal/command"
	"karaoke-bot/internal/karaoke"
	"karaoke-bot/internal/storage"
	"karaoke-bot/internal/version"

	"github.com/bwmarrin/discordgo"
)

const statusHistoryLines = 10

// StatusCommand shows bot health and the server's recent command history.
type StatusCommand struct {
	Sessions  *karaoke.Controller
	StartedAt time.Time
}

func (c *StatusCommand) Name() string        { return "status" }
func (c *StatusCommand) Description() string { return "Show bot status and recent commands on this server" }
func (c *StatusCommand) Group() string       { return "core" }
func (c *StatusCommand) Category() string    { return "🛠️ Maintenance" }
func (c *StatusCommand) UserPermissions() []int64 {
	return []int64{discordgo.PermissionManageGuild}
}

func (c *StatusCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *StatusCommand) Run(ctx context.Context, data any) error {
	slash, ok := data.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}
	s, e := slash.Session, slash.Event

	history, err := slash.Storage.GetCommandsHistory(e.GuildID)
	if err != nil {
		return fmt.Errorf("failed to read command history: %w", err)
	}

	embed := &discordgo.MessageEmbed{
		Title: version.String(),
		Color: bot.EmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Uptime", Value: time.Since(c.StartedAt).Round(time.Second).String(), Inline: true},
			{Name: "Active karaoke", Value: fmt.Sprintf("%d", c.Sessions.Active()), Inline: true},
			{Name: "Latency", Value: fmt.Sprintf("%dms", s.HeartbeatLatency().Milliseconds()), Inline: true},
			{Name: "Recent commands", Value: formatHistory(history, statusHistoryLines)},
		},
	}
	return bot.RespondEmbedEphemeral(s, e, embed)
}

// formatHistory lists the newest n entries, newest first.
func formatHistory(history []storage.CommandHistory, n int) string {
	if len(history) == 0 {
		return "*none yet*"
	}
	var sb strings.Builder
	for i := len(history) - 1; i >= 0 && i >= len(history)-n; i-- {
		h := history[i]
		fmt.Fprintf(&sb, "<t:%d:R> `/%s` by %s in #%s\n", h.Datetime.Unix(), h.Command, h.Username, h.ChannelName)
	}
	return strings.TrimRight(sb.String(), "\n")
}
