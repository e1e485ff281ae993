package core

import (
	"context"
	"fmt"

	"karaoke-bot/internal/bot"
	"karaoke-bot/internal/command"
	"karaoke-bot/internal/middleware"

	"github.com/bwmarrin/discordgo"
)

type PingCommand struct{}

func (c *PingCommand) Name() string             { return "ping" }
func (c *PingCommand) Description() string      { return "Check bot latency" }
func (c *PingCommand) Group() string            { return "core" }
func (c *PingCommand) Category() string         { return "🛠️ Maintenance" }
func (c *PingCommand) UserPermissions() []int64 { return []int64{} }

func (c *PingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *PingCommand) Run(ctx context.Context, data any) error {
	slash, ok := data.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}

	latency := slash.Session.HeartbeatLatency().Milliseconds()
	return bot.Respond(slash.Session, slash.Event, fmt.Sprintf("🏓 Pong! %dms", latency))
}

func init() {
	command.RegisterCommand(
		&PingCommand{},
		middleware.WithCommandLogger(),
	)
}
