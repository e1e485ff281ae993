package sing

import (
	"context"

	"karaoke-bot/internal/bot"
	"karaoke-bot/internal/command"
	"karaoke-bot/internal/karaoke"

	"github.com/bwmarrin/discordgo"
)

// ControlCommand is /pausekaraoke, /resumekaraoke or /stopkaraoke.
type ControlCommand struct {
	Sessions *karaoke.Controller
	Scope    karaoke.ScopeMode

	action control
}

func NewPauseCommand(sessions *karaoke.Controller, scope karaoke.ScopeMode) *ControlCommand {
	return &ControlCommand{Sessions: sessions, Scope: scope, action: controlPause}
}

func NewResumeCommand(sessions *karaoke.Controller, scope karaoke.ScopeMode) *ControlCommand {
	return &ControlCommand{Sessions: sessions, Scope: scope, action: controlResume}
}

func NewStopCommand(sessions *karaoke.Controller, scope karaoke.ScopeMode) *ControlCommand {
	return &ControlCommand{Sessions: sessions, Scope: scope, action: controlStop}
}

func (c *ControlCommand) Name() string {
	switch c.action {
	case controlPause:
		return "pausekaraoke"
	case controlResume:
		return "resumekaraoke"
	default:
		return "stopkaraoke"
	}
}

func (c *ControlCommand) Description() string {
	switch c.action {
	case controlPause:
		return "Pause the running karaoke"
	case controlResume:
		return "Resume a paused karaoke"
	default:
		return "Stop the karaoke"
	}
}

func (c *ControlCommand) Group() string            { return "karaoke" }
func (c *ControlCommand) Category() string         { return "🎤 Karaoke" }
func (c *ControlCommand) UserPermissions() []int64 { return []int64{} }

func (c *ControlCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *ControlCommand) Run(ctx context.Context, data any) error {
	slash, ok := data.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}
	e := slash.Event

	notice, err := apply(c.Sessions, karaoke.ScopeKey(c.Scope, e.GuildID, e.ChannelID), c.action)
	if err != nil {
		return err
	}
	return bot.Respond(slash.Session, e, notice)
}
