package settings

import (
	"context"
	"fmt"

	"karaoke-bot/internal/bot"
	"karaoke-bot/internal/command"
	"karaoke-bot/internal/config"

	"github.com/bwmarrin/discordgo"
)

type GetDelayCommand struct {
	Fallback float64
}

func (c *GetDelayCommand) Name() string             { return "getdelay" }
func (c *GetDelayCommand) Description() string      { return "Show the server's default seconds per karaoke line" }
func (c *GetDelayCommand) Group() string            { return "settings" }
func (c *GetDelayCommand) Category() string         { return "⚙️ Settings" }
func (c *GetDelayCommand) UserPermissions() []int64 { return []int64{} }

func (c *GetDelayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *GetDelayCommand) Run(ctx context.Context, data any) error {
	slash, ok := data.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}
	s, e := slash.Session, slash.Event

	fallback := c.Fallback
	if fallback <= 0 {
		fallback = config.FallbackDelay
	}
	seconds, err := slash.Storage.GetDefaultDelay(e.GuildID, fallback)
	if err != nil {
		return fmt.Errorf("failed to read default delay: %w", err)
	}
	return bot.RespondEmbed(s, e, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("⏱️ Default karaoke delay is **%ss** per line.", formatSeconds(seconds)),
		Color:       bot.EmbedColor,
	})
}
