package settings

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"karaoke-bot/internal/bot"
	"karaoke-bot/internal/command"
	"karaoke-bot/internal/config"

	"github.com/bwmarrin/discordgo"
)

type SetDelayCommand struct{}

func (c *SetDelayCommand) Name() string        { return "setdelay" }
func (c *SetDelayCommand) Description() string { return "Set the server's default seconds per karaoke line" }
func (c *SetDelayCommand) Group() string       { return "settings" }
func (c *SetDelayCommand) Category() string    { return "⚙️ Settings" }
func (c *SetDelayCommand) UserPermissions() []int64 {
	return []int64{discordgo.PermissionManageGuild}
}

func (c *SetDelayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	minDelay := config.MinDelay
	perms := int64(discordgo.PermissionManageGuild)
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DefaultMemberPermissions: &perms,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionNumber,
				Name:        "delay",
				Description: "Seconds between lines (0.1 to 10)",
				Required:    true,
				MinValue:    &minDelay,
				MaxValue:    config.MaxDelay,
			},
		},
	}
}

func (c *SetDelayCommand) Run(ctx context.Context, data any) error {
	slash, ok := data.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}
	s, e := slash.Session, slash.Event

	seconds, given := command.FloatOption(e, "delay")
	if !given {
		return command.InputErrorf("Please provide a delay in seconds.")
	}
	if err := command.ValidateDelay(seconds); err != nil {
		return err
	}

	if err := slash.Storage.SetDefaultDelay(e.GuildID, seconds); err != nil {
		return fmt.Errorf("failed to save default delay: %w", err)
	}
	log.Printf("[INFO] Default delay for guild %s set to %vs", e.GuildID, seconds)

	return bot.RespondEmbed(s, e, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("⏱️ Default karaoke delay set to **%ss** per line.", formatSeconds(seconds)),
		Color:       bot.EmbedColor,
	})
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}
