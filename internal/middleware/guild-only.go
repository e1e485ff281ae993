package middleware

import (
	"context"

	"karaoke-bot/internal/bot"
	"karaoke-bot/internal/command"
	"karaoke-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

// WithGuildOnly wraps a command to enforce guild-only access
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			switch v := inv.Data.(type) {
			case *command.SlashInteractionContext:
				if v.Event.GuildID == "" {
					return bot.RespondEmbedEphemeral(v.Session, v.Event, &discordgo.MessageEmbed{
						Description: "This command only works inside a server.",
						Color:       bot.EmbedColor,
					})
				}
			case *command.MessageReactionContext:
				if v.Event.GuildID == "" {
					return nil
				}
			}
			return c.Run(ctx, inv)
		})
	}
}
