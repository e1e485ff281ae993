package middleware

import (
	"context"
	"log"

	"karaoke-bot/internal/bot"
	"karaoke-bot/internal/command"
	"karaoke-bot/internal/metrics"
	"karaoke-bot/pkg/cmd"
)

// WithCommandLogger wraps a command to log its execution
func WithCommandLogger() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			err := c.Run(ctx, inv)

			switch v := inv.Data.(type) {
			case *command.SlashInteractionContext:
				metrics.Commands.WithLabelValues(c.Name()).Inc()
				e := v.Event
				user := bot.ResolveUser(e)
				log.Printf("[INFO] /%s by %s (%s) in guild=%q channel=%q", c.Name(), user.Username, user.ID, e.GuildID, e.ChannelID)
				if e := bot.LogCommand(v.Session, v.Storage, e.GuildID, e.ChannelID, user.ID, user.Username, c.Name()); e != nil {
					log.Printf("[WARN] Failed to log command /%s: %v", c.Name(), e)
				}
			case *command.MessageReactionContext:
				if !v.Handled {
					return err
				}
				metrics.Commands.WithLabelValues(c.Name()).Inc()
				user := v.Event.UserID
				name := user
				if v.Event.Member != nil && v.Event.Member.User != nil {
					name = v.Event.Member.User.Username
				}
				log.Printf("[DEBUG] reaction %s -> %s by %s", v.Event.Emoji.Name, c.Name(), name)
				if e := bot.LogCommand(v.Session, v.Storage, v.Event.GuildID, v.Event.ChannelID, user, name, c.Name()); e != nil {
					log.Printf("[WARN] Failed to log reaction /%s: %v", c.Name(), e)
				}
			}
			return err
		})
	}
}
