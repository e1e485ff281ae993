package middleware

import (
	"context"
	"fmt"
	"strings"

	"karaoke-bot/internal/bot"
	"karaoke-bot/internal/command"
	"karaoke-bot/internal/config"
	"karaoke-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

var PermissionNames = map[int64]string{
	discordgo.PermissionAdministrator:      "Administrator",
	discordgo.PermissionManageGuild:        "Manage Server",
	discordgo.PermissionManageChannels:     "Manage Channels",
	discordgo.PermissionManageMessages:     "Manage Messages",
	discordgo.PermissionAddReactions:       "Add Reactions",
	discordgo.PermissionViewChannel:        "View Channel",
	discordgo.PermissionSendMessages:       "Send Messages",
	discordgo.PermissionEmbedLinks:         "Embed Links",
	discordgo.PermissionReadMessageHistory: "Read Message History",
	discordgo.PermissionModerateMembers:    "Moderate Members",
}

// WithUserPermissionCheck rejects slash invocations from members holding none
// of the command's UserPermissions. Administrators, the guild owner and the
// developer bypass it.
func WithUserPermissionCheck(cfg *config.Config) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			v, ok := inv.Data.(*command.SlashInteractionContext)
			if !ok {
				return c.Run(ctx, inv)
			}
			m := v.Event.Member
			if v.Event.GuildID == "" || m == nil || m.User == nil {
				return c.Run(ctx, inv)
			}

			meta, ok := cmd.Root(c).(command.DiscordMeta)
			if !ok || len(meta.UserPermissions()) == 0 {
				return c.Run(ctx, inv)
			}
			if bot.IsAdministrator(v.Session, v.Event.GuildID, m, cfg) {
				return c.Run(ctx, inv)
			}

			memberPerms := m.Permissions
			if memberPerms == 0 {
				p, err := v.Session.UserChannelPermissions(m.User.ID, v.Event.ChannelID)
				if err != nil {
					return fmt.Errorf("failed to get user permissions: %w", err)
				}
				memberPerms = p
			}
			if HasAnyPermission(memberPerms, meta.UserPermissions()) {
				return c.Run(ctx, inv)
			}

			return bot.RespondEmbedEphemeral(v.Session, v.Event, &discordgo.MessageEmbed{
				Description: MissingPermissionsMessage(meta.UserPermissions()),
				Color:       bot.EmbedColor,
			})
		})
	}
}

// HasAnyPermission reports whether perms is administrator or holds at least
// one of required.
func HasAnyPermission(perms int64, required []int64) bool {
	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	for _, p := range required {
		if perms&p != 0 {
			return true
		}
	}
	return false
}

func MissingPermissionsMessage(required []int64) string {
	var allowed []string
	for _, p := range required {
		name := PermissionNames[p]
		if name == "" {
			name = fmt.Sprintf("0x%x", p)
		}
		allowed = append(allowed, name)
	}
	return fmt.Sprintf(
		"You need at least one of the following permissions to run this command:\n`%s`",
		strings.Join(allowed, "`, `"),
	)
}
