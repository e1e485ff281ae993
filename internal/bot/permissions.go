package bot

import (
	"karaoke-bot/internal/config"

	"github.com/bwmarrin/discordgo"
)

// IsAdministrator reports whether a member has administrator privileges in
// guildID, owns it, or is the configured developer. Interaction members carry
// no GuildID, so it is passed separately.
func IsAdministrator(s *discordgo.Session, guildID string, member *discordgo.Member, cfg *config.Config) bool {
	if member == nil || member.User == nil {
		return false
	}
	if config.IsDeveloper(cfg, member.User.ID) {
		return true
	}
	if member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	if s == nil || s.State == nil || guildID == "" {
		return false
	}

	guild, err := s.State.Guild(guildID)
	if err != nil || guild == nil {
		guild, err = s.Guild(guildID)
		if err != nil || guild == nil {
			return false
		}
	}

	if member.User.ID == guild.OwnerID {
		return true
	}
	for _, roleID := range member.Roles {
		if role, _ := s.State.Role(guild.ID, roleID); role != nil {
			if role.Permissions&discordgo.PermissionAdministrator != 0 {
				return true
			}
		}
	}
	return false
}

// CheckBotPermissions reports whether the bot holds every permission in
// required for channelID.
func CheckBotPermissions(s *discordgo.Session, channelID string, required int64) bool {
	if s.State == nil || s.State.User == nil {
		return false
	}
	perms, err := s.UserChannelPermissions(s.State.User.ID, channelID)
	if err != nil {
		return false
	}
	return perms&required == required
}
