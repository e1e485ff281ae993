package bot

import (
	"log"

	"karaoke-bot/internal/storage"

	"github.com/bwmarrin/discordgo"
)

// LogCommand records a command execution to storage, resolving channel and guild names from state.
func LogCommand(s *discordgo.Session, store *storage.Storage, guildID, channelID, userID, username, commandName string) error {
	if store == nil || guildID == "" {
		return nil
	}

	channelName := ""
	if channel, err := s.State.Channel(channelID); err == nil {
		channelName = channel.Name
	} else if channel, err := s.Channel(channelID); err == nil {
		channelName = channel.Name
	} else {
		log.Println("[WARN] Failed to fetch channel:", err)
	}

	guildName := ""
	if guild, err := s.State.Guild(guildID); err == nil {
		guildName = guild.Name
	} else if guild, err := s.Guild(guildID); err == nil {
		guildName = guild.Name
	} else {
		log.Println("[WARN] Failed to fetch guild:", err)
	}

	return store.SetCommand(guildID, channelID, channelName, guildName, userID, username, commandName)
}

// ResolveUser returns the invoking user of an interaction, whether it came
// from a guild (Member) or a DM (User).
func ResolveUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	if i.User != nil {
		return i.User
	}
	return &discordgo.User{ID: "unknown", Username: "Unknown"}
}
