package command

import (
	"strings"

	"karaoke-bot/internal/config"

	"github.com/bwmarrin/discordgo"
)

// Options indexes slash command options by name.
func Options(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption)
	if i == nil || i.Type != discordgo.InteractionApplicationCommand {
		return out
	}
	for _, opt := range i.ApplicationCommandData().Options {
		out[opt.Name] = opt
	}
	return out
}

// StringOption returns the trimmed string option name, or "".
func StringOption(i *discordgo.InteractionCreate, name string) string {
	opt, ok := Options(i)[name]
	if !ok {
		return ""
	}
	return strings.TrimSpace(opt.StringValue())
}

// FloatOption returns the number option name and whether it was given.
func FloatOption(i *discordgo.InteractionCreate, name string) (float64, bool) {
	opt, ok := Options(i)[name]
	if !ok {
		return 0, false
	}
	return opt.FloatValue(), true
}

// ValidateDelay checks a per-line delay in seconds against the allowed range.
func ValidateDelay(seconds float64) error {
	if seconds < config.MinDelay || seconds > config.MaxDelay {
		return InputErrorf("Delay must be between %v and %v seconds.", config.MinDelay, config.MaxDelay)
	}
	return nil
}

// RequireQuery returns the trimmed query or a UserInputError when it is empty.
func RequireQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", InputErrorf("Please provide a song to search for, e.g. `Adele - Hello`.")
	}
	return query, nil
}
