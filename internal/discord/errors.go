package discord

import (
	"context"
	"errors"

	"karaoke-bot/internal/bot"
	"karaoke-bot/internal/command"
	"karaoke-bot/internal/karaoke"
	"karaoke-bot/internal/lyrics"

	"github.com/bwmarrin/discordgo"
)

const genericErrorMessage = "⚠️ Something went wrong while running this command."

// describeError maps a command error to the message shown to the user and
// whether it should be ephemeral.
func describeError(err error) (string, bool) {
	var input *command.UserInputError
	var upstream *lyrics.UpstreamError

	switch {
	case errors.As(err, &input):
		return "❌ " + input.Msg, false
	case errors.Is(err, karaoke.ErrAlreadyRunning):
		return "🎤 A karaoke is already running here. Stop it with `/stopkaraoke` or ⏹️ first.", true
	case errors.Is(err, karaoke.ErrNotRunning):
		return "There is no karaoke running here.", true
	case errors.Is(err, lyrics.ErrNotFound):
		return "🔍 No lyrics found for that song. Try `Artist - Title`.", false
	case errors.As(err, &upstream) && upstream.RateLimited():
		return "⏳ The lyrics service is rate limiting requests. Try again in a minute.", false
	case errors.As(err, &upstream):
		return "⚠️ The lyrics service is unavailable right now. Try again later.", false
	case errors.Is(err, context.DeadlineExceeded):
		return "⌛ That took too long. Try again.", false
	default:
		return genericErrorMessage, true
	}
}

// logLevel keeps expected outcomes out of the error log.
func logLevel(err error) string {
	var input *command.UserInputError
	switch {
	case errors.As(err, &input),
		errors.Is(err, karaoke.ErrAlreadyRunning),
		errors.Is(err, karaoke.ErrNotRunning),
		errors.Is(err, lyrics.ErrNotFound):
		return "INFO"
	default:
		return "ERR"
	}
}

func errorEmbed(msg string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{Description: msg, Color: bot.EmbedColor}
}
