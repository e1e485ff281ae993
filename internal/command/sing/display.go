package sing

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"karaoke-bot/internal/bot"
	"karaoke-bot/internal/karaoke"

	"github.com/bwmarrin/discordgo"
)

// windowSize is how many revealed lines the control message shows.
const windowSize = 10

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"~", `\~`,
	"`", "\\`",
	"|", `\|`,
	">", `\>`,
)

// discordDisplay renders a session by editing its control message.
type discordDisplay struct {
	s *discordgo.Session
}

func (d *discordDisplay) Reveal(ctx context.Context, snap karaoke.Snapshot) error {
	_, err := d.s.ChannelMessageEditEmbed(snap.ChannelID, snap.MessageID, renderEmbed(snap), discordgo.WithContext(ctx))
	return err
}

func (d *discordDisplay) Finish(ctx context.Context, snap karaoke.Snapshot) error {
	if snap.Reason == karaoke.ReasonDeleted {
		return nil
	}
	if _, err := d.s.ChannelMessageEditEmbed(snap.ChannelID, snap.MessageID, renderEmbed(snap), discordgo.WithContext(ctx)); err != nil {
		return err
	}
	// Needs Manage Messages; without it the controls simply stay.
	if err := d.s.MessageReactionsRemoveAll(snap.ChannelID, snap.MessageID, discordgo.WithContext(ctx)); err != nil {
		log.Printf("[DEBUG] [Karaoke] Could not clear controls on %s: %v", snap.MessageID, err)
	}
	return nil
}

func readyEmbed(title string, lines int, delay time.Duration) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎤 " + title,
		Description: "*Get ready...*",
		Color:       bot.EmbedColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d lines · %s per line · ⏸ pause · ▶️ resume · ⏹️ stop", lines, formatDelay(delay)),
		},
	}
}

func renderEmbed(snap karaoke.Snapshot) *discordgo.MessageEmbed {
	revealed := snap.Revealed()
	start := max(0, len(revealed)-windowSize)

	var sb strings.Builder
	if start > 0 {
		sb.WriteString("…\n")
	}
	for i := start; i < len(revealed); i++ {
		line := markdownEscaper.Replace(revealed[i])
		if i == len(revealed)-1 && snap.State != karaoke.Stopped {
			sb.WriteString("**" + line + "**")
		} else {
			sb.WriteString(line)
		}
		sb.WriteString("\n")
	}
	desc := strings.TrimRight(sb.String(), "\n")
	if desc == "" {
		desc = "*Get ready...*"
	}

	return &discordgo.MessageEmbed{
		Title:       "🎤 " + snap.Title,
		Description: desc,
		Color:       bot.EmbedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: footerText(snap)},
	}
}

func footerText(snap karaoke.Snapshot) string {
	if snap.State == karaoke.Stopped {
		switch snap.Reason {
		case karaoke.ReasonFinished:
			return fmt.Sprintf("✅ Finished · %d lines", len(snap.Lines))
		case karaoke.ReasonFailed:
			return fmt.Sprintf("⚠️ Stopped after errors at line %d/%d", snap.Index, len(snap.Lines))
		case karaoke.ReasonShutdown:
			return fmt.Sprintf("⏹ Bot restarting, stopped at line %d/%d", snap.Index, len(snap.Lines))
		default:
			return fmt.Sprintf("⏹ Stopped at line %d/%d", snap.Index, len(snap.Lines))
		}
	}
	return fmt.Sprintf("%s Line %d/%d · %s per line", snap.State.Emoji(), snap.Index, len(snap.Lines), formatDelay(snap.Delay))
}

func formatDelay(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
}
