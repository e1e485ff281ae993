package sing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"karaoke-bot/internal/bot"
	"karaoke-bot/internal/command"
	"karaoke-bot/internal/config"
	"karaoke-bot/internal/karaoke"
	"karaoke-bot/internal/lyrics"

	"github.com/bwmarrin/discordgo"
)

const (
	searchTimeout = 30 * time.Second
	botPerms      = discordgo.PermissionSendMessages | discordgo.PermissionEmbedLinks | discordgo.PermissionAddReactions
)

type KaraokeCommand struct {
	Sessions      *karaoke.Controller
	Lyrics        lyrics.Provider
	Scope         karaoke.ScopeMode
	FallbackDelay float64
}

func (c *KaraokeCommand) Name() string             { return "karaoke" }
func (c *KaraokeCommand) Description() string      { return "Sing along: reveal a song's lyrics line by line" }
func (c *KaraokeCommand) Group() string            { return "karaoke" }
func (c *KaraokeCommand) Category() string         { return "🎤 Karaoke" }
func (c *KaraokeCommand) UserPermissions() []int64 { return []int64{} }

func (c *KaraokeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	minDelay := config.MinDelay
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "query",
				Description: "Song to search for, e.g. Adele - Hello",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionNumber,
				Name:        "delay",
				Description: "Seconds between lines (defaults to the server setting)",
				Required:    false,
				MinValue:    &minDelay,
				MaxValue:    config.MaxDelay,
			},
		},
	}
}

func (c *KaraokeCommand) Run(ctx context.Context, data any) error {
	slash, ok := data.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}
	s, e := slash.Session, slash.Event

	query, err := command.RequireQuery(command.StringOption(e, "query"))
	if err != nil {
		return err
	}
	delay, err := c.delay(slash)
	if err != nil {
		return err
	}

	scope := karaoke.ScopeKey(c.Scope, e.GuildID, e.ChannelID)
	if _, running := c.Sessions.Get(scope); running {
		return karaoke.ErrAlreadyRunning
	}
	if e.GuildID != "" && !bot.CheckBotPermissions(s, e.ChannelID, botPerms) {
		return command.InputErrorf("I need the Send Messages, Embed Links and Add Reactions permissions in this channel.")
	}

	if err := bot.RespondDeferred(s, e); err != nil {
		return fmt.Errorf("failed to defer /karaoke: %w", err)
	}

	searchCtx, cancel := context.WithTimeout(ctx, searchTimeout)
	song, err := c.Lyrics.Search(searchCtx, query)
	cancel()
	if err != nil {
		return err
	}
	lines := lyrics.KaraokeLines(song.Lines)
	if len(lines) == 0 {
		return fmt.Errorf("%s has no singable lines: %w", song.FullTitle(), lyrics.ErrNotFound)
	}

	msg, err := s.ChannelMessageSendEmbed(e.ChannelID, readyEmbed(song.FullTitle(), len(lines), delay))
	if err != nil {
		return fmt.Errorf("failed to post karaoke message: %w", err)
	}
	for _, emoji := range []string{pauseEmojis[0], resumeEmojis[0], stopEmojis[0]} {
		if err := s.MessageReactionAdd(msg.ChannelID, msg.ID, emoji); err != nil {
			log.Printf("[WARN] [Karaoke] Failed to add %s control: %v", emoji, err)
		}
	}

	_, err = c.Sessions.Start(karaoke.Request{
		Scope:     scope,
		GuildID:   e.GuildID,
		ChannelID: msg.ChannelID,
		MessageID: msg.ID,
		Title:     song.FullTitle(),
		Lines:     lines,
		Delay:     delay,
		Display:   &discordDisplay{s: s},
	})
	if err != nil {
		if delErr := s.ChannelMessageDelete(msg.ChannelID, msg.ID); delErr != nil {
			log.Printf("[WARN] [Karaoke] Failed to delete unused control message: %v", delErr)
		}
		if errors.Is(err, karaoke.ErrAlreadyRunning) {
			return err
		}
		return fmt.Errorf("failed to start karaoke: %w", err)
	}

	return bot.EditResponse(s, e, fmt.Sprintf(
		"🎤 Karaoke started: **%s** (via %s), %s per line. Use ⏸ ▶️ ⏹️ on the message below to control it.",
		song.FullTitle(), song.Source, formatDelay(delay),
	))
}

// delay returns the requested per-line delay, or the guild default.
func (c *KaraokeCommand) delay(slash *command.SlashInteractionContext) (time.Duration, error) {
	fallback := c.FallbackDelay
	if fallback <= 0 {
		fallback = config.FallbackDelay
	}

	seconds, given := command.FloatOption(slash.Event, "delay")
	if !given {
		seconds = fallback
		if slash.Storage != nil {
			d, err := slash.Storage.GetDefaultDelay(slash.Event.GuildID, fallback)
			if err != nil {
				log.Printf("[WARN] [Karaoke] Failed to read default delay for %s: %v", slash.Event.GuildID, err)
			} else {
				seconds = d
			}
		}
	}
	if err := command.ValidateDelay(seconds); err != nil {
		return 0, err
	}
	return time.Duration(seconds * float64(time.Second)), nil
}
