package sing

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"karaoke-bot/internal/command"
	"karaoke-bot/internal/config"
	"karaoke-bot/internal/karaoke"
	"karaoke-bot/internal/storage"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

type nopDisplay struct{}

func (nopDisplay) Reveal(ctx context.Context, snap karaoke.Snapshot) error { return nil }
func (nopDisplay) Finish(ctx context.Context, snap karaoke.Snapshot) error { return nil }

func TestControlFor(t *testing.T) {
	require.Equal(t, controlPause, controlFor("⏸"))
	require.Equal(t, controlPause, controlFor("⏸️"))
	require.Equal(t, controlResume, controlFor("▶"))
	require.Equal(t, controlResume, controlFor("▶️"))
	require.Equal(t, controlStop, controlFor("⏹"))
	require.Equal(t, controlStop, controlFor("⏹️"))
	require.Equal(t, controlNone, controlFor("👍"))
}

func TestApply(t *testing.T) {
	sessions := karaoke.NewController()
	scope := karaoke.ScopeKey(karaoke.ScopeChannel, "g1", "c1")

	_, err := apply(sessions, scope, controlPause)
	require.ErrorIs(t, err, karaoke.ErrNotRunning)

	_, err = sessions.Start(karaoke.Request{
		Scope:   scope,
		Title:   "Hello - Adele",
		Lines:   []string{"one", "two"},
		Delay:   time.Hour,
		Display: nopDisplay{},
	})
	require.NoError(t, err)

	notice, err := apply(sessions, scope, controlPause)
	require.NoError(t, err)
	require.Equal(t, "⏸ Karaoke paused.", notice)

	notice, err = apply(sessions, scope, controlResume)
	require.NoError(t, err)
	require.Equal(t, "▶️ Karaoke resumed.", notice)

	notice, err = apply(sessions, scope, controlStop)
	require.NoError(t, err)
	require.Equal(t, "⏹️ Karaoke stopped.", notice)

	_, err = apply(sessions, scope, controlStop)
	require.ErrorIs(t, err, karaoke.ErrNotRunning)
}

func TestControlCommandNames(t *testing.T) {
	sessions := karaoke.NewController()
	require.Equal(t, "pausekaraoke", NewPauseCommand(sessions, karaoke.ScopeChannel).Name())
	require.Equal(t, "resumekaraoke", NewResumeCommand(sessions, karaoke.ScopeChannel).Name())
	require.Equal(t, "stopkaraoke", NewStopCommand(sessions, karaoke.ScopeChannel).SlashDefinition().Name)
}

func TestRenderEmbedRunning(t *testing.T) {
	snap := karaoke.Snapshot{
		Title: "Hello - Adele",
		Lines: []string{"Hello, it's me", "I was *wondering*", "if after all"},
		Index: 2,
		Delay: 1500 * time.Millisecond,
		State: karaoke.Running,
	}
	embed := renderEmbed(snap)

	require.Equal(t, "🎤 Hello - Adele", embed.Title)
	require.Equal(t, "Hello, it's me\n**I was \\*wondering\\***", embed.Description)
	require.Equal(t, "▶️ Line 2/3 · 1.5s per line", embed.Footer.Text)
}

func TestRenderEmbedWindow(t *testing.T) {
	lines := make([]string, 25)
	for i := range lines {
		lines[i] = strings.Repeat("x", i+1)
	}
	embed := renderEmbed(karaoke.Snapshot{Lines: lines, Index: 25, State: karaoke.Paused, Delay: time.Second})

	shown := strings.Split(embed.Description, "\n")
	require.Len(t, shown, windowSize+1)
	require.Equal(t, "…", shown[0])
	require.Equal(t, "**"+lines[24]+"**", shown[windowSize])
	require.True(t, strings.HasPrefix(embed.Footer.Text, "⏸"))
}

func TestRenderEmbedStopped(t *testing.T) {
	snap := karaoke.Snapshot{Lines: []string{"a", "b"}, Index: 2, State: karaoke.Stopped, Reason: karaoke.ReasonFinished}
	embed := renderEmbed(snap)
	require.Equal(t, "a\nb", embed.Description)
	require.Equal(t, "✅ Finished · 2 lines", embed.Footer.Text)

	snap.Index, snap.Reason = 1, karaoke.ReasonStopped
	require.Equal(t, "⏹ Stopped at line 1/2", renderEmbed(snap).Footer.Text)
}

func TestRenderEmbedNothingRevealed(t *testing.T) {
	embed := renderEmbed(karaoke.Snapshot{Lines: []string{"a"}, State: karaoke.Running, Delay: 2 * time.Second})
	require.Equal(t, "*Get ready...*", embed.Description)
	require.Equal(t, "▶️ Line 0/1 · 2s per line", embed.Footer.Text)
}

func karaokeEvent(guildID string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   guildID,
		ChannelID: "c1",
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    "karaoke",
			Options: opts,
		},
	}}
}

func delayOption(seconds float64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  "delay",
		Type:  discordgo.ApplicationCommandOptionNumber,
		Value: seconds,
	}
}

func TestKaraokeDelayPrecedence(t *testing.T) {
	store, err := storage.New(config.DriverJSON, filepath.Join(t.TempDir(), "store.json"), "")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.SetDefaultDelay("g1", 4))

	cases := []struct {
		name     string
		fallback float64
		event    *discordgo.InteractionCreate
		store    *storage.Storage
		want     time.Duration
	}{
		{"option wins over guild default", 2.5, karaokeEvent("g1", delayOption(3.5)), store, 3500 * time.Millisecond},
		{"guild default", 2.5, karaokeEvent("g1"), store, 4 * time.Second},
		{"unset guild uses fallback", 2.5, karaokeEvent("g2"), store, 2500 * time.Millisecond},
		{"no storage uses fallback", 2.5, karaokeEvent("g1"), nil, 2500 * time.Millisecond},
		{"DM uses fallback", 2.5, karaokeEvent(""), store, 2500 * time.Millisecond},
		{"unset fallback uses built-in default", 0, karaokeEvent("g2"), store, time.Duration(config.FallbackDelay * float64(time.Second))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &KaraokeCommand{FallbackDelay: tc.fallback}
			got, err := c.delay(&command.SlashInteractionContext{Event: tc.event, Storage: tc.store})
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestKaraokeDelayOutOfRange(t *testing.T) {
	c := &KaraokeCommand{FallbackDelay: 2}
	for _, seconds := range []float64{0.05, 10.5} {
		_, err := c.delay(&command.SlashInteractionContext{Event: karaokeEvent("g1", delayOption(seconds))})
		var input *command.UserInputError
		require.ErrorAs(t, err, &input)
	}
}

func reaction(userID, messageID, emoji string) *discordgo.MessageReactionAdd {
	return &discordgo.MessageReactionAdd{MessageReaction: &discordgo.MessageReaction{
		UserID:    userID,
		MessageID: messageID,
		ChannelID: "c1",
		GuildID:   "g1",
		Emoji:     discordgo.Emoji{Name: emoji},
	}}
}

func TestReactionControlsIgnoresUnrelatedReactions(t *testing.T) {
	sessions := karaoke.NewController()
	scope := karaoke.ScopeKey(karaoke.ScopeChannel, "g1", "c1")
	_, err := sessions.Start(karaoke.Request{
		Scope:     scope,
		GuildID:   "g1",
		ChannelID: "c1",
		MessageID: "m1",
		Title:     "Hello - Adele",
		Lines:     []string{"one", "two"},
		Delay:     time.Hour,
		Display:   nopDisplay{},
	})
	require.NoError(t, err)
	t.Cleanup(func() { sessions.Stop(scope) })

	s := &discordgo.Session{State: discordgo.NewState()}
	s.State.User = &discordgo.User{ID: "bot"}
	c := &ReactionControlsCommand{Sessions: sessions}

	cases := []struct {
		name  string
		event *discordgo.MessageReactionAdd
	}{
		{"own reaction", reaction("bot", "m1", "⏸️")},
		{"other message", reaction("u1", "m2", "⏸️")},
		{"other emoji", reaction("u1", "m1", "👍")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := &command.MessageReactionContext{Session: s, Event: tc.event}
			require.NoError(t, c.Run(context.Background(), ctx))
			require.False(t, ctx.Handled)

			snap, ok := sessions.Get(scope)
			require.True(t, ok)
			require.Equal(t, karaoke.Running, snap.State)
		})
	}

	ctx := &command.MessageReactionContext{Session: s, Event: reaction("u1", "m1", "⏹️")}
	require.NoError(t, c.Run(context.Background(), ctx))
	require.True(t, ctx.Handled)
	_, ok := sessions.Get(scope)
	require.False(t, ok)
}

type fakeDiscord func(*http.Request) *http.Response

func (f fakeDiscord) RoundTrip(r *http.Request) (*http.Response, error) { return f(r), nil }

func jsonResponse(r *http.Request, status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    r,
	}
}

func TestFinishLogsFailedControlCleanup(t *testing.T) {
	s, err := discordgo.New("Bot test")
	require.NoError(t, err)
	var calls []string
	s.Client = &http.Client{Transport: fakeDiscord(func(r *http.Request) *http.Response {
		calls = append(calls, r.Method)
		if r.Method == http.MethodDelete {
			return jsonResponse(r, http.StatusForbidden, `{"message":"Missing Permissions","code":50013}`)
		}
		return jsonResponse(r, http.StatusOK, `{"id":"m1","channel_id":"c1"}`)
	})}

	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	d := &discordDisplay{s: s}
	snap := karaoke.Snapshot{
		ChannelID: "c1",
		MessageID: "m1",
		Title:     "Hello - Adele",
		Lines:     []string{"one"},
		Index:     1,
		Delay:     time.Second,
		State:     karaoke.Stopped,
		Reason:    karaoke.ReasonFinished,
	}
	require.NoError(t, d.Finish(context.Background(), snap))
	require.Equal(t, []string{http.MethodPatch, http.MethodDelete}, calls)
	require.Contains(t, buf.String(), "Could not clear controls on m1")

	calls = nil
	snap.Reason = karaoke.ReasonDeleted
	require.NoError(t, d.Finish(context.Background(), snap))
	require.Empty(t, calls)
}
