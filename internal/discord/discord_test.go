package discord

import (
	"context"
	"fmt"
	"testing"
	"time"

	"karaoke-bot/internal/command"
	"karaoke-bot/internal/karaoke"
	"karaoke-bot/internal/lyrics"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

func TestDescribeError(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		contains  string
		ephemeral bool
	}{
		{"input", command.InputErrorf("Delay must be between 0.1 and 10 seconds."), "Delay must be", false},
		{"running", fmt.Errorf("start: %w", karaoke.ErrAlreadyRunning), "already running", true},
		{"not running", karaoke.ErrNotRunning, "no karaoke running", true},
		{"not found", fmt.Errorf("genius: %w", lyrics.ErrNotFound), "No lyrics found", false},
		{"rate limited", &lyrics.UpstreamError{Provider: "genius", Status: 429, Err: fmt.Errorf("slow down")}, "rate limiting", false},
		{"upstream", fmt.Errorf("max attempts (2) exceeded: %w", &lyrics.UpstreamError{Provider: "genius", Status: 502, Err: fmt.Errorf("bad gateway")}), "unavailable", false},
		{"timeout", context.DeadlineExceeded, "too long", false},
		{"other", fmt.Errorf("boom"), "Something went wrong", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, ephemeral := describeError(tc.err)
			require.Contains(t, msg, tc.contains)
			require.Equal(t, tc.ephemeral, ephemeral)
		})
	}
}

func TestLogLevel(t *testing.T) {
	require.Equal(t, "INFO", logLevel(lyrics.ErrNotFound))
	require.Equal(t, "ERR", logLevel(fmt.Errorf("boom")))
}

func delayCommand(maxValue float64) *discordgo.ApplicationCommand {
	minValue := 0.1
	return &discordgo.ApplicationCommand{
		Name:        "karaoke",
		Description: "Sing along",
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "query", Description: "Song", Required: true},
			{Type: discordgo.ApplicationCommandOptionNumber, Name: "delay", Description: "Seconds", MinValue: &minValue, MaxValue: maxValue},
		},
	}
}

func TestHashCommand(t *testing.T) {
	a := delayCommand(10)
	b := delayCommand(10)
	b.ID = "123"
	b.Version = "456"
	b.Options[0], b.Options[1] = b.Options[1], b.Options[0]

	require.Equal(t, hashCommand(a), hashCommand(b))
	require.NotEqual(t, hashCommand(a), hashCommand(delayCommand(5)))

	perms := int64(discordgo.PermissionManageGuild)
	c := delayCommand(10)
	c.DefaultMemberPermissions = &perms
	require.NotEqual(t, hashCommand(a), hashCommand(c))
}

func TestChangedAndObsoleteCommands(t *testing.T) {
	karaokeDef := delayCommand(10)
	ping := &discordgo.ApplicationCommand{Name: "ping", Description: "Check bot latency", Type: discordgo.ChatApplicationCommand}
	local := []*discordgo.ApplicationCommand{karaokeDef, ping}

	remote := map[string]*discordgo.ApplicationCommand{
		"karaoke": {ID: "1", Name: "karaoke"},
		"ping":    {ID: "2", Name: "ping"},
		"music":   {ID: "3", Name: "music"},
	}
	hashes := map[string]string{"karaoke": hashCommand(karaokeDef), "ping": "stale"}

	require.Equal(t, []string{"music"}, obsoleteCommands(remote, local))

	changed := changedCommands(local, hashes, remote)
	require.Len(t, changed, 1)
	require.Equal(t, "ping", changed[0].Name)

	// Cached but deleted on Discord's side.
	delete(remote, "karaoke")
	hashes["ping"] = hashCommand(ping)
	changed = changedCommands(local, hashes, remote)
	require.Len(t, changed, 1)
	require.Equal(t, "karaoke", changed[0].Name)
}

func TestCommandHashCache(t *testing.T) {
	b := &Bot{CommandCacheDir: t.TempDir()}
	require.Empty(t, b.loadCommandHashes("g1"))

	require.NoError(t, b.saveCommandHashes("g1", map[string]string{"ping": "abc"}))
	require.Equal(t, map[string]string{"ping": "abc"}, b.loadCommandHashes("g1"))
	require.Empty(t, b.loadCommandHashes("g2"))
}

func TestBuildStatusMessages(t *testing.T) {
	msgs := buildStatusMessages(0, 90*time.Minute, 0, 0)
	require.Equal(t, []string{"🎤 /karaoke to sing along", "🎶 /lyrics for any song", "⏱️ up 1h 30m"}, msgs)

	msgs = buildStatusMessages(3, time.Minute, 2, 0)
	require.Contains(t, msgs, "🎙️ 3 karaokes in progress")
	require.Contains(t, msgs, "🏠 in 2 server(s)")

	require.Contains(t, buildStatusMessages(1, 0, 0, 0), "🎙️ 1 karaoke in progress")

	msgs = buildStatusMessages(0, 2*time.Hour, 0, 87*time.Millisecond)
	require.Equal(t, "↯ 87ms latency | up 2h 0m", msgs[len(msgs)-1])
}

func TestFormatUptime(t *testing.T) {
	require.Equal(t, "0m", formatUptime(10*time.Second))
	require.Equal(t, "45m", formatUptime(45*time.Minute))
	require.Equal(t, "2h 5m", formatUptime(2*time.Hour+5*time.Minute))
	require.Equal(t, "3d 4h", formatUptime(76*time.Hour+20*time.Minute))
}

func TestFirstDM(t *testing.T) {
	b := &Bot{dmGreeted: make(map[string]bool)}
	require.True(t, b.firstDM("u1"))
	require.False(t, b.firstDM("u1"))
	require.True(t, b.firstDM("u2"))
}

func TestOptionArgs(t *testing.T) {
	args := optionArgs([]*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "query", Value: "Adele - Hello"},
		{Name: "delay", Value: 1.5},
	})
	require.Equal(t, []string{"Adele - Hello", "1.5"}, args)
}

type silentDisplay struct{}

func (silentDisplay) Reveal(ctx context.Context, snap karaoke.Snapshot) error { return nil }
func (silentDisplay) Finish(ctx context.Context, snap karaoke.Snapshot) error { return nil }

func TestMessageDeleteStopsItsSession(t *testing.T) {
	sessions := karaoke.NewController()
	scope := karaoke.ScopeKey(karaoke.ScopeChannel, "g1", "c1")
	sess, err := sessions.Start(karaoke.Request{
		Scope:     scope,
		GuildID:   "g1",
		ChannelID: "c1",
		MessageID: "m1",
		Title:     "Hello - Adele",
		Lines:     []string{"one", "two"},
		Delay:     time.Hour,
		Display:   silentDisplay{},
	})
	require.NoError(t, err)
	t.Cleanup(func() { sessions.Stop(scope) })

	b := &Bot{sessions: sessions}
	deleted := func(channelID, messageID string) *discordgo.MessageDelete {
		return &discordgo.MessageDelete{Message: &discordgo.Message{ID: messageID, ChannelID: channelID}}
	}

	b.onMessageDelete(nil, deleted("c1", "m2"))
	b.onMessageDelete(nil, deleted("c2", "m1"))
	_, ok := sessions.Get(scope)
	require.True(t, ok)

	b.onMessageDelete(nil, deleted("c1", "m1"))
	select {
	case <-sess.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop")
	}
	require.Equal(t, karaoke.ReasonDeleted, sess.Snapshot().Reason)
	_, ok = sessions.Get(scope)
	require.False(t, ok)
}
