package middleware

import (
	"context"
	"path/filepath"
	"testing"

	"karaoke-bot/internal/command"
	"karaoke-bot/internal/config"
	"karaoke-bot/internal/storage"
	"karaoke-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	ran    int
	handle bool
}

func (r *recorder) Name() string             { return "karaoke-controls" }
func (r *recorder) Description() string      { return "test command" }
func (r *recorder) Group() string            { return "karaoke" }
func (r *recorder) Category() string         { return "🎤 Karaoke" }
func (r *recorder) UserPermissions() []int64 { return []int64{discordgo.PermissionManageGuild} }

func (r *recorder) Run(ctx context.Context, inv *cmd.Invocation) error {
	r.ran++
	if v, ok := inv.Data.(*command.MessageReactionContext); ok {
		v.Handled = r.handle
	}
	return nil
}

func stateSession(t *testing.T) *discordgo.Session {
	s := &discordgo.Session{State: discordgo.NewState()}
	require.NoError(t, s.State.GuildAdd(&discordgo.Guild{
		ID:      "g1",
		Name:    "Karaoke Club",
		OwnerID: "owner",
		Roles: []*discordgo.Role{
			{ID: "admins", Permissions: discordgo.PermissionAdministrator},
			{ID: "singers", Permissions: discordgo.PermissionSendMessages},
		},
		Channels: []*discordgo.Channel{{ID: "c1", Name: "stage", GuildID: "g1"}},
	}))
	return s
}

func TestHasAnyPermission(t *testing.T) {
	required := []int64{discordgo.PermissionManageGuild}

	require.True(t, HasAnyPermission(discordgo.PermissionManageGuild|discordgo.PermissionSendMessages, required))
	require.True(t, HasAnyPermission(discordgo.PermissionAdministrator, required))
	require.False(t, HasAnyPermission(discordgo.PermissionSendMessages, required))
	require.False(t, HasAnyPermission(0, required))
}

func TestMissingPermissionsMessage(t *testing.T) {
	msg := MissingPermissionsMessage([]int64{discordgo.PermissionManageGuild, 1 << 60})
	require.Contains(t, msg, "`Manage Server`")
	require.Contains(t, msg, "0x1000000000000000")
}

func TestUserPermissionCheckBypass(t *testing.T) {
	s := stateSession(t)
	cfg := &config.Config{DeveloperID: "dev"}

	cases := []struct {
		name   string
		member *discordgo.Member
	}{
		{"manage server", &discordgo.Member{User: &discordgo.User{ID: "u1"}, Permissions: discordgo.PermissionManageGuild}},
		{"owner", &discordgo.Member{User: &discordgo.User{ID: "owner"}, Permissions: discordgo.PermissionSendMessages}},
		{"admin role", &discordgo.Member{User: &discordgo.User{ID: "u2"}, Roles: []string{"admins"}, Permissions: discordgo.PermissionSendMessages}},
		{"developer", &discordgo.Member{User: &discordgo.User{ID: "dev"}, Permissions: discordgo.PermissionSendMessages}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recorder{}
			c := cmd.Apply(rec, WithUserPermissionCheck(cfg))
			err := c.Run(context.Background(), &cmd.Invocation{Data: &command.SlashInteractionContext{
				Session: s,
				Event: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
					GuildID:   "g1",
					ChannelID: "c1",
					Member:    tc.member,
				}},
			}})
			require.NoError(t, err)
			require.Equal(t, 1, rec.ran)
		})
	}
}

func TestCommandLoggerSkipsUnhandledReactions(t *testing.T) {
	store, err := storage.New(config.DriverJSON, filepath.Join(t.TempDir(), "store.json"), "")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	s := stateSession(t)

	run := func(handle bool) {
		rec := &recorder{handle: handle}
		c := cmd.Apply(rec, WithCommandLogger())
		require.NoError(t, c.Run(context.Background(), &cmd.Invocation{Data: &command.MessageReactionContext{
			Session: s,
			Storage: store,
			Event: &discordgo.MessageReactionAdd{MessageReaction: &discordgo.MessageReaction{
				UserID:    "u1",
				ChannelID: "c1",
				GuildID:   "g1",
				MessageID: "m1",
				Emoji:     discordgo.Emoji{Name: "⏸️"},
			}},
		}}))
		require.Equal(t, 1, rec.ran)
	}

	run(false)
	history, err := store.GetCommandsHistory("g1")
	require.NoError(t, err)
	require.Empty(t, history)

	run(true)
	history, err = store.GetCommandsHistory("g1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "karaoke-controls", history[0].Command)
	require.Equal(t, "stage", history[0].ChannelName)
	require.Equal(t, "Karaoke Club", history[0].GuildName)
}
