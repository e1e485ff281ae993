package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "discord")
	t.Setenv("GENIUS_API_TOKEN", "genius")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ScopeChannel, cfg.KaraokeScope)
	require.Equal(t, DriverJSON, cfg.StorageDriver)
	require.Equal(t, 2.0, cfg.DefaultDelay)
	require.Equal(t, 8080, cfg.Port)
	require.True(t, cfg.InitSlashCommands)
}

func TestLoadNormalizesAndSplits(t *testing.T) {
	setRequired(t)
	t.Setenv("KARAOKE_SCOPE", " Guild ")
	t.Setenv("STORAGE_DRIVER", "BOLT")
	t.Setenv("DISCORD_GUILD_BLACKLIST", "1,2")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ScopeGuild, cfg.KaraokeScope)
	require.Equal(t, DriverBolt, cfg.StorageDriver)
	require.Equal(t, []string{"1", "2"}, cfg.DiscordGuildBlacklist)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"scope":      {"KARAOKE_SCOPE": "server"},
		"driver":     {"STORAGE_DRIVER": "sqlite"},
		"redis url":  {"STORAGE_DRIVER": "redis"},
		"delay low":  {"DEFAULT_DELAY": "0.05"},
		"delay high": {"DEFAULT_DELAY": "11"},
		"no token":   {"DISCORD_TOKEN": ""},
		"bad port":   {"PORT": "http"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			t.Setenv("REDIS_URL", "")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestIsDeveloper(t *testing.T) {
	require.False(t, IsDeveloper(nil, "1"))
	require.False(t, IsDeveloper(&Config{}, ""))
	require.True(t, IsDeveloper(&Config{DeveloperID: "1"}, "1"))
}
