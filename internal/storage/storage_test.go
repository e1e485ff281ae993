package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openBackends(t *testing.T) map[string]*Storage {
	t.Helper()
	dir := t.TempDir()

	js, err := New("json", filepath.Join(dir, "datastore.json"), "")
	require.NoError(t, err)
	bolt, err := New("bolt", filepath.Join(dir, "karaoke.db"), "")
	require.NoError(t, err)

	out := map[string]*Storage{"json": js, "bolt": bolt}
	if url := os.Getenv("REDIS_URL"); url != "" {
		rs, err := New("redis", "", url)
		require.NoError(t, err)
		out["redis"] = rs
	}
	t.Cleanup(func() {
		for _, s := range out {
			s.Close()
		}
	})
	return out
}

func TestDefaultDelay_SetThenGet(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			guild := "guild-setget-" + name
			require.NoError(t, s.SetDefaultDelay(guild, 5))

			got, err := s.GetDefaultDelay(guild, 2.0)
			require.NoError(t, err)
			require.Equal(t, 5.0, got)
		})
	}
}

func TestDefaultDelay_FallbackWhenUnset(t *testing.T) {
	for name, s := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.GetDefaultDelay("never-configured-"+name, 2.0)
			require.NoError(t, err)
			require.Equal(t, 2.0, got)
		})
	}
}

func TestDefaultDelay_RejectsNonPositive(t *testing.T) {
	s := openBackends(t)["json"]
	require.Error(t, s.SetDefaultDelay("g", 0))
	require.Error(t, s.SetDefaultDelay("g", -1))
}

func TestDefaultDelay_EmptyGuildUsesFallback(t *testing.T) {
	s := openBackends(t)["json"]
	got, err := s.GetDefaultDelay("", 3.5)
	require.NoError(t, err)
	require.Equal(t, 3.5, got)
}

func TestCommandsHistory_IsCapped(t *testing.T) {
	s := openBackends(t)["bolt"]
	for i := 0; i < commandHistoryLimit+5; i++ {
		require.NoError(t, s.SetCommand("g1", "c1", "general", "Guild", "u1", "user", "karaoke"))
	}
	history, err := s.GetCommandsHistory("g1")
	require.NoError(t, err)
	require.Len(t, history, commandHistoryLimit)
	require.Equal(t, "karaoke", history[0].Command)
}

func TestJSONBackend_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datastore.json")

	s, err := New("json", path, "")
	require.NoError(t, err)
	require.NoError(t, s.SetDefaultDelay("g1", 1.5))
	require.NoError(t, s.Close())

	s, err = New("json", path, "")
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetDefaultDelay("g1", 2.0)
	require.NoError(t, err)
	require.Equal(t, 1.5, got)
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New("mongo", "x", "")
	require.Error(t, err)
}
