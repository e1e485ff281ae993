package lyrics

import (
	"strings"
	"testing"

	"karaoke-bot/internal/lyrics"

	"github.com/stretchr/testify/require"
)

func TestLyricsBlocks(t *testing.T) {
	text := strings.Repeat("la la la la\n", 400)
	blocks := lyricsBlocks(text)

	require.Greater(t, len(blocks), 1)
	for _, b := range blocks {
		require.LessOrEqual(t, len(b), 2000)
		require.True(t, strings.HasPrefix(b, "```\n"))
		require.True(t, strings.HasSuffix(b, "\n```"))
	}
}

func TestLyricsBlocksDefuseFences(t *testing.T) {
	blocks := lyricsBlocks("verse\n```\nchorus")
	require.Len(t, blocks, 1)
	require.Equal(t, 2, strings.Count(blocks[0], "```"))
}

func TestLyricsHeader(t *testing.T) {
	song := &lyrics.Song{Title: "Hello", Artist: "Adele", Source: "Genius", URL: "https://genius.com/x"}
	require.Equal(t, "🎶 Lyrics for **Hello - Adele** (via Genius)\n<https://genius.com/x>", lyricsHeader(song))

	song.URL = ""
	require.Equal(t, "🎶 Lyrics for **Hello - Adele** (via Genius)", lyricsHeader(song))
}
