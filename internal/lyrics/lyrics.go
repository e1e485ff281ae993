// Package lyrics looks up song lyrics from upstream providers and splits them
// into the line sequence used by /lyrics and /karaoke.
package lyrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

var (
	ErrNotFound   = errors.New("no lyrics found")
	ErrEmptyQuery = errors.New("query is empty")
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Song is the result of a successful lookup. Lines is Text split on newlines
// with the original order and content preserved.
type Song struct {
	Title  string
	Artist string
	Source string
	URL    string
	Text   string
	Lines  []string
}

// FullTitle returns "Title - Artist", or just the title when the artist is unknown.
func (s *Song) FullTitle() string {
	if s.Artist == "" {
		return s.Title
	}
	return s.Title + " - " + s.Artist
}

type Provider interface {
	Name() string
	Search(ctx context.Context, query string) (*Song, error)
}

// UpstreamError is a provider failure that is not a plain miss: rate limiting,
// server errors or network problems. Status is 0 for transport errors.
type UpstreamError struct {
	Provider string
	Status   int
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: upstream returned %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error   { return e.Err }
func (e *UpstreamError) StatusCode() int { return e.Status }

// RateLimited reports whether the upstream answered 429.
func (e *UpstreamError) RateLimited() bool { return e.Status == http.StatusTooManyRequests }

func newSong(title, artist, source, url, text string) *Song {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	return &Song{
		Title:  title,
		Artist: artist,
		Source: source,
		URL:    url,
		Text:   text,
		Lines:  SplitLines(text),
	}
}

// SplitLines splits text into lines, keeping blank lines so the sequence
// matches the text exactly.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// KaraokeLines drops blank lines and surrounding whitespace. Blank lines would
// show up as empty reveals during a session.
func KaraokeLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Chunk splits text into pieces of at most size bytes, preferring to break on
// a newline and never splitting a UTF-8 sequence.
func Chunk(text string, size int) []string {
	if size <= 0 {
		return []string{text}
	}
	var chunks []string
	for len(text) > size {
		cut := strings.LastIndexByte(text[:size], '\n')
		if cut <= 0 {
			cut = size
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			if cut == 0 {
				cut = size
			}
		}
		chunks = append(chunks, text[:cut])
		text = strings.TrimPrefix(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

// SplitArtistTitle splits "Artist - Title". Artist is empty when the query has
// no separator.
func SplitArtistTitle(query string) (artist, title string) {
	if a, t, ok := strings.Cut(query, " - "); ok {
		return strings.TrimSpace(a), strings.TrimSpace(t)
	}
	return "", strings.TrimSpace(query)
}
