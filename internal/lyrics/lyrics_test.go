package lyrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"karaoke-bot/pkg/retrylimit"

	"github.com/stretchr/testify/require"
)

const geniusPage = `<html><body>
<div data-lyrics-container="true">Hello, it's me<br>I was wondering<br/><span data-exclude-from-selection="true">Embed</span></div>
<div data-lyrics-container="true">If after all these years</div>
</body></html>`

func fastRetry() retrylimit.RetryConfig {
	return retrylimit.RetryConfig{
		MaxAttempts:    2,
		InitialDelay:   time.Millisecond,
		RateLimitDelay: time.Millisecond,
		Multiplier:     1,
	}
}

func newTestGenius(t *testing.T, handler http.Handler) *Genius {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g := NewGenius("test-token")
	g.APIBase = srv.URL
	g.WebBase = srv.URL
	g.Client = srv.Client()
	g.Retry = fastRetry()
	return g
}

func geniusHandler(searchCalls *atomic.Int32, searchStatus func(call int32) int) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		n := searchCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if status := searchStatus(n); status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		if r.URL.Query().Get("q") == "nothing here" {
			fmt.Fprint(w, `{"response":{"hits":[]}}`)
			return
		}
		fmt.Fprint(w, `{"response":{"hits":[{"type":"song","result":{"path":"/Adele-hello-lyrics","title":"Hello","primary_artist":{"name":"Adele"}}}]}}`)
	})
	mux.HandleFunc("/Adele-hello-lyrics", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geniusPage)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func alwaysOK(int32) int { return http.StatusOK }

func TestGeniusSearch(t *testing.T) {
	var calls atomic.Int32
	g := newTestGenius(t, geniusHandler(&calls, alwaysOK))

	song, err := g.Search(context.Background(), "adele hello")
	require.NoError(t, err)
	require.Equal(t, "Hello", song.Title)
	require.Equal(t, "Adele", song.Artist)
	require.Equal(t, SourceGenius, song.Source)
	require.Equal(t, []string{"Hello, it's me", "I was wondering", "", "If after all these years"}, song.Lines)
	require.Equal(t, "Hello - Adele", song.FullTitle())
	require.NotContains(t, song.Text, "Embed")
}

func TestGeniusNoHitsIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	g := newTestGenius(t, geniusHandler(&calls, alwaysOK))

	_, err := g.Search(context.Background(), "nothing here")
	require.ErrorIs(t, err, ErrNotFound)
	require.EqualValues(t, 1, calls.Load())
}

func TestGeniusRetriesServerError(t *testing.T) {
	var calls atomic.Int32
	g := newTestGenius(t, geniusHandler(&calls, func(n int32) int {
		if n == 1 {
			return http.StatusBadGateway
		}
		return http.StatusOK
	}))

	song, err := g.Search(context.Background(), "adele hello")
	require.NoError(t, err)
	require.Equal(t, "Hello", song.Title)
	require.EqualValues(t, 2, calls.Load())
}

func TestGeniusRateLimitedGivesUp(t *testing.T) {
	var calls atomic.Int32
	g := newTestGenius(t, geniusHandler(&calls, func(int32) int { return http.StatusTooManyRequests }))

	_, err := g.Search(context.Background(), "adele hello")
	require.Error(t, err)

	var up *UpstreamError
	require.True(t, errors.As(err, &up))
	require.True(t, up.RateLimited())
	require.EqualValues(t, 2, calls.Load())
}

func TestGeniusUnauthorizedIsFatal(t *testing.T) {
	var calls atomic.Int32
	g := newTestGenius(t, geniusHandler(&calls, alwaysOK))
	g.token = "wrong"

	_, err := g.Search(context.Background(), "adele hello")
	var up *UpstreamError
	require.True(t, errors.As(err, &up))
	require.Equal(t, http.StatusUnauthorized, up.StatusCode())
	require.EqualValues(t, 1, calls.Load())
}

func TestGeniusEmptyQuery(t *testing.T) {
	g := NewGenius("token")
	_, err := g.Search(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyQuery)
}

func TestLyricsOvh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/Adele/Hello" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"No lyrics found"}`)
			return
		}
		fmt.Fprint(w, `{"lyrics":"Hello, it's me\r\nI was wondering"}`)
	}))
	defer srv.Close()

	p := NewLyricsOvh()
	p.BaseURL = srv.URL
	p.Client = srv.Client()
	p.Retry = fastRetry()

	song, err := p.Search(context.Background(), "Adele - Hello")
	require.NoError(t, err)
	require.Equal(t, "Adele", song.Artist)
	require.Equal(t, "Hello", song.Title)
	require.Equal(t, []string{"Hello, it's me", "I was wondering"}, song.Lines)

	_, err = p.Search(context.Background(), "Adele - Skyfall")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = p.Search(context.Background(), "just a title")
	require.ErrorIs(t, err, ErrNotFound)
}

type fakeProvider struct {
	name  string
	song  *Song
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Search(ctx context.Context, query string) (*Song, error) {
	f.calls++
	return f.song, f.err
}

func TestChainFallsThroughMisses(t *testing.T) {
	first := &fakeProvider{name: "first", err: fmt.Errorf("%w: nope", ErrNotFound)}
	second := &fakeProvider{name: "second", song: &Song{Title: "Hello", Lines: []string{"a", "b"}}}
	chain := NewChain(first, second)

	song, err := chain.Search(context.Background(), "hello")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, song.Lines)
	require.Equal(t, 1, first.calls)
	require.Equal(t, "first+second", chain.Name())
}

func TestChainAllMiss(t *testing.T) {
	chain := NewChain(
		&fakeProvider{name: "a", err: ErrNotFound},
		&fakeProvider{name: "b", err: ErrNotFound},
	)
	_, err := chain.Search(context.Background(), "hello")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestChainReportsUpstreamFailure(t *testing.T) {
	upstream := &UpstreamError{Provider: "a", Status: http.StatusServiceUnavailable, Err: errors.New("down")}
	chain := NewChain(
		&fakeProvider{name: "a", err: upstream},
		&fakeProvider{name: "b", err: ErrNotFound},
	)
	_, err := chain.Search(context.Background(), "hello")
	require.NotErrorIs(t, err, ErrNotFound)

	var up *UpstreamError
	require.True(t, errors.As(err, &up))
	require.Equal(t, http.StatusServiceUnavailable, up.StatusCode())
}

func TestChainEmptyQuery(t *testing.T) {
	p := &fakeProvider{name: "a"}
	_, err := NewChain(p).Search(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptyQuery)
	require.Zero(t, p.calls)
}

func TestSplitLines(t *testing.T) {
	require.Nil(t, SplitLines(""))
	require.Equal(t, []string{"a", "", "b"}, SplitLines("a\r\n\r\nb"))
	require.Equal(t, []string{"a", "b"}, KaraokeLines([]string{"  a ", "", "   ", "b"}))
}

func TestChunk(t *testing.T) {
	text := strings.Repeat("la la la\n", 500)
	chunks := Chunk(text, 1900)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		require.LessOrEqual(t, len(c), 1900)
		require.False(t, strings.HasPrefix(c, "\n"))
	}
	require.Equal(t, strings.TrimSuffix(text, "\n"), strings.TrimSuffix(strings.Join(chunks, "\n"), "\n"))

	long := strings.Repeat("é", 20)
	for _, c := range Chunk(long, 7) {
		require.True(t, utf8.ValidString(c))
		require.LessOrEqual(t, len(c), 7)
	}

	require.Equal(t, []string{"short"}, Chunk("short", 1900))
}

func TestSplitArtistTitle(t *testing.T) {
	artist, title := SplitArtistTitle("Adele - Hello")
	require.Equal(t, "Adele", artist)
	require.Equal(t, "Hello", title)

	artist, title = SplitArtistTitle("Hello")
	require.Empty(t, artist)
	require.Equal(t, "Hello", title)
}

func TestDiagnose(t *testing.T) {
	var calls atomic.Int32
	g := newTestGenius(t, geniusHandler(&calls, alwaysOK))

	report := g.Diagnose(context.Background(), "")
	require.Len(t, report.Checks, 5)
	for _, c := range report.Checks {
		require.True(t, c.OK, "%s: %s", c.Name, c.Detail)
	}
	require.Contains(t, report.Summary(), "Hello - Adele")
}

func TestDiagnoseWithoutToken(t *testing.T) {
	var calls atomic.Int32
	g := newTestGenius(t, geniusHandler(&calls, alwaysOK))
	g.token = ""

	report := g.Diagnose(context.Background(), "")
	last := report.Checks[len(report.Checks)-1]
	require.False(t, last.OK)
	require.Contains(t, last.Detail, "skipped")
	require.Zero(t, calls.Load())
}
