package lyrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"karaoke-bot/pkg/retrylimit"
)

const SourceLyricsOvh = "lyrics.ovh"

// LyricsOvh queries api.lyrics.ovh. It only understands "Artist - Title"
// queries; anything else is reported as not found.
type LyricsOvh struct {
	BaseURL string
	Client  *http.Client
	Retry   retrylimit.RetryConfig

	limiter *retrylimit.AdaptiveLimiter
}

func NewLyricsOvh() *LyricsOvh {
	retry := retrylimit.DefaultRetryConfig()
	retry.MaxAttempts = 2

	return &LyricsOvh{
		BaseURL: "https://api.lyrics.ovh",
		Client: &http.Client{
			Timeout: 6 * time.Second,
		},
		Retry:   retry,
		limiter: retrylimit.NewAdaptiveLimiter(3, 1, 5, 1, 0.5),
	}
}

func (p *LyricsOvh) Name() string { return SourceLyricsOvh }

func (p *LyricsOvh) Search(ctx context.Context, query string) (*Song, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	artist, title := SplitArtistTitle(query)
	if artist == "" || title == "" {
		return nil, fmt.Errorf("%w: %s needs an \"Artist - Title\" query", ErrNotFound, SourceLyricsOvh)
	}

	endpoint := fmt.Sprintf("%s/v1/%s/%s", strings.TrimRight(p.BaseURL, "/"), url.PathEscape(artist), url.PathEscape(title))

	var text string
	err := retrylimit.WithRetryConfig(ctx, func() error {
		t, err := p.fetch(ctx, endpoint)
		if err != nil {
			return classify(err)
		}
		text = t
		return nil
	}, p.limiter, p.Retry)
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] [LyricsOvh] %q -> %d chars", query, len(text))
	return newSong(title, artist, SourceLyricsOvh, endpoint, text), nil
}

func (p *LyricsOvh) fetch(ctx context.Context, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", &UpstreamError{Provider: SourceLyricsOvh, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s has no match", ErrNotFound, SourceLyricsOvh)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{Provider: SourceLyricsOvh, Status: resp.StatusCode, Err: errors.New("lookup failed")}
	}

	var body struct {
		Lyrics string `json:"lyrics"`
		Error  string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &UpstreamError{Provider: SourceLyricsOvh, Err: fmt.Errorf("decode response: %w", err)}
	}
	if strings.TrimSpace(body.Lyrics) == "" {
		return "", fmt.Errorf("%w: %s returned empty lyrics", ErrNotFound, SourceLyricsOvh)
	}
	return body.Lyrics, nil
}
