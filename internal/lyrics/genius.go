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

	"github.com/PuerkitoBio/goquery"
)

const SourceGenius = "genius"

type Genius struct {
	APIBase string
	WebBase string
	Client  *http.Client
	Retry   retrylimit.RetryConfig

	token   string
	limiter *retrylimit.AdaptiveLimiter
}

type geniusHit struct {
	Path          string `json:"path"`
	URL           string `json:"url"`
	Title         string `json:"title"`
	PrimaryArtist struct {
		Name string `json:"name"`
	} `json:"primary_artist"`
}

type geniusSearchResponse struct {
	Response struct {
		Hits []struct {
			Type   string    `json:"type"`
			Result geniusHit `json:"result"`
		} `json:"hits"`
	} `json:"response"`
}

func NewGenius(token string) *Genius {
	retry := retrylimit.DefaultRetryConfig()
	retry.MaxAttempts = 2

	return &Genius{
		APIBase: "https://api.genius.com",
		WebBase: "https://genius.com",
		Client: &http.Client{
			Timeout: 8 * time.Second,
		},
		Retry:   retry,
		token:   token,
		limiter: retrylimit.NewAdaptiveLimiter(5, 1, 10, 1, 0.5),
	}
}

func (g *Genius) Name() string { return SourceGenius }

// Search resolves the top search hit and scrapes its lyrics page.
func (g *Genius) Search(ctx context.Context, query string) (*Song, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	var hit *geniusHit
	err := retrylimit.WithRetryConfig(ctx, func() error {
		h, err := g.search(ctx, query)
		if err != nil {
			return classify(err)
		}
		hit = h
		return nil
	}, g.limiter, g.Retry)
	if err != nil {
		return nil, err
	}

	pageURL := strings.TrimRight(g.WebBase, "/") + hit.Path

	var text string
	err = retrylimit.WithRetryConfig(ctx, func() error {
		t, err := g.scrape(ctx, pageURL)
		if err != nil {
			return classify(err)
		}
		text = t
		return nil
	}, g.limiter, g.Retry)
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] [Genius] %q -> %s (%d chars)", query, pageURL, len(text))
	return newSong(hit.Title, hit.PrimaryArtist.Name, SourceGenius, pageURL, text), nil
}

func (g *Genius) search(ctx context.Context, query string) (*geniusHit, error) {
	searchURL := fmt.Sprintf("%s/search?q=%s", strings.TrimRight(g.APIBase, "/"), url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Accept", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, &UpstreamError{Provider: SourceGenius, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Provider: SourceGenius, Status: resp.StatusCode, Err: errors.New("search failed")}
	}

	var body geniusSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &UpstreamError{Provider: SourceGenius, Err: fmt.Errorf("decode search response: %w", err)}
	}

	for _, h := range body.Response.Hits {
		if h.Type != "" && h.Type != "song" {
			continue
		}
		if h.Result.Path == "" {
			continue
		}
		hit := h.Result
		return &hit, nil
	}
	return nil, fmt.Errorf("%w: no search hits for %q", ErrNotFound, query)
}

func (g *Genius) scrape(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", &UpstreamError{Provider: SourceGenius, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: lyrics page %s is gone", ErrNotFound, pageURL)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{Provider: SourceGenius, Status: resp.StatusCode, Err: errors.New("lyrics page failed")}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", &UpstreamError{Provider: SourceGenius, Err: fmt.Errorf("parse lyrics page: %w", err)}
	}

	text := extractLyrics(doc)
	if text == "" {
		return "", fmt.Errorf("%w: no lyrics text on %s", ErrNotFound, pageURL)
	}
	return text, nil
}

// extractLyrics reads the lyrics containers of a Genius song page. Older pages
// use a single div.lyrics block.
func extractLyrics(doc *goquery.Document) string {
	sel := doc.Find(`div[data-lyrics-container="true"]`)
	if sel.Length() == 0 {
		sel = doc.Find("div.lyrics")
	}

	var parts []string
	sel.Each(func(_ int, s *goquery.Selection) {
		s.Find(`[data-exclude-from-selection="true"]`).Remove()
		s.Find("br").ReplaceWithHtml("\n")
		if part := strings.TrimSpace(s.Text()); part != "" {
			parts = append(parts, part)
		}
	})
	return strings.Join(parts, "\n\n")
}

// classify marks errors that a retry cannot fix.
func classify(err error) error {
	if errors.Is(err, ErrNotFound) {
		return retrylimit.Fatal(err)
	}
	var up *UpstreamError
	if errors.As(err, &up) {
		if up.Status >= 400 && up.Status < 500 && up.Status != http.StatusTooManyRequests {
			return retrylimit.Fatal(err)
		}
		return err
	}
	return retrylimit.Fatal(err)
}
