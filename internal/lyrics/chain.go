package lyrics

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"karaoke-bot/internal/metrics"
)

// Chain tries providers in order and returns the first hit. A miss or an
// upstream failure moves on to the next provider.
type Chain struct {
	providers []Provider
}

func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) Name() string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return strings.Join(names, "+")
}

// Search returns ErrNotFound when every provider missed, or the first
// upstream error when at least one provider failed.
func (c *Chain) Search(ctx context.Context, query string) (*Song, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	var upstream error
	for _, p := range c.providers {
		song, err := p.Search(ctx, query)
		switch {
		case err == nil:
			metrics.LyricsLookups.WithLabelValues(p.Name(), "ok").Inc()
			return song, nil
		case errors.Is(err, ErrNotFound):
			metrics.LyricsLookups.WithLabelValues(p.Name(), "not_found").Inc()
			log.Printf("[DEBUG] [Lyrics] %s: %v", p.Name(), err)
		default:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			metrics.LyricsLookups.WithLabelValues(p.Name(), "error").Inc()
			log.Printf("[WARN] [Lyrics] %s failed for %q: %v", p.Name(), query, err)
			if upstream == nil {
				upstream = err
			}
		}
	}

	if upstream != nil {
		return nil, upstream
	}
	return nil, fmt.Errorf("%w for %q", ErrNotFound, query)
}
