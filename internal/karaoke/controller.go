// Package karaoke paces lyric lines for karaoke sessions. A Controller keeps
// at most one live session per scope and routes pause, resume and stop
// signals to it.
package karaoke

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"karaoke-bot/internal/metrics"

	"github.com/google/uuid"
)

// ScopeMode decides what a session is exclusive to.
type ScopeMode string

const (
	ScopeChannel ScopeMode = "channel"
	ScopeGuild   ScopeMode = "guild"
)

// ScopeKey returns the registry key for a guild/channel pair. Guild scope
// falls back to the channel when there is no guild (DMs).
func ScopeKey(mode ScopeMode, guildID, channelID string) string {
	if mode == ScopeGuild && guildID != "" {
		return "guild:" + guildID
	}
	return "channel:" + channelID
}

type Request struct {
	Scope     string
	GuildID   string
	ChannelID string
	MessageID string
	Title     string
	Lines     []string
	Delay     time.Duration
	Display   Display
}

type Controller struct {
	// MaxFailures is the number of consecutive failed reveals that stops a session.
	MaxFailures int
	// RevealTimeout bounds a single Display call.
	RevealTimeout time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewController() *Controller {
	return &Controller{
		MaxFailures:   3,
		RevealTimeout: 15 * time.Second,
		sessions:      make(map[string]*Session),
	}
}

// Start registers a new session for req.Scope and starts its pacing loop.
func (c *Controller) Start(req Request) (*Session, error) {
	if len(req.Lines) == 0 {
		return nil, ErrNoLines
	}
	if req.Delay <= 0 {
		return nil, ErrInvalidDelay
	}
	if req.Display == nil {
		return nil, fmt.Errorf("karaoke: nil display")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:        uuid.NewString(),
		scope:     req.Scope,
		guildID:   req.GuildID,
		channelID: req.ChannelID,
		messageID: req.MessageID,
		title:     req.Title,
		lines:     append([]string(nil), req.Lines...),
		delay:     req.Delay,
		display:   req.Display,
		startedAt: time.Now(),
		state:     Running,
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}

	c.mu.Lock()
	if existing, ok := c.sessions[req.Scope]; ok && existing.Snapshot().State != Stopped {
		c.mu.Unlock()
		cancel()
		return nil, ErrAlreadyRunning
	}
	c.sessions[req.Scope] = s
	c.mu.Unlock()

	metrics.SessionsStarted.Inc()
	metrics.SessionsActive.Inc()
	log.Printf("[INFO] [Karaoke] %s %s started \"%s\" (%d lines, %v per line)", Running.Emoji(), req.Scope, req.Title, len(s.lines), req.Delay)

	go s.run(c)
	return s, nil
}

func (c *Controller) lookup(scope string) (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[scope]
	return s, ok
}

// Pause is a no-op for a session that is already paused.
func (c *Controller) Pause(scope string) error {
	s, ok := c.lookup(scope)
	if !ok {
		return ErrNotRunning
	}
	return s.pause()
}

// Resume restarts pacing with a full delay. It is a no-op for a running session.
func (c *Controller) Resume(scope string) error {
	s, ok := c.lookup(scope)
	if !ok {
		return ErrNotRunning
	}
	return s.resume()
}

// Stop reports whether a session was stopped. Stopping twice is harmless.
func (c *Controller) Stop(scope string) bool {
	return c.StopWithReason(scope, ReasonStopped)
}

func (c *Controller) StopWithReason(scope string, reason StopReason) bool {
	c.mu.Lock()
	s, ok := c.sessions[scope]
	if ok {
		delete(c.sessions, scope)
	}
	c.mu.Unlock()

	if !ok {
		return false
	}
	return s.stop(reason)
}

// Get returns the live session for scope.
func (c *Controller) Get(scope string) (Snapshot, bool) {
	s, ok := c.lookup(scope)
	if !ok {
		return Snapshot{}, false
	}
	snap := s.Snapshot()
	return snap, snap.State != Stopped
}

// ByMessage finds the session controlled by the given message.
func (c *Controller) ByMessage(channelID, messageID string) (Snapshot, bool) {
	if messageID == "" {
		return Snapshot{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.sessions {
		if s.channelID == channelID && s.messageID == messageID {
			snap := s.Snapshot()
			return snap, snap.State != Stopped
		}
	}
	return Snapshot{}, false
}

// Active returns the number of sessions that have not stopped yet.
func (c *Controller) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, s := range c.sessions {
		if s.Snapshot().State != Stopped {
			n++
		}
	}
	return n
}

// Shutdown stops every session and waits for their final renders or for ctx.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	all := make([]*Session, 0, len(c.sessions))
	for scope, s := range c.sessions {
		all = append(all, s)
		delete(c.sessions, scope)
	}
	c.mu.Unlock()

	for _, s := range all {
		s.stop(ReasonShutdown)
	}
	for _, s := range all {
		select {
		case <-s.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if len(all) > 0 {
		log.Printf("[INFO] [Karaoke] Stopped %d session(s) on shutdown", len(all))
	}
	return nil
}

// release drops s from the registry once its loop has exited.
func (c *Controller) release(s *Session) {
	c.mu.Lock()
	if c.sessions[s.scope] == s {
		delete(c.sessions, s.scope)
	}
	c.mu.Unlock()
	metrics.SessionsActive.Dec()
}
