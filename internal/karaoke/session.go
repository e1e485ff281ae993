package karaoke

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"karaoke-bot/internal/metrics"
)

var (
	ErrAlreadyRunning = errors.New("a karaoke session is already running here")
	ErrNotRunning     = errors.New("no karaoke session is running here")
	ErrNoLines        = errors.New("no lyric lines to sing")
	ErrInvalidDelay   = errors.New("delay must be positive")
)

type State int

const (
	Running State = iota
	Paused
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) Emoji() string {
	switch s {
	case Running:
		return "▶️"
	case Paused:
		return "⏸"
	default:
		return "⏹"
	}
}

type StopReason string

const (
	ReasonNone     StopReason = ""
	ReasonStopped  StopReason = "stopped"
	ReasonFinished StopReason = "finished"
	ReasonFailed   StopReason = "failed"
	ReasonDeleted  StopReason = "deleted"
	ReasonShutdown StopReason = "shutdown"
)

// Display renders a session. Reveal is called once per revealed line and
// Finish once after the session has stopped.
type Display interface {
	Reveal(ctx context.Context, snap Snapshot) error
	Finish(ctx context.Context, snap Snapshot) error
}

// Snapshot is a copy of a session's state. Lines is shared and must not be
// modified.
type Snapshot struct {
	ID        string
	Scope     string
	GuildID   string
	ChannelID string
	MessageID string
	Title     string
	Lines     []string
	Index     int // number of lines revealed so far
	Delay     time.Duration
	State     State
	Reason    StopReason
	StartedAt time.Time
}

// Current returns the most recently revealed line.
func (s Snapshot) Current() string {
	if s.Index == 0 || s.Index > len(s.Lines) {
		return ""
	}
	return s.Lines[s.Index-1]
}

func (s Snapshot) Revealed() []string {
	return s.Lines[:min(s.Index, len(s.Lines))]
}

func (s Snapshot) Remaining() int {
	return len(s.Lines) - s.Index
}

// Session is a single karaoke playback. All state changes go through mu;
// gen is bumped on every pause, resume and stop so the pacing loop can tell
// that the wait it was in has been overtaken.
type Session struct {
	id        string
	scope     string
	guildID   string
	channelID string
	messageID string
	title     string
	lines     []string
	delay     time.Duration
	display   Display
	startedAt time.Time

	mu       sync.Mutex
	state    State
	reason   StopReason
	index    int
	gen      uint64
	failures int

	wake   chan struct{}
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

func (s *Session) ID() string    { return s.id }
func (s *Session) Scope() string { return s.scope }

// Done is closed once the pacing loop has exited and the final render is done.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:        s.id,
		Scope:     s.scope,
		GuildID:   s.guildID,
		ChannelID: s.channelID,
		MessageID: s.messageID,
		Title:     s.title,
		Lines:     s.lines,
		Index:     s.index,
		Delay:     s.delay,
		State:     s.state,
		Reason:    s.reason,
		StartedAt: s.startedAt,
	}
}

func (s *Session) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Session) pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Running:
		s.state = Paused
		s.gen++
		s.signal()
		log.Printf("[INFO] [Karaoke] %s paused at line %d/%d", s.scope, s.index, len(s.lines))
		return nil
	case Paused:
		return nil
	default:
		return ErrNotRunning
	}
}

func (s *Session) resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Paused:
		s.state = Running
		s.gen++
		s.signal()
		log.Printf("[INFO] [Karaoke] %s resumed at line %d/%d", s.scope, s.index, len(s.lines))
		return nil
	case Running:
		return nil
	default:
		return ErrNotRunning
	}
}

// stop reports false if the session was already stopped.
func (s *Session) stop(reason StopReason) bool {
	s.mu.Lock()
	if s.state == Stopped {
		s.mu.Unlock()
		return false
	}
	s.state = Stopped
	s.reason = reason
	s.gen++
	s.mu.Unlock()

	s.cancel()
	s.signal()
	return true
}

// run is the pacing loop. The first line is revealed without waiting; every
// later line waits a full delay after the previous reveal returned.
func (s *Session) run(c *Controller) {
	defer close(s.done)
	defer c.release(s)
	defer s.cancel()

	for {
		s.mu.Lock()
		if s.state == Stopped {
			s.mu.Unlock()
			break
		}
		if s.index >= len(s.lines) {
			s.state = Stopped
			s.reason = ReasonFinished
			s.mu.Unlock()
			break
		}
		if s.state == Paused {
			s.mu.Unlock()
			select {
			case <-s.wake:
			case <-s.ctx.Done():
			}
			continue
		}
		gen := s.gen
		wait := s.delay
		if s.index == 0 {
			wait = 0
		}
		s.mu.Unlock()

		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-s.wake:
				timer.Stop()
				continue
			case <-s.ctx.Done():
				timer.Stop()
				continue
			}
		}

		s.mu.Lock()
		if s.state != Running || s.gen != gen {
			s.mu.Unlock()
			continue
		}
		s.index++
		snap := s.snapshotLocked()
		s.mu.Unlock()

		s.reveal(c, snap)
	}

	s.finish(c)
}

func (s *Session) reveal(c *Controller, snap Snapshot) {
	ctx, cancel := context.WithTimeout(s.ctx, c.RevealTimeout)
	err := s.display.Reveal(ctx, snap)
	cancel()

	if err == nil {
		metrics.LinesRevealed.Inc()
		s.mu.Lock()
		s.failures = 0
		s.mu.Unlock()
		return
	}
	if errors.Is(err, context.Canceled) && s.ctx.Err() != nil {
		return
	}

	metrics.RevealFailures.Inc()
	s.mu.Lock()
	s.failures++
	failures := s.failures
	s.mu.Unlock()

	log.Printf("[WARN] [Karaoke] %s failed to reveal line %d (%d in a row): %v", s.scope, snap.Index, failures, err)
	if failures >= c.MaxFailures {
		if s.stop(ReasonFailed) {
			log.Printf("[ERR] [Karaoke] %s stopped after %d failed reveals", s.scope, failures)
		}
	}
}

func (s *Session) finish(c *Controller) {
	snap := s.Snapshot()
	metrics.SessionsStopped.WithLabelValues(string(snap.Reason)).Inc()
	log.Printf("[INFO] [Karaoke] %s %s \"%s\" (%s) after %d/%d lines", snap.State.Emoji(), snap.Scope, snap.Title, snap.Reason, snap.Index, len(snap.Lines))

	ctx, cancel := context.WithTimeout(context.Background(), c.RevealTimeout)
	defer cancel()
	if err := s.display.Finish(ctx, snap); err != nil {
		log.Printf("[WARN] [Karaoke] %s final render failed: %v", s.scope, err)
	}
}
