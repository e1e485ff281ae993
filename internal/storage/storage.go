// /internal/storage/storage.go
package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"karaoke-bot/internal/config"
)

const (
	commandHistoryLimit int = 20
	backendTimeout          = 5 * time.Second
)

// Backend persists one Record per guild.
type Backend interface {
	Load(ctx context.Context, guildID string, rec *Record) (bool, error)
	Save(ctx context.Context, guildID string, rec *Record) error
	Close() error
}

type Storage struct {
	mu      sync.Mutex
	backend Backend
}

type CommandHistory struct {
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	GuildName   string    `json:"guild_name"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Command     string    `json:"command"`
	Datetime    time.Time `json:"datetime"`
}

type Record struct {
	DefaultDelay    *float64         `json:"default_delay,omitempty"`
	CommandsHistory []CommandHistory `json:"commands_history"`
}

// New opens the backend selected by driver.
func New(driver, path, redisURL string) (*Storage, error) {
	var (
		b   Backend
		err error
	)
	switch driver {
	case "", config.DriverJSON:
		b, err = newJSONBackend(path)
	case config.DriverBolt:
		b, err = newBoltBackend(path)
	case config.DriverRedis:
		b, err = newRedisBackend(redisURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", driver, err)
	}
	return NewWithBackend(b), nil
}

// NewWithBackend wraps an already opened backend.
func NewWithBackend(b Backend) *Storage {
	return &Storage{backend: b}
}

func (s *Storage) Close() error {
	return s.backend.Close()
}

// update runs fn on the guild record under the storage lock and saves the result.
func (s *Storage) update(guildID string, fn func(rec *Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), backendTimeout)
	defer cancel()

	rec, err := s.getOrCreateGuildRecord(ctx, guildID)
	if err != nil {
		return err
	}
	fn(rec)
	if len(rec.CommandsHistory) > commandHistoryLimit {
		rec.CommandsHistory = rec.CommandsHistory[len(rec.CommandsHistory)-commandHistoryLimit:]
	}
	if err := s.backend.Save(ctx, guildID, rec); err != nil {
		return fmt.Errorf("error saving guild %s: %w", guildID, err)
	}
	return nil
}

func (s *Storage) read(guildID string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), backendTimeout)
	defer cancel()
	return s.getOrCreateGuildRecord(ctx, guildID)
}

func (s *Storage) getOrCreateGuildRecord(ctx context.Context, guildID string) (*Record, error) {
	if guildID == "" {
		return nil, fmt.Errorf("guild ID is empty")
	}
	var rec Record
	if _, err := s.backend.Load(ctx, guildID, &rec); err != nil {
		return nil, fmt.Errorf("error loading guild %s: %w", guildID, err)
	}
	if rec.CommandsHistory == nil {
		rec.CommandsHistory = []CommandHistory{}
	}
	return &rec, nil
}
