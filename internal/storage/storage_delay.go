package storage

import "fmt"

// SetDefaultDelay stores the guild's default karaoke delay in seconds.
func (s *Storage) SetDefaultDelay(guildID string, seconds float64) error {
	if seconds <= 0 {
		return fmt.Errorf("delay must be positive, got %v", seconds)
	}
	return s.update(guildID, func(rec *Record) {
		rec.DefaultDelay = &seconds
	})
}

// GetDefaultDelay returns the guild's default delay, or fallback when none was set.
func (s *Storage) GetDefaultDelay(guildID string, fallback float64) (float64, error) {
	if guildID == "" {
		return fallback, nil
	}
	rec, err := s.read(guildID)
	if err != nil {
		return fallback, err
	}
	if rec.DefaultDelay == nil {
		return fallback, nil
	}
	return *rec.DefaultDelay, nil
}
