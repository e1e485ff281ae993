package sing

import (
	"fmt"

	"karaoke-bot/internal/karaoke"
)

type control int

const (
	controlNone control = iota
	controlPause
	controlResume
	controlStop
)

// Reaction emojis, with and without the emoji variation selector.
var (
	pauseEmojis  = []string{"⏸️", "⏸"}
	resumeEmojis = []string{"▶️", "▶"}
	stopEmojis   = []string{"⏹️", "⏹"}
)

func controlFor(emoji string) control {
	for _, set := range []struct {
		emojis []string
		c      control
	}{
		{pauseEmojis, controlPause},
		{resumeEmojis, controlResume},
		{stopEmojis, controlStop},
	} {
		for _, e := range set.emojis {
			if e == emoji {
				return set.c
			}
		}
	}
	return controlNone
}

// apply routes c to the session in scope and returns the notice to show.
func apply(sessions *karaoke.Controller, scope string, c control) (string, error) {
	switch c {
	case controlPause:
		if err := sessions.Pause(scope); err != nil {
			return "", err
		}
		return "⏸ Karaoke paused.", nil
	case controlResume:
		if err := sessions.Resume(scope); err != nil {
			return "", err
		}
		return "▶️ Karaoke resumed.", nil
	case controlStop:
		if !sessions.Stop(scope) {
			return "", karaoke.ErrNotRunning
		}
		return "⏹️ Karaoke stopped.", nil
	}
	return "", fmt.Errorf("unknown karaoke control %d", c)
}
