package sing

import (
	"context"
	"errors"
	"log"
	"slices"

	"karaoke-bot/internal/command"
	"karaoke-bot/internal/karaoke"
)

// ReactionControlsCommand drives a session from the ⏸ ▶️ ⏹️ reactions on its
// control message.
type ReactionControlsCommand struct {
	Sessions *karaoke.Controller
}

func (c *ReactionControlsCommand) Name() string { return "karaoke-controls" }
func (c *ReactionControlsCommand) Description() string {
	return "Pause, resume or stop karaoke with reactions"
}
func (c *ReactionControlsCommand) Group() string            { return "karaoke" }
func (c *ReactionControlsCommand) Category() string         { return "🎤 Karaoke" }
func (c *ReactionControlsCommand) UserPermissions() []int64 { return []int64{} }

func (c *ReactionControlsCommand) ReactionDefinition() []string {
	return slices.Concat(pauseEmojis, resumeEmojis, stopEmojis)
}

func (c *ReactionControlsCommand) Run(ctx context.Context, data any) error {
	v, ok := data.(*command.MessageReactionContext)
	if !ok {
		return nil
	}
	s, r := v.Session, v.Event

	if s.State != nil && s.State.User != nil && r.UserID == s.State.User.ID {
		return nil
	}

	snap, ok := c.Sessions.ByMessage(r.ChannelID, r.MessageID)
	if !ok {
		return nil
	}

	action := controlFor(r.Emoji.Name)
	if action == controlNone {
		return nil
	}
	v.Handled = true

	notice, err := apply(c.Sessions, snap.Scope, action)
	if err != nil && !errors.Is(err, karaoke.ErrNotRunning) {
		return err
	}
	if err == nil {
		log.Printf("[INFO] [Karaoke] %s (reaction by %s)", notice, r.UserID)
	}

	if action != controlStop {
		if err := s.MessageReactionRemove(r.ChannelID, r.MessageID, r.Emoji.APIName(), r.UserID); err != nil {
			log.Printf("[DEBUG] [Karaoke] Could not remove reaction: %v", err)
		}
	}
	return nil
}
