package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"karaoke-bot/pkg/jobmgr"
)

const presenceJob = "presence"

// startPresence rotates the bot's status line. Ready fires again after a
// reconnect; the job manager keeps a single rotation running.
func (b *Bot) startPresence() {
	err := b.jobs.StartAsync(presenceJob, func(ctx context.Context) error {
		for i := 0; ; i++ {
			msgs := buildStatusMessages(b.sessions.Active(), time.Since(b.startedAt), b.guildCount(), b.dg.HeartbeatLatency())
			if err := b.dg.UpdateGameStatus(0, msgs[i%len(msgs)]); err != nil {
				log.Printf("[DEBUG] Failed to update presence: %v", err)
			}

			wait := time.Duration(15+rand.IntN(11)) * time.Second
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
		}
	})
	if err != nil && !errors.Is(err, jobmgr.ErrAlreadyRunning) {
		log.Printf("[WARN] Failed to start presence rotation: %v", err)
	}
}

func buildStatusMessages(active int, uptime time.Duration, guilds int, latency time.Duration) []string {
	msgs := []string{
		"🎤 /karaoke to sing along",
		"🎶 /lyrics for any song",
	}
	switch active {
	case 0:
	case 1:
		msgs = append(msgs, "🎙️ 1 karaoke in progress")
	default:
		msgs = append(msgs, fmt.Sprintf("🎙️ %d karaokes in progress", active))
	}
	if guilds > 0 {
		msgs = append(msgs, fmt.Sprintf("🏠 in %d server(s)", guilds))
	}
	if latency > 0 {
		return append(msgs, fmt.Sprintf("↯ %dms latency | up %s", latency.Milliseconds(), formatUptime(uptime)))
	}
	return append(msgs, "⏱️ up "+formatUptime(uptime))
}

func formatUptime(d time.Duration) string {
	d = d.Round(time.Minute)
	days := int(d / (24 * time.Hour))
	hours := int(d/time.Hour) % 24
	minutes := int(d/time.Minute) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

func (b *Bot) guildCount() int {
	b.dg.State.RLock()
	defer b.dg.State.RUnlock()
	return len(b.dg.State.Guilds)
}
