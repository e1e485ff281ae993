// cmd/discord/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"karaoke-bot/internal/command/all"
	"karaoke-bot/internal/config"
	"karaoke-bot/internal/discord"
	"karaoke-bot/internal/karaoke"
	"karaoke-bot/internal/keepalive"
	lyricsapi "karaoke-bot/internal/lyrics"
	"karaoke-bot/internal/storage"
	v "karaoke-bot/internal/version"
	"karaoke-bot/pkg/jobmgr"
)

func main() {
	log.Printf("[INFO] Starting %v bot...", v.String())
	startedAt := time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.New()

	store, err := storage.New(cfg.StorageDriver, cfg.StoragePath, cfg.RedisURL)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	jobs := jobmgr.NewManager(func(msg string) {
		log.Println("[JOB]", msg)
	})
	defer jobs.StopAll()

	sessions := karaoke.NewController()

	genius := lyricsapi.NewGenius(cfg.GeniusToken)
	provider := lyricsapi.NewChain(genius, lyricsapi.NewLyricsOvh())

	all.Register(all.Deps{
		Config:    cfg,
		Sessions:  sessions,
		Lyrics:    provider,
		Genius:    genius,
		StartedAt: startedAt,
	})

	router := keepalive.NewRouter(sessions, startedAt)
	if err := jobs.StartAsync("keepalive", func(ctx context.Context) error {
		return keepalive.Run(ctx, fmt.Sprintf(":%d", cfg.Port), router)
	}); err != nil {
		log.Fatal(err)
	}

	bot := discord.NewBot(cfg, store, sessions, jobs)

	errCh := make(chan error, 1)
	go func() {
		errCh <- bot.Run(ctx)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...", s)
		cancel()
		if err := <-errCh; err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
