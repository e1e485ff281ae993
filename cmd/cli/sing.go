package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"karaoke-bot/internal/command"
	"karaoke-bot/internal/karaoke"
	"karaoke-bot/internal/lyrics"

	"github.com/spf13/cobra"
)

const terminalScope = "terminal"

var (
	flagDelay float64
	flagGuild string
)

var singCmd = &cobra.Command{
	Use:   "sing <artist - title>",
	Short: "Reveal a song's lyrics line by line. Type p, r or s + Enter to pause, resume or stop",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		seconds := flagDelay
		if seconds == 0 {
			seconds = cfg.DefaultDelay
			if flagGuild != "" {
				store, err := openStorage(cfg)
				if err != nil {
					return err
				}
				seconds, err = store.GetDefaultDelay(flagGuild, cfg.DefaultDelay)
				store.Close()
				if err != nil {
					return err
				}
			}
		}
		if err := command.ValidateDelay(seconds); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		searchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		song, err := newProvider(cfg).Search(searchCtx, strings.Join(args, " "))
		cancel()
		if err != nil {
			return err
		}

		sessions := karaoke.NewController()
		session, err := sessions.Start(karaoke.Request{
			Scope:   terminalScope,
			Title:   song.FullTitle(),
			Lines:   lyrics.KaraokeLines(song.Lines),
			Delay:   time.Duration(seconds * float64(time.Second)),
			Display: &terminalDisplay{w: cmd.OutOrStdout()},
		})
		if err != nil {
			return err
		}

		go readControls(cmd.InOrStdin(), sessions, cmd.ErrOrStderr())

		select {
		case <-session.Done():
		case <-ctx.Done():
			sessions.StopWithReason(terminalScope, karaoke.ReasonStopped)
			<-session.Done()
		}
		return nil
	},
}

func init() {
	singCmd.Flags().Float64VarP(&flagDelay, "delay", "d", 0, "seconds per line (default: the guild's or DEFAULT_DELAY)")
	singCmd.Flags().StringVarP(&flagGuild, "guild", "g", "", "use this guild's stored default delay")
}

// readControls maps typed commands to session controls until r is exhausted.
func readControls(r io.Reader, sessions *karaoke.Controller, errOut io.Writer) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		var err error
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "p", "pause":
			err = sessions.Pause(terminalScope)
		case "r", "resume":
			err = sessions.Resume(terminalScope)
		case "s", "stop", "q":
			sessions.Stop(terminalScope)
			return
		case "":
		default:
			fmt.Fprintln(errOut, "commands: p (pause), r (resume), s (stop)")
		}
		if err != nil {
			fmt.Fprintln(errOut, err)
			return
		}
	}
}

// terminalDisplay prints each revealed line.
type terminalDisplay struct {
	mu sync.Mutex
	w  io.Writer
}

func (d *terminalDisplay) Reveal(ctx context.Context, snap karaoke.Snapshot) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if snap.Index == 1 {
		if _, err := fmt.Fprintf(d.w, "🎤 %s (%d lines, %v per line)\n\n", snap.Title, len(snap.Lines), snap.Delay); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(d.w, "[%d/%d] %s\n", snap.Index, len(snap.Lines), snap.Current())
	return err
}

func (d *terminalDisplay) Finish(ctx context.Context, snap karaoke.Snapshot) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := fmt.Fprintf(d.w, "\n%s %s at line %d/%d\n", snap.State.Emoji(), snap.Reason, snap.Index, len(snap.Lines))
	return err
}
