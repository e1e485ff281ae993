// Package all registers every Discord command that needs runtime
// dependencies, so the bot and the README generator share one list.
package all

import (
	"time"

	"karaoke-bot/internal/command"
	"karaoke-bot/internal/command/core"
	"karaoke-bot/internal/command/lyrics"
	"karaoke-bot/internal/command/settings"
	"karaoke-bot/internal/command/sing"
	"karaoke-bot/internal/config"
	"karaoke-bot/internal/karaoke"
	lyricsapi "karaoke-bot/internal/lyrics"
	"karaoke-bot/internal/middleware"
)

type Deps struct {
	Config    *config.Config
	Sessions  *karaoke.Controller
	Lyrics    lyricsapi.Provider
	Genius    *lyricsapi.Genius
	StartedAt time.Time
}

// Register adds the commands to command.DefaultRegistry. Commands in package
// core without dependencies register themselves in init.
func Register(d Deps) {
	scope := karaoke.ScopeChannel
	fallback := config.FallbackDelay
	if d.Config != nil {
		scope = karaoke.ScopeMode(d.Config.KaraokeScope)
		fallback = d.Config.DefaultDelay
	}

	logged := middleware.WithCommandLogger()
	perms := middleware.WithUserPermissionCheck(d.Config)
	guildOnly := middleware.WithGuildOnly()

	command.RegisterCommand(&lyrics.LyricsCommand{Lyrics: d.Lyrics}, logged)
	command.RegisterCommand(&lyrics.LyricsDiagCommand{Genius: d.Genius}, perms, logged)

	command.RegisterCommand(&sing.KaraokeCommand{
		Sessions:      d.Sessions,
		Lyrics:        d.Lyrics,
		Scope:         scope,
		FallbackDelay: fallback,
	}, logged)
	command.RegisterCommand(sing.NewPauseCommand(d.Sessions, scope), logged)
	command.RegisterCommand(sing.NewResumeCommand(d.Sessions, scope), logged)
	command.RegisterCommand(sing.NewStopCommand(d.Sessions, scope), logged)
	command.RegisterCommand(&sing.ReactionControlsCommand{Sessions: d.Sessions}, logged)

	command.RegisterCommand(&settings.SetDelayCommand{}, guildOnly, perms, logged)
	command.RegisterCommand(&settings.GetDelayCommand{Fallback: fallback}, guildOnly, logged)

	command.RegisterCommand(&core.StatusCommand{Sessions: d.Sessions, StartedAt: d.StartedAt}, guildOnly, perms, logged)
}
