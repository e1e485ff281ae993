package version

import (
	"runtime/debug"
	"strings"
)

const (
	AppName        = "Karaoke Bot"
	AppDescription = "Fetches song lyrics and sings along with you, one line at a time."
)

// Set with -ldflags "-X karaoke-bot/internal/version.BuildDate=... -X karaoke-bot/internal/version.Commit=..."
var (
	BuildDate = ""
	Commit    = ""
	GoVersion = ""
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if GoVersion == "" {
		GoVersion = info.GoVersion
	}
	if Commit != "" {
		return
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			Commit = s.Value
			if len(Commit) > 7 {
				Commit = Commit[:7]
			}
		}
	}
}

// String returns e.g. "Karaoke Bot (1a2b3c4, go1.24.1)".
func String() string {
	var parts []string
	if Commit != "" {
		parts = append(parts, Commit)
	}
	if GoVersion != "" {
		parts = append(parts, GoVersion)
	}
	if len(parts) == 0 {
		return AppName
	}
	return AppName + " (" + strings.Join(parts, ", ") + ")"
}
