package main

import (
	"log"

	"karaoke-bot/internal/command/all"
	"karaoke-bot/internal/config"
	"karaoke-bot/internal/docs"
	"karaoke-bot/pkg/cmd"
)

// Regenerates README.md from README.md.tmpl. Run from the repository root.
func main() {
	all.Register(all.Deps{})

	if err := docs.UpdateReadme(cmd.DefaultRegistry, config.CategoryWeights, "README.md.tmpl", "README.md"); err != nil {
		log.Fatal(err)
	}
}
