package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var lyricsCmd = &cobra.Command{
	Use:   "lyrics <artist - title>",
	Short: "Print the full lyrics of a song",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		song, err := newProvider(cfg).Search(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (via %s)\n\n", song.FullTitle(), song.Source)
		fmt.Fprintln(out, song.Text)
		return nil
	},
}
