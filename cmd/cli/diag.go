package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"karaoke-bot/internal/lyrics"

	"github.com/spf13/cobra"
)

var diagCmd = &cobra.Command{
	Use:   "diag [query]",
	Short: "Check connectivity to Genius",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		report := lyrics.NewGenius(cfg.GeniusToken).Diagnose(ctx, strings.Join(args, " "))
		fmt.Fprintln(cmd.OutOrStdout(), report.Summary())
		for _, c := range report.Checks {
			if !c.OK {
				return errors.New("some checks failed")
			}
		}
		return nil
	},
}
