package main

import (
	"fmt"
	"strconv"

	"karaoke-bot/internal/command"

	"github.com/spf13/cobra"
)

var delayCmd = &cobra.Command{
	Use:   "delay",
	Short: "Read or change a server's default seconds per line",
}

var delayGetCmd = &cobra.Command{
	Use:   "get <guild-id>",
	Short: "Show a server's default delay",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStorage(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		seconds, err := store.GetDefaultDelay(args[0], cfg.DefaultDelay)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %ss per line\n", args[0], strconv.FormatFloat(seconds, 'f', -1, 64))
		return nil
	},
}

var delaySetCmd = &cobra.Command{
	Use:   "set <guild-id> <seconds>",
	Short: "Set a server's default delay",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		seconds, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid delay %q: %w", args[1], err)
		}
		if err := command.ValidateDelay(seconds); err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStorage(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SetDefaultDelay(args[0], seconds); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: default delay set to %ss\n", args[0], args[1])
		return nil
	},
}

func init() {
	delayCmd.AddCommand(delayGetCmd, delaySetCmd)
}
