package command

import (
	"context"

	"karaoke-bot/internal/storage"
	"karaoke-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

// Discord-specific contexts (what the runtime passes when executing).

type SlashInteractionContext struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Args    []string
	Storage *storage.Storage
}

type MessageReactionContext struct {
	Session *discordgo.Session
	Event   *discordgo.MessageReactionAdd
	Storage *storage.Storage

	// Handled is set by the command when the reaction was meant for it.
	// Reactions left unhandled are not logged.
	Handled bool
}

// Providers: how a command is registered with Discord (slash or reaction).

type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// ReactionProvider claims reaction emojis. The dispatcher routes a reaction
// whose emoji name is in the list to the command.
type ReactionProvider interface {
	ReactionDefinition() []string
}

// DiscordMeta is exposed by the Discord adapter so middleware can read Group/Category/Permissions
// without depending on the concrete Discord command type.
type DiscordMeta interface {
	Group() string
	Category() string
	UserPermissions() []int64
}

// DiscordCommand is what individual Discord commands implement. data is one
// of the Discord contexts above.
type DiscordCommand interface {
	Name() string
	Description() string
	Group() string
	Category() string
	UserPermissions() []int64
	Run(ctx context.Context, data any) error
}

// DiscordAdapter adapts a DiscordCommand to cmd.Command so it can live in the universal registry.
type DiscordAdapter struct {
	Cmd DiscordCommand
}

func (a *DiscordAdapter) Name() string             { return a.Cmd.Name() }
func (a *DiscordAdapter) Description() string      { return a.Cmd.Description() }
func (a *DiscordAdapter) Group() string            { return a.Cmd.Group() }
func (a *DiscordAdapter) Category() string         { return a.Cmd.Category() }
func (a *DiscordAdapter) UserPermissions() []int64 { return a.Cmd.UserPermissions() }

func (a *DiscordAdapter) Run(ctx context.Context, inv *cmd.Invocation) error {
	return a.Cmd.Run(ctx, inv.Data)
}

func (a *DiscordAdapter) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := a.Cmd.(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

func (a *DiscordAdapter) ReactionDefinition() []string {
	if rp, ok := a.Cmd.(ReactionProvider); ok {
		return rp.ReactionDefinition()
	}
	return nil
}

// RegisterCommand registers a Discord command with the default registry and applies middlewares.
func RegisterCommand(discordCmd DiscordCommand, mws ...cmd.Middleware) {
	RegisterCommandTo(cmd.DefaultRegistry, discordCmd, mws...)
}

// RegisterCommandTo is RegisterCommand for an explicit registry.
func RegisterCommandTo(r *cmd.Registry, discordCmd DiscordCommand, mws ...cmd.Middleware) {
	c := cmd.Apply(&DiscordAdapter{Cmd: discordCmd}, mws...)
	r.Register(c)
}

// SlashCommands returns every registered command that has a slash definition.
func SlashCommands(r *cmd.Registry) []cmd.Command {
	return r.Find(func(root cmd.Command) bool {
		sp, ok := root.(SlashProvider)
		return ok && sp.SlashDefinition() != nil
	})
}

// ReactionCommand returns the registered command claiming emoji, or nil.
func ReactionCommand(r *cmd.Registry, emoji string) cmd.Command {
	found := r.Find(func(root cmd.Command) bool {
		rp, ok := root.(ReactionProvider)
		if !ok {
			return false
		}
		for _, e := range rp.ReactionDefinition() {
			if e == emoji {
				return true
			}
		}
		return false
	})
	if len(found) == 0 {
		return nil
	}
	return found[0]
}
