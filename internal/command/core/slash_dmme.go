package core

import (
	"context"
	"fmt"
	"log"

	"karaoke-bot/internal/bot"
	"karaoke-bot/internal/command"
	"karaoke-bot/internal/middleware"

	"github.com/bwmarrin/discordgo"
)

type DMMeCommand struct{}

func (c *DMMeCommand) Name() string             { return "dmme" }
func (c *DMMeCommand) Description() string      { return "Get a direct message from the bot" }
func (c *DMMeCommand) Group() string            { return "core" }
func (c *DMMeCommand) Category() string         { return "🕯️ Information" }
func (c *DMMeCommand) UserPermissions() []int64 { return []int64{} }

func (c *DMMeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *DMMeCommand) Run(ctx context.Context, data any) error {
	slash, ok := data.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}
	s, e := slash.Session, slash.Event
	user := bot.ResolveUser(e)

	ch, err := s.UserChannelCreate(user.ID)
	if err == nil {
		_, err = s.ChannelMessageSend(ch.ID, fmt.Sprintf("👋 Hi %s! I'm now in your DMs. Try `/lyrics` here.", user.Username))
	}
	if err != nil {
		log.Printf("[WARN] Failed to DM %s: %v", user.ID, err)
		return bot.RespondEphemeral(s, e, "I couldn't message you. Check that your DMs are open for this server.")
	}
	return bot.RespondEphemeral(s, e, "📬 Check your DMs!")
}

func init() {
	command.RegisterCommand(
		&DMMeCommand{},
		middleware.WithCommandLogger(),
	)
}
