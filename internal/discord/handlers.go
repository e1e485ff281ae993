package discord

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"

	"karaoke-bot/internal/bot"
	"karaoke-bot/internal/command"
	"karaoke-bot/internal/karaoke"
	"karaoke-bot/internal/version"
	"karaoke-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	if !b.cfg.InitSlashCommands {
		log.Println("[INFO] Registering slash commands skipped")
	}
	b.startPresence()
	log.Printf("[INFO] ✅ Discord bot %v is running in %d guild(s).", r.User.Username, len(r.Guilds))
}

// onGuildCreate fires for every guild right after Ready and when the bot
// joins a new one. Slash commands are synced here only, so a guild is never
// synced twice at once.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if b.leaveIfBlacklisted(s, g.Guild.ID, g.Guild.Name) {
		return
	}
	if !b.cfg.InitSlashCommands {
		return
	}
	if err := b.registerCommands(g.Guild.ID); err != nil {
		log.Printf("[ERR] Failed to register commands for guild %s: %v", g.Guild.ID, err)
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()

	c := b.registry.Get(data.Name)
	if c == nil {
		log.Printf("[WARN] Unknown command: %s", data.Name)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERR] Panic in /%s: %v\n%s", data.Name, r, debug.Stack())
			_ = bot.Reply(s, i, errorEmbed(genericErrorMessage), true)
		}
	}()

	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	defer cancel()

	err := c.Run(ctx, &cmd.Invocation{
		Args: optionArgs(data.Options),
		Data: &command.SlashInteractionContext{
			Session: s,
			Event:   i,
			Args:    optionArgs(data.Options),
			Storage: b.storage,
		},
	})
	if err == nil {
		return
	}

	msg, ephemeral := describeError(err)
	log.Printf("[%s] /%s: %v", logLevel(err), data.Name, err)
	if replyErr := bot.Reply(s, i, errorEmbed(msg), ephemeral); replyErr != nil {
		log.Printf("[ERR] Failed to report error for /%s: %v", data.Name, replyErr)
	}
}

func (b *Bot) onMessageReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if s.State != nil && s.State.User != nil && r.UserID == s.State.User.ID {
		return
	}
	if r.Member != nil && r.Member.User != nil && r.Member.User.Bot {
		return
	}

	c := command.ReactionCommand(b.registry, r.Emoji.Name)
	if c == nil {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[ERR] Panic in reaction %s: %v\n%s", r.Emoji.Name, rec, debug.Stack())
		}
	}()

	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	defer cancel()

	err := c.Run(ctx, &cmd.Invocation{
		Data: &command.MessageReactionContext{Session: s, Event: r, Storage: b.storage},
	})
	if err != nil {
		log.Printf("[ERR] Error running reaction command %s: %v", c.Name(), err)
	}
}

// onMessageDelete stops a session whose control message was deleted.
func (b *Bot) onMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	snap, ok := b.sessions.ByMessage(m.ChannelID, m.ID)
	if !ok {
		return
	}
	if b.sessions.StopWithReason(snap.Scope, karaoke.ReasonDeleted) {
		log.Printf("[INFO] [Karaoke] %s control message deleted, session stopped", snap.Scope)
	}
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || s.State == nil || s.State.User == nil {
		return
	}
	self := s.State.User.ID

	if m.GuildID == "" {
		if b.firstDM(m.Author.ID) {
			if err := bot.Message(s, m.ChannelID, dmGreeting(m.Author.Username)); err != nil {
				log.Printf("[WARN] Failed to greet %s in DMs: %v", m.Author.ID, err)
			}
		}
		return
	}

	for _, u := range m.Mentions {
		if u.ID == self {
			if err := bot.MessageEmbed(s, m.ChannelID, &discordgo.MessageEmbed{
				Description: usageHint(),
				Color:       bot.EmbedColor,
			}); err != nil {
				log.Printf("[WARN] Failed to answer mention in %s: %v", m.ChannelID, err)
			}
			return
		}
	}
}

// firstDM reports whether this is the first DM from userID since start.
func (b *Bot) firstDM(userID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dmGreeted[userID] {
		return false
	}
	b.dmGreeted[userID] = true
	return true
}

func dmGreeting(username string) string {
	return fmt.Sprintf("👋 Hi %s! I can fetch lyrics right here: try `/lyrics Adele - Hello` or `/karaoke`. `/help` lists everything.", username)
}

func usageHint() string {
	return "🎤 **" + version.AppName + "**\n" +
		"`/karaoke <song> [delay]` sing along line by line\n" +
		"`/lyrics <song>` show the full lyrics\n" +
		"⏸ ▶️ ⏹️ on the karaoke message control it, `/help` lists everything."
}

// optionArgs flattens top-level option values for cmd.Invocation.Args.
func optionArgs(opts []*discordgo.ApplicationCommandInteractionDataOption) []string {
	args := make([]string, 0, len(opts))
	for _, o := range opts {
		args = append(args, fmt.Sprintf("%v", o.Value))
	}
	return args
}
