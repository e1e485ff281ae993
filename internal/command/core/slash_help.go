package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"karaoke-bot/internal/bot"
	"karaoke-bot/internal/command"
	"karaoke-bot/internal/config"
	"karaoke-bot/internal/middleware"
	"karaoke-bot/internal/version"
	"karaoke-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

type HelpCommand struct{}

func (c *HelpCommand) Name() string             { return "help" }
func (c *HelpCommand) Description() string      { return "Get a list of available commands" }
func (c *HelpCommand) Group() string            { return "core" }
func (c *HelpCommand) Category() string         { return "🕯️ Information" }
func (c *HelpCommand) UserPermissions() []int64 { return []int64{} }

func (c *HelpCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *HelpCommand) Run(ctx context.Context, data any) error {
	slash, ok := data.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       version.AppName + " Help",
		Description: buildHelpByCategory(command.SlashCommands(cmd.DefaultRegistry)),
		Color:       bot.EmbedColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Control a running karaoke with the ⏸ ▶️ ⏹️ reactions on its message.",
		},
	}
	return bot.RespondEmbedEphemeral(slash.Session, slash.Event, embed)
}

func buildHelpByCategory(all []cmd.Command) string {
	categoryMap := make(map[string][]cmd.Command)
	for _, c := range all {
		cat := ""
		if meta, ok := cmd.Root(c).(command.DiscordMeta); ok {
			cat = meta.Category()
		}
		categoryMap[cat] = append(categoryMap[cat], c)
	}

	cats := make([]string, 0, len(categoryMap))
	for cat := range categoryMap {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		wi, wj := config.CategoryWeights[cats[i]], config.CategoryWeights[cats[j]]
		if wi != wj {
			return wi < wj
		}
		return cats[i] < cats[j]
	})

	var sb strings.Builder
	for _, cat := range cats {
		if cat != "" {
			sb.WriteString(fmt.Sprintf("**%s**\n", cat))
		}
		cmds := categoryMap[cat]
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name() < cmds[j].Name() })
		for _, c := range cmds {
			sb.WriteString(fmt.Sprintf("`/%s` - %s\n", c.Name(), c.Description()))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func init() {
	command.RegisterCommand(
		&HelpCommand{},
		middleware.WithCommandLogger(),
	)
}
