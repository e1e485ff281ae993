// Package docs renders the README command reference from the command registry.
package docs

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"text/template"

	"karaoke-bot/internal/command"
	"karaoke-bot/pkg/cmd"
)

// RenderCommands returns the markdown command reference grouped by category.
// categoryWeights maps category name to sort order (lower first).
func RenderCommands(registry *cmd.Registry, categoryWeights map[string]int) string {
	commands := command.SlashCommands(registry)
	sort.SliceStable(commands, func(i, j int) bool {
		ci, cj := category(commands[i]), category(commands[j])
		wi, wj := categoryWeights[ci], categoryWeights[cj]
		if wi != wj {
			return wi < wj
		}
		if ci != cj {
			return ci < cj
		}
		return commands[i].Name() < commands[j].Name()
	})

	var buf bytes.Buffer
	current := ""
	for i, c := range commands {
		if cat := category(c); i == 0 || cat != current {
			if i > 0 {
				buf.WriteString("\n")
			}
			current = cat
			fmt.Fprintf(&buf, "### %s\n\n", current)
		}
		fmt.Fprintf(&buf, "- **/%s** - %s\n", c.Name(), c.Description())
	}

	var reactions []string
	for _, c := range registry.GetAll() {
		if rp, ok := cmd.Root(c).(command.ReactionProvider); ok && len(rp.ReactionDefinition()) > 0 {
			reactions = append(reactions, fmt.Sprintf("- **%s** - %s", strings.Join(rp.ReactionDefinition(), " "), c.Description()))
		}
	}
	if len(reactions) > 0 {
		buf.WriteString("\n### Reactions\n\n")
		buf.WriteString(strings.Join(reactions, "\n"))
		buf.WriteString("\n")
	}
	return buf.String()
}

// UpdateReadme renders tmplPath into outPath with the command reference as
// {{.CommandSections}}.
func UpdateReadme(registry *cmd.Registry, categoryWeights map[string]int, tmplPath, outPath string) error {
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", tmplPath, err)
	}

	var out bytes.Buffer
	data := struct{ CommandSections string }{CommandSections: RenderCommands(registry, categoryWeights)}
	if err := tmpl.Execute(&out, data); err != nil {
		return fmt.Errorf("failed to render README: %w", err)
	}
	if err := os.WriteFile(outPath, out.Bytes(), 0644); err != nil {
		return err
	}

	log.Printf("[INFO] %s updated with current commands", outPath)
	return nil
}

func category(c cmd.Command) string {
	if meta, ok := cmd.Root(c).(command.DiscordMeta); ok {
		return meta.Category()
	}
	return ""
}
