package discord

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"karaoke-bot/internal/command"
	"karaoke-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
)

// registerCommands syncs slash commands for a guild with Discord:
// deletes obsolete ones, creates/updates commands whose definition has changed.
func (b *Bot) registerCommands(guildID string) error {
	appID, err := b.appID()
	if err != nil {
		return err
	}

	remote, err := b.dg.ApplicationCommands(appID, guildID)
	if err != nil {
		return fmt.Errorf("failed to list commands: %w", err)
	}
	remoteByName := make(map[string]*discordgo.ApplicationCommand, len(remote))
	for _, c := range remote {
		remoteByName[c.Name] = c
	}

	local := buildCommandDefinitions(b.registry)
	hashes := b.loadCommandHashes(guildID)

	for _, name := range obsoleteCommands(remoteByName, local) {
		log.Printf("[INFO] [%s] Deleting obsolete command: %s", guildID, name)
		if err := b.dg.ApplicationCommandDelete(appID, guildID, remoteByName[name].ID); err != nil {
			log.Printf("[ERR] [%s] Failed to delete %s: %v", guildID, name, err)
			continue
		}
		delete(hashes, name)
	}

	changed := changedCommands(local, hashes, remoteByName)
	if len(changed) > 0 {
		log.Printf("[INFO] [%s] Registering %d changed command(s)...", guildID, len(changed))
	}
	for _, d := range changed {
		if _, err := b.dg.ApplicationCommandCreate(appID, guildID, d); err != nil {
			log.Printf("[ERR] [%s] Failed to register %s: %v", guildID, d.Name, err)
		} else {
			hashes[d.Name] = hashCommand(d)
			log.Printf("[DONE] [%s] Registered: %s", guildID, d.Name)
		}
		time.Sleep(25 * time.Millisecond)
	}

	return b.saveCommandHashes(guildID, hashes)
}

// buildCommandDefinitions returns ApplicationCommand definitions for all registered slash commands.
func buildCommandDefinitions(r *cmd.Registry) []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, c := range command.SlashCommands(r) {
		def := cmd.Root(c).(command.SlashProvider).SlashDefinition()
		if def.Type == 0 {
			def.Type = discordgo.ChatApplicationCommand
		}
		defs = append(defs, def)
	}
	return defs
}

// obsoleteCommands returns the remote command names no longer defined locally, sorted.
func obsoleteCommands(remote map[string]*discordgo.ApplicationCommand, local []*discordgo.ApplicationCommand) []string {
	localNames := make(map[string]struct{}, len(local))
	for _, d := range local {
		localNames[d.Name] = struct{}{}
	}
	var out []string
	for name := range remote {
		if _, ok := localNames[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// changedCommands returns local definitions whose hash differs from the cache
// or that are missing on Discord's side.
func changedCommands(local []*discordgo.ApplicationCommand, hashes map[string]string, remote map[string]*discordgo.ApplicationCommand) []*discordgo.ApplicationCommand {
	var out []*discordgo.ApplicationCommand
	for _, d := range local {
		_, registered := remote[d.Name]
		if !registered || hashes[d.Name] != hashCommand(d) {
			out = append(out, d)
		}
	}
	return out
}

// appID returns the bot's application ID, fetching from Discord if not cached in State.
func (b *Bot) appID() (string, error) {
	if b.dg.State != nil && b.dg.State.User != nil && b.dg.State.User.ID != "" {
		return b.dg.State.User.ID, nil
	}
	u, err := b.dg.User("@me")
	if err != nil {
		return "", fmt.Errorf("failed to fetch bot user: %w", err)
	}
	return u.ID, nil
}

// --- Command hash cache ---

func (b *Bot) commandHashPath(guildID string) string {
	return filepath.Join(b.CommandCacheDir, guildID+".json")
}

func (b *Bot) loadCommandHashes(guildID string) map[string]string {
	out := make(map[string]string)
	if data, err := os.ReadFile(b.commandHashPath(guildID)); err == nil {
		if err := json.Unmarshal(data, &out); err != nil {
			log.Printf("[WARN] [%s] Ignoring corrupt command cache: %v", guildID, err)
			return make(map[string]string)
		}
	}
	return out
}

func (b *Bot) saveCommandHashes(guildID string, hashes map[string]string) error {
	path := b.commandHashPath(guildID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create command cache dir: %w", err)
	}
	data, err := json.MarshalIndent(hashes, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// --- Command hashing ---

// hashCommand returns a deterministic SHA-1 of a command's stable fields.
func hashCommand(c *discordgo.ApplicationCommand) string {
	stable := map[string]any{
		"name":        c.Name,
		"description": c.Description,
		"type":        c.Type,
	}
	if c.DefaultMemberPermissions != nil {
		stable["default_member_permissions"] = *c.DefaultMemberPermissions
	}
	if len(c.Options) > 0 {
		stable["options"] = normalizeOptions(c.Options)
	}
	data, _ := json.Marshal(stable)
	return fmt.Sprintf("%x", sha1.Sum(data))
}

func normalizeOptions(opts []*discordgo.ApplicationCommandOption) []map[string]any {
	out := make([]map[string]any, len(opts))
	for i, o := range opts {
		entry := map[string]any{
			"name":        o.Name,
			"description": o.Description,
			"type":        o.Type,
			"required":    o.Required,
			"max_value":   o.MaxValue,
		}
		if o.MinValue != nil {
			entry["min_value"] = *o.MinValue
		}
		if len(o.Choices) > 0 {
			choices := make([]map[string]any, len(o.Choices))
			for j, ch := range o.Choices {
				choices[j] = map[string]any{"name": ch.Name, "value": ch.Value}
			}
			entry["choices"] = choices
		}
		if len(o.Options) > 0 {
			entry["options"] = normalizeOptions(o.Options)
		}
		out[i] = entry
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i]["name"].(string) < out[j]["name"].(string)
	})
	return out
}
