package command

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"server-warden/internal/config"
	"server-warden/pkg/cmd"
)

type HelpCommand struct {
	env *Env
}

func (c *HelpCommand) Name() string            { return "help" }
func (c *HelpCommand) Description() string     { return "List available commands" }
func (c *HelpCommand) Aliases() []string       { return []string{"h", "commands"} }
func (c *HelpCommand) Usage() string           { return "help" }
func (c *HelpCommand) Group() string           { return "core" }
func (c *HelpCommand) Category() string        { return "🕯️ Information" }
func (c *HelpCommand) AdminOnly() bool         { return false }
func (c *HelpCommand) GuildOnly() bool         { return false }
func (c *HelpCommand) Cooldown() time.Duration { return 0 }

func (c *HelpCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *HelpCommand) RunText(ctx context.Context, inv *cmd.Invocation) error {
	tc, ok := inv.Data.(*TextContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}
	return message(tc, c.listing(inv.Prefix))
}

func (c *HelpCommand) RunSlash(ctx context.Context, inv *cmd.Invocation) error {
	sc, ok := inv.Data.(*SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}
	return respondEmbedEphemeral(sc, &discordgo.MessageEmbed{
		Title:       "Commands",
		Description: c.listing(c.env.Config.CommandPrefix),
	})
}

// listing renders the registry grouped by category, categories ordered by
// their configured weight.
func (c *HelpCommand) listing(prefix string) string {
	seen := make(map[string]bool)
	var categories []string
	for _, entry := range c.env.Registry.All() {
		if !seen[entry.Category()] {
			seen[entry.Category()] = true
			categories = append(categories, entry.Category())
		}
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return config.CategoryWeights[categories[i]] < config.CategoryWeights[categories[j]]
	})

	var sb strings.Builder
	for _, cat := range categories {
		sb.WriteString(fmt.Sprintf("**%s**\n", cat))
		for _, entry := range c.env.Registry.ByCategory(cat) {
			sb.WriteString(fmt.Sprintf("`%s%s`", prefix, entry.Usage()))
			if aliases := entry.Aliases(); len(aliases) > 0 {
				sb.WriteString(fmt.Sprintf(" (%s)", strings.Join(aliases, ", ")))
			}
			sb.WriteString(fmt.Sprintf(" — %s\n", entry.Description()))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
