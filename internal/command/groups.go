package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"server-warden/pkg/cmd"
)

// GroupsCommand toggles command groups per guild. Disabled groups are skipped
// by the dispatcher; the "settings" group itself cannot be disabled, so an
// admin can always toggle back.
type GroupsCommand struct {
	env *Env
}

func (c *GroupsCommand) Name() string            { return "groups" }
func (c *GroupsCommand) Description() string     { return "Enable or disable command groups on this server" }
func (c *GroupsCommand) Aliases() []string       { return []string{} }
func (c *GroupsCommand) Usage() string           { return "groups <list|enable|disable> [group]" }
func (c *GroupsCommand) Group() string           { return "settings" }
func (c *GroupsCommand) Category() string        { return "⚙️ Settings" }
func (c *GroupsCommand) AdminOnly() bool         { return true }
func (c *GroupsCommand) GuildOnly() bool         { return true }
func (c *GroupsCommand) Cooldown() time.Duration { return 0 }

func (c *GroupsCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "action",
				Description: "What to do",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "list", Value: "list"},
					{Name: "enable", Value: "enable"},
					{Name: "disable", Value: "disable"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "group",
				Description: "Group name, e.g. fun",
				Required:    false,
			},
		},
	}
}

func (c *GroupsCommand) RunSlash(ctx context.Context, inv *cmd.Invocation) error {
	sc, ok := inv.Data.(*SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	var action, group string
	for _, opt := range sc.Event.ApplicationCommandData().Options {
		switch opt.Name {
		case "action":
			action = opt.StringValue()
		case "group":
			group = strings.ToLower(opt.StringValue())
		}
	}
	guildID := sc.Event.GuildID

	switch action {
	case "list":
		disabled, err := c.env.Storage.DisabledGroups(guildID)
		if err != nil {
			return fmt.Errorf("failed to read disabled groups: %w", err)
		}
		known := c.knownGroups()
		var lines []string
		for _, g := range known {
			state := "enabled"
			for _, d := range disabled {
				if d == g {
					state = "disabled"
					break
				}
			}
			lines = append(lines, fmt.Sprintf("`%s` — %s", g, state))
		}
		return respondEphemeral(sc, strings.Join(lines, "\n"))

	case "enable":
		if group == "" {
			return respondEphemeral(sc, "Which group? Try `/groups list` first.")
		}
		if err := c.env.Storage.EnableGroup(guildID, group); err != nil {
			return fmt.Errorf("failed to enable group %q: %w", group, err)
		}
		return respondEphemeral(sc, fmt.Sprintf("Group `%s` enabled.", group))

	case "disable":
		if group == "" {
			return respondEphemeral(sc, "Which group? Try `/groups list` first.")
		}
		if group == c.Group() {
			return respondEphemeral(sc, "The settings group stays on; otherwise nobody could turn anything back on.")
		}
		if err := c.env.Storage.DisableGroup(guildID, group); err != nil {
			return fmt.Errorf("failed to disable group %q: %w", group, err)
		}
		return respondEphemeral(sc, fmt.Sprintf("Group `%s` disabled.", group))

	default:
		return respondEphemeral(sc, fmt.Sprintf("Unknown action `%s`.", action))
	}
}

func (c *GroupsCommand) knownGroups() []string {
	seen := make(map[string]bool)
	var groups []string
	for _, entry := range c.env.Registry.All() {
		if g := entry.Group(); g != "" && !seen[g] {
			seen[g] = true
			groups = append(groups, g)
		}
	}
	return groups
}
