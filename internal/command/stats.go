package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"server-warden/pkg/cmd"
)

type StatsCommand struct {
	env *Env
}

func (c *StatsCommand) Name() string            { return "stats" }
func (c *StatsCommand) Description() string     { return "Command usage statistics for this server" }
func (c *StatsCommand) Aliases() []string       { return []string{} }
func (c *StatsCommand) Usage() string           { return "stats [days]" }
func (c *StatsCommand) Group() string           { return "insights" }
func (c *StatsCommand) Category() string        { return "📊 Insights" }
func (c *StatsCommand) AdminOnly() bool         { return true }
func (c *StatsCommand) GuildOnly() bool         { return true }
func (c *StatsCommand) Cooldown() time.Duration { return 0 }

func (c *StatsCommand) SlashDefinition() *discordgo.ApplicationCommand {
	minDays := float64(1)
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "days",
				Description: "Window in days (default from config)",
				MinValue:    &minDays,
				Required:    false,
			},
		},
	}
}

func (c *StatsCommand) RunSlash(ctx context.Context, inv *cmd.Invocation) error {
	sc, ok := inv.Data.(*SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	days := c.env.Config.AnalyticsDays
	for _, opt := range sc.Event.ApplicationCommandData().Options {
		if opt.Name == "days" {
			days = int(opt.IntValue())
		}
	}
	window := time.Duration(days) * 24 * time.Hour
	guildID := sc.Event.GuildID

	total := c.env.Analytics.TotalCommandCount(guildID, window)
	stats := c.env.Analytics.CommandStats(guildID, window)

	if total == 0 {
		return respondEphemeral(sc, fmt.Sprintf("No commands recorded in the last %d day(s).", days))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%d** invocation(s) in the last %d day(s).\n\n", total, days))
	for i, st := range stats {
		if i >= 10 {
			break
		}
		line := fmt.Sprintf("`%s` — %d run(s), %.0f%% ok", st.Command, st.Count, st.SuccessRate*100)
		if st.AvgDuration > 0 {
			line += fmt.Sprintf(", avg %v", st.AvgDuration.Round(time.Millisecond))
		}
		sb.WriteString(line + "\n")
	}

	return respondEmbedEphemeral(sc, &discordgo.MessageEmbed{
		Title:       "Command usage",
		Description: sb.String(),
	})
}
