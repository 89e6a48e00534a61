package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"server-warden/internal/storage"
	"server-warden/pkg/cmd"
)

type PerfCommand struct {
	env *Env
}

func (c *PerfCommand) Name() string            { return "perf" }
func (c *PerfCommand) Description() string     { return "Performance metrics recorded by the bot" }
func (c *PerfCommand) Aliases() []string       { return []string{} }
func (c *PerfCommand) Usage() string           { return "perf [category] [name]" }
func (c *PerfCommand) Group() string           { return "insights" }
func (c *PerfCommand) Category() string        { return "📊 Insights" }
func (c *PerfCommand) AdminOnly() bool         { return true }
func (c *PerfCommand) GuildOnly() bool         { return false }
func (c *PerfCommand) Cooldown() time.Duration { return 0 }

func (c *PerfCommand) SlashDefinition() *discordgo.ApplicationCommand {
	categories := []storage.MetricCategory{
		storage.MetricCommand, storage.MetricStorage, storage.MetricOutbound,
		storage.MetricEvent, storage.MetricOther,
	}
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(categories))
	for i, cat := range categories {
		choices[i] = &discordgo.ApplicationCommandOptionChoice{Name: string(cat), Value: string(cat)}
	}

	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "category",
				Description: "Metric category to inspect",
				Choices:     choices,
				Required:    false,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "Operation name for a windowed average",
				Required:    false,
			},
		},
	}
}

func (c *PerfCommand) RunSlash(ctx context.Context, inv *cmd.Invocation) error {
	sc, ok := inv.Data.(*SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	var category storage.MetricCategory
	var name string
	for _, opt := range sc.Event.ApplicationCommandData().Options {
		switch opt.Name {
		case "category":
			category = storage.MetricCategory(opt.StringValue())
		case "name":
			name = opt.StringValue()
		}
	}

	// A concrete operation name asks for its windowed average; otherwise show
	// the slowest recorded operations.
	if name != "" {
		if category == "" {
			category = storage.MetricCommand
		}
		window := time.Duration(c.env.Config.AnalyticsDays) * 24 * time.Hour
		avg, found := c.env.Analytics.AveragePerformance(category, name, window)
		if !found {
			return respondEphemeral(sc, fmt.Sprintf("No %s data for `%s` in the last %d day(s).", category, name, c.env.Config.AnalyticsDays))
		}
		return respondEphemeral(sc, fmt.Sprintf("`%s` (%s) averaged %v over the last %d day(s).", name, category, avg.Round(time.Millisecond), c.env.Config.AnalyticsDays))
	}

	slowest := c.env.Analytics.SlowestMetrics(category, 10)
	if len(slowest) == 0 {
		return respondEphemeral(sc, "No performance records yet.")
	}

	var sb strings.Builder
	for _, rec := range slowest {
		mark := "✅"
		if !rec.Success {
			mark = "❌"
		}
		sb.WriteString(fmt.Sprintf("%s `%s/%s` — %v\n", mark, rec.Category, rec.Name, rec.Duration().Round(time.Millisecond)))
	}
	return respondEmbedEphemeral(sc, &discordgo.MessageEmbed{
		Title:       "Slowest operations",
		Description: sb.String(),
	})
}
