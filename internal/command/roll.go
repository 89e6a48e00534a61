package command

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"server-warden/pkg/cmd"
)

const (
	maxDice  = 20
	maxSides = 1000
)

type RollCommand struct {
	env *Env
}

func (c *RollCommand) Name() string            { return "roll" }
func (c *RollCommand) Description() string     { return "Roll dice, e.g. 2d6" }
func (c *RollCommand) Aliases() []string       { return []string{"dice"} }
func (c *RollCommand) Usage() string           { return "roll [NdM]" }
func (c *RollCommand) Group() string           { return "fun" }
func (c *RollCommand) Category() string        { return "🎲 Gameplay" }
func (c *RollCommand) AdminOnly() bool         { return false }
func (c *RollCommand) GuildOnly() bool         { return false }
func (c *RollCommand) Cooldown() time.Duration { return 10 * time.Second }

func (c *RollCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "dice",
				Description: "Dice to roll, like 2d6",
				Required:    false,
			},
		},
	}
}

func (c *RollCommand) RunText(ctx context.Context, inv *cmd.Invocation) error {
	tc, ok := inv.Data.(*TextContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	spec := "1d6"
	if len(inv.Args) > 0 {
		spec = inv.Args[0]
	}
	result, err := c.roll(spec)
	if err != nil {
		return message(tc, err.Error())
	}
	return message(tc, result)
}

func (c *RollCommand) RunSlash(ctx context.Context, inv *cmd.Invocation) error {
	sc, ok := inv.Data.(*SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}

	spec := "1d6"
	if len(inv.Args) > 0 {
		spec = inv.Args[0]
	}
	result, err := c.roll(spec)
	if err != nil {
		return respondEphemeral(sc, err.Error())
	}
	return respond(sc, result)
}

// roll parses an NdM spec and rolls. Bad input is answered, not errored: a
// typo in dice notation is not a handler fault.
func (c *RollCommand) roll(spec string) (string, error) {
	count, sides, ok := parseDice(spec)
	if !ok {
		return "", fmt.Errorf("I can't roll `%s`. Try something like `2d6`.", spec)
	}

	total := 0
	rolls := make([]string, count)
	for i := 0; i < count; i++ {
		v := rand.Intn(sides) + 1
		total += v
		rolls[i] = strconv.Itoa(v)
	}
	if count == 1 {
		return fmt.Sprintf("🎲 You rolled %d.", total), nil
	}
	return fmt.Sprintf("🎲 You rolled %s — total %d.", strings.Join(rolls, ", "), total), nil
}

func parseDice(spec string) (count, sides int, ok bool) {
	parts := strings.SplitN(strings.ToLower(spec), "d", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	if parts[0] == "" {
		parts[0] = "1"
	}

	count, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	sides, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	if count < 1 || count > maxDice || sides < 2 || sides > maxSides {
		return 0, 0, false
	}
	return count, sides, true
}
