package command

import (
	"context"
	"fmt"
	"time"

	"server-warden/pkg/cmd"
	"server-warden/pkg/util"
)

// UptimeCommand is text-only; it declares no slash form.
type UptimeCommand struct {
	env *Env
}

func (c *UptimeCommand) Name() string            { return "uptime" }
func (c *UptimeCommand) Description() string     { return "Show how long the bot has been running" }
func (c *UptimeCommand) Aliases() []string       { return []string{"up"} }
func (c *UptimeCommand) Usage() string           { return "uptime" }
func (c *UptimeCommand) Group() string           { return "core" }
func (c *UptimeCommand) Category() string        { return "🕯️ Information" }
func (c *UptimeCommand) AdminOnly() bool         { return false }
func (c *UptimeCommand) GuildOnly() bool         { return false }
func (c *UptimeCommand) Cooldown() time.Duration { return 0 }

func (c *UptimeCommand) RunText(ctx context.Context, inv *cmd.Invocation) error {
	tc, ok := inv.Data.(*TextContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}
	return message(tc, fmt.Sprintf("Up for %s.", util.HumanDuration(time.Since(c.env.StartedAt))))
}
