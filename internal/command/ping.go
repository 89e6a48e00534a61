package command

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"server-warden/pkg/cmd"
)

type PingCommand struct {
	env *Env
}

func (c *PingCommand) Name() string            { return "ping" }
func (c *PingCommand) Description() string     { return "Check bot latency" }
func (c *PingCommand) Aliases() []string       { return []string{} }
func (c *PingCommand) Usage() string           { return "ping" }
func (c *PingCommand) Group() string           { return "core" }
func (c *PingCommand) Category() string        { return "🕯️ Information" }
func (c *PingCommand) AdminOnly() bool         { return false }
func (c *PingCommand) GuildOnly() bool         { return false }
func (c *PingCommand) Cooldown() time.Duration { return 0 }

func (c *PingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *PingCommand) RunText(ctx context.Context, inv *cmd.Invocation) error {
	tc, ok := inv.Data.(*TextContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}
	return message(tc, c.pong(tc.Session))
}

func (c *PingCommand) RunSlash(ctx context.Context, inv *cmd.Invocation) error {
	sc, ok := inv.Data.(*SlashContext)
	if !ok {
		return fmt.Errorf("wrong context type")
	}
	return respond(sc, c.pong(sc.Session))
}

func (c *PingCommand) pong(s *discordgo.Session) string {
	return fmt.Sprintf("🏓 Pong! %dms", s.HeartbeatLatency().Milliseconds())
}
