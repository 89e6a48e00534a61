// Package command contains the bot's command set. Commands implement the
// pkg/cmd contract plus whichever runner capabilities they support; the
// discord adapter resolves, gates, and invokes them.
package command

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"server-warden/internal/analytics"
	"server-warden/internal/config"
	"server-warden/internal/storage"
	"server-warden/pkg/cmd"
)

// Env bundles the collaborators handed to every command.
type Env struct {
	Config    *config.Config
	Storage   *storage.Storage
	Analytics *analytics.Aggregator
	Registry  *cmd.Registry
	StartedAt time.Time
}

// TextContext is the invocation payload for text-triggered commands.
type TextContext struct {
	Session *discordgo.Session
	Event   *discordgo.MessageCreate
	Env     *Env
}

// SlashContext is the invocation payload for slash-triggered commands.
type SlashContext struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Env     *Env
}

// SlashProvider is implemented by commands that declare a slash command to
// the platform.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// All returns the full command set wired to env, in registration order.
func All(env *Env) []cmd.Command {
	return []cmd.Command{
		&PingCommand{env: env},
		&HelpCommand{env: env},
		&RollCommand{env: env},
		&UptimeCommand{env: env},
		&StatsCommand{env: env},
		&PerfCommand{env: env},
		&GroupsCommand{env: env},
	}
}
