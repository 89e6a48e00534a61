// Package cmd provides a transport-agnostic command core: a command is
// something with a name, gating metadata, and one or more runner capabilities.
// How it is registered and dispatched (Discord slash, text prefix, CLI) is
// defined by adapters that wrap this.
package cmd

import (
	"context"
	"time"
)

// Trigger identifies which protocol delivered an invocation.
type Trigger string

const (
	TriggerText  Trigger = "text"
	TriggerSlash Trigger = "slash"
)

// Command is the universal contract: identity plus gating metadata. Execution
// capabilities stay in separate interfaces (TextRunner, SlashRunner) so an
// adapter can tell at dispatch time which triggers a command supports instead
// of probing nil handler fields at run time.
type Command interface {
	Name() string
	Description() string
	Aliases() []string
	Usage() string
	Group() string
	Category() string
	AdminOnly() bool
	GuildOnly() bool
	Cooldown() time.Duration
}

// Invocation carries one command call: the trigger protocol, tokenized
// arguments, actor and guild identity, and an opaque payload. Adapters set
// Data to their own context (e.g. session + event). One Invocation is built
// per dispatch and discarded after it.
type Invocation struct {
	Trigger Trigger
	Args    []string
	Prefix  string
	UserID  string
	GuildID string
	Data    interface{}
}

// TextRunner is implemented by commands that can run from a prefixed message.
type TextRunner interface {
	Command
	RunText(ctx context.Context, inv *Invocation) error
}

// SlashRunner is implemented by commands that can run from an application
// command interaction.
type SlashRunner interface {
	Command
	RunSlash(ctx context.Context, inv *Invocation) error
}
