package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"server-warden/internal/command"
	"server-warden/internal/storage"
	"server-warden/pkg/cmd"
	"server-warden/pkg/util"
)

const genericFailureMsg = "Something went wrong running that command. The error has been logged."

// onMessageCreate feeds prefixed messages into the text dispatch path.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}
	if !strings.HasPrefix(m.Content, b.cfg.CommandPrefix) {
		return
	}

	r := &textReplier{s: s, channelID: m.ChannelID}
	isAdmin := IsAdministrator(s, m.GuildID, m.Author.ID, b.cfg)
	data := &command.TextContext{Session: s, Event: m, Env: b.env}
	b.dispatchText(context.Background(), m.Content, m.Author.ID, m.GuildID, isAdmin, r, data)
}

// onInteractionCreate feeds application command interactions into the slash
// dispatch path.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	user := interactionUser(i)
	r := &slashReplier{s: s, i: i}
	isAdmin := IsAdministrator(s, i.GuildID, user.ID, b.cfg)
	data := &command.SlashContext{Session: s, Event: i, Env: b.env}
	appData := i.ApplicationCommandData()
	b.dispatchSlash(context.Background(), appData.Name, optionArgs(appData.Options), user.ID, i.GuildID, isAdmin, r, data)
}

// dispatchText tokenizes a prefixed message, resolves the command, and runs
// it through the gate pipeline. Unknown keys are a silent no-op: stray text
// that happens to start with the prefix is common and must not be noisy.
func (b *Bot) dispatchText(ctx context.Context, content, userID, guildID string, isAdmin bool, r replier, data interface{}) {
	rest := strings.TrimPrefix(content, b.cfg.CommandPrefix)
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return
	}

	c, ok := b.registry.Resolve(fields[0])
	if !ok {
		return
	}
	if b.groupDisabled(guildID, c) {
		return
	}
	if !b.passGates(c, userID, guildID, isAdmin, r) {
		return
	}

	tr, ok := c.(cmd.TextRunner)
	if !ok {
		b.send(r.Reply, "That command is not available as a text command. Use the slash version instead.")
		return
	}

	inv := &cmd.Invocation{
		Trigger: cmd.TriggerText,
		Args:    fields[1:],
		Prefix:  b.cfg.CommandPrefix,
		UserID:  userID,
		GuildID: guildID,
		Data:    data,
	}
	b.execute(ctx, c, inv, tr.RunText, r)
}

// dispatchSlash resolves a structured interaction and runs it through the
// same gate pipeline as the text path, cooldown included: a slash trigger is
// an explicit registered intent, so an unknown name gets a visible-only-to-
// actor reply instead of silence.
func (b *Bot) dispatchSlash(ctx context.Context, name string, args []string, userID, guildID string, isAdmin bool, r replier, data interface{}) {
	c, ok := b.registry.Resolve(name)
	if !ok {
		log.Printf("[WARN] Unknown slash command: %s", name)
		b.send(r.ReplyPrivate, "That command is unavailable.")
		return
	}
	if b.groupDisabled(guildID, c) {
		b.send(r.ReplyPrivate, "That command group is disabled on this server.")
		return
	}
	if !b.passGates(c, userID, guildID, isAdmin, r) {
		return
	}

	sr, ok := c.(cmd.SlashRunner)
	if !ok {
		b.send(r.ReplyPrivate, fmt.Sprintf("That command only works as `%s%s`.", b.cfg.CommandPrefix, c.Name()))
		return
	}

	inv := &cmd.Invocation{
		Trigger: cmd.TriggerSlash,
		Args:    args,
		UserID:  userID,
		GuildID: guildID,
		Data:    data,
	}
	b.execute(ctx, c, inv, sr.RunSlash, r)
}

// passGates evaluates guild-only, admin-only, and cooldown in that order,
// short-circuiting on the first failure with exactly one reply. The cooldown
// check is also the arm: by the time it reports ready, the window is taken.
func (b *Bot) passGates(c cmd.Command, userID, guildID string, isAdmin bool, r replier) bool {
	if c.GuildOnly() && guildID == "" {
		log.Printf("[DEBUG] Guild-only command %q rejected outside a guild for user %s", c.Name(), userID)
		b.send(r.ReplyPrivate, "That command only works inside a server.")
		return false
	}
	if c.AdminOnly() && !isAdmin {
		log.Printf("[DEBUG] Admin-only command %q rejected for user %s", c.Name(), userID)
		b.send(r.ReplyPrivate, "You need administrator permission to use that command.")
		return false
	}
	if remaining, ready := b.cooldowns.CheckAndArm(userID, c.Name(), c.Cooldown()); !ready {
		log.Printf("[DEBUG] Command %q on cooldown for user %s (%v left)", c.Name(), userID, remaining)
		b.send(r.ReplyPrivate, fmt.Sprintf("Not so fast. Try `%s` again in %s.", c.Name(), util.HumanDuration(remaining)))
		return false
	}
	return true
}

// groupDisabled reports whether the command's group is switched off for the
// guild. Check failures fail open: a broken settings read must not take
// commands down.
func (b *Bot) groupDisabled(guildID string, c cmd.Command) bool {
	if guildID == "" || c.Group() == "" {
		return false
	}
	disabled, err := b.store.IsGroupDisabled(guildID, c.Group())
	if err != nil {
		log.Printf("[WARN] Failed to check group state for %q: %v", c.Name(), err)
		return false
	}
	return disabled
}

// execute runs the command body behind the installed middleware and the
// instrumentation wrapper, records a usage fact either way, and turns any
// failure into a single generic reply. Handler errors never propagate past
// here, and a panicking handler must not take the gateway goroutine down.
func (b *Bot) execute(ctx context.Context, c cmd.Command, inv *cmd.Invocation, run cmd.Runner, r replier) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[ERR] Command %q panicked: %v", c.Name(), rec)
			b.recordUsage(c, inv, 0, false, fmt.Errorf("panic: %v", rec))
			b.send(r.ReplyPrivate, genericFailureMsg)
		}
	}()

	runner := cmd.Chain(c, run, b.mws...)
	elapsed, err := b.measure.Measure(ctx, storage.MetricCommand, c.Name(), func(ctx context.Context) error {
		return runner(ctx, inv)
	})

	b.recordUsage(c, inv, elapsed, true, err)
	if err != nil {
		log.Printf("[ERR] Command %q failed for user %s: %v", c.Name(), inv.UserID, err)
		b.send(r.ReplyPrivate, genericFailureMsg)
	}
}

// recordUsage persists one usage fact. Persistence failures are logged and
// swallowed: telemetry loss never surfaces to the actor.
func (b *Bot) recordUsage(c cmd.Command, inv *cmd.Invocation, elapsed time.Duration, hasElapsed bool, runErr error) {
	rec := storage.UsageRecord{
		GuildID:   inv.GuildID,
		UserID:    inv.UserID,
		Command:   c.Name(),
		Trigger:   storage.Trigger(inv.Trigger),
		Success:   runErr == nil,
		CreatedAt: time.Now(),
	}
	if runErr != nil {
		rec.Error = runErr.Error()
	}
	if hasElapsed {
		ms := elapsed.Milliseconds()
		rec.DurationMS = &ms
	}
	if err := b.store.InsertUsage(rec); err != nil {
		log.Printf("[WARN] Failed to record usage of %q: %v", c.Name(), err)
	}
}

// send delivers a single dispatcher reply, logging delivery failures.
func (b *Bot) send(deliver func(string) error, content string) {
	if err := deliver(content); err != nil {
		log.Printf("[WARN] Failed to deliver reply: %v", err)
	}
}

// optionArgs flattens interaction option values into positional args so the
// invocation looks the same on both trigger paths.
func optionArgs(opts []*discordgo.ApplicationCommandInteractionDataOption) []string {
	args := make([]string, 0, len(opts))
	for _, o := range opts {
		args = append(args, fmt.Sprint(o.Value))
	}
	return args
}

// interactionUser resolves the acting user from an interaction, which carries
// a Member inside guilds and a bare User in direct messages.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	if i.User != nil {
		return i.User
	}
	return &discordgo.User{ID: "unknown", Username: "Unknown"}
}
