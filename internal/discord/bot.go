// Package discord is the transport adapter: it owns the gateway session and
// turns inbound messages and interactions into command dispatches.
package discord

import (
	"context"
	"fmt"
	"log"
	"slices"

	"github.com/bwmarrin/discordgo"

	"server-warden/internal/command"
	"server-warden/internal/config"
	"server-warden/internal/cooldown"
	"server-warden/internal/instrument"
	"server-warden/internal/storage"
	"server-warden/pkg/cmd"
)

// dispatchStore is the slice of the persistence collaborator the dispatcher
// itself touches. Tests substitute an in-memory fake.
type dispatchStore interface {
	InsertUsage(rec storage.UsageRecord) error
	IsGroupDisabled(guildID, group string) (bool, error)
}

// Bot is the Discord bot.
type Bot struct {
	dg        *discordgo.Session
	cfg       *config.Config
	store     dispatchStore
	registry  *cmd.Registry
	cooldowns *cooldown.Store
	measure   *instrument.Measurer
	env       *command.Env
	mws       []cmd.Middleware
}

// Option configures a Bot.
type Option func(*Bot)

// WithMiddleware installs runner middleware applied around every command
// execution, outermost first.
func WithMiddleware(mws ...cmd.Middleware) Option {
	return func(b *Bot) {
		b.mws = append(b.mws, mws...)
	}
}

// NewBot wires a bot from its collaborators. Run must be called to connect.
func NewBot(cfg *config.Config, store *storage.Storage, registry *cmd.Registry, cooldowns *cooldown.Store, measure *instrument.Measurer, env *command.Env, opts ...Option) *Bot {
	b := &Bot{
		cfg:       cfg,
		store:     store,
		registry:  registry,
		cooldowns: cooldowns,
		measure:   measure,
		env:       env,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run opens the gateway session and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg

	dg.Identify.Intents = discordgo.IntentsAll
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onInteractionCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	log.Println("[INFO] Shutdown signal received. Closing Discord session...")
	return nil
}

// onReady leaves blacklisted guilds and syncs slash declarations everywhere
// else.
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	for _, g := range r.Guilds {
		if b.isGuildBlacklisted(g.ID) {
			log.Printf("[INFO] Leaving blacklisted guild: %s", g.ID)
			if err := s.GuildLeave(g.ID); err != nil {
				log.Printf("[ERR] Failed to leave guild %s: %v", g.ID, err)
			}
			continue
		}

		if b.cfg.SyncCommands {
			if err := b.syncCommands(g.ID); err != nil {
				log.Printf("[ERR] Failed to sync commands for guild %s: %v", g.ID, err)
			}
		} else {
			log.Printf("[INFO] Command sync skipped for guild %s", g.ID)
		}
	}

	log.Printf("[INFO] ✅ Bot %s is running with %d commands.", s.State.User.Username, len(b.registry.All()))
}

// onGuildCreate handles the bot joining a new guild.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("[INFO] Bot added to guild: %s (%s)", g.Guild.ID, g.Guild.Name)

	if b.isGuildBlacklisted(g.Guild.ID) {
		log.Printf("[INFO] Leaving blacklisted guild: %s (%s)", g.Guild.ID, g.Guild.Name)
		if err := s.GuildLeave(g.Guild.ID); err != nil {
			log.Printf("[ERR] Failed to leave guild %s: %v", g.Guild.ID, err)
		}
		return
	}

	if b.cfg.SyncCommands {
		if err := b.syncCommands(g.Guild.ID); err != nil {
			log.Printf("[ERR] Failed to sync commands for new guild %s: %v", g.Guild.ID, err)
		}
	}
}

func (b *Bot) isGuildBlacklisted(guildID string) bool {
	return slices.Contains(b.cfg.GuildBlacklist, guildID)
}

// appID returns the bot's application ID, fetching from Discord if State has
// not been populated yet.
func (b *Bot) appID() (string, error) {
	if id := b.dg.State.User.ID; id != "" {
		return id, nil
	}
	u, err := b.dg.User("@me")
	if err != nil {
		return "", fmt.Errorf("failed to fetch bot user: %w", err)
	}
	return u.ID, nil
}
