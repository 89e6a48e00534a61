package discord

import (
	"context"
	"log"

	"github.com/bwmarrin/discordgo"

	"server-warden/internal/command"
	"server-warden/internal/storage"
)

// Declarations builds the slash declarations to publish: one per canonical
// registry entry that provides a definition, never one per alias.
func (b *Bot) Declarations() []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, c := range b.registry.Canonical() {
		provider, ok := c.(command.SlashProvider)
		if !ok {
			continue
		}
		def := provider.SlashDefinition()
		if def == nil {
			continue
		}
		if def.Type == 0 {
			def.Type = discordgo.ChatApplicationCommand
		}
		defs = append(defs, def)
	}
	return defs
}

// syncCommands publishes the declarations for a guild as a full replace.
// The bulk overwrite is skipped when the cached declaration hash says nothing
// changed, so a restart does not hammer the command endpoint.
func (b *Bot) syncCommands(guildID string) error {
	appID, err := b.appID()
	if err != nil {
		return err
	}

	defs := b.Declarations()
	hash := hashDeclarations(defs)
	if loadDeclarationHash(guildID) == hash {
		log.Printf("[DEBUG] [%s] Declarations unchanged, sync skipped", guildID)
		return nil
	}

	log.Printf("[INFO] [%s] Publishing %d command declaration(s)...", guildID, len(defs))
	_, err = b.measure.Measure(context.Background(), storage.MetricOutbound, "command_sync", func(context.Context) error {
		_, err := b.dg.ApplicationCommandBulkOverwrite(appID, guildID, defs)
		return err
	})
	if err != nil {
		return err
	}

	saveDeclarationHash(guildID, hash)
	log.Printf("[DONE] [%s] Declarations published", guildID)
	return nil
}
