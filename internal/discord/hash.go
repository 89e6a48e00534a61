package discord

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bwmarrin/discordgo"
)

// --- Declaration hashing ---

// hashDeclarations returns a deterministic SHA-1 over the stable fields of a
// declaration set. Used to skip a bulk overwrite when nothing has changed.
func hashDeclarations(defs []*discordgo.ApplicationCommand) string {
	stable := make([]map[string]interface{}, 0, len(defs))
	for _, d := range defs {
		entry := map[string]interface{}{
			"name":        d.Name,
			"description": d.Description,
			"type":        d.Type,
		}
		if len(d.Options) > 0 {
			entry["options"] = normalizeOptions(d.Options)
		}
		stable = append(stable, entry)
	}
	sort.Slice(stable, func(i, j int) bool {
		return stable[i]["name"].(string) < stable[j]["name"].(string)
	})

	data, _ := json.Marshal(stable)
	sum := sha1.Sum(data)
	return fmt.Sprintf("%x", sum)
}

func normalizeOptions(opts []*discordgo.ApplicationCommandOption) []map[string]interface{} {
	out := make([]map[string]interface{}, len(opts))
	for i, o := range opts {
		entry := map[string]interface{}{
			"name":        o.Name,
			"description": o.Description,
			"type":        o.Type,
			"required":    o.Required,
		}
		if len(o.Choices) > 0 {
			choices := make([]map[string]interface{}, len(o.Choices))
			for j, ch := range o.Choices {
				choices[j] = map[string]interface{}{"name": ch.Name, "value": ch.Value}
			}
			entry["choices"] = choices
		}
		if len(o.Options) > 0 {
			entry["options"] = normalizeOptions(o.Options)
		}
		out[i] = entry
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i]["name"].(string) < out[j]["name"].(string)
	})
	return out
}

// --- Declaration hash cache ---

func declarationHashPath(guildID string) string {
	return filepath.Join("data", "commands", guildID+".json")
}

func loadDeclarationHash(guildID string) string {
	cached := make(map[string]string)
	if data, err := os.ReadFile(declarationHashPath(guildID)); err == nil {
		_ = json.Unmarshal(data, &cached)
	}
	return cached["declarations"]
}

func saveDeclarationHash(guildID, hash string) {
	path := declarationHashPath(guildID)
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	if data, err := json.MarshalIndent(map[string]string{"declarations": hash}, "", "  "); err == nil {
		_ = os.WriteFile(path, data, 0644)
	}
}
