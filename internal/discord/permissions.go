package discord

import (
	"github.com/bwmarrin/discordgo"

	"server-warden/internal/config"
)

// IsAdministrator reports whether a user has administrative capability for
// gating purposes: the configured developer, the guild owner, or a member
// holding a role with the Administrator permission. Outside a guild nobody is
// an administrator except the developer.
func IsAdministrator(s *discordgo.Session, guildID, userID string, cfg *config.Config) bool {
	if config.IsDeveloper(cfg, userID) {
		return true
	}
	if guildID == "" {
		return false
	}

	guild, err := s.State.Guild(guildID)
	if err != nil || guild == nil {
		guild, err = s.Guild(guildID)
		if err != nil || guild == nil {
			return false
		}
	}
	if userID == guild.OwnerID {
		return true
	}

	member, err := s.State.Member(guildID, userID)
	if err != nil || member == nil {
		member, err = s.GuildMember(guildID, userID)
		if err != nil || member == nil {
			return false
		}
	}
	for _, roleID := range member.Roles {
		if role, _ := s.State.Role(guildID, roleID); role != nil {
			if role.Permissions&discordgo.PermissionAdministrator != 0 {
				return true
			}
		}
	}
	return false
}
