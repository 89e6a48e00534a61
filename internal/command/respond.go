package command

import "github.com/bwmarrin/discordgo"

// EmbedColor is the accent color used on every embed the bot sends.
const EmbedColor = 0x4a6fb0

// respond sends a public message response to an interaction.
func respond(sc *SlashContext, content string) error {
	return sc.Session.InteractionRespond(sc.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}

// respondEphemeral sends a message response visible only to the actor.
func respondEphemeral(sc *SlashContext, content string) error {
	return sc.Session.InteractionRespond(sc.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// respondEmbedEphemeral sends an embed response visible only to the actor.
func respondEmbedEphemeral(sc *SlashContext, embed *discordgo.MessageEmbed) error {
	embed.Color = EmbedColor
	return sc.Session.InteractionRespond(sc.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags:  discordgo.MessageFlagsEphemeral,
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

// message sends a plain text message to the triggering channel.
func message(tc *TextContext, content string) error {
	_, err := tc.Session.ChannelMessageSend(tc.Event.ChannelID, content)
	return err
}
