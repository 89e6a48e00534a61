package discord

import "github.com/bwmarrin/discordgo"

// replier abstracts the reply surface of one trigger so the dispatch pipeline
// does not care which protocol it is answering.
type replier interface {
	// Reply sends a message visible in the triggering channel.
	Reply(content string) error
	// ReplyPrivate sends a message visible only to the actor where the
	// protocol supports it; text replies fall back to the channel.
	ReplyPrivate(content string) error
}

// textReplier answers message-triggered commands in their channel. Text has
// no ephemeral surface, so both methods post to the channel.
type textReplier struct {
	s         *discordgo.Session
	channelID string
}

func (r *textReplier) Reply(content string) error {
	_, err := r.s.ChannelMessageSend(r.channelID, content)
	return err
}

func (r *textReplier) ReplyPrivate(content string) error {
	return r.Reply(content)
}

// slashReplier answers interactions. An interaction accepts exactly one
// initial response; once that was sent — by this replier or by the command
// body itself — further messages go out as follow-ups.
type slashReplier struct {
	s     *discordgo.Session
	i     *discordgo.InteractionCreate
	acked bool
}

func (r *slashReplier) Reply(content string) error {
	return r.send(content, 0)
}

func (r *slashReplier) ReplyPrivate(content string) error {
	return r.send(content, discordgo.MessageFlagsEphemeral)
}

func (r *slashReplier) send(content string, flags discordgo.MessageFlags) error {
	if !r.acked {
		err := r.s.InteractionRespond(r.i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Content: content, Flags: flags},
		})
		if err == nil {
			r.acked = true
			return nil
		}
		// The initial response is already taken, likely by the command body;
		// fall through to a follow-up.
	}
	r.acked = true
	_, err := r.s.FollowupMessageCreate(r.i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   flags,
	})
	return err
}
