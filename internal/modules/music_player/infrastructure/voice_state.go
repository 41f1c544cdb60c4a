package infrastructure

import (
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/telinha/telinha/internal/modules/music_player/application/ports"
)

// VoiceStateProvider answers voice-topology questions from the session's
// state cache. The bot's own user is read lazily from the cache, since
// it is only populated once the gateway sends READY.
type VoiceStateProvider struct {
	session *discordgo.Session
}

// NewVoiceStateProvider creates a new VoiceStateProvider.
func NewVoiceStateProvider(session *discordgo.Session) *VoiceStateProvider {
	return &VoiceStateProvider{session: session}
}

// GetUserVoiceChannel returns the voice channel the user is connected to
// in the guild, or false when the user is not in voice.
func (v *VoiceStateProvider) GetUserVoiceChannel(
	guildID, userID snowflake.ID,
) (snowflake.ID, bool) {
	guild, err := v.session.State.Guild(guildID.String())
	if err != nil {
		return 0, false
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID.String() && vs.ChannelID != "" {
			channelID, err := snowflake.Parse(vs.ChannelID)
			if err != nil {
				return 0, false
			}
			return channelID, true
		}
	}

	return 0, false
}

// CountChannelMembers returns the number of non-bot users in the given
// voice channel. The bot's own presence is never counted.
func (v *VoiceStateProvider) CountChannelMembers(guildID, channelID snowflake.ID) int {
	guild, err := v.session.State.Guild(guildID.String())
	if err != nil {
		return 0
	}

	botID := ""
	if user := v.session.State.User; user != nil {
		botID = user.ID
	}

	count := 0
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID != channelID.String() {
			continue
		}
		if botID != "" && vs.UserID == botID {
			continue
		}
		if member, err := v.session.State.Member(guildID.String(), vs.UserID); err == nil && member.User != nil && member.User.Bot {
			continue
		}
		count++
	}
	return count
}

// Ensure VoiceStateProvider implements ports.VoiceStateProvider.
var _ ports.VoiceStateProvider = (*VoiceStateProvider)(nil)
