package ports

import "github.com/disgoorg/snowflake/v2"

// VoiceStateProvider answers voice-topology questions the player needs
// when deciding whether to connect or tear down.
type VoiceStateProvider interface {
	// GetUserVoiceChannel returns the channel the user is connected to in
	// the guild, or false when the user is not in voice.
	GetUserVoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, bool)

	// CountChannelMembers returns how many users, excluding bots, are in
	// the given voice channel.
	CountChannelMembers(guildID, channelID snowflake.ID) int
}
