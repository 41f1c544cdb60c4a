package ports

import "github.com/disgoorg/snowflake/v2"

// StatusMessageRecord locates a guild's persisted now-playing message so
// it can be cleaned up after a restart.
type StatusMessageRecord struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	MessageID snowflake.ID
}

// StatusMessageStore persists now-playing message locations across
// process restarts.
type StatusMessageStore interface {
	Get(guildID snowflake.ID) (StatusMessageRecord, bool, error)
	Put(record StatusMessageRecord) error
	Delete(guildID snowflake.ID) error

	// All returns every persisted record, used at startup to delete
	// status messages orphaned by an unclean shutdown.
	All() ([]StatusMessageRecord, error)

	Close() error
}
