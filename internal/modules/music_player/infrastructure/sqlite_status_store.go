package infrastructure

import (
	"database/sql"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/telinha/telinha/internal/modules/music_player/application/ports"
)

// SqliteStatusStore persists now-playing message locations in SQLite so a
// restarted process can delete messages left behind by a crash.
type SqliteStatusStore struct {
	db *sql.DB
}

// NewSqliteStatusStore opens (creating if necessary) the store at path.
func NewSqliteStatusStore(path string) (*SqliteStatusStore, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_journal_mode=WAL&_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open status store: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragma: %w", err)
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS playback_status (
		guild_id   TEXT PRIMARY KEY,
		channel_id TEXT NOT NULL,
		message_id TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SqliteStatusStore{db: db}, nil
}

// Get returns the persisted record for a guild, if any.
func (s *SqliteStatusStore) Get(guildID snowflake.ID) (ports.StatusMessageRecord, bool, error) {
	var channelID, messageID string
	err := s.db.QueryRow(
		"SELECT channel_id, message_id FROM playback_status WHERE guild_id = ?",
		guildID.String(),
	).Scan(&channelID, &messageID)
	if err == sql.ErrNoRows {
		return ports.StatusMessageRecord{}, false, nil
	}
	if err != nil {
		return ports.StatusMessageRecord{}, false, err
	}

	record, err := parseRecord(guildID.String(), channelID, messageID)
	if err != nil {
		return ports.StatusMessageRecord{}, false, err
	}
	return record, true, nil
}

// Put stores or replaces the record for a guild.
func (s *SqliteStatusStore) Put(record ports.StatusMessageRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO playback_status (guild_id, channel_id, message_id) VALUES (?, ?, ?)
		 ON CONFLICT(guild_id) DO UPDATE SET channel_id = excluded.channel_id, message_id = excluded.message_id`,
		record.GuildID.String(), record.ChannelID.String(), record.MessageID.String(),
	)
	return err
}

// Delete removes the record for a guild. Deleting a missing record is not
// an error.
func (s *SqliteStatusStore) Delete(guildID snowflake.ID) error {
	_, err := s.db.Exec("DELETE FROM playback_status WHERE guild_id = ?", guildID.String())
	return err
}

// All returns every persisted record.
func (s *SqliteStatusStore) All() ([]ports.StatusMessageRecord, error) {
	rows, err := s.db.Query("SELECT guild_id, channel_id, message_id FROM playback_status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ports.StatusMessageRecord
	for rows.Next() {
		var guildID, channelID, messageID string
		if err := rows.Scan(&guildID, &channelID, &messageID); err != nil {
			return nil, err
		}
		record, err := parseRecord(guildID, channelID, messageID)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *SqliteStatusStore) Close() error {
	return s.db.Close()
}

func parseRecord(guildID, channelID, messageID string) (ports.StatusMessageRecord, error) {
	gid, err := snowflake.Parse(guildID)
	if err != nil {
		return ports.StatusMessageRecord{}, fmt.Errorf("invalid guild id %q: %w", guildID, err)
	}
	cid, err := snowflake.Parse(channelID)
	if err != nil {
		return ports.StatusMessageRecord{}, fmt.Errorf("invalid channel id %q: %w", channelID, err)
	}
	mid, err := snowflake.Parse(messageID)
	if err != nil {
		return ports.StatusMessageRecord{}, fmt.Errorf("invalid message id %q: %w", messageID, err)
	}
	return ports.StatusMessageRecord{GuildID: gid, ChannelID: cid, MessageID: mid}, nil
}

// Ensure SqliteStatusStore implements ports.StatusMessageStore.
var _ ports.StatusMessageStore = (*SqliteStatusStore)(nil)
