package music_player

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/telinha/telinha/internal/bot"
)

// Modules are initialized before the gateway connection is opened, so
// the session carries no bot user yet.
func TestInit_BeforeGatewayReady(t *testing.T) {
	session, err := discordgo.New("Bot test-token")
	if err != nil {
		t.Fatal(err)
	}
	if session.State.User != nil {
		t.Fatal("fresh session unexpectedly carries a bot user")
	}

	dir := t.TempDir()
	m := &MusicPlayerModule{config: &Config{
		MediaCacheDir:     filepath.Join(dir, "cache"),
		StatusDBPath:      filepath.Join(dir, "status.db"),
		DownloadThreshold: 15 * time.Minute,
	}}
	t.Cleanup(func() { _ = m.Shutdown() })

	if err := m.Init(bot.ModuleDependencies{Session: session}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
}
