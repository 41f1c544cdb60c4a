package usecases

import (
	"context"
	"strings"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/telinha/telinha/internal/modules/music_player/application/ports"
	"github.com/telinha/telinha/internal/modules/music_player/domain"
)

func newNotificationHandler(t *testing.T) (*NotificationEventHandler, *PlaybackService, *mockRepository, *mockNotifier, *mockStatusStore) {
	t.Helper()
	service, repo, _, _, _, _ := newTestService()
	notifier := &mockNotifier{}
	store := newMockStatusStore()
	handler := NewNotificationEventHandler(service, notifier, store, nil)
	return handler, service, repo, notifier, store
}

func TestNotificationHandler_PlaybackStartedSendsAndPersists(t *testing.T) {
	handler, service, repo, notifier, store := newNotificationHandler(t)
	state := repo.createConnectedState(testGuildID, testVoiceChannelID, testTextChannelID)
	track := mockTrack("a")
	state.SetCurrent(track)
	state.SetPhase(domain.PhasePlaying)

	handler.handlePlaybackStarted(context.Background(), domain.PlaybackStartedEvent{
		GuildID:               testGuildID,
		Track:                 track,
		NotificationChannelID: testTextChannelID,
	})

	if len(notifier.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(notifier.sent))
	}
	msg := service.NowPlayingMessage(testGuildID)
	if msg == nil {
		t.Fatal("now playing message not recorded on state")
	}
	if _, ok, _ := store.Get(testGuildID); !ok {
		t.Error("message location not persisted")
	}
	if msg.ChannelID != testTextChannelID {
		t.Errorf("recorded channel = %v, want %v", msg.ChannelID, testTextChannelID)
	}
}

func TestNotificationHandler_EditsInPlaceForSameChannel(t *testing.T) {
	handler, service, repo, notifier, _ := newNotificationHandler(t)
	state := repo.createConnectedState(testGuildID, testVoiceChannelID, testTextChannelID)
	track := mockTrack("a")
	state.SetCurrent(track)
	state.SetPhase(domain.PhasePlaying)
	state.SetNowPlayingMessage(testTextChannelID, snowflake.ID(42))

	handler.handlePlaybackStarted(context.Background(), domain.PlaybackStartedEvent{
		GuildID:               testGuildID,
		Track:                 track,
		NotificationChannelID: testTextChannelID,
	})

	if len(notifier.edited) != 1 || notifier.edited[0] != snowflake.ID(42) {
		t.Errorf("edited = %v, want [42]", notifier.edited)
	}
	if len(notifier.sent) != 0 {
		t.Error("posted a new message instead of editing in place")
	}
	if msg := service.NowPlayingMessage(testGuildID); msg == nil || msg.MessageID != snowflake.ID(42) {
		t.Error("recorded message changed despite in-place edit")
	}
}

func TestNotificationHandler_NewChannelSupersedesOldMessage(t *testing.T) {
	handler, _, repo, notifier, _ := newNotificationHandler(t)
	state := repo.createConnectedState(testGuildID, testVoiceChannelID, testTextChannelID)
	track := mockTrack("a")
	state.SetCurrent(track)
	state.SetPhase(domain.PhasePlaying)
	state.SetNowPlayingMessage(snowflake.ID(999), snowflake.ID(42))

	handler.handlePlaybackStarted(context.Background(), domain.PlaybackStartedEvent{
		GuildID:               testGuildID,
		Track:                 track,
		NotificationChannelID: testTextChannelID,
	})

	if len(notifier.deleted) != 1 || notifier.deleted[0] != snowflake.ID(42) {
		t.Errorf("deleted = %v, want the superseded message", notifier.deleted)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("sent %d messages, want 1 in the new channel", len(notifier.sent))
	}
}

func TestNotificationHandler_PlaybackFinishedDeletes(t *testing.T) {
	handler, _, _, notifier, store := newNotificationHandler(t)
	messageID := snowflake.ID(77)
	if err := store.Put(ports.StatusMessageRecord{
		GuildID:   testGuildID,
		ChannelID: testTextChannelID,
		MessageID: messageID,
	}); err != nil {
		t.Fatal(err)
	}

	handler.handlePlaybackFinished(context.Background(), domain.PlaybackFinishedEvent{
		GuildID:               testGuildID,
		NotificationChannelID: testTextChannelID,
		LastMessageID:         &messageID,
	})

	if len(notifier.deleted) != 1 || notifier.deleted[0] != messageID {
		t.Errorf("deleted = %v, want [%v]", notifier.deleted, messageID)
	}
	if _, ok, _ := store.Get(testGuildID); ok {
		t.Error("persisted record not removed")
	}
}

func TestNotificationHandler_FailedTrackSendsNotice(t *testing.T) {
	handler, _, _, notifier, _ := newNotificationHandler(t)
	track := mockTrack("a")

	handler.handleTrackFailed(context.Background(), domain.TrackFailedEvent{
		GuildID:               testGuildID,
		Track:                 track,
		NotificationChannelID: testTextChannelID,
	})

	if len(notifier.notices) != 1 {
		t.Fatalf("notices = %d, want 1", len(notifier.notices))
	}
	if !strings.Contains(notifier.notices[0], track.Title) {
		t.Errorf("notice %q does not name the dropped track", notifier.notices[0])
	}
}

func TestNotificationHandler_QueueDrainSendsNotice(t *testing.T) {
	handler, _, _, notifier, _ := newNotificationHandler(t)

	handler.handlePlaybackFinished(context.Background(), domain.PlaybackFinishedEvent{
		GuildID:               testGuildID,
		NotificationChannelID: testTextChannelID,
		Drained:               true,
	})
	if len(notifier.notices) != 1 {
		t.Fatalf("notices = %d, want 1 after a drain", len(notifier.notices))
	}

	// Teardown by user action stays silent.
	handler.handlePlaybackFinished(context.Background(), domain.PlaybackFinishedEvent{
		GuildID:               testGuildID,
		NotificationChannelID: testTextChannelID,
	})
	if len(notifier.notices) != 1 {
		t.Errorf("notices = %d, want no notice for a plain finish", len(notifier.notices))
	}
}

func TestNotificationHandler_CleanupOrphanedMessages(t *testing.T) {
	handler, _, _, notifier, store := newNotificationHandler(t)
	for i := 1; i <= 3; i++ {
		if err := store.Put(ports.StatusMessageRecord{
			GuildID:   snowflake.ID(i),
			ChannelID: testTextChannelID,
			MessageID: snowflake.ID(100 + i),
		}); err != nil {
			t.Fatal(err)
		}
	}

	handler.CleanupOrphanedMessages(context.Background())

	if len(notifier.deleted) != 3 {
		t.Errorf("deleted %d messages, want 3", len(notifier.deleted))
	}
	records, err := store.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("%d records remain after cleanup, want 0", len(records))
	}
}
