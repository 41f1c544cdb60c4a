package usecases

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/telinha/telinha/internal/modules/music_player/application/ports"
	"github.com/telinha/telinha/internal/modules/music_player/domain"
)

func mockTrack(id string) *domain.Track {
	return &domain.Track{
		ID:          domain.TrackID(id),
		Title:       "Track " + id,
		Artist:      "Artist",
		Duration:    3 * time.Minute,
		SourceURL:   "https://example.com/" + id,
		RequesterID: snowflake.ID(123),
	}
}

// mockTrackWithFile creates a track owning a real temp file so release
// behavior can be observed on the filesystem.
func mockTrackWithFile(t *testing.T, id string) (*domain.Track, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), id+".opus")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	track := mockTrack(id)
	track.Media = domain.NewMediaFile(path)
	return track, path
}

func fileExists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Stat(path)
	if err == nil {
		return true
	}
	if os.IsNotExist(err) {
		return false
	}
	t.Fatal(err)
	return false
}

type mockRepository struct {
	states  map[snowflake.ID]*domain.PlayerState
	deleted []snowflake.ID
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		states: make(map[snowflake.ID]*domain.PlayerState),
	}
}

func (m *mockRepository) Get(guildID snowflake.ID) *domain.PlayerState {
	return m.states[guildID]
}

func (m *mockRepository) Save(state *domain.PlayerState) {
	m.states[state.GuildID()] = state
}

func (m *mockRepository) Delete(guildID snowflake.ID) {
	m.deleted = append(m.deleted, guildID)
	delete(m.states, guildID)
}

// createConnectedState creates a PlayerState with the given IDs, marks it
// idle and saves it to the mock repository.
func (m *mockRepository) createConnectedState(
	guildID, voiceChannelID, notificationChannelID snowflake.ID,
) *domain.PlayerState {
	state := domain.NewPlayerState(guildID, voiceChannelID, notificationChannelID)
	state.SetPhase(domain.PhaseIdle)
	m.Save(state)
	return state
}

type mockAudioSink struct {
	joinErr   error
	leaveErr  error
	playErr   error
	pauseErr  error
	resumeErr error
	stopErr   error

	joined  []snowflake.ID
	left    []snowflake.ID
	played  []ports.PlaybackSource
	stopped int
}

func (m *mockAudioSink) Join(_ context.Context, guildID, _ snowflake.ID) error {
	if m.joinErr != nil {
		return m.joinErr
	}
	m.joined = append(m.joined, guildID)
	return nil
}

func (m *mockAudioSink) Leave(_ context.Context, guildID snowflake.ID) error {
	if m.leaveErr != nil {
		return m.leaveErr
	}
	m.left = append(m.left, guildID)
	return nil
}

func (m *mockAudioSink) Play(_ context.Context, _ snowflake.ID, source ports.PlaybackSource) error {
	if m.playErr != nil {
		return m.playErr
	}
	m.played = append(m.played, source)
	return nil
}

func (m *mockAudioSink) Pause(_ snowflake.ID) error {
	return m.pauseErr
}

func (m *mockAudioSink) Resume(_ snowflake.ID) error {
	return m.resumeErr
}

func (m *mockAudioSink) Stop(_ snowflake.ID) error {
	if m.stopErr != nil {
		return m.stopErr
	}
	m.stopped++
	return nil
}

type mockResolver struct {
	result *ports.ResolvedMedia
	err    error
}

func (m *mockResolver) Resolve(_ context.Context, _ string) (*ports.ResolvedMedia, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockVoiceStateProvider struct {
	channels map[snowflake.ID]snowflake.ID // userID -> channelID
	members  map[snowflake.ID]int          // channelID -> non-bot member count
}

func (m *mockVoiceStateProvider) GetUserVoiceChannel(
	_, userID snowflake.ID,
) (snowflake.ID, bool) {
	channelID, ok := m.channels[userID]
	return channelID, ok
}

func (m *mockVoiceStateProvider) CountChannelMembers(_, channelID snowflake.ID) int {
	return m.members[channelID]
}

type mockEventPublisher struct {
	trackEnqueued    []domain.TrackEnqueuedEvent
	playbackStarted  []domain.PlaybackStartedEvent
	playbackFinished []domain.PlaybackFinishedEvent
	trackFailed      []domain.TrackFailedEvent
	trackEnded       []domain.TrackEndedEvent
	playerDestroyed  []domain.PlayerDestroyedEvent
}

func (m *mockEventPublisher) PublishTrackEnqueued(event domain.TrackEnqueuedEvent) error {
	m.trackEnqueued = append(m.trackEnqueued, event)
	return nil
}

func (m *mockEventPublisher) PublishPlaybackStarted(event domain.PlaybackStartedEvent) error {
	m.playbackStarted = append(m.playbackStarted, event)
	return nil
}

func (m *mockEventPublisher) PublishPlaybackFinished(event domain.PlaybackFinishedEvent) error {
	m.playbackFinished = append(m.playbackFinished, event)
	return nil
}

func (m *mockEventPublisher) PublishTrackFailed(event domain.TrackFailedEvent) error {
	m.trackFailed = append(m.trackFailed, event)
	return nil
}

func (m *mockEventPublisher) PublishTrackEnded(event domain.TrackEndedEvent) error {
	m.trackEnded = append(m.trackEnded, event)
	return nil
}

func (m *mockEventPublisher) PublishPlayerDestroyed(event domain.PlayerDestroyedEvent) error {
	m.playerDestroyed = append(m.playerDestroyed, event)
	return nil
}

type mockNotifier struct {
	nextMessageID snowflake.ID
	sendErr       error
	editErr       error

	sent    []snowflake.ID // channel IDs
	edited  []snowflake.ID // message IDs
	deleted []snowflake.ID // message IDs
	notices []string
}

func (m *mockNotifier) SendNowPlaying(
	_ context.Context, channelID snowflake.ID, _ ports.NowPlayingInfo,
) (snowflake.ID, error) {
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	m.sent = append(m.sent, channelID)
	m.nextMessageID++
	return m.nextMessageID, nil
}

func (m *mockNotifier) EditNowPlaying(
	_ context.Context, _, messageID snowflake.ID, _ ports.NowPlayingInfo,
) error {
	if m.editErr != nil {
		return m.editErr
	}
	m.edited = append(m.edited, messageID)
	return nil
}

func (m *mockNotifier) DeleteMessage(_ context.Context, _, messageID snowflake.ID) error {
	m.deleted = append(m.deleted, messageID)
	return nil
}

func (m *mockNotifier) SendNotice(_ context.Context, _ snowflake.ID, content string) error {
	m.notices = append(m.notices, content)
	return nil
}

type mockStatusStore struct {
	records map[snowflake.ID]ports.StatusMessageRecord
}

func newMockStatusStore() *mockStatusStore {
	return &mockStatusStore{records: make(map[snowflake.ID]ports.StatusMessageRecord)}
}

func (m *mockStatusStore) Get(guildID snowflake.ID) (ports.StatusMessageRecord, bool, error) {
	record, ok := m.records[guildID]
	return record, ok, nil
}

func (m *mockStatusStore) Put(record ports.StatusMessageRecord) error {
	m.records[record.GuildID] = record
	return nil
}

func (m *mockStatusStore) Delete(guildID snowflake.ID) error {
	delete(m.records, guildID)
	return nil
}

func (m *mockStatusStore) All() ([]ports.StatusMessageRecord, error) {
	records := make([]ports.StatusMessageRecord, 0, len(m.records))
	for _, record := range m.records {
		records = append(records, record)
	}
	return records, nil
}

func (m *mockStatusStore) Close() error {
	return nil
}

// newTestService wires a PlaybackService against fresh mocks.
func newTestService() (*PlaybackService, *mockRepository, *mockAudioSink, *mockResolver, *mockVoiceStateProvider, *mockEventPublisher) {
	repo := newMockRepository()
	sink := &mockAudioSink{}
	resolver := &mockResolver{
		result: &ports.ResolvedMedia{
			Title:     "Resolved Track",
			Artist:    "Resolved Artist",
			Duration:  2 * time.Minute,
			SourceURL: "https://example.com/resolved",
			StreamURL: "https://stream.example.com/resolved",
		},
	}
	voiceState := &mockVoiceStateProvider{
		channels: map[snowflake.ID]snowflake.ID{snowflake.ID(123): snowflake.ID(200)},
		members:  map[snowflake.ID]int{snowflake.ID(200): 1},
	}
	publisher := &mockEventPublisher{}
	service := NewPlaybackService(repo, sink, resolver, voiceState, publisher)
	return service, repo, sink, resolver, voiceState, publisher
}
