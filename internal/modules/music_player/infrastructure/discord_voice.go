package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/telinha/telinha/internal/modules/music_player/application/ports"
	"github.com/telinha/telinha/internal/modules/music_player/domain"
)

// DiscordVoiceSink plays audio over discordgo voice connections. Media is
// transcoded to Ogg/Opus by an external ffmpeg process and the packets
// are fed to the connection's Opus channel. Every playback publishes a
// TrackEndedEvent when it ends, whatever the reason.
type DiscordVoiceSink struct {
	session   *discordgo.Session
	publisher ports.EventPublisher

	mu    sync.Mutex
	conns map[snowflake.ID]*voiceConn
}

type voiceConn struct {
	vc      *discordgo.VoiceConnection
	current *playbackRun
}

// playbackRun tracks one ffmpeg-backed playback until it ends.
type playbackRun struct {
	trackID domain.TrackID
	cancel  context.CancelFunc
	done    chan struct{}

	pauseMu sync.Mutex
	pauseC  *sync.Cond
	paused  bool

	// stopped is set before cancel when the end is caller-initiated, so
	// the published reason is not mistaken for a failure.
	stopped bool
}

// NewDiscordVoiceSink creates a new DiscordVoiceSink.
func NewDiscordVoiceSink(session *discordgo.Session, publisher ports.EventPublisher) *DiscordVoiceSink {
	return &DiscordVoiceSink{
		session:   session,
		publisher: publisher,
		conns:     make(map[snowflake.ID]*voiceConn),
	}
}

// Join connects to the given voice channel. The wait for the gateway
// handshake is bounded by ctx.
func (s *DiscordVoiceSink) Join(ctx context.Context, guildID, channelID snowflake.ID) error {
	type joinResult struct {
		vc  *discordgo.VoiceConnection
		err error
	}
	resultCh := make(chan joinResult, 1)

	go func() {
		vc, err := s.session.ChannelVoiceJoin(guildID.String(), channelID.String(), false, true)
		resultCh <- joinResult{vc: vc, err: err}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case result := <-resultCh:
		if result.err != nil {
			return fmt.Errorf("voice join failed: %w", result.err)
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.conns[guildID]; ok && existing.vc != result.vc {
			s.stopRunLocked(existing)
		}
		s.conns[guildID] = &voiceConn{vc: result.vc}
		return nil
	}
}

// Leave stops any playback and disconnects from voice.
func (s *DiscordVoiceSink) Leave(_ context.Context, guildID snowflake.ID) error {
	s.mu.Lock()
	conn, ok := s.conns[guildID]
	if ok {
		s.stopRunLocked(conn)
		delete(s.conns, guildID)
	}
	s.mu.Unlock()

	if !ok {
		return nil
	}
	if err := conn.vc.Disconnect(); err != nil {
		return fmt.Errorf("voice disconnect failed: %w", err)
	}
	return nil
}

// Play starts playing the given source, replacing any current playback.
func (s *DiscordVoiceSink) Play(ctx context.Context, guildID snowflake.ID, source ports.PlaybackSource) error {
	s.mu.Lock()
	conn, ok := s.conns[guildID]
	if !ok {
		s.mu.Unlock()
		return errors.New("no voice connection for guild")
	}
	s.stopRunLocked(conn)

	runCtx, cancel := context.WithCancel(context.Background())
	run := &playbackRun{
		trackID: source.TrackID,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	run.pauseC = sync.NewCond(&run.pauseMu)
	conn.current = run
	vc := conn.vc
	s.mu.Unlock()

	abort := func() {
		cancel()
		close(run.done)
		s.mu.Lock()
		if conn.current == run {
			conn.current = nil
		}
		s.mu.Unlock()
	}

	cmd := ffmpegCommand(runCtx, source)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		abort()
		return fmt.Errorf("failed to open ffmpeg stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		abort()
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	go s.pump(runCtx, guildID, vc, run, cmd, stdout)

	return nil
}

// pump reads Opus packets from ffmpeg and feeds them to the voice
// connection until the stream ends or the run is cancelled.
func (s *DiscordVoiceSink) pump(
	ctx context.Context,
	guildID snowflake.ID,
	vc *discordgo.VoiceConnection,
	run *playbackRun,
	cmd *exec.Cmd,
	stdout io.Reader,
) {
	defer close(run.done)

	if err := vc.Speaking(true); err != nil {
		slog.Warn("failed to set speaking state", "guild_id", guildID, "error", err)
	}
	defer func() {
		if err := vc.Speaking(false); err != nil {
			slog.Debug("failed to clear speaking state", "guild_id", guildID, "error", err)
		}
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()

	reason := domain.TrackEndFinished
	reader := newOggOpusReader(stdout)

	for {
		if !run.waitIfPaused(ctx) {
			reason = s.endReason(run)
			break
		}

		packet, err := reader.NextPacket()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				slog.Error("opus stream read failed", "guild_id", guildID, "error", err)
				reason = domain.TrackEndFailed
			} else if ctx.Err() != nil {
				reason = s.endReason(run)
			}
			break
		}

		select {
		case vc.OpusSend <- packet:
		case <-ctx.Done():
			reason = s.endReason(run)
		}
		if ctx.Err() != nil {
			reason = s.endReason(run)
			break
		}
	}

	if err := s.publisher.PublishTrackEnded(domain.TrackEndedEvent{
		GuildID: guildID,
		TrackID: run.trackID,
		Reason:  reason,
	}); err != nil {
		slog.Warn("failed to publish track ended event", "guild_id", guildID, "error", err)
	}
}

// endReason maps a cancelled run to its published reason.
func (s *DiscordVoiceSink) endReason(run *playbackRun) domain.TrackEndReason {
	run.pauseMu.Lock()
	defer run.pauseMu.Unlock()
	if run.stopped {
		return domain.TrackEndStopped
	}
	return domain.TrackEndFailed
}

// waitIfPaused blocks while the run is paused. Returns false when the run
// was cancelled while waiting.
func (r *playbackRun) waitIfPaused(ctx context.Context) bool {
	r.pauseMu.Lock()
	defer r.pauseMu.Unlock()
	for r.paused {
		if ctx.Err() != nil {
			return false
		}
		r.pauseC.Wait()
	}
	return ctx.Err() == nil
}

// Pause pauses the current playback.
func (s *DiscordVoiceSink) Pause(guildID snowflake.ID) error {
	run := s.currentRun(guildID)
	if run == nil {
		return errors.New("nothing playing")
	}
	run.pauseMu.Lock()
	run.paused = true
	run.pauseMu.Unlock()
	return nil
}

// Resume resumes paused playback.
func (s *DiscordVoiceSink) Resume(guildID snowflake.ID) error {
	run := s.currentRun(guildID)
	if run == nil {
		return errors.New("nothing playing")
	}
	run.pauseMu.Lock()
	run.paused = false
	run.pauseMu.Unlock()
	run.pauseC.Broadcast()
	return nil
}

// Stop ends the current playback without disconnecting. The published
// track-end event carries a non-advancing reason.
func (s *DiscordVoiceSink) Stop(guildID snowflake.ID) error {
	s.mu.Lock()
	conn, ok := s.conns[guildID]
	if ok {
		s.stopRunLocked(conn)
	}
	s.mu.Unlock()
	return nil
}

func (s *DiscordVoiceSink) currentRun(guildID snowflake.ID) *playbackRun {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, ok := s.conns[guildID]
	if !ok {
		return nil
	}
	return conn.current
}

// stopRunLocked cancels the connection's current run and waits for its
// pump to exit. Must be called with s.mu held.
func (s *DiscordVoiceSink) stopRunLocked(conn *voiceConn) {
	run := conn.current
	if run == nil {
		return
	}
	conn.current = nil

	run.pauseMu.Lock()
	run.stopped = true
	run.paused = false
	run.pauseMu.Unlock()
	run.pauseC.Broadcast()
	run.cancel()
	<-run.done
}

// ffmpegCommand builds the transcode command for a playback source.
// Remote sources get reconnect flags so transient network errors do not
// kill the stream.
func ffmpegCommand(ctx context.Context, source ports.PlaybackSource) *exec.Cmd {
	input := source.LocalPath
	var args []string
	if input == "" {
		input = source.StreamURL
		args = append(args,
			"-reconnect", "1",
			"-reconnect_streamed", "1",
			"-reconnect_delay_max", "2",
			"-user_agent", "Mozilla/5.0",
		)
	}
	args = append(args,
		"-i", input,
		"-vn",
		"-map", "0:a",
		"-acodec", "libopus",
		"-ar", "48000",
		"-ac", "2",
		"-b:a", "96k",
		"-f", "ogg",
		"pipe:1",
	)
	return exec.CommandContext(ctx, "ffmpeg", args...)
}

// Ensure DiscordVoiceSink implements ports.AudioSink.
var _ ports.AudioSink = (*DiscordVoiceSink)(nil)
