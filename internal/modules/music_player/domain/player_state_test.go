package domain

import (
	"testing"

	"github.com/disgoorg/snowflake/v2"
)

func TestPlayerState_ToggleMutualExclusion(t *testing.T) {
	tests := []struct {
		name          string
		ops           []string // sequence of "loop" / "shuffle"
		wantLooping   bool
		wantShuffling bool
	}{
		{name: "loop on", ops: []string{"loop"}, wantLooping: true, wantShuffling: false},
		{name: "shuffle on", ops: []string{"shuffle"}, wantLooping: false, wantShuffling: true},
		{name: "loop then shuffle", ops: []string{"loop", "shuffle"}, wantLooping: false, wantShuffling: true},
		{name: "shuffle then loop", ops: []string{"shuffle", "loop"}, wantLooping: true, wantShuffling: false},
		{name: "loop twice", ops: []string{"loop", "loop"}, wantLooping: false, wantShuffling: false},
		{
			name:          "long alternating sequence",
			ops:           []string{"loop", "shuffle", "loop", "shuffle", "shuffle"},
			wantLooping:   false,
			wantShuffling: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewPlayerState(snowflake.ID(1), snowflake.ID(2), snowflake.ID(3))
			for _, op := range tt.ops {
				switch op {
				case "loop":
					state.ToggleLoop()
				case "shuffle":
					state.ToggleShuffle()
				}
				if state.IsLooping() && state.IsShuffling() {
					t.Fatal("loop and shuffle enabled simultaneously")
				}
			}
			if state.IsLooping() != tt.wantLooping {
				t.Errorf("IsLooping() = %v, want %v", state.IsLooping(), tt.wantLooping)
			}
			if state.IsShuffling() != tt.wantShuffling {
				t.Errorf("IsShuffling() = %v, want %v", state.IsShuffling(), tt.wantShuffling)
			}
		})
	}
}

func TestPlayerState_DestroyedIsTerminal(t *testing.T) {
	state := NewPlayerState(snowflake.ID(1), snowflake.ID(2), snowflake.ID(3))
	state.SetPhase(PhaseDestroyed)
	state.SetPhase(PhasePlaying)

	if got := state.Phase(); got != PhaseDestroyed {
		t.Errorf("Phase() = %v after transition out of destroyed, want PhaseDestroyed", got)
	}
}

func TestPlayerState_FailureStreak(t *testing.T) {
	state := NewPlayerState(snowflake.ID(1), snowflake.ID(2), snowflake.ID(3))

	if got := state.RecordFailure(); got != 1 {
		t.Errorf("RecordFailure() = %d, want 1", got)
	}
	if got := state.RecordFailure(); got != 2 {
		t.Errorf("RecordFailure() = %d, want 2", got)
	}
	state.ResetFailures()
	if got := state.FailureStreak(); got != 0 {
		t.Errorf("FailureStreak() = %d after reset, want 0", got)
	}
}

func TestPlayerState_NowPlayingMessageCopy(t *testing.T) {
	state := NewPlayerState(snowflake.ID(1), snowflake.ID(2), snowflake.ID(3))

	if state.NowPlayingMessage() != nil {
		t.Error("NowPlayingMessage() != nil on fresh state")
	}

	state.SetNowPlayingMessage(snowflake.ID(10), snowflake.ID(20))
	msg := state.NowPlayingMessage()
	if msg == nil || msg.ChannelID != 10 || msg.MessageID != 20 {
		t.Fatalf("NowPlayingMessage() = %+v, want {10 20}", msg)
	}

	// Mutating the returned copy must not affect the state.
	msg.MessageID = 99
	if state.NowPlayingMessage().MessageID != 20 {
		t.Error("NowPlayingMessage() returned a live reference, want a copy")
	}

	state.ClearNowPlayingMessage()
	if state.NowPlayingMessage() != nil {
		t.Error("NowPlayingMessage() != nil after clear")
	}
}
