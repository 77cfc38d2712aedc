package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/parameter"
)

// capturePlayer wires a player to a fake clock and a recording mixer feed
func capturePlayer() (*CuePlayer, *[]beep.Streamer, *time.Time) {
	p := NewCuePlayer()
	var queued []beep.Streamer
	now := time.Unix(1000, 0)
	p.add = func(s beep.Streamer) { queued = append(queued, s) }
	p.now = func() time.Time { return now }
	return p, &queued, &now
}

// TestPlayUninitialized verifies a player without a speaker drops cues
func TestPlayUninitialized(t *testing.T) {
	p := NewCuePlayer()
	if p.Play(core.SoundBurst) {
		t.Error("Expected uninitialized player to reject cues")
	}
}

// TestPlayCueGap verifies repeats inside the gap are dropped per sound
func TestPlayCueGap(t *testing.T) {
	p, queued, now := capturePlayer()

	if !p.Play(core.SoundBurst) {
		t.Fatal("Expected first cue accepted")
	}
	if p.Play(core.SoundBurst) {
		t.Error("Expected repeat inside gap dropped")
	}
	if !p.Play(core.SoundImpact) {
		t.Error("Expected another sound accepted inside the gap")
	}

	*now = now.Add(parameter.MinCueGap)
	if !p.Play(core.SoundBurst) {
		t.Error("Expected repeat accepted after the gap")
	}
	if len(*queued) != 3 {
		t.Errorf("Expected 3 queued cues, got %d", len(*queued))
	}
	if p.Play(core.SoundTypeCount) {
		t.Error("Expected unknown sound rejected")
	}
}
