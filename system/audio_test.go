package system

import (
	"testing"

	"github.com/lixenwraith/siege/component"
	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/event"
)

type fakePlayer struct {
	played []core.SoundType
}

func (p *fakePlayer) Play(s core.SoundType) bool {
	p.played = append(p.played, s)
	return true
}

// TestCueFor verifies the event to cue mapping
func TestCueFor(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		want    core.SoundType
		audible bool
	}{
		{"loose", &event.LauncherStatePayload{From: component.LaunchArming, To: component.LaunchLoose}, core.SoundLaunch, true},
		{"tension", &event.LauncherStatePayload{From: component.LaunchIdle, To: component.LaunchTension}, 0, false},
		{"release", &event.ProjectileReleasedPayload{}, core.SoundRelease, true},
		{"burst", &event.TurretFiredPayload{Count: 12}, core.SoundBurst, true},
		{"intercept", &event.ProjectileDestroyedPayload{Kind: component.ProjectileBall, Collided: true}, core.SoundImpact, true},
		{"expired", &event.ProjectileDestroyedPayload{Kind: component.ProjectileBall}, 0, false},
		{"bullet hit", &event.ProjectileDestroyedPayload{Kind: component.ProjectileBullet, Collided: true}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cueFor(event.GameEvent{Payload: tt.payload})
			if ok != tt.audible || got != tt.want {
				t.Errorf("Expected (%v, %v), got (%v, %v)", tt.want, tt.audible, got, ok)
			}
		})
	}
}

// TestAudioPlaysRoutedCues verifies cues reach the attached player and a disabled system is silent
func TestAudioPlaysRoutedCues(t *testing.T) {
	h := newHarness(t)
	p := &fakePlayer{}
	h.w.Resources.Audio.Player = p

	h.w.PushEvent(event.EventTurretFired, &event.TurretFiredPayload{Count: 12})
	h.w.PushEvent(event.EventProjectileReleased, &event.ProjectileReleasedPayload{})
	h.tick(1)
	if len(p.played) != 2 || p.played[0] != core.SoundBurst || p.played[1] != core.SoundRelease {
		t.Errorf("Expected burst then release, got %v", p.played)
	}

	h.w.Resources.Config.Config.Audio.Enabled = false
	silent := NewAudioSystem(h.w)
	p.played = nil
	silent.HandleEvent(event.GameEvent{Type: event.EventTurretFired, Payload: &event.TurretFiredPayload{}})
	if len(p.played) != 0 {
		t.Errorf("Expected disabled audio to stay silent, got %v", p.played)
	}
}
