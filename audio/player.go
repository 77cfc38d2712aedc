// Package audio synthesizes simulation cues and plays them through the beep speaker
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/parameter"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// CuePlayer mixes cues into the speaker
// Repeats of the same cue closer than MinCueGap are dropped
type CuePlayer struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	volume float64

	// add feeds the mixer; nil until Init succeeds
	add func(beep.Streamer)
	now func() time.Time

	last [core.SoundTypeCount]time.Time
}

// NewCuePlayer creates an uninitialized player, Play is a no-op until Init
func NewCuePlayer() *CuePlayer {
	return &CuePlayer{
		mixer:  &beep.Mixer{},
		volume: parameter.CueVolume,
		now:    time.Now,
	}
}

// Init opens the speaker and starts the mixer
func (p *CuePlayer) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.add != nil {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.add = func(s beep.Streamer) {
		speaker.Lock()
		p.mixer.Add(s)
		speaker.Unlock()
	}
	return nil
}

// Play queues a cue, reporting whether it was accepted
func (p *CuePlayer) Play(s core.SoundType) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.add == nil || s < 0 || s >= core.SoundTypeCount {
		return false
	}
	now := p.now()
	if !p.last[s].IsZero() && now.Sub(p.last[s]) < parameter.MinCueGap {
		return false
	}
	cue := NewCue(s, sampleRate, p.volume)
	if cue == nil {
		return false
	}
	p.last[s] = now
	p.add(cue)
	return true
}

// Close drops queued cues
// The speaker stays open; beep has no way to reopen it after close
func (p *CuePlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.add == nil {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.add = nil
}
