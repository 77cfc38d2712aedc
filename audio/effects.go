package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/parameter"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
)

// oscillator generates raw audio waves
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a new oscillator for wave generation
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		}

		samples[i][0] = val
		samples[i][1] = val

		// Keep phase in [0, 1)
		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and release to a stream
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

// NewEnvelope shapes s over duration with the given attack and release ramps
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attack && e.attack > 0 {
			vol = float64(e.position) / float64(e.attack)
		}
		if start := e.total - e.release; e.position >= start && e.release > 0 {
			vol = max(0, float64(e.total-e.position)/float64(e.release))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// math.Log2(0) is -Inf, zero volume maps to silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// cueShape is the synthesis recipe of one cue
type cueShape struct {
	freq     float64
	duration time.Duration
	wave     WaveType
}

var cueShapes = [core.SoundTypeCount]cueShape{
	core.SoundLaunch:  {parameter.CueLaunchFreq, parameter.CueLaunchDuration, WaveSaw},
	core.SoundRelease: {parameter.CueReleaseFreq, parameter.CueReleaseDuration, WaveSine},
	core.SoundBurst:   {parameter.CueBurstFreq, parameter.CueBurstDuration, WaveSquare},
	core.SoundImpact:  {parameter.CueImpactFreq, parameter.CueImpactDuration, WaveSaw},
}

// NewCue synthesizes the streamer of a cue, nil for an unknown sound
func NewCue(s core.SoundType, rate beep.SampleRate, vol float64) beep.Streamer {
	if s < 0 || s >= core.SoundTypeCount {
		return nil
	}
	shape := cueShapes[s]
	osc := NewOscillator(shape.freq, shape.duration, shape.wave, rate)
	ramp := shape.duration / 10
	return newVolume(NewEnvelope(osc, shape.duration, ramp, ramp*3, rate), vol)
}
