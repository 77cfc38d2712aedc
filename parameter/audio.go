package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100
	AudioChannels   = 2
)

// AudioBufferDuration determines speaker latency
const AudioBufferDuration = 50 * time.Millisecond

// MinCueGap between consecutive cues of the same kind
const MinCueGap = 50 * time.Millisecond

// Cue synthesis, frequency in Hz and duration
const (
	CueLaunchFreq      = 110.0
	CueLaunchDuration  = 250 * time.Millisecond
	CueReleaseFreq     = 330.0
	CueReleaseDuration = 120 * time.Millisecond
	CueBurstFreq       = 880.0
	CueBurstDuration   = 60 * time.Millisecond
	CueImpactFreq      = 220.0
	CueImpactDuration  = 180 * time.Millisecond
	CueVolume          = 0.3
)
