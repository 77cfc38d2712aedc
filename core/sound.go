package core

// SoundType represents simulation audio cues
type SoundType int

const (
	SoundLaunch  SoundType = iota // Arm released from tension
	SoundRelease                  // Ball leaves the sling
	SoundBurst                    // Turret burst
	SoundImpact                   // Released ball destroyed by collision
	SoundTypeCount
)

func (s SoundType) String() string {
	switch s {
	case SoundLaunch:
		return "launch"
	case SoundRelease:
		return "release"
	case SoundBurst:
		return "burst"
	case SoundImpact:
		return "impact"
	default:
		return "unknown"
	}
}
