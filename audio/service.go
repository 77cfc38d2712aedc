package audio

import (
	"github.com/charmbracelet/log"

	"github.com/lixenwraith/siege/engine"
)

// Service owns the cue player for a session
// A missing audio device disables the service without failing the session
type Service struct {
	player   *CuePlayer
	disabled bool
}

// NewService opens the speaker when enabled; failure leaves the service disabled
func NewService(enabled bool, logger *log.Logger) *Service {
	s := &Service{player: NewCuePlayer()}
	if !enabled {
		s.disabled = true
		return s
	}
	if err := s.player.Init(); err != nil {
		logger.Warn("audio unavailable, continuing silent", "err", err)
		s.disabled = true
	}
	return s
}

// Attach publishes the player into the world when audio is live
func (s *Service) Attach(w *engine.World) {
	if s.disabled {
		return
	}
	w.Resources.Audio.Player = s.player
}

// Disabled reports whether cues are dropped
func (s *Service) Disabled() bool {
	return s.disabled
}

// Stop clears queued cues
func (s *Service) Stop() {
	if !s.disabled {
		s.player.Close()
	}
}
