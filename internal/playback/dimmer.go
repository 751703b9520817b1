package playback

import (
	"time"

	"github.com/rs/zerolog"
)

// Backlight sets the display brightness (0.0 - 1.0).
type Backlight interface {
	SetBacklight(level float64) error
}

// Dimmer lowers the backlight after a period without touches and restores it
// on the next touch.
type Dimmer struct {
	timeout   time.Duration
	dimLevel  float64
	backlight Backlight
	logger    zerolog.Logger
}

// NewDimmer creates a Dimmer.
func NewDimmer(timeout time.Duration, dimLevel float64, backlight Backlight, logger zerolog.Logger) *Dimmer {
	return &Dimmer{
		timeout:   timeout,
		dimLevel:  dimLevel,
		backlight: backlight,
		logger:    logger.With().Str("component", "dimmer").Logger(),
	}
}

// Transition moves s between bright and dimmed for the time now. It returns
// the backlight level to apply, and false when nothing changed.
func (d *Dimmer) Transition(s *State, now time.Time) (float64, bool) {
	idle := now.Sub(s.LastActivityAt) > d.timeout
	switch {
	case idle && !s.IsDimmed:
		s.IsDimmed = true
		return d.dimLevel, true
	case !idle && s.IsDimmed:
		s.IsDimmed = false
		return 1.0, true
	}
	return 0, false
}

// Step runs one dimmer tick against the store. The backlight is only touched
// on a bright/dimmed edge, and outside the store lock.
func (d *Dimmer) Step(store *Store, now time.Time) {
	var (
		level   float64
		changed bool
	)
	store.Update(func(s *State) {
		level, changed = d.Transition(s, now)
	})
	if !changed {
		return
	}

	d.logger.Debug().Float64("level", level).Msg("Changing backlight")
	if err := d.backlight.SetBacklight(level); err != nil {
		d.logger.Warn().Err(err).Float64("level", level).Msg("Failed to set backlight")
	}
}
