package playback

import "time"

// Estimate extrapolates progress from a baseline: base plus elapsed wall-clock
// time, clamped to [0, durationMS].
func Estimate(baseMS int, elapsed time.Duration, durationMS int) int {
	return clamp(baseMS+int(elapsed.Milliseconds()), 0, durationMS)
}

// EstimateProgress advances ProgressMS while playing. It never moves the
// baseline, so repeated ticks do not compound.
func (s *State) EstimateProgress(now time.Time) {
	if !s.IsPlaying || s.DurationMS <= 0 {
		return
	}
	s.ProgressMS = Estimate(s.BaselineMS, now.Sub(s.BaselineAt), s.DurationMS)
}
