package playback

import (
	"testing"
	"time"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		name     string
		base     int
		elapsed  time.Duration
		duration int
		want     int
	}{
		{"advances by elapsed", 0, 5 * time.Second, 200000, 5000},
		{"clamped to duration", 199000, 5 * time.Second, 200000, 200000},
		{"no elapsed", 42000, 0, 200000, 42000},
		{"sub-millisecond ignored", 1000, 500 * time.Microsecond, 200000, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Estimate(tt.base, tt.elapsed, tt.duration); got != tt.want {
				t.Errorf("Estimate() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEstimateProgress(t *testing.T) {
	start := time.Now()

	t.Run("playing extrapolates from baseline", func(t *testing.T) {
		s := NewState(start)
		s.Apply(&Report{Track: &Track{ID: "a"}, IsPlaying: true, ProgressMS: 0, DurationMS: 200000}, start)

		// Ticks every 200ms must not compound.
		for i := 1; i <= 25; i++ {
			s.EstimateProgress(start.Add(time.Duration(i) * 200 * time.Millisecond))
		}
		if s.ProgressMS != 5000 {
			t.Errorf("ProgressMS = %d, want 5000", s.ProgressMS)
		}

		s.EstimateProgress(start.Add(10 * time.Minute))
		if s.ProgressMS != 200000 {
			t.Errorf("ProgressMS = %d, want clamp at 200000", s.ProgressMS)
		}
	})

	t.Run("paused does not advance", func(t *testing.T) {
		s := NewState(start)
		s.Apply(&Report{Track: &Track{ID: "a"}, IsPlaying: false, ProgressMS: 1000, DurationMS: 200000}, start)
		s.EstimateProgress(start.Add(time.Minute))
		if s.ProgressMS != 1000 {
			t.Errorf("ProgressMS = %d, want 1000", s.ProgressMS)
		}
	})

	t.Run("zero duration does not advance", func(t *testing.T) {
		s := NewState(start)
		s.IsPlaying = true
		s.EstimateProgress(start.Add(time.Minute))
		if s.ProgressMS != 0 {
			t.Errorf("ProgressMS = %d, want 0", s.ProgressMS)
		}
	})

	t.Run("anchor on resume", func(t *testing.T) {
		s := NewState(start)
		s.Apply(&Report{Track: &Track{ID: "a"}, IsPlaying: true, ProgressMS: 0, DurationMS: 200000}, start)
		s.EstimateProgress(start.Add(10 * time.Second))

		// Pause for a minute, then resume.
		s.IsPlaying = false
		s.Anchor(start.Add(10 * time.Second))
		s.IsPlaying = true
		s.Anchor(start.Add(70 * time.Second))

		s.EstimateProgress(start.Add(72 * time.Second))
		if s.ProgressMS != 12000 {
			t.Errorf("ProgressMS = %d, want 12000", s.ProgressMS)
		}
	})
}
