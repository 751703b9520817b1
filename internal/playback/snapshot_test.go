package playback

import "testing"

func TestEqual(t *testing.T) {
	base := Snapshot{
		ShowControls: true,
		IsPlaying:    true,
		Volume:       50,
		LEDsEnabled:  true,
		TrackID:      "track-a",
		ProgressMS:   10000,
	}

	tests := []struct {
		name   string
		modify func(s *Snapshot)
		want   bool
	}{
		{"identical", func(s *Snapshot) {}, true},
		{"progress drift 4999", func(s *Snapshot) { s.ProgressMS += 4999 }, true},
		{"progress drift 5000", func(s *Snapshot) { s.ProgressMS += 5000 }, false},
		{"progress drift backwards 4999", func(s *Snapshot) { s.ProgressMS -= 4999 }, true},
		{"track changed", func(s *Snapshot) { s.TrackID = "track-b" }, false},
		{"track cleared", func(s *Snapshot) { s.TrackID = "" }, false},
		{"controls hidden", func(s *Snapshot) { s.ShowControls = false }, false},
		{"paused", func(s *Snapshot) { s.IsPlaying = false }, false},
		{"shuffle", func(s *Snapshot) { s.Shuffle = true }, false},
		{"repeat", func(s *Snapshot) { s.Repeat = true }, false},
		{"exit", func(s *Snapshot) { s.ExitRequested = true }, false},
		{"liked", func(s *Snapshot) { s.IsLiked = true }, false},
		{"dimmed", func(s *Snapshot) { s.IsDimmed = true }, false},
		{"leds", func(s *Snapshot) { s.LEDsEnabled = false }, false},
		{"volume", func(s *Snapshot) { s.Volume = 60 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := base
			tt.modify(&other)

			if got := Equal(base, other); got != tt.want {
				t.Errorf("Equal(base, other) = %v, want %v", got, tt.want)
			}
			if Equal(base, other) != Equal(other, base) {
				t.Error("Equal is not symmetric")
			}
			if !Equal(other, other) {
				t.Error("Equal is not reflexive")
			}
		})
	}
}

func TestStateSnapshot(t *testing.T) {
	s := State{
		Track:       &Track{ID: "abc", Name: "Song"},
		Volume:      70,
		ProgressMS:  1234,
		LEDsEnabled: true,
		IsLiked:     true,
	}

	snap := s.Snapshot()
	if snap.TrackID != "abc" || snap.Volume != 70 || snap.ProgressMS != 1234 || !snap.IsLiked || !snap.LEDsEnabled {
		t.Errorf("unexpected snapshot %+v", snap)
	}

	s.Track = nil
	if got := s.Snapshot().TrackID; got != "" {
		t.Errorf("expected empty track id, got %q", got)
	}
}
