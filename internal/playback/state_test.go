package playback

import (
	"sync"
	"testing"
	"time"
)

func TestNewState(t *testing.T) {
	now := time.Now()
	s := NewState(now)

	if s.Volume != DefaultVolume {
		t.Errorf("Volume = %d, want %d", s.Volume, DefaultVolume)
	}
	if !s.LEDsEnabled {
		t.Error("expected LEDs enabled at startup")
	}
	if s.ShowControls {
		t.Error("expected controls hidden at startup")
	}
	if !s.FetchDue(now, 10*time.Second) {
		t.Error("expected a fetch to be due before the first fetch")
	}
}

func TestFetchDue(t *testing.T) {
	now := time.Now()
	s := NewState(now)
	s.LastFetchAt = now

	if s.FetchDue(now.Add(10*time.Second), 10*time.Second) {
		t.Error("fetch should not be due exactly at the interval")
	}
	if !s.FetchDue(now.Add(10*time.Second+time.Millisecond), 10*time.Second) {
		t.Error("fetch should be due after the interval")
	}

	s.LastFetchAt = time.Time{}
	if !s.FetchDue(now, 10*time.Second) {
		t.Error("fetch should be due after LastFetchAt is cleared")
	}
}

func TestApply(t *testing.T) {
	now := time.Now()

	t.Run("report replaces remote fields", func(t *testing.T) {
		s := NewState(now)
		s.ShowControls = true
		s.Apply(&Report{
			Track:      &Track{ID: "b"},
			IsPlaying:  true,
			Shuffle:    true,
			Repeat:     true,
			Volume:     20,
			ProgressMS: 3000,
			DurationMS: 180000,
		}, now)

		if s.TrackID() != "b" || !s.IsPlaying || !s.Shuffle || !s.Repeat || s.Volume != 20 {
			t.Errorf("unexpected state %+v", s)
		}
		if s.ProgressMS != 3000 || s.BaselineMS != 3000 || !s.BaselineAt.Equal(now) {
			t.Errorf("expected progress and baseline at 3000, got %d/%d", s.ProgressMS, s.BaselineMS)
		}
		if !s.ShowControls {
			t.Error("local UI fields must survive a fetch")
		}
	})

	t.Run("progress clamped to duration", func(t *testing.T) {
		s := NewState(now)
		s.Apply(&Report{Track: &Track{ID: "a"}, ProgressMS: 250000, DurationMS: 200000}, now)
		if s.ProgressMS != 200000 {
			t.Errorf("ProgressMS = %d, want 200000", s.ProgressMS)
		}
	})

	t.Run("nil report keeps track", func(t *testing.T) {
		s := NewState(now)
		s.Track = &Track{ID: "kept"}
		s.IsPlaying = true
		s.Apply(nil, now)
		if s.TrackID() != "kept" || !s.IsPlaying {
			t.Errorf("nil report must not clear state, got %+v", s)
		}
	})
}

func TestStoreConcurrentUpdates(t *testing.T) {
	store := NewStore(NewState(time.Now()))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update(func(s *State) { s.Volume++ })
		}()
	}
	wg.Wait()

	if got := store.Load().Volume; got != DefaultVolume+50 {
		t.Errorf("Volume = %d, want %d", got, DefaultVolume+50)
	}

	store.Update(func(s *State) { s.ExitRequested = true })
	if !store.Exiting() {
		t.Error("expected Exiting() after exit request")
	}
}

func TestTrackID(t *testing.T) {
	store := NewStore(NewState(time.Now()))
	if got := store.Load().TrackID(); got != "" {
		t.Errorf("TrackID() = %q, want empty without a track", got)
	}

	store.Update(func(s *State) { s.Track = &Track{ID: "t1"} })
	if got := store.Load().TrackID(); got != "t1" {
		t.Errorf("TrackID() = %q, want t1", got)
	}
}
