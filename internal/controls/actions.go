package controls

import (
	"context"
	"time"

	"github.com/jfmyers9/tapdeck/internal/playback"
)

func (s *Surface) exit(ctx context.Context) error {
	s.store.Update(func(st *playback.State) { st.ExitRequested = true })
	return nil
}

func (s *Surface) toggleControls(ctx context.Context) error {
	s.store.Update(func(st *playback.State) { st.ShowControls = !st.ShowControls })
	return nil
}

func (s *Surface) next(ctx context.Context) error {
	defer s.refetch()
	return s.player.Next(ctx)
}

func (s *Surface) previous(ctx context.Context) error {
	defer s.refetch()
	return s.player.Previous(ctx)
}

// refetch makes the display loop fetch on its next tick.
func (s *Surface) refetch() {
	s.store.Update(func(st *playback.State) { st.LastFetchAt = time.Time{} })
}

func (s *Surface) playPause(ctx context.Context) error {
	now := s.now()
	var wasPlaying bool
	s.store.Update(func(st *playback.State) {
		wasPlaying = st.IsPlaying
		st.EstimateProgress(now)
		st.IsPlaying = !wasPlaying
		st.Anchor(now)
	})

	if wasPlaying {
		return s.player.Pause(ctx)
	}
	return s.player.Play(ctx)
}

func (s *Surface) toggleShuffle(ctx context.Context) error {
	var enabled bool
	s.store.Update(func(st *playback.State) {
		st.Shuffle = !st.Shuffle
		enabled = st.Shuffle
	})
	return s.player.SetShuffle(ctx, enabled)
}

func (s *Surface) toggleRepeat(ctx context.Context) error {
	var enabled bool
	s.store.Update(func(st *playback.State) {
		st.Repeat = !st.Repeat
		enabled = st.Repeat
	})
	return s.player.SetRepeat(ctx, enabled)
}

func (s *Surface) toggleLight(ctx context.Context) error {
	var on bool
	s.store.Update(func(st *playback.State) {
		st.LEDsEnabled = !st.LEDsEnabled
		on = st.LEDsEnabled
	})
	return s.leds.SetLEDs(on)
}

func (s *Surface) volume(delta int) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		var level int
		s.store.Update(func(st *playback.State) {
			st.Volume = clampVolume(st.Volume + delta)
			level = st.Volume
		})
		s.logger.Info().Int("volume", level).Msg("Volume changed")
		return s.player.SetVolume(ctx, level)
	}
}

func (s *Surface) toggleLike(ctx context.Context) error {
	var (
		id    string
		liked bool
	)
	s.store.Update(func(st *playback.State) {
		if st.Track == nil {
			return
		}
		id = st.Track.ID
		st.IsLiked = !st.IsLiked
		liked = st.IsLiked
	})
	if id == "" {
		return nil
	}

	if liked {
		return s.player.SaveTrack(ctx, id)
	}
	return s.player.RemoveTrack(ctx, id)
}

func clampVolume(v int) int {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}
