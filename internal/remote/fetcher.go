package remote

import (
	"context"

	"github.com/jfmyers9/tapdeck/internal/playback"
	"github.com/jfmyers9/tapdeck/pkg/spotify"
	"github.com/rs/zerolog"
)

// Fetcher turns remote playback state into a playback.Report.
type Fetcher struct {
	source Source
	logger zerolog.Logger
}

// NewFetcher creates a new Fetcher instance
func NewFetcher(source Source, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		source: source,
		logger: logger.With().Str("component", "fetcher").Logger(),
	}
}

// Fetch returns the current playback, falling back to the most recently
// played track. It returns nil when neither source yields a track; failures
// of either call are logged, never returned.
func (f *Fetcher) Fetch(ctx context.Context) *playback.Report {
	if report := f.current(ctx); report != nil {
		if report.DeviceID != "" {
			f.source.SetDeviceID(report.DeviceID)
		}
		return report
	}
	return f.recent(ctx)
}

func (f *Fetcher) current(ctx context.Context) *playback.Report {
	state, err := f.source.CurrentPlayback(ctx)
	if err != nil {
		Warn(f.logger, err).Msg("Failed to get current playback")
		return nil
	}
	if state == nil || state.Item == nil {
		return nil
	}

	report := &playback.Report{
		Track:      convertTrack(state.Item),
		IsPlaying:  state.IsPlaying,
		Shuffle:    state.ShuffleState,
		Repeat:     state.RepeatState != "" && state.RepeatState != "off",
		Volume:     playback.DefaultVolume,
		DurationMS: state.Item.DurationMS,
	}
	if state.ProgressMS != nil {
		report.ProgressMS = *state.ProgressMS
	}
	if state.Device != nil {
		report.DeviceID = state.Device.ID
		if state.Device.VolumePercent != nil {
			report.Volume = *state.Device.VolumePercent
		}
	}

	f.logger.Debug().
		Str("track", report.Track.Name).
		Bool("playing", report.IsPlaying).
		Int("progress_ms", report.ProgressMS).
		Msg("Got current playback")
	return report
}

func (f *Fetcher) recent(ctx context.Context) *playback.Report {
	recent, err := f.source.RecentlyPlayed(ctx, 1)
	if err != nil {
		Warn(f.logger, err).Msg("Failed to get recently played track")
		return nil
	}
	if recent == nil || len(recent.Items) == 0 {
		return nil
	}

	item := recent.Items[0].Track
	f.logger.Debug().Str("track", item.Name).Msg("Got recently played track")
	return &playback.Report{
		Track:      convertTrack(&item),
		Volume:     playback.DefaultVolume,
		DurationMS: item.DurationMS,
	}
}

// Liked reports whether the track is saved in the user's library.
func (f *Fetcher) Liked(ctx context.Context, trackID string) (bool, error) {
	return f.source.ContainsTrack(ctx, trackID)
}

func convertTrack(t *spotify.Track) *playback.Track {
	track := &playback.Track{
		ID:   t.ID,
		Name: t.Name,
	}
	for _, a := range t.Artists {
		track.Artists = append(track.Artists, a.Name)
	}
	for _, img := range t.Album.Images {
		track.Images = append(track.Images, img.URL)
	}
	return track
}
