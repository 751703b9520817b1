package remote

import (
	"context"
	"time"

	"github.com/jfmyers9/tapdeck/pkg/spotify"
)

// Source provides remote playback state.
type Source interface {
	// CurrentPlayback returns the active playback, or nil if nothing is active
	CurrentPlayback(ctx context.Context) (*spotify.PlaybackState, error)

	// RecentlyPlayed returns up to limit recently played tracks, newest first
	RecentlyPlayed(ctx context.Context, limit int) (*spotify.RecentlyPlayed, error)

	// ContainsTrack reports whether a track is in the user's saved tracks
	ContainsTrack(ctx context.Context, id string) (bool, error)

	// SetDeviceID targets subsequent commands at a device
	SetDeviceID(id string)
}

// Player sends playback commands.
type Player interface {
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	SetShuffle(ctx context.Context, enabled bool) error
	SetRepeat(ctx context.Context, enabled bool) error
	SetVolume(ctx context.Context, percent int) error
	SaveTrack(ctx context.Context, id string) error
	RemoveTrack(ctx context.Context, id string) error
}

// Client is the full remote surface used by the app.
type Client interface {
	Source
	Player
}

// Spotify adapts a *spotify.Client to Client. Every call is bounded by the
// configured timeout.
type Spotify struct {
	client  *spotify.Client
	timeout time.Duration
}

// NewSpotify wraps client. A zero timeout leaves calls bounded only by the
// caller's context.
func NewSpotify(client *spotify.Client, timeout time.Duration) *Spotify {
	return &Spotify{client: client, timeout: timeout}
}

func (s *Spotify) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Spotify) CurrentPlayback(ctx context.Context) (*spotify.PlaybackState, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.client.Player().CurrentPlayback(ctx)
}

func (s *Spotify) RecentlyPlayed(ctx context.Context, limit int) (*spotify.RecentlyPlayed, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.client.Player().RecentlyPlayed(ctx, limit)
}

func (s *Spotify) ContainsTrack(ctx context.Context, id string) (bool, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.client.Library().ContainsTrack(ctx, id)
}

func (s *Spotify) SetDeviceID(id string) {
	s.client.SetDeviceID(id)
}

func (s *Spotify) Play(ctx context.Context) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.client.Player().Play(ctx)
}

func (s *Spotify) Pause(ctx context.Context) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.client.Player().Pause(ctx)
}

func (s *Spotify) Next(ctx context.Context) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.client.Player().Next(ctx)
}

func (s *Spotify) Previous(ctx context.Context) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.client.Player().Previous(ctx)
}

func (s *Spotify) SetShuffle(ctx context.Context, enabled bool) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.client.Player().SetShuffle(ctx, enabled)
}

func (s *Spotify) SetRepeat(ctx context.Context, enabled bool) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.client.Player().SetRepeat(ctx, enabled)
}

func (s *Spotify) SetVolume(ctx context.Context, percent int) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.client.Player().SetVolume(ctx, percent)
}

func (s *Spotify) SaveTrack(ctx context.Context, id string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.client.Library().SaveTrack(ctx, id)
}

func (s *Spotify) RemoveTrack(ctx context.Context, id string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.client.Library().RemoveTrack(ctx, id)
}
