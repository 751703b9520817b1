package spotify

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// PlayerService provides playback operations.
type PlayerService struct {
	client *Client
}

// CurrentPlayback returns the user's current playback state.
//
// Returns (nil, nil) when nothing is playing on any device (204 No Content).
func (s *PlayerService) CurrentPlayback(ctx context.Context) (*PlaybackState, error) {
	var state PlaybackState
	ok, err := s.client.call(ctx, request{method: http.MethodGet, path: "/me/player"}, &state)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &state, nil
}

// RecentlyPlayed returns up to limit recently played tracks, newest first.
func (s *PlayerService) RecentlyPlayed(ctx context.Context, limit int) (*RecentlyPlayed, error) {
	var recent RecentlyPlayed
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	ok, err := s.client.call(ctx, request{method: http.MethodGet, path: "/me/player/recently-played", query: query}, &recent)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &RecentlyPlayed{}, nil
	}
	return &recent, nil
}

// Play resumes playback on the session device.
func (s *PlayerService) Play(ctx context.Context) error {
	return s.command(ctx, http.MethodPut, "/me/player/play", nil)
}

// Pause pauses playback on the session device.
func (s *PlayerService) Pause(ctx context.Context) error {
	return s.command(ctx, http.MethodPut, "/me/player/pause", nil)
}

// Next skips to the next track.
func (s *PlayerService) Next(ctx context.Context) error {
	return s.command(ctx, http.MethodPost, "/me/player/next", nil)
}

// Previous skips to the previous track.
func (s *PlayerService) Previous(ctx context.Context) error {
	return s.command(ctx, http.MethodPost, "/me/player/previous", nil)
}

// SetShuffle enables or disables shuffle.
func (s *PlayerService) SetShuffle(ctx context.Context, enabled bool) error {
	return s.command(ctx, http.MethodPut, "/me/player/shuffle", url.Values{"state": {strconv.FormatBool(enabled)}})
}

// SetRepeat enables repeat of the current track, or turns repeat off.
func (s *PlayerService) SetRepeat(ctx context.Context, enabled bool) error {
	state := "off"
	if enabled {
		state = "track"
	}
	return s.command(ctx, http.MethodPut, "/me/player/repeat", url.Values{"state": {state}})
}

// SetVolume sets the device volume (0-100).
func (s *PlayerService) SetVolume(ctx context.Context, percent int) error {
	return s.command(ctx, http.MethodPut, "/me/player/volume", url.Values{"volume_percent": {strconv.Itoa(percent)}})
}

func (s *PlayerService) command(ctx context.Context, method, path string, query url.Values) error {
	_, err := s.client.call(ctx, request{method: method, path: path, query: query, withDevice: true}, nil)
	return err
}
