package spotify

import (
	"context"
	"net/http"
	"net/url"
)

// LibraryService provides operations on the user's saved tracks.
type LibraryService struct {
	client *Client
}

// ContainsTrack reports whether the track is saved in the user's library.
func (s *LibraryService) ContainsTrack(ctx context.Context, id string) (bool, error) {
	var result []bool
	_, err := s.client.call(ctx, request{
		method: http.MethodGet,
		path:   "/me/tracks/contains",
		query:  url.Values{"ids": {id}},
	}, &result)
	if err != nil {
		return false, err
	}
	return len(result) > 0 && result[0], nil
}

// SaveTrack adds the track to the user's library.
func (s *LibraryService) SaveTrack(ctx context.Context, id string) error {
	_, err := s.client.call(ctx, request{
		method: http.MethodPut,
		path:   "/me/tracks",
		query:  url.Values{"ids": {id}},
	}, nil)
	return err
}

// RemoveTrack removes the track from the user's library.
func (s *LibraryService) RemoveTrack(ctx context.Context, id string) error {
	_, err := s.client.call(ctx, request{
		method: http.MethodDelete,
		path:   "/me/tracks",
		query:  url.Values{"ids": {id}},
	}, nil)
	return err
}
