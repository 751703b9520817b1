package cmd

import (
	"fmt"

	"github.com/jfmyers9/tapdeck/internal/config"
	"github.com/jfmyers9/tapdeck/internal/remote"
	"github.com/jfmyers9/tapdeck/pkg/spotify"
	"github.com/rs/zerolog"
)

// spotifyLogger adapts zerolog to the SDK's Logger interface.
type spotifyLogger struct {
	logger zerolog.Logger
}

func (l spotifyLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

// newSpotifyClient builds an SDK client from the stored credentials.
func newSpotifyClient(cfg *config.Config, logger zerolog.Logger) (*spotify.Client, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("Spotify credentials not configured. Run 'tapdeck auth' first")
	}

	client, err := spotify.NewClient(spotify.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RefreshToken: cfg.Spotify.RefreshToken,
		DeviceID:     cfg.Spotify.DeviceID,
		Logger:       spotifyLogger{logger: logger.With().Str("component", "spotify").Logger()},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify client: %w", err)
	}
	return client, nil
}

// newRemote wraps the SDK client with the configured per-call timeout.
func newRemote(cfg *config.Config, logger zerolog.Logger) (*spotify.Client, *remote.Spotify, error) {
	client, err := newSpotifyClient(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return client, remote.NewSpotify(client, cfg.RemoteTimeout), nil
}

// persistRefreshToken saves a refresh token Spotify rotated during the run.
func persistRefreshToken(cfg *config.Config, client *spotify.Client, logger zerolog.Logger) {
	token := client.Auth().RefreshToken()
	if token == "" || token == cfg.Spotify.RefreshToken {
		return
	}

	cfg.Spotify.RefreshToken = token
	if err := cfg.Save(); err != nil {
		logger.Warn().Err(err).Msg("Failed to save rotated refresh token")
		return
	}
	logger.Info().Msg("Saved rotated refresh token")
}
