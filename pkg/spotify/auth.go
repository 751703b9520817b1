package spotify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// refreshAttempts is how often the token endpoint is tried before giving up.
const refreshAttempts = 3

// AuthService manages the access token for the client.
type AuthService struct {
	client *Client
	conf   *oauth2.Config

	mu           sync.Mutex
	refreshToken string
	accessToken  string
}

func newAuthService(c *Client, clientID, clientSecret, tokenURL, refreshToken, accessToken string) *AuthService {
	return &AuthService{
		client: c,
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		refreshToken: refreshToken,
		accessToken:  accessToken,
	}
}

// AccessToken returns the current access token, refreshing it first if the
// client has none yet.
func (a *AuthService) AccessToken(ctx context.Context) (string, error) {
	a.mu.Lock()
	token := a.accessToken
	a.mu.Unlock()

	if token != "" {
		return token, nil
	}

	tok, err := a.Refresh(ctx)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// RefreshToken returns the refresh token currently in use. Spotify may rotate
// it on refresh, so callers persisting credentials should read it back.
func (a *AuthService) RefreshToken() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.refreshToken
}

// Refresh exchanges the refresh token for a new access token.
//
// The token endpoint is tried up to three times. A rotated refresh token
// returned by Spotify replaces the stored one.
func (a *AuthService) Refresh(ctx context.Context) (*oauth2.Token, error) {
	a.mu.Lock()
	refreshToken := a.refreshToken
	a.mu.Unlock()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.client.httpClient)

	var lastErr error
	for i := 0; i < refreshAttempts; i++ {
		a.client.logDebugf("spotify: refreshing access token (attempt %d/%d)", i+1, refreshAttempts)

		src := a.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
		tok, err := src.Token()
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if tok.AccessToken == "" {
			lastErr = ErrNoAccessToken
			continue
		}

		a.mu.Lock()
		a.accessToken = tok.AccessToken
		if tok.RefreshToken != "" {
			a.refreshToken = tok.RefreshToken
		}
		a.mu.Unlock()

		a.client.logDebugf("spotify: access token refreshed, expires %s", tok.Expiry.Format(time.RFC3339))
		return tok, nil
	}

	return nil, fmt.Errorf("spotify: failed to refresh access token after %d attempts: %w", refreshAttempts, lastErr)
}
