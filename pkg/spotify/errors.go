package spotify

import (
	"fmt"
	"net/http"
)

// Error represents a Spotify Web API error object.
type Error struct {
	Status  int    // HTTP status code
	Message string // Error message from the API
	Reason  string // Optional player error reason (e.g. NO_ACTIVE_DEVICE)
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("spotify: error %d: %s (%s)", e.Status, e.Message, e.Reason)
	}
	return fmt.Sprintf("spotify: error %d: %s", e.Status, e.Message)
}

// Is reports whether target is an *Error with the same status.
//
// This allows errors.Is(err, &spotify.Error{Status: 404}) style checks.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Status == t.Status
}

// TokenExpired returns true if the access token used for the request expired.
func (e *Error) TokenExpired() bool {
	return e.Status == http.StatusUnauthorized && e.Message == messageTokenExpired
}

// Temporary returns true for rate limiting and server side failures.
//
// The caller decides what to do with it; the client itself never retries
// these.
func (e *Error) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// NoActiveDevice returns true if the command failed because no device is
// currently active for the user.
func (e *Error) NoActiveDevice() bool {
	return e.Status == http.StatusNotFound || e.Reason == "NO_ACTIVE_DEVICE"
}

const messageTokenExpired = "The access token expired"

// Predefined errors for common cases.
var (
	// ErrInvalidConfig is returned when client configuration is invalid.
	ErrInvalidConfig = fmt.Errorf("spotify: invalid configuration")

	// ErrNoAccessToken is returned when the token endpoint answered without
	// an access token.
	ErrNoAccessToken = fmt.Errorf("spotify: token response has no access token")
)
