package remote

import (
	"errors"

	"github.com/jfmyers9/tapdeck/pkg/spotify"
	"github.com/rs/zerolog"
)

// Reasons attached to failed remote calls in logs.
const (
	ReasonNoActiveDevice = "no active device"
	ReasonTemporary      = "temporarily unavailable"
)

// Reason classifies err for logging. It returns "" when err is not a
// recognised Spotify API error.
func Reason(err error) string {
	var apiErr *spotify.Error
	if !errors.As(err, &apiErr) {
		return ""
	}
	switch {
	case apiErr.NoActiveDevice():
		return ReasonNoActiveDevice
	case apiErr.Temporary():
		return ReasonTemporary
	}
	return ""
}

// Warn starts a warn level event for a failed remote call, tagged with its
// reason when one is known.
func Warn(logger zerolog.Logger, err error) *zerolog.Event {
	ev := logger.Warn().Err(err)
	if reason := Reason(err); reason != "" {
		ev = ev.Str("reason", reason)
	}
	return ev
}
