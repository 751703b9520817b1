package surface

import (
	"fmt"
	"strings"

	"github.com/jfmyers9/tapdeck/internal/playback"
	"github.com/mattn/go-runewidth"
)

const (
	maxNameWidth    = 20
	maxArtistsWidth = 35
	ellipsis        = " ..."
)

// TrackText is the track overlay: title, artists, progress and volume.
type TrackText struct {
	Name    string
	Artists string

	// Progress bar, only when the duration is known
	ShowProgress bool
	Progress     float64 // 0.0 - 1.0
	Elapsed      string
	Total        string

	Volume string
}

// BuildText returns the overlay for s, or nil when it should not be drawn.
func BuildText(s *playback.State) *TrackText {
	if !s.ShowControls || s.Track == nil {
		return nil
	}

	text := &TrackText{
		Name:    truncate(asciiOnly(s.Track.Name), maxNameWidth),
		Artists: truncate(asciiOnly(strings.Join(s.Track.Artists, ", ")), maxArtistsWidth),
	}

	if s.DurationMS > 0 {
		text.ShowProgress = true
		text.Progress = float64(s.ProgressMS) / float64(s.DurationMS)
		text.Elapsed = FormatTime(s.ProgressMS / 1000)
		text.Total = FormatTime(s.DurationMS / 1000)
		text.Volume = fmt.Sprintf("Vol: %d%%", s.Volume)
	}

	return text
}

// FormatTime formats seconds as M:SS.
func FormatTime(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// asciiOnly replaces characters the display font cannot draw with spaces.
func asciiOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 127 {
			return ' '
		}
		return r
	}, s)
}

func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "") + ellipsis
}
