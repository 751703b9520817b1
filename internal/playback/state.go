package playback

import (
	"sync"
	"time"
)

// DefaultVolume is assumed when the remote device does not report a volume.
const DefaultVolume = 50

// Track is the subset of a remote track the display needs.
type Track struct {
	ID      string
	Name    string
	Artists []string
	Images  []string // album image URLs, largest first
}

// Report is one normalized observation of remote playback state.
type Report struct {
	Track      *Track
	DeviceID   string // empty when the track came from history
	IsPlaying  bool
	Shuffle    bool
	Repeat     bool
	Volume     int
	ProgressMS int
	DurationMS int
}

// State is the shared record both loops read and mutate.
//
// Track values are treated as immutable once stored; a new fetch replaces the
// pointer instead of editing it.
type State struct {
	IsPlaying  bool
	Shuffle    bool
	Repeat     bool
	Volume     int
	IsLiked    bool
	Track      *Track
	ProgressMS int
	DurationMS int

	ShowControls bool
	IsDimmed     bool
	LEDsEnabled  bool

	LastActivityAt time.Time
	LastFetchAt    time.Time // zero forces a fetch on the next display tick

	ExitRequested bool

	// Progress estimation baseline.
	BaselineMS int
	BaselineAt time.Time
}

// NewState returns the startup state: nothing playing, controls hidden,
// LEDs on, and activity counted from now.
func NewState(now time.Time) State {
	return State{
		Volume:         DefaultVolume,
		LEDsEnabled:    true,
		LastActivityAt: now,
		BaselineAt:     now,
	}
}

// TrackID returns the current track id, or "" with no track.
func (s State) TrackID() string {
	if s.Track == nil {
		return ""
	}
	return s.Track.ID
}

// FetchDue reports whether remote state should be fetched at now.
func (s *State) FetchDue(now time.Time, interval time.Duration) bool {
	return s.LastFetchAt.IsZero() || now.Sub(s.LastFetchAt) > interval
}

// Apply merges a fetch result. A nil report means nothing is known to be
// playing and leaves the existing track and transport fields alone.
func (s *State) Apply(r *Report, now time.Time) {
	if r == nil {
		return
	}
	s.Track = r.Track
	s.IsPlaying = r.IsPlaying
	s.Shuffle = r.Shuffle
	s.Repeat = r.Repeat
	s.Volume = r.Volume
	s.DurationMS = r.DurationMS
	s.ProgressMS = clamp(r.ProgressMS, 0, r.DurationMS)
	s.Anchor(now)
}

// Anchor makes the current progress the estimation baseline.
func (s *State) Anchor(now time.Time) {
	s.BaselineMS = s.ProgressMS
	s.BaselineAt = now
}

// Touch records user activity.
func (s *State) Touch(now time.Time) {
	s.LastActivityAt = now
}

// Snapshot captures the user-visible parts of the state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		ShowControls:  s.ShowControls,
		IsPlaying:     s.IsPlaying,
		Shuffle:       s.Shuffle,
		Repeat:        s.Repeat,
		ExitRequested: s.ExitRequested,
		IsLiked:       s.IsLiked,
		IsDimmed:      s.IsDimmed,
		LEDsEnabled:   s.LEDsEnabled,
		Volume:        s.Volume,
		TrackID:       s.TrackID(),
		ProgressMS:    s.ProgressMS,
	}
}

// Store guards a State. Callers must not perform network or device I/O while
// inside Update.
type Store struct {
	mu    sync.Mutex
	state State
}

// NewStore creates a Store holding initial.
func NewStore(initial State) *Store {
	return &Store{state: initial}
}

// Load returns a copy of the current state.
func (s *Store) Load() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Update runs fn with exclusive access to the state.
func (s *Store) Update(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

// Exiting reports whether exit has been requested.
func (s *Store) Exiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ExitRequested
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
