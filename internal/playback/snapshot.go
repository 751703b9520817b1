package playback

// ProgressTolerance is the largest progress drift, in milliseconds, that two
// snapshots may differ by and still compare equal.
const ProgressTolerance = 5000

// Snapshot is the last rendered view of State. It keeps only the track id.
type Snapshot struct {
	ShowControls  bool
	IsPlaying     bool
	Shuffle       bool
	Repeat        bool
	ExitRequested bool
	IsLiked       bool
	IsDimmed      bool
	LEDsEnabled   bool
	Volume        int
	TrackID       string
	ProgressMS    int
}

// Equal reports whether a and b would render the same. Progress only
// matters once it drifts by ProgressTolerance or more.
func Equal(a, b Snapshot) bool {
	if a.ShowControls != b.ShowControls ||
		a.IsPlaying != b.IsPlaying ||
		a.Shuffle != b.Shuffle ||
		a.Repeat != b.Repeat ||
		a.ExitRequested != b.ExitRequested ||
		a.IsLiked != b.IsLiked ||
		a.IsDimmed != b.IsDimmed ||
		a.LEDsEnabled != b.LEDsEnabled ||
		a.Volume != b.Volume ||
		a.TrackID != b.TrackID {
		return false
	}

	diff := a.ProgressMS - b.ProgressMS
	if diff < 0 {
		diff = -diff
	}
	return diff < ProgressTolerance
}
