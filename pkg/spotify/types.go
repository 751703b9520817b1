package spotify

// PlaybackState is the response of GET /me/player.
//
// Pointer fields are absent in some responses (private sessions, ads, devices
// without volume control) and are left nil in that case.
type PlaybackState struct {
	Device       *Device `json:"device"`
	ShuffleState bool    `json:"shuffle_state"`
	RepeatState  string  `json:"repeat_state"` // off, track, context
	ProgressMS   *int    `json:"progress_ms"`
	IsPlaying    bool    `json:"is_playing"`
	Item         *Track  `json:"item"`
	Timestamp    int64   `json:"timestamp"`
}

// Device is a Spotify Connect playback device.
type Device struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	IsActive      bool   `json:"is_active"`
	VolumePercent *int   `json:"volume_percent"`
}

// Track is a Spotify track object.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	URI        string   `json:"uri"`
	DurationMS int      `json:"duration_ms"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
}

// Artist is a simplified artist object.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Album is a simplified album object.
type Album struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

// Image is an image resource. Albums list images widest first.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// RecentlyPlayed is the response of GET /me/player/recently-played.
type RecentlyPlayed struct {
	Items []PlayHistory `json:"items"`
}

// PlayHistory is one entry of the recently played list.
type PlayHistory struct {
	Track    Track  `json:"track"`
	PlayedAt string `json:"played_at"`
}

// apiError is the JSON envelope of an error response.
type apiError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
		Reason  string `json:"reason"`
	} `json:"error"`
}
