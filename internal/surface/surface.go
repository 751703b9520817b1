// Package surface describes the touchscreen the app draws on and the frames
// it renders.
package surface

// Rect is an axis-aligned rectangle in device pixels.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) lies inside r. The right and bottom edges
// are exclusive.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Touch is one poll of the touch panel.
type Touch struct {
	X, Y int
	Down bool
}

// LEDs drives the ambient lights around the display.
type LEDs interface {
	SetLEDs(on bool) error
}

// Device is a touchscreen with a backlight and ambient LEDs.
type Device interface {
	LEDs

	// SetBacklight sets the display brightness (0.0 - 1.0)
	SetBacklight(level float64) error

	// Poll returns the current touch state
	Poll() Touch

	// ShowImage replaces the background with an encoded image; nil clears it
	ShowImage(img []byte) error

	// Render draws a frame over the background
	Render(f Frame) error

	// Size returns the display size in pixels
	Size() (width, height int)
}

// Button is a control as drawn on screen.
type Button struct {
	Name   string
	Icon   string
	Bounds Rect
}

// Frame is everything drawn over the album art.
type Frame struct {
	Buttons []Button
	Text    *TrackText // nil when controls are hidden or no track is known
	Dimmed  bool
}
