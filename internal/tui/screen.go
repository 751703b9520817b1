// Package tui renders the touchscreen in a terminal. Mouse clicks stand in
// for touches and the album cover is drawn with half-block cells.
package tui

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/jfmyers9/tapdeck/internal/surface"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"
)

// Screen is a surface.Device backed by a tview application.
type Screen struct {
	app     *tview.Application
	canvas  *tview.Box
	width   int
	height  int
	logger  zerolog.Logger
	running atomic.Bool

	mu        sync.Mutex
	touch     surface.Touch
	latched   bool // a press not yet seen by Poll
	frame     surface.Frame
	cover     image.Image
	backlight float64
	leds      bool
	onQuit    func()
}

// NewScreen creates a terminal screen emulating a width x height display.
func NewScreen(width, height int, logger zerolog.Logger) *Screen {
	s := &Screen{
		app:       tview.NewApplication(),
		canvas:    tview.NewBox(),
		width:     width,
		height:    height,
		backlight: 1.0,
		leds:      true,
		logger:    logger.With().Str("component", "screen").Logger(),
	}

	s.canvas.SetBorder(true).
		SetTitle(" tapdeck ").
		SetTitleAlign(tview.AlignLeft)
	s.canvas.SetDrawFunc(s.draw)

	s.app.SetInputCapture(s.handleKeyEvent)
	s.app.SetMouseCapture(s.handleMouseEvent)
	s.app.EnableMouse(true)
	s.app.SetRoot(s.canvas, true)

	return s
}

// SetScreen replaces the terminal, for tests.
func (s *Screen) SetScreen(screen tcell.Screen) {
	s.app.SetScreen(screen)
}

// OnQuit registers fn to run when the user presses q.
func (s *Screen) OnQuit(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onQuit = fn
}

// Run blocks until Stop is called.
func (s *Screen) Run() error {
	s.running.Store(true)
	defer s.running.Store(false)

	if err := s.app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// Stop stops the application
func (s *Screen) Stop() {
	s.running.Store(false)
	s.app.Stop()
}

// redraw schedules a draw while the application is running.
func (s *Screen) redraw() {
	if s.running.Load() {
		s.app.Draw()
	}
}

func (s *Screen) Size() (int, int) {
	return s.width, s.height
}

// Poll reports the current touch. A click released before it was polled is
// still reported as down once.
func (s *Screen) Poll() surface.Touch {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.touch
	if s.latched {
		t.Down = true
		s.latched = false
	}
	return t
}

func (s *Screen) SetBacklight(level float64) error {
	s.mu.Lock()
	s.backlight = level
	s.mu.Unlock()
	s.redraw()
	return nil
}

func (s *Screen) SetLEDs(on bool) error {
	s.mu.Lock()
	s.leds = on
	s.mu.Unlock()
	s.redraw()
	return nil
}

func (s *Screen) ShowImage(img []byte) error {
	var cover image.Image
	if img != nil {
		decoded, _, err := image.Decode(bytes.NewReader(img))
		if err != nil {
			return fmt.Errorf("failed to decode cover: %w", err)
		}
		cover = decoded
	}

	s.mu.Lock()
	s.cover = cover
	s.mu.Unlock()
	s.redraw()
	return nil
}

func (s *Screen) Render(f surface.Frame) error {
	s.mu.Lock()
	s.frame = f
	s.mu.Unlock()
	s.redraw()
	return nil
}

// handleKeyEvent processes keyboard input
func (s *Screen) handleKeyEvent(event *tcell.EventKey) *tcell.EventKey {
	switch event.Rune() {
	case 'q', 'Q':
		s.mu.Lock()
		quit := s.onQuit
		s.mu.Unlock()
		if quit != nil {
			quit()
		}
		return nil
	}
	return event
}

// handleMouseEvent turns left clicks inside the canvas into touches.
func (s *Screen) handleMouseEvent(event *tcell.EventMouse, action tview.MouseAction) (*tcell.EventMouse, tview.MouseAction) {
	switch action {
	case tview.MouseLeftDown:
		x, y := event.Position()
		cx, cy, cw, ch := s.canvas.GetInnerRect()
		dx, dy, ok := toDevice(x-cx, y-cy, cw, ch, s.width, s.height)
		if !ok {
			return event, action
		}
		s.mu.Lock()
		s.touch = surface.Touch{X: dx, Y: dy, Down: true}
		s.latched = true
		s.mu.Unlock()
		s.logger.Debug().Int("x", dx).Int("y", dy).Msg("Touch down")
		return nil, action
	case tview.MouseLeftUp:
		s.mu.Lock()
		s.touch.Down = false
		s.mu.Unlock()
		return nil, action
	}
	return event, action
}

// draw paints the cover, buttons and track text into the canvas.
func (s *Screen) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	s.mu.Lock()
	frame := s.frame
	cover := s.cover
	level := s.backlight
	leds := s.leds
	s.mu.Unlock()

	ix, iy, iw, ih := x+1, y+1, width-2, height-2
	if iw <= 0 || ih <= 0 {
		return ix, iy, iw, ih
	}

	if cover != nil {
		drawCover(screen, cover, ix, iy, iw, ih, level)
	}

	for _, b := range frame.Buttons {
		bx, by, bw, bh := toCells(b.Bounds, iw, ih, s.width, s.height)
		label := tview.Escape("[" + b.Icon + "]")
		tview.Print(screen, label, ix+bx, iy+by+bh/2, bw, tview.AlignCenter, dim(tcell.ColorWhite, level))
	}

	if t := frame.Text; t != nil {
		s.drawText(screen, t, ix, iy, iw, ih, level)
	}

	ledColor := tcell.ColorGray
	if leds {
		ledColor = tcell.ColorGreen
	}
	tview.Print(screen, "●", x+width-3, y, 1, tview.AlignLeft, ledColor)

	return ix, iy, iw, ih
}

func (s *Screen) drawText(screen tcell.Screen, t *surface.TrackText, x, y, w, h int, level float64) {
	white := dim(tcell.ColorWhite, level)
	row := func(deviceY int) int { return y + deviceY*h/s.height }

	tview.Print(screen, tview.Escape(t.Name), x+1, row(s.height-140), w-2, tview.AlignLeft, white)
	tview.Print(screen, tview.Escape(t.Artists), x+1, row(s.height-111), w-2, tview.AlignLeft, white)

	if !t.ShowProgress {
		return
	}

	barY := row(s.height - 240)
	barWidth := w - 2
	tview.Print(screen, t.Elapsed, x+1, barY-1, barWidth, tview.AlignLeft, white)
	tview.Print(screen, t.Total, x+1, barY-1, barWidth, tview.AlignRight, white)
	tview.Print(screen, progressBar(t.Progress, barWidth), x+1, barY, barWidth, tview.AlignLeft, white)
	tview.Print(screen, t.Volume, x+1, row(s.height-40), w-2, tview.AlignRight, white)
}

// drawCover fills the area with the image, two pixels per cell.
func drawCover(screen tcell.Screen, img image.Image, x, y, w, h int, level float64) {
	b := img.Bounds()
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			px := b.Min.X + col*b.Dx()/w
			top := b.Min.Y + (2*row)*b.Dy()/(2*h)
			bottom := b.Min.Y + (2*row+1)*b.Dy()/(2*h)
			style := tcell.StyleDefault.
				Foreground(dim(toColor(img, px, top), level)).
				Background(dim(toColor(img, px, bottom), level))
			screen.SetContent(x+col, y+row, '▀', nil, style)
		}
	}
}

func toColor(img image.Image, x, y int) tcell.Color {
	r, g, b, _ := img.At(x, y).RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}

// dim scales a color by the backlight level.
func dim(c tcell.Color, level float64) tcell.Color {
	if level >= 1 {
		return c
	}
	r, g, b := c.RGB()
	return tcell.NewRGBColor(int32(float64(r)*level), int32(float64(g)*level), int32(float64(b)*level))
}

// toDevice maps a cell offset inside a cols x rows area to device pixels.
func toDevice(col, row, cols, rows, width, height int) (int, int, bool) {
	if cols <= 0 || rows <= 0 || col < 0 || row < 0 || col >= cols || row >= rows {
		return 0, 0, false
	}
	return col * width / cols, row * height / rows, true
}

// toCells maps device pixel bounds to a cell rectangle.
func toCells(r surface.Rect, cols, rows, width, height int) (int, int, int, int) {
	x := r.X * cols / width
	y := r.Y * rows / height
	w := r.W * cols / width
	h := r.H * rows / height
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return x, y, w, h
}

// progressBar renders a fraction as a fixed-width bar.
func progressBar(progress float64, width int) string {
	if width <= 0 {
		return ""
	}
	if progress > 1 {
		progress = 1
	}
	if progress < 0 {
		progress = 0
	}

	filled := int(progress * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
