package tui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/jfmyers9/tapdeck/internal/surface"
	"github.com/rs/zerolog"
)

func TestToDevice(t *testing.T) {
	tests := []struct {
		name       string
		col, row   int
		wantX      int
		wantY      int
		wantInside bool
	}{
		{"origin", 0, 0, 0, 0, true},
		{"center", 30, 15, 240, 240, true},
		{"last cell", 59, 29, 472, 464, true},
		{"right of area", 60, 0, 0, 0, false},
		{"negative", -1, 3, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := toDevice(tt.col, tt.row, 60, 30, 480, 480)
			if ok != tt.wantInside {
				t.Fatalf("ok = %v, want %v", ok, tt.wantInside)
			}
			if ok && (x != tt.wantX || y != tt.wantY) {
				t.Errorf("toDevice() = (%d, %d), want (%d, %d)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestToCells(t *testing.T) {
	x, y, w, h := toCells(surface.Rect{X: 240, Y: 0, W: 80, H: 100}, 60, 30, 480, 480)
	if x != 30 || y != 0 || w != 10 || h != 6 {
		t.Errorf("toCells() = (%d, %d, %d, %d)", x, y, w, h)
	}

	_, _, w, h = toCells(surface.Rect{W: 1, H: 1}, 60, 30, 480, 480)
	if w != 1 || h != 1 {
		t.Errorf("expected minimum 1x1 cell, got %dx%d", w, h)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		progress float64
		width    int
		filled   int
	}{
		{0, 10, 0},
		{0.5, 10, 5},
		{1, 10, 10},
		{1.5, 10, 10},
		{-1, 10, 0},
	}

	for _, tt := range tests {
		bar := progressBar(tt.progress, tt.width)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("progressBar(%v) filled = %d, want %d", tt.progress, got, tt.filled)
		}
		if got := len([]rune(bar)); got != tt.width {
			t.Errorf("progressBar(%v) width = %d, want %d", tt.progress, got, tt.width)
		}
	}
}

func TestDim(t *testing.T) {
	c := tcell.NewRGBColor(200, 100, 50)
	if dim(c, 1.0) != c {
		t.Error("full brightness must not change the color")
	}
	r, g, b := dim(c, 0.5).RGB()
	if r != 100 || g != 50 || b != 25 {
		t.Errorf("dim(0.5) = (%d, %d, %d)", r, g, b)
	}
}

func TestScreenDevice(t *testing.T) {
	s := NewScreen(480, 480, zerolog.Nop())
	s.SetScreen(tcell.NewSimulationScreen(""))

	var quit bool
	s.OnQuit(func() { quit = true })
	s.handleKeyEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	if !quit {
		t.Error("expected quit handler to run")
	}

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	if err := s.ShowImage(buf.Bytes()); err != nil {
		t.Fatalf("ShowImage: %v", err)
	}
	if err := s.ShowImage([]byte("garbage")); err == nil {
		t.Error("expected decode error")
	}

	if err := s.Render(surface.Frame{Buttons: []surface.Button{{Name: "Exit", Icon: "exit"}}}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if w, h := s.Size(); w != 480 || h != 480 {
		t.Errorf("Size() = %dx%d", w, h)
	}
	if s.Poll().Down {
		t.Error("expected no touch")
	}
}

func TestScreen_PollLatchesQuickClick(t *testing.T) {
	s := NewScreen(480, 480, zerolog.Nop())

	// Press and release before the input loop polls.
	s.mu.Lock()
	s.touch = surface.Touch{X: 10, Y: 20, Down: true}
	s.latched = true
	s.touch.Down = false
	s.mu.Unlock()

	got := s.Poll()
	if !got.Down || got.X != 10 || got.Y != 20 {
		t.Errorf("first Poll() = %+v, want down at 10,20", got)
	}
	if s.Poll().Down {
		t.Error("second Poll() should report the release")
	}
}

// cellText reads back every row of a simulation screen.
func cellText(sim tcell.SimulationScreen) string {
	w, h := sim.Size()
	var sb strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := sim.GetContent(x, y)
			sb.WriteRune(r)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestScreen_DrawsButtonLabels(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("sim.Init: %v", err)
	}
	defer sim.Fini()
	sim.SetSize(60, 30)

	s := NewScreen(480, 480, zerolog.Nop())
	frame := surface.Frame{Buttons: []surface.Button{
		{Name: "Exit", Icon: "exit", Bounds: surface.Rect{X: 0, Y: 0, W: 160, H: 96}},
		{Name: "Play", Icon: "play", Bounds: surface.Rect{X: 160, Y: 192, W: 160, H: 96}},
		{Name: "Toggle Shuffle", Icon: "shuffle_on", Bounds: surface.Rect{X: 0, Y: 384, W: 160, H: 96}},
	}}
	if err := s.Render(frame); err != nil {
		t.Fatalf("Render: %v", err)
	}

	s.draw(sim, 0, 0, 60, 30)
	got := cellText(sim)
	for _, label := range []string{"[exit]", "[play]", "[shuffle_on]"} {
		if !strings.Contains(got, label) {
			t.Errorf("label %s not drawn; screen:\n%s", label, got)
		}
	}
}
