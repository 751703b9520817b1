package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jfmyers9/tapdeck/internal/playback"
	"github.com/jfmyers9/tapdeck/internal/surface"
	"github.com/jfmyers9/tapdeck/pkg/spotify"
	"github.com/rs/zerolog"
)

// fakeClient serves canned playback state and records commands.
type fakeClient struct {
	mu       sync.Mutex
	current  *spotify.PlaybackState
	err      error
	liked    bool
	likedErr error
	deviceID string
	fetches  int
	commands []string
}

func (f *fakeClient) set(state *spotify.PlaybackState, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current, f.err = state, err
}

func (f *fakeClient) CurrentPlayback(ctx context.Context) (*spotify.PlaybackState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	return f.current, f.err
}

func (f *fakeClient) RecentlyPlayed(ctx context.Context, limit int) (*spotify.RecentlyPlayed, error) {
	return nil, errors.New("history unavailable")
}

func (f *fakeClient) ContainsTrack(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.liked, f.likedErr
}

func (f *fakeClient) SetDeviceID(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deviceID = id
}

func (f *fakeClient) record(cmd string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, cmd)
	return nil
}

func (f *fakeClient) Play(ctx context.Context) error { return f.record("play") }
func (f *fakeClient) Pause(ctx context.Context) error { return f.record("pause") }
func (f *fakeClient) Next(ctx context.Context) error { return f.record("next") }
func (f *fakeClient) Previous(ctx context.Context) error { return f.record("previous") }
func (f *fakeClient) SetShuffle(ctx context.Context, enabled bool) error { return f.record("shuffle") }
func (f *fakeClient) SetRepeat(ctx context.Context, enabled bool) error { return f.record("repeat") }
func (f *fakeClient) SetVolume(ctx context.Context, percent int) error { return f.record("volume") }
func (f *fakeClient) SaveTrack(ctx context.Context, id string) error { return f.record("save") }
func (f *fakeClient) RemoveTrack(ctx context.Context, id string) error { return f.record("remove") }

// fakeDevice records what the app draws and replays scripted touches.
type fakeDevice struct {
	mu      sync.Mutex
	touches []surface.Touch
	images  [][]byte
	frames  []surface.Frame
	levels  []float64
	leds    []bool
}

func (d *fakeDevice) Size() (int, int) { return 480, 480 }

func (d *fakeDevice) Poll() surface.Touch {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.touches) == 0 {
		return surface.Touch{}
	}
	t := d.touches[0]
	d.touches = d.touches[1:]
	return t
}

func (d *fakeDevice) SetBacklight(level float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.levels = append(d.levels, level)
	return nil
}

func (d *fakeDevice) SetLEDs(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.leds = append(d.leds, on)
	return nil
}

func (d *fakeDevice) ShowImage(img []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.images = append(d.images, img)
	return nil
}

func (d *fakeDevice) Render(f surface.Frame) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames = append(d.frames, f)
	return nil
}

func (d *fakeDevice) counts() (images, frames int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.images), len(d.frames)
}

type fakeArtwork struct{}

func (fakeArtwork) Get(ctx context.Context, track *playback.Track) []byte {
	return []byte("cover-" + track.ID)
}

func intPtr(v int) *int { return &v }

func playing(id string, progress int) *spotify.PlaybackState {
	return &spotify.PlaybackState{
		Device:     &spotify.Device{ID: "dev-1", VolumePercent: intPtr(40)},
		ProgressMS: intPtr(progress),
		IsPlaying:  true,
		Item: &spotify.Track{
			ID:         id,
			Name:       "Track " + id,
			DurationMS: 200000,
			Artists:    []spotify.Artist{{Name: "Artist"}},
			Album:      spotify.Album{Images: []spotify.Image{{URL: "https://i.scdn.co/" + id}}},
		},
	}
}

func testConfig() Config {
	return Config{
		FetchInterval:     10 * time.Second,
		DisplayInterval:   time.Millisecond,
		InputInterval:     time.Millisecond,
		InactivityTimeout: time.Hour,
		DimLevel:          0.3,
	}
}

func newTestApp(t *testing.T, client *fakeClient, device *fakeDevice) (*App, *time.Time) {
	t.Helper()
	a, err := New(testConfig(), client, device, fakeArtwork{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	clock := time.Now()
	a.now = func() time.Time { return clock }
	return a, &clock
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.DisplayInterval = 0
	if _, err := New(cfg, &fakeClient{}, &fakeDevice{}, nil, zerolog.Nop()); err == nil {
		t.Error("expected error for zero display interval")
	}
}

func TestTick_TrackChange(t *testing.T) {
	client := &fakeClient{}
	client.set(playing("A", 30000), nil)
	device := &fakeDevice{}
	a, clock := newTestApp(t, client, device)
	ctx := context.Background()

	a.tick(ctx)
	images, frames := device.counts()
	if images != 1 || frames != 1 {
		t.Fatalf("first tick: images=%d frames=%d, want 1/1", images, frames)
	}
	if string(device.images[0]) != "cover-A" {
		t.Errorf("unexpected artwork %q", device.images[0])
	}
	if client.deviceID != "dev-1" {
		t.Errorf("expected device id adopted, got %q", client.deviceID)
	}

	// Small progress drift stays below the redraw threshold.
	*clock = clock.Add(2 * time.Second)
	a.tick(ctx)
	if images, frames := device.counts(); images != 1 || frames != 1 {
		t.Fatalf("quiet tick: images=%d frames=%d, want 1/1", images, frames)
	}
	if got := a.Store().Load().ProgressMS; got != 32000 {
		t.Errorf("ProgressMS = %d, want 32000", got)
	}

	// The remote moves to track B; a skip forces the refetch.
	client.set(playing("B", 0), nil)
	a.Store().Update(func(s *playback.State) { s.LastFetchAt = time.Time{} })
	a.tick(ctx)

	images, frames = device.counts()
	if images != 2 || frames != 2 {
		t.Fatalf("track change: images=%d frames=%d, want 2/2", images, frames)
	}
	if string(device.images[1]) != "cover-B" {
		t.Errorf("unexpected artwork %q", device.images[1])
	}
	st := a.Store().Load()
	if st.TrackID() != "B" || st.ProgressMS != 0 {
		t.Errorf("expected track B at 0ms, got %s at %d", st.TrackID(), st.ProgressMS)
	}
}

func TestTick_RedrawsOnProgressDrift(t *testing.T) {
	client := &fakeClient{}
	client.set(playing("A", 0), nil)
	device := &fakeDevice{}
	a, clock := newTestApp(t, client, device)
	ctx := context.Background()

	a.tick(ctx)
	*clock = clock.Add(5 * time.Second)
	a.tick(ctx)

	if _, frames := device.counts(); frames != 2 {
		t.Errorf("expected redraw after 5s of progress, got %d frames", frames)
	}
}

func TestTick_FetchFailureKeepsTrack(t *testing.T) {
	client := &fakeClient{}
	client.set(playing("A", 1000), nil)
	device := &fakeDevice{}
	a, clock := newTestApp(t, client, device)
	ctx := context.Background()

	a.tick(ctx)
	client.set(nil, errors.New("network down"))
	*clock = clock.Add(11 * time.Second)
	a.tick(ctx)

	if got := a.Store().Load().TrackID(); got != "A" {
		t.Errorf("TrackID = %q, want A after failed fetch", got)
	}
	if client.fetches != 2 {
		t.Errorf("expected 2 fetches, got %d", client.fetches)
	}
}

func TestTick_FetchInterval(t *testing.T) {
	client := &fakeClient{}
	client.set(playing("A", 0), nil)
	a, clock := newTestApp(t, client, &fakeDevice{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		a.tick(ctx)
		*clock = clock.Add(time.Second)
	}
	if client.fetches != 1 {
		t.Errorf("expected 1 fetch within the interval, got %d", client.fetches)
	}

	*clock = clock.Add(10 * time.Second)
	a.tick(ctx)
	if client.fetches != 2 {
		t.Errorf("expected a second fetch after the interval, got %d", client.fetches)
	}
}

func TestTick_LikedStatus(t *testing.T) {
	client := &fakeClient{liked: true}
	client.set(playing("A", 0), nil)
	a, clock := newTestApp(t, client, &fakeDevice{})
	ctx := context.Background()

	a.tick(ctx)
	if !a.Store().Load().IsLiked {
		t.Fatal("expected liked after fetch")
	}

	client.mu.Lock()
	client.liked, client.likedErr = false, errors.New("rate limited")
	client.mu.Unlock()

	*clock = clock.Add(11 * time.Second)
	a.tick(ctx)
	if !a.Store().Load().IsLiked {
		t.Error("a failed liked check must keep the last known value")
	}
}

func TestRun_ExitButton(t *testing.T) {
	client := &fakeClient{}
	client.set(playing("A", 0), nil)
	device := &fakeDevice{touches: []surface.Touch{
		{X: 240, Y: 240, Down: true}, // show controls
		{},
		{X: 40, Y: 40, Down: true}, // exit
		{},
	}}
	a, err := New(testConfig(), client, device, fakeArtwork{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("loops did not stop on exit request")
	}
	if !a.Store().Exiting() {
		t.Error("expected exit requested")
	}
	if len(device.leds) == 0 || !device.leds[0] {
		t.Errorf("expected LEDs switched on at startup, got %v", device.leds)
	}
}

func TestRun_ContextCancel(t *testing.T) {
	client := &fakeClient{}
	a, err := New(testConfig(), client, &fakeDevice{}, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestInputLoop_HeldTouchFiresOnce(t *testing.T) {
	device := &fakeDevice{touches: []surface.Touch{
		{X: 240, Y: 240, Down: true},
		{X: 240, Y: 240, Down: true},
		{X: 240, Y: 240, Down: true},
		{X: 240, Y: 240, Down: true},
		{},
	}}
	a, _ := newTestApp(t, &fakeClient{}, device)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := a.inputLoop(ctx); err != nil {
		t.Fatalf("inputLoop: %v", err)
	}

	device.mu.Lock()
	remaining := len(device.touches)
	device.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("%d touches not polled", remaining)
	}
	if !a.Store().Load().ShowControls {
		t.Error("a held touch must toggle the controls exactly once")
	}
}
