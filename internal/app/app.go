// Package app runs the touchscreen client: an input loop that turns touches
// into control actions, and a display loop that reconciles remote playback
// state and redraws when something visible changed.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jfmyers9/tapdeck/internal/controls"
	"github.com/jfmyers9/tapdeck/internal/playback"
	"github.com/jfmyers9/tapdeck/internal/remote"
	"github.com/jfmyers9/tapdeck/internal/surface"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Config holds app configuration
type Config struct {
	FetchInterval     time.Duration // How often to refetch remote state
	DisplayInterval   time.Duration // Display loop tick
	InputInterval     time.Duration // Touch poll interval
	InactivityTimeout time.Duration // Idle time before dimming
	DimLevel          float64       // Backlight level while dimmed
}

// Artwork resolves a track to an encoded cover image, or nil.
type Artwork interface {
	Get(ctx context.Context, track *playback.Track) []byte
}

// App coordinates the shared playback state, the remote service, and the
// device.
type App struct {
	config   Config
	store    *playback.Store
	fetcher  *remote.Fetcher
	controls *controls.Surface
	dimmer   *playback.Dimmer
	device   surface.Device
	artwork  Artwork
	logger   zerolog.Logger
	now      func() time.Time

	// Owned by the display loop
	last *playback.Snapshot
}

// New creates a new App instance
func New(cfg Config, client remote.Client, device surface.Device, artwork Artwork, logger zerolog.Logger) (*App, error) {
	if cfg.FetchInterval <= 0 || cfg.DisplayInterval <= 0 || cfg.InputInterval <= 0 {
		return nil, fmt.Errorf("intervals must be positive")
	}

	now := time.Now
	store := playback.NewStore(playback.NewState(now()))
	width, height := device.Size()

	return &App{
		config:   cfg,
		store:    store,
		fetcher:  remote.NewFetcher(client, logger),
		controls: controls.New(width, height, store, client, device, logger),
		dimmer:   playback.NewDimmer(cfg.InactivityTimeout, cfg.DimLevel, device, logger),
		device:   device,
		artwork:  artwork,
		logger:   logger.With().Str("component", "app").Logger(),
		now:      now,
	}, nil
}

// Store returns the shared playback state.
func (a *App) Store() *playback.Store {
	return a.store
}

// RequestExit asks both loops to stop.
func (a *App) RequestExit() {
	a.store.Update(func(s *playback.State) { s.ExitRequested = true })
}

// Run starts both loops and blocks until exit is requested or ctx is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info().
		Dur("fetch_interval", a.config.FetchInterval).
		Dur("display_interval", a.config.DisplayInterval).
		Msg("Starting app")

	initial := a.store.Load()
	if err := a.device.SetBacklight(1.0); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to set backlight")
	}
	if err := a.device.SetLEDs(initial.LEDsEnabled); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to set LEDs")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.inputLoop(ctx) })
	g.Go(func() error { return a.displayLoop(ctx) })

	err := g.Wait()
	a.logger.Info().Msg("App stopped")
	return err
}

// inputLoop polls the touch panel and dispatches at most one control per
// touch.
func (a *App) inputLoop(ctx context.Context) error {
	for !a.store.Exiting() {
		if touch := a.device.Poll(); touch.Down {
			if c := a.controls.Press(ctx, touch.X, touch.Y); c != nil {
				a.logger.Debug().Str("control", c.Name).Int("x", touch.X).Int("y", touch.Y).Msg("Touch")
			}

			// Wait for release so one touch is one press
			for a.device.Poll().Down {
				if !sleep(ctx, a.config.InputInterval) {
					return nil
				}
			}
		}

		if !sleep(ctx, a.config.InputInterval) {
			return nil
		}
	}
	return nil
}

// displayLoop ticks immediately and then every DisplayInterval.
func (a *App) displayLoop(ctx context.Context) error {
	ticker := time.NewTicker(a.config.DisplayInterval)
	defer ticker.Stop()

	for {
		if a.store.Exiting() {
			return nil
		}
		a.tick(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// tick runs one display cycle.
func (a *App) tick(ctx context.Context) {
	now := a.now()

	if st := a.store.Load(); st.FetchDue(now, a.config.FetchInterval) {
		a.refresh(ctx, now)
	}

	a.store.Update(func(s *playback.State) { s.EstimateProgress(a.now()) })
	a.dimmer.Step(a.store, a.now())

	st := a.store.Load()
	snap := st.Snapshot()

	if a.last == nil || a.last.TrackID != snap.TrackID {
		a.showArtwork(ctx, st.Track)
	}

	if a.last != nil && playback.Equal(*a.last, snap) {
		return
	}

	frame := surface.Frame{
		Buttons: a.controls.Buttons(&st),
		Text:    surface.BuildText(&st),
		Dimmed:  st.IsDimmed,
	}
	if err := a.device.Render(frame); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to render frame")
	}
	a.last = &snap
}

// refresh fetches remote state and merges it. The store lock is not held
// during network calls.
func (a *App) refresh(ctx context.Context, now time.Time) {
	a.store.Update(func(s *playback.State) { s.LastFetchAt = now })

	report := a.fetcher.Fetch(ctx)
	if report == nil {
		a.logger.Debug().Msg("Nothing playing")
		return
	}

	var (
		liked   bool
		likedOK bool
	)
	if report.Track != nil && report.Track.ID != "" {
		var err error
		liked, err = a.fetcher.Liked(ctx, report.Track.ID)
		if err != nil {
			remote.Warn(a.logger, err).Str("track", report.Track.Name).Msg("Failed to check liked status")
		} else {
			likedOK = true
		}
	}

	fetchedAt := a.now()
	a.store.Update(func(s *playback.State) {
		s.Apply(report, fetchedAt)
		if likedOK {
			s.IsLiked = liked
		}
	})
}

func (a *App) showArtwork(ctx context.Context, track *playback.Track) {
	var img []byte
	if track != nil && a.artwork != nil {
		img = a.artwork.Get(ctx, track)
	}
	if err := a.device.ShowImage(img); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to show artwork")
	}
}

// sleep waits for d, returning false if ctx is cancelled first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
