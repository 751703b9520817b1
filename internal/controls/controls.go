// Package controls declares the on-screen controls, decides which are live
// for a given state, and runs their actions.
package controls

import (
	"context"
	"time"

	"github.com/jfmyers9/tapdeck/internal/playback"
	"github.com/jfmyers9/tapdeck/internal/remote"
	"github.com/jfmyers9/tapdeck/internal/surface"
	"github.com/rs/zerolog"
)

// Control names, in hit-test order.
const (
	Exit           = "Exit"
	Next           = "Next"
	Previous       = "Previous"
	Play           = "Play"
	ToggleShuffle  = "Toggle Shuffle"
	ToggleRepeat   = "Toggle Repeat"
	ToggleLight    = "Toggle Light"
	VolumeUp       = "Volume Up"
	VolumeDown     = "Volume Down"
	Like           = "Like"
	ToggleControls = "Toggle Controls"
)

const volumeStep = 10

// Control is one touch target. Controls are immutable once built.
type Control struct {
	Name   string
	Icons  []string
	Bounds surface.Rect

	visible func(s *playback.State) bool
	icon    func(s *playback.State) string
	press   func(ctx context.Context) error
}

// View is a control resolved against a state.
type View struct {
	Control *Control
	Enabled bool
	Icon    string
}

// Surface holds the declared controls and the collaborators their actions
// drive.
type Surface struct {
	controls []*Control
	store    *playback.Store
	player   remote.Player
	leds     surface.LEDs
	logger   zerolog.Logger
	now      func() time.Time
}

// New declares the controls for a width x height display.
func New(width, height int, store *playback.Store, player remote.Player, leds surface.LEDs, logger zerolog.Logger) *Surface {
	s := &Surface{
		store:  store,
		player: player,
		leds:   leds,
		logger: logger.With().Str("component", "controls").Logger(),
		now:    time.Now,
	}
	s.controls = s.declare(width, height)
	return s
}

func (s *Surface) declare(width, height int) []*Control {
	cx := width / 2
	bottom := height - 100

	return []*Control{
		{Name: Exit, Icons: []string{"exit"}, Bounds: surface.Rect{X: 0, Y: 0, W: 80, H: 80},
			visible: controlsShown, press: s.exit},
		{Name: Next, Icons: []string{"next"}, Bounds: surface.Rect{X: cx + 60, Y: bottom, W: 80, H: 100},
			visible: controlsShown, press: s.next},
		{Name: Previous, Icons: []string{"previous"}, Bounds: surface.Rect{X: cx - 140, Y: bottom, W: 80, H: 100},
			visible: controlsShown, press: s.previous},
		{Name: Play, Icons: []string{"play", "pause"}, Bounds: surface.Rect{X: cx - 50, Y: bottom, W: 80, H: 100},
			visible: controlsShown, icon: pick(func(st *playback.State) bool { return st.IsPlaying }, "pause", "play"), press: s.playPause},
		{Name: ToggleShuffle, Icons: []string{"shuffle_on", "shuffle_off"}, Bounds: surface.Rect{X: cx - 230, Y: bottom, W: 80, H: 100},
			visible: controlsShown, icon: pick(func(st *playback.State) bool { return st.Shuffle }, "shuffle_on", "shuffle_off"), press: s.toggleShuffle},
		{Name: ToggleRepeat, Icons: []string{"repeat_on", "repeat_off"}, Bounds: surface.Rect{X: cx + 150, Y: bottom, W: 80, H: 100},
			visible: controlsShown, icon: pick(func(st *playback.State) bool { return st.Repeat }, "repeat_on", "repeat_off"), press: s.toggleRepeat},
		{Name: ToggleLight, Icons: []string{"light_on", "light_off"}, Bounds: surface.Rect{X: width - 100, Y: 0, W: 100, H: 80},
			visible: controlsShown, icon: pick(func(st *playback.State) bool { return st.LEDsEnabled }, "light_on", "light_off"), press: s.toggleLight},
		{Name: VolumeUp, Icons: []string{"volume_up"}, Bounds: surface.Rect{X: width - 100, Y: 100, W: 80, H: 60},
			visible: controlsShown, press: s.volume(volumeStep)},
		{Name: VolumeDown, Icons: []string{"volume_down"}, Bounds: surface.Rect{X: width - 100, Y: 170, W: 80, H: 60},
			visible: controlsShown, press: s.volume(-volumeStep)},
		{Name: Like, Icons: []string{"heart_empty", "heart_filled"}, Bounds: surface.Rect{X: 20, Y: height - 200, W: 60, H: 60},
			visible: controlsShown, icon: pick(func(st *playback.State) bool { return st.IsLiked }, "heart_filled", "heart_empty"), press: s.toggleLike},
		{Name: ToggleControls, Bounds: surface.Rect{X: 0, Y: 0, W: width, H: height},
			visible: always, press: s.toggleControls},
	}
}

func controlsShown(st *playback.State) bool { return st.ShowControls }

func always(*playback.State) bool { return true }

func pick(cond func(*playback.State) bool, yes, no string) func(*playback.State) string {
	return func(st *playback.State) string {
		if cond(st) {
			return yes
		}
		return no
	}
}

// Controls returns the declared controls in hit-test order.
func (s *Surface) Controls() []*Control {
	return s.controls
}

// Views resolves visibility and icon of every control against st.
func (s *Surface) Views(st *playback.State) []View {
	views := make([]View, len(s.controls))
	for i, c := range s.controls {
		v := View{Control: c, Enabled: c.visible(st)}
		switch {
		case c.icon != nil:
			v.Icon = c.icon(st)
		case len(c.Icons) > 0:
			v.Icon = c.Icons[0]
		}
		views[i] = v
	}
	return views
}

// Buttons returns the enabled controls that have an icon, for drawing.
func (s *Surface) Buttons(st *playback.State) []surface.Button {
	var buttons []surface.Button
	for _, v := range s.Views(st) {
		if !v.Enabled || v.Icon == "" {
			continue
		}
		buttons = append(buttons, surface.Button{Name: v.Control.Name, Icon: v.Icon, Bounds: v.Control.Bounds})
	}
	return buttons
}

// HitTest returns the first enabled control containing (x, y), in
// declaration order.
func HitTest(views []View, x, y int) *Control {
	for _, v := range views {
		if v.Enabled && v.Control.Bounds.Contains(x, y) {
			return v.Control
		}
	}
	return nil
}

// Press resolves the controls against the current state and dispatches the
// first one under (x, y). It returns the pressed control, or nil.
func (s *Surface) Press(ctx context.Context, x, y int) *Control {
	st := s.store.Load()
	c := HitTest(s.Views(&st), x, y)
	if c == nil {
		return nil
	}
	s.Dispatch(ctx, c)
	return c
}

// Dispatch records activity and runs the control's action. Action errors are
// logged here and never undo the local change.
func (s *Surface) Dispatch(ctx context.Context, c *Control) {
	now := s.now()
	s.store.Update(func(st *playback.State) { st.Touch(now) })

	s.logger.Debug().Str("control", c.Name).Msg("Control pressed")
	if err := c.press(ctx); err != nil {
		ev := remote.Warn(s.logger, err).Str("control", c.Name)
		if remote.Reason(err) == remote.ReasonNoActiveDevice {
			ev.Msg("Control action failed, start playback on a Spotify device first")
			return
		}
		ev.Msg("Control action failed")
	}
}
