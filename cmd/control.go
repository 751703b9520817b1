package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jfmyers9/tapdeck/internal/config"
	"github.com/jfmyers9/tapdeck/internal/remote"
	"github.com/spf13/cobra"
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Resume Spotify playback",
	Long:  `Resume playback on the active Spotify device.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRemote("play", func(ctx context.Context, r *remote.Spotify, _ *remote.Fetcher) error {
			return r.Play(ctx)
		})
	},
}

// pauseCmd represents the pause command
var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause Spotify playback",
	Long:  `Pause playback on the active Spotify device.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRemote("pause", func(ctx context.Context, r *remote.Spotify, _ *remote.Fetcher) error {
			return r.Pause(ctx)
		})
	},
}

// playpauseCmd represents the playpause command
var playpauseCmd = &cobra.Command{
	Use:   "playpause",
	Short: "Toggle Spotify play/pause",
	Long:  `Toggle between play and pause. If playing, pauses. If paused, resumes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRemote("playpause", func(ctx context.Context, r *remote.Spotify, f *remote.Fetcher) error {
			if report := f.Fetch(ctx); report != nil && report.IsPlaying {
				return r.Pause(ctx)
			}
			return r.Play(ctx)
		})
	},
}

// nextCmd represents the next command
var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Skip to the next track",
	Long:  `Skip to the next track in the current Spotify queue.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRemote("skip to next track", func(ctx context.Context, r *remote.Spotify, _ *remote.Fetcher) error {
			return r.Next(ctx)
		})
	},
}

// prevCmd represents the prev command
var prevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Go to the previous track",
	Long:  `Go back to the previous track in the current Spotify queue.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRemote("go to previous track", func(ctx context.Context, r *remote.Spotify, _ *remote.Fetcher) error {
			return r.Previous(ctx)
		})
	},
}

// shuffleCmd represents the shuffle command
var shuffleCmd = &cobra.Command{
	Use:   "shuffle [on|off]",
	Short: "Toggle or set shuffle mode",
	Long: `Control shuffle mode.

Without arguments, toggles shuffle on/off.
With 'on' or 'off' argument, explicitly sets shuffle state.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRemote("set shuffle", func(ctx context.Context, r *remote.Spotify, f *remote.Fetcher) error {
			enabled, err := toggleArg(args, func() bool {
				report := f.Fetch(ctx)
				return report != nil && report.Shuffle
			})
			if err != nil {
				return err
			}
			return r.SetShuffle(ctx, enabled)
		})
	},
}

// repeatCmd represents the repeat command
var repeatCmd = &cobra.Command{
	Use:   "repeat [on|off]",
	Short: "Toggle or set track repeat",
	Long: `Control repeat mode. 'on' repeats the current track.

Without arguments, toggles repeat on/off.
With 'on' or 'off' argument, explicitly sets repeat state.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRemote("set repeat", func(ctx context.Context, r *remote.Spotify, f *remote.Fetcher) error {
			enabled, err := toggleArg(args, func() bool {
				report := f.Fetch(ctx)
				return report != nil && report.Repeat
			})
			if err != nil {
				return err
			}
			return r.SetRepeat(ctx, enabled)
		})
	},
}

// volumeCmd represents the volume command
var volumeCmd = &cobra.Command{
	Use:   "volume [0-100]",
	Short: "Show or set playback volume",
	Long: `Set the playback volume of the active device.

Volume level must be between 0 (muted) and 100 (maximum).
Without arguments, prints the current volume.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRemote("set volume", func(ctx context.Context, r *remote.Spotify, f *remote.Fetcher) error {
			if len(args) == 0 {
				report := f.Fetch(ctx)
				if report == nil || report.DeviceID == "" {
					return fmt.Errorf("no active device")
				}
				fmt.Printf("%d%%\n", report.Volume)
				return nil
			}

			level, err := parseVolume(args[0])
			if err != nil {
				return err
			}
			return r.SetVolume(ctx, level)
		})
	},
}

// likeCmd represents the like command
var likeCmd = &cobra.Command{
	Use:   "like",
	Short: "Toggle whether the current track is liked",
	Long:  `Save the current track to Liked Songs, or remove it if it is already saved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRemote("toggle like", func(ctx context.Context, r *remote.Spotify, f *remote.Fetcher) error {
			report := f.Fetch(ctx)
			if report == nil {
				return fmt.Errorf("no track playing")
			}

			id := report.Track.ID
			liked, err := f.Liked(ctx, id)
			if err != nil {
				return err
			}
			if liked {
				if err := r.RemoveTrack(ctx, id); err != nil {
					return err
				}
				fmt.Printf("Removed %q from Liked Songs\n", report.Track.Name)
				return nil
			}
			if err := r.SaveTrack(ctx, id); err != nil {
				return err
			}
			fmt.Printf("Saved %q to Liked Songs\n", report.Track.Name)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(playpauseCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(prevCmd)
	rootCmd.AddCommand(shuffleCmd)
	rootCmd.AddCommand(repeatCmd)
	rootCmd.AddCommand(volumeCmd)
	rootCmd.AddCommand(likeCmd)
}

// withRemote runs a one-shot command against Spotify with a 5 second budget.
// The device reported by a fetch is adopted so commands reach the device that
// is actually playing.
func withRemote(action string, fn func(ctx context.Context, r *remote.Spotify, f *remote.Fetcher) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger("", "error")
	client, rem, err := newRemote(cfg, logger)
	if err != nil {
		return err
	}
	defer persistRefreshToken(cfg, client, logger)

	fetcher := remote.NewFetcher(rem, logger)
	if client.DeviceID() == "" {
		fetcher.Fetch(ctx)
	}

	if err := fn(ctx, rem, fetcher); err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	return nil
}

// toggleArg parses an on/off argument, or inverts current() when absent.
func toggleArg(args []string, current func() bool) (bool, error) {
	if len(args) == 0 {
		return !current(), nil
	}
	return parseOnOff(args[0])
}

func parseOnOff(arg string) (bool, error) {
	switch arg {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid argument: %s (must be 'on' or 'off')", arg)
	}
}

func parseVolume(arg string) (int, error) {
	level, err := strconv.Atoi(arg)
	if err != nil || level < 0 || level > 100 {
		return 0, fmt.Errorf("invalid volume level: %s (must be a number 0-100)", arg)
	}
	return level, nil
}
