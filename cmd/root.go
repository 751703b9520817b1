package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tapdeck",
	Short: "Spotify remote for a small touchscreen",
	Long: `tapdeck is a remote control for Spotify playback.

It shows the album cover of whatever is playing on your Spotify account,
with touch controls for play/pause, skipping, shuffle, repeat, volume and
liking the current track. The screen dims when left alone.

The same controls are available as one-shot commands, and 'tapdeck now'
prints the current track for status bars.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
