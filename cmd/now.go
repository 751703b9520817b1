package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/jfmyers9/tapdeck/internal/config"
	"github.com/jfmyers9/tapdeck/internal/playback"
	"github.com/jfmyers9/tapdeck/internal/remote"
	"github.com/jfmyers9/tapdeck/internal/surface"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

// nowCmd represents the now command
var nowCmd = &cobra.Command{
	Use:   "now",
	Short: "Display the track currently playing on Spotify",
	Long: `Query Spotify and display the currently playing track.

The output format can be customized in ~/.config/tapdeck/config.yaml
using a Go template. Available fields: .Name, .Artist, .Duration, .Position,
.Volume, .Shuffle, .Repeat

Exit codes:
  0 - Track is currently playing
  1 - Nothing playing, paused, or Spotify unreachable`,
	RunE: runNow,
}

func init() {
	rootCmd.AddCommand(nowCmd)

	nowCmd.Flags().StringP("format", "f", "", "Output format template (overrides config)")
	nowCmd.Flags().IntP("width", "w", 0, "Fixed output width (0=disabled)")
}

// nowTrack is the data handed to the output template.
type nowTrack struct {
	Name     string
	Artist   string
	Duration string
	Position string
	Volume   int
	Shuffle  bool
	Repeat   bool
}

func newNowTrack(report *playback.Report) nowTrack {
	return nowTrack{
		Name:     report.Track.Name,
		Artist:   strings.Join(report.Track.Artists, ", "),
		Duration: surface.FormatTime(report.DurationMS / 1000),
		Position: surface.FormatTime(report.ProgressMS / 1000),
		Volume:   report.Volume,
		Shuffle:  report.Shuffle,
		Repeat:   report.Repeat,
	}
}

func runNow(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	formatFlag, _ := cmd.Flags().GetString("format")
	if formatFlag != "" {
		cfg.OutputFormat = formatFlag
	}

	logger := setupLogger("", "error")
	client, rem, err := newRemote(cfg, logger)
	if err != nil {
		return err
	}
	defer persistRefreshToken(cfg, client, logger)

	report := remote.NewFetcher(rem, logger).Fetch(ctx)
	if report == nil || !report.IsPlaying {
		os.Exit(1)
		return nil
	}

	output, err := formatTrack(newNowTrack(report), cfg.OutputFormat)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	width, _ := cmd.Flags().GetInt("width")
	fmt.Println(padToWidth(output, width))
	return nil
}

// formatTrack applies the template to the track data
func formatTrack(track nowTrack, templateStr string) (string, error) {
	tmpl, err := template.New("output").Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("invalid template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, track); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}

	return buf.String(), nil
}

// padToWidth pads or truncates text to a fixed display width, measured in
// display columns. Truncated text ends in "...". A width <= 0 leaves the
// text unchanged.
func padToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}

	current := runewidth.StringWidth(text)
	if current <= width {
		return text + strings.Repeat(" ", width-current)
	}

	const ellipsis = "..."
	if width <= len(ellipsis) {
		return ellipsis[:width]
	}

	truncated := runewidth.Truncate(text, width-len(ellipsis), "") + ellipsis
	// A wide rune cut at the boundary leaves a one column gap.
	return truncated + strings.Repeat(" ", width-runewidth.StringWidth(truncated))
}
