package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jfmyers9/tapdeck/internal/app"
	"github.com/jfmyers9/tapdeck/internal/artwork"
	"github.com/jfmyers9/tapdeck/internal/config"
	"github.com/jfmyers9/tapdeck/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	runLogFile  string
	runLogLevel string
	runSize     int
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the touchscreen remote",
	Long: `Run the touchscreen remote in the terminal.

The remote will:
- Fetch Spotify playback state every few seconds (fetch_interval)
- Show the album cover and, after a tap, the playback controls
- Estimate track progress between fetches
- Dim the screen after a period without touches (inactivity_timeout)

Clicks stand in for touches. Press 'q' or tap the exit control to quit.
Logs go to a file because the terminal is used for the display.`,
	RunE: runRemote,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runLogFile, "log-file", "", "Log file path (default: ~/.local/share/tapdeck/tapdeck.log)")
	runCmd.Flags().StringVar(&runLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	runCmd.Flags().IntVar(&runSize, "size", 480, "Emulated display size in pixels")
}

func runRemote(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dataDir := config.GetDataDir()
	logFile := runLogFile
	if logFile == "" {
		logFile = filepath.Join(dataDir, "tapdeck.log")
	}
	logger := setupLogger(logFile, runLogLevel)

	logger.Info().
		Str("version", version).
		Msg("Starting tapdeck")

	client, rem, err := newRemote(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cacheDB := cfg.Artwork.CacheDB
	if cacheDB == "" {
		cacheDB = filepath.Join(dataDir, "artwork.db")
	}
	cache, err := artwork.NewCache(cacheDB)
	if err != nil {
		logger.Warn().Err(err).Str("path", cacheDB).Msg("Artwork cache unavailable, continuing without it")
		cache = nil
	} else {
		defer cache.Close()
		if removed, err := cache.Cleanup(ctx, cfg.Artwork.MaxAge); err != nil {
			logger.Warn().Err(err).Msg("Failed to clean artwork cache")
		} else if removed > 0 {
			logger.Info().Int64("removed", removed).Msg("Cleaned artwork cache")
		}
		if entries, err := cache.Count(ctx); err == nil {
			logger.Debug().Int("entries", entries).Str("path", cacheDB).Msg("Artwork cache ready")
		}
	}

	art, err := artwork.NewFetcher(artwork.Config{
		ProxyURL:   cfg.Artwork.ProxyURL,
		Size:       cfg.Artwork.Size,
		ImageIndex: cfg.Artwork.ImageIndex,
		Timeout:    cfg.RemoteTimeout,
	}, cache, logger)
	if err != nil {
		return fmt.Errorf("failed to create artwork fetcher: %w", err)
	}

	screen := tui.NewScreen(runSize, runSize, logger)

	a, err := app.New(app.Config{
		FetchInterval:     cfg.FetchInterval,
		DisplayInterval:   cfg.DisplayInterval,
		InputInterval:     cfg.InputInterval,
		InactivityTimeout: cfg.InactivityTimeout,
		DimLevel:          cfg.DimLevel,
	}, rem, screen, art, logger)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}
	screen.OnQuit(a.RequestExit)

	// Handle first signal gracefully, second signal forces exit
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
		case <-ctx.Done():
			return
		}
		logger.Info().Msg("Shutdown signal received")
		a.RequestExit()
		cancel()

		<-sigChan
		logger.Warn().Msg("Second shutdown signal received, forcing exit")
		os.Exit(1)
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer screen.Stop()
		return a.Run(gctx)
	})
	g.Go(func() error {
		defer a.RequestExit()
		return screen.Run()
	})

	err = g.Wait()
	persistRefreshToken(cfg, client, logger)
	if err != nil {
		return fmt.Errorf("tapdeck error: %w", err)
	}

	logger.Info().Msg("tapdeck stopped")
	return nil
}
