// Package artwork fetches album covers sized for the display.
//
// Covers are requested through an image resize proxy. When the proxy is
// unavailable the original image is downloaded and resized locally. Results
// are kept in an in-memory LRU and, optionally, a SQLite cache.
package artwork

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jfmyers9/tapdeck/internal/playback"
	"github.com/rs/zerolog"
	"golang.org/x/image/draw"
)

const (
	memoryEntries = 32
	maxImageBytes = 10 << 20
	jpegQuality   = 85
)

// Config holds artwork fetching options.
type Config struct {
	ProxyURL   string // resize proxy; empty fetches and resizes locally
	Size       int    // square edge in pixels
	ImageIndex int    // preferred album image
	Timeout    time.Duration
}

// Fetcher resolves a track to display-ready JPEG bytes.
type Fetcher struct {
	client *http.Client
	cfg    Config
	memory *lru.Cache[string, []byte]
	store  *Cache // optional
	logger zerolog.Logger

	maxBytes int64
}

// NewFetcher creates a Fetcher. store may be nil.
func NewFetcher(cfg Config, store *Cache, logger zerolog.Logger) (*Fetcher, error) {
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("invalid artwork size %d", cfg.Size)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}

	memory, err := lru.New[string, []byte](memoryEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create artwork cache: %w", err)
	}

	return &Fetcher{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		memory: memory,
		store:  store,
		logger: logger.With().Str("component", "artwork").Logger(),

		maxBytes: maxImageBytes,
	}, nil
}

// SelectImage picks the image at index, falling back to the first one.
// Returns "" when there are no images.
func SelectImage(images []string, index int) string {
	if index >= 0 && index < len(images) {
		return images[index]
	}
	if len(images) > 0 {
		return images[0]
	}
	return ""
}

// Get returns the cover for track, or nil when it cannot be fetched.
// Artwork is optional; failures are logged, not returned.
func (f *Fetcher) Get(ctx context.Context, track *playback.Track) []byte {
	if track == nil {
		return nil
	}
	src := SelectImage(track.Images, f.cfg.ImageIndex)
	if src == "" {
		return nil
	}

	if data, ok := f.memory.Get(src); ok {
		return data
	}

	if f.store != nil {
		data, ok, err := f.store.Get(ctx, src)
		if err != nil {
			f.logger.Warn().Err(err).Msg("Failed to read artwork cache")
		} else if ok {
			f.memory.Add(src, data)
			return data
		}
	}

	data, err := f.fetch(ctx, src)
	if err != nil {
		f.logger.Warn().Err(err).Str("url", src).Msg("Failed to fetch artwork")
		return nil
	}

	f.memory.Add(src, data)
	if f.store != nil {
		if err := f.store.Put(ctx, src, data); err != nil {
			f.logger.Warn().Err(err).Msg("Failed to write artwork cache")
		}
	}
	return data
}

func (f *Fetcher) fetch(ctx context.Context, src string) ([]byte, error) {
	if f.cfg.ProxyURL != "" {
		data, err := f.download(ctx, f.proxied(src))
		if err == nil {
			return data, nil
		}
		f.logger.Debug().Err(err).Msg("Resize proxy failed, resizing locally")
	}

	data, err := f.download(ctx, src)
	if err != nil {
		return nil, err
	}
	return Resize(data, f.cfg.Size)
}

// proxied returns the resize proxy URL for src.
func (f *Fetcher) proxied(src string) string {
	size := strconv.Itoa(f.cfg.Size)
	q := url.Values{
		"url": {src},
		"w":   {size},
		"h":   {size},
	}
	return f.cfg.ProxyURL + "?" + q.Encode()
}

func (f *Fetcher) download(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("image larger than %d bytes", f.maxBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	return data, nil
}

// Resize decodes a JPEG or PNG image and re-encodes it as a size x size JPEG.
func Resize(data []byte, size int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
