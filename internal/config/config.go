package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Output format template for the now command
	// Default: "{{.Artist}} - {{.Name}}"
	OutputFormat string

	// How often the display loop refetches remote playback state
	FetchInterval time.Duration

	// Display loop tick (progress estimation, dimming, redraws)
	DisplayInterval time.Duration

	// Input loop tick (touch polling)
	InputInterval time.Duration

	// Idle time after which the backlight dims
	InactivityTimeout time.Duration

	// Backlight level while dimmed (0.0 - 1.0)
	DimLevel float64

	// Upper bound on every remote call
	RemoteTimeout time.Duration

	// Spotify API credentials and target device
	Spotify SpotifyConfig

	// Album artwork fetching and caching
	Artwork ArtworkConfig
}

// SpotifyConfig holds Spotify specific configuration
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	DeviceID     string
}

// ArtworkConfig holds album artwork configuration
type ArtworkConfig struct {
	ProxyURL   string        // resize proxy, empty to fetch images directly
	Size       int           // square edge in pixels
	ImageIndex int           // preferred album image, falls back to the first
	CacheDB    string        // sqlite cache path, empty for the default data dir
	MaxAge     time.Duration // cache entries older than this are purged
}

// Configured reports whether Spotify credentials are present.
func (c *Config) Configured() bool {
	return c.Spotify.ClientID != "" && c.Spotify.ClientSecret != "" && c.Spotify.RefreshToken != ""
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config file locations (in order of precedence)
	v.AddConfigPath(getConfigDir())
	v.AddConfigPath(".")

	setDefaults(v)

	// Read config file (optional - don't fail if missing)
	_ = v.ReadInConfig()

	v.SetEnvPrefix("TAPDECK")
	v.AutomaticEnv()

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output_format", "{{.Artist}} - {{.Name}}")
	v.SetDefault("fetch_interval", 10*time.Second)
	v.SetDefault("display_interval", 200*time.Millisecond)
	v.SetDefault("input_interval", time.Millisecond)
	v.SetDefault("inactivity_timeout", 30*time.Second)
	v.SetDefault("dim_level", 0.3)
	v.SetDefault("remote_timeout", 3*time.Second)
	v.SetDefault("artwork.proxy_url", "https://wsrv.nl/")
	v.SetDefault("artwork.size", 480)
	v.SetDefault("artwork.image_index", 1)
	v.SetDefault("artwork.cache_db", "")
	v.SetDefault("artwork.max_age", 30*24*time.Hour)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		OutputFormat:      v.GetString("output_format"),
		FetchInterval:     v.GetDuration("fetch_interval"),
		DisplayInterval:   v.GetDuration("display_interval"),
		InputInterval:     v.GetDuration("input_interval"),
		InactivityTimeout: v.GetDuration("inactivity_timeout"),
		DimLevel:          v.GetFloat64("dim_level"),
		RemoteTimeout:     v.GetDuration("remote_timeout"),
		Spotify: SpotifyConfig{
			ClientID:     v.GetString("spotify.client_id"),
			ClientSecret: v.GetString("spotify.client_secret"),
			RefreshToken: v.GetString("spotify.refresh_token"),
			DeviceID:     v.GetString("spotify.device_id"),
		},
		Artwork: ArtworkConfig{
			ProxyURL:   v.GetString("artwork.proxy_url"),
			Size:       v.GetInt("artwork.size"),
			ImageIndex: v.GetInt("artwork.image_index"),
			CacheDB:    v.GetString("artwork.cache_db"),
			MaxAge:     v.GetDuration("artwork.max_age"),
		},
	}
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "tapdeck")
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

// GetDataDir returns the data directory for caches, creating it if needed.
func GetDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	dataDir := filepath.Join(homeDir, ".local", "share", "tapdeck")
	_ = os.MkdirAll(dataDir, 0755)

	return dataDir
}

// Save writes configuration to file
func (c *Config) Save() error {
	return c.saveTo(filepath.Join(getConfigDir(), "config.yaml"))
}

func (c *Config) saveTo(configFile string) error {
	v := viper.New()

	v.Set("output_format", c.OutputFormat)
	v.Set("fetch_interval", c.FetchInterval.String())
	v.Set("display_interval", c.DisplayInterval.String())
	v.Set("input_interval", c.InputInterval.String())
	v.Set("inactivity_timeout", c.InactivityTimeout.String())
	v.Set("dim_level", c.DimLevel)
	v.Set("remote_timeout", c.RemoteTimeout.String())
	v.Set("spotify.client_id", c.Spotify.ClientID)
	v.Set("spotify.client_secret", c.Spotify.ClientSecret)
	v.Set("spotify.refresh_token", c.Spotify.RefreshToken)
	v.Set("spotify.device_id", c.Spotify.DeviceID)
	v.Set("artwork.proxy_url", c.Artwork.ProxyURL)
	v.Set("artwork.size", c.Artwork.Size)
	v.Set("artwork.image_index", c.Artwork.ImageIndex)
	v.Set("artwork.cache_db", c.Artwork.CacheDB)
	v.Set("artwork.max_age", c.Artwork.MaxAge.String())

	return v.WriteConfigAs(configFile)
}
