package spotify

import (
	"fmt"
	"net/http"
	"sync"
)

// Config holds client configuration.
type Config struct {
	ClientID     string       // Required: Spotify application client id
	ClientSecret string       // Required: Spotify application client secret
	RefreshToken string       // Required: long-lived refresh token
	AccessToken  string       // Optional: current access token, refreshed when it expires
	DeviceID     string       // Optional: device targeted by player commands
	HTTPClient   *http.Client // Optional: HTTP client (defaults to http.DefaultClient)
	BaseURL      string       // Optional: Web API base URL (used for testing)
	TokenURL     string       // Optional: token endpoint (used for testing)
	Logger       Logger       // Optional: Logger interface for debug logging
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client is the main entry point for Spotify Web API operations.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     Logger

	mu       sync.RWMutex
	deviceID string

	auth    *AuthService
	player  *PlayerService
	library *LibraryService
}

const (
	// DefaultBaseURL is the default Spotify Web API endpoint.
	DefaultBaseURL = "https://api.spotify.com/v1"

	// DefaultTokenURL is the default Spotify accounts token endpoint.
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
)

// NewClient creates a new Spotify Web API client.
//
// Returns an error if required configuration is missing.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: ClientID is required", ErrInvalidConfig)
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: ClientSecret is required", ErrInvalidConfig)
	}
	if cfg.RefreshToken == "" {
		return nil, fmt.Errorf("%w: RefreshToken is required", ErrInvalidConfig)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     cfg.Logger,
		deviceID:   cfg.DeviceID,
	}

	c.auth = newAuthService(c, cfg.ClientID, cfg.ClientSecret, tokenURL, cfg.RefreshToken, cfg.AccessToken)
	c.player = &PlayerService{client: c}
	c.library = &LibraryService{client: c}

	return c, nil
}

// Auth returns the authentication service.
func (c *Client) Auth() *AuthService {
	return c.auth
}

// Player returns the playback service.
func (c *Client) Player() *PlayerService {
	return c.player
}

// Library returns the saved tracks service.
func (c *Client) Library() *LibraryService {
	return c.library
}

// SetDeviceID sets the device targeted by player commands.
func (c *Client) SetDeviceID(id string) {
	c.mu.Lock()
	c.deviceID = id
	c.mu.Unlock()
}

// DeviceID returns the device targeted by player commands.
func (c *Client) DeviceID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.deviceID
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
