package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jfmyers9/tapdeck/internal/config"
	"github.com/jfmyers9/tapdeck/pkg/spotify"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Store Spotify credentials",
	Long: `Store Spotify API credentials for tapdeck.

This command will:
1. Prompt for your Spotify app's client ID and secret
2. Prompt for a refresh token authorized for that app
3. Verify the credentials by refreshing an access token
4. Save them to your config file

The refresh token needs the user-read-playback-state,
user-modify-playback-state, user-read-recently-played,
user-library-read and user-library-modify scopes.

You can create an app at: https://developer.spotify.com/dashboard`,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("Spotify Authentication")
	fmt.Println("======================")
	fmt.Println()
	fmt.Println("You can create an app at: https://developer.spotify.com/dashboard")
	fmt.Println()

	if cfg.Spotify.ClientID != "" && cfg.Spotify.ClientSecret != "" {
		fmt.Printf("Found existing app credentials.\n")
		fmt.Printf("Client ID: %s\n", cfg.Spotify.ClientID)
		fmt.Print("\nUse existing credentials? [Y/n]: ")
		response, err := reader.ReadString('\n')
		if err != nil {
			response = "y"
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "" && response != "y" && response != "yes" {
			cfg.Spotify.ClientID = ""
			cfg.Spotify.ClientSecret = ""
		}
	}

	if cfg.Spotify.ClientID == "" {
		if cfg.Spotify.ClientID, err = prompt(reader, "Enter your Spotify Client ID: "); err != nil {
			return err
		}
	}
	if cfg.Spotify.ClientSecret == "" {
		if cfg.Spotify.ClientSecret, err = prompt(reader, "Enter your Spotify Client Secret: "); err != nil {
			return err
		}
	}
	if cfg.Spotify.RefreshToken, err = prompt(reader, "Enter your Spotify Refresh Token: "); err != nil {
		return err
	}

	if !cfg.Configured() {
		return fmt.Errorf("client ID, client secret and refresh token are required")
	}

	fmt.Println("\nVerifying credentials...")
	client, err := spotify.NewClient(spotify.Config{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RefreshToken: cfg.Spotify.RefreshToken,
	})
	if err != nil {
		return fmt.Errorf("failed to create Spotify client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if _, err := client.Auth().Refresh(ctx); err != nil {
		return fmt.Errorf("failed to verify credentials: %w", err)
	}

	// Spotify may have rotated the refresh token during verification.
	cfg.Spotify.RefreshToken = client.Auth().RefreshToken()
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("\n✓ Authentication successful!\n")
	fmt.Printf("✓ Credentials saved to %s/config.yaml\n", config.GetConfigDir())
	fmt.Println("\nYou can now use 'tapdeck run' to start the remote.")

	return nil
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	value, err := reader.ReadString('\n')
	if err != nil && value == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(value), nil
}
