package app

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// UnitName is the systemd user unit installed by "tapdeck install".
const UnitName = "tapdeck.service"

const unitTemplate = `[Unit]
Description=tapdeck Spotify touchscreen remote
After=network-online.target
Wants=network-online.target

[Service]
Type=simple
ExecStart={{.BinaryPath}} run --log-file {{.LogPath}}/tapdeck.log
WorkingDirectory={{.WorkingDirectory}}
Restart=on-failure
RestartSec=5
Environment=PATH=/usr/local/bin:/usr/bin:/bin

[Install]
WantedBy=default.target
`

// UnitConfig holds the values substituted into the systemd unit
type UnitConfig struct {
	BinaryPath       string
	LogPath          string
	WorkingDirectory string
}

// GenerateUnit renders the systemd unit file
func GenerateUnit(config UnitConfig) (string, error) {
	tmpl, err := template.New("unit").Parse(unitTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse unit template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, config); err != nil {
		return "", fmt.Errorf("failed to execute unit template: %w", err)
	}

	return buf.String(), nil
}

// GetUnitPath returns the path where the user unit should be installed
func GetUnitPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".config", "systemd", "user", UnitName), nil
}

// GetDefaultLogPath returns the default directory for service logs
func GetDefaultLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".local", "share", "tapdeck", "logs"), nil
}
