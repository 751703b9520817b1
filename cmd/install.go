package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jfmyers9/tapdeck/internal/app"
	"github.com/spf13/cobra"
)

// installCmd represents the install command
var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install tapdeck as a systemd user service",
	Long: `Install tapdeck as a systemd user service that starts on login.

This command will:
  - Generate a systemd unit for 'tapdeck run'
  - Install it to ~/.config/systemd/user/
  - Reload systemd and enable the unit
  - Start the remote`,
	RunE: func(cmd *cobra.Command, args []string) error {
		binaryPath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to get executable path: %w", err)
		}

		binaryPath, err = filepath.EvalSymlinks(binaryPath)
		if err != nil {
			return fmt.Errorf("failed to resolve executable path: %w", err)
		}

		logPath, err := app.GetDefaultLogPath()
		if err != nil {
			return fmt.Errorf("failed to get log path: %w", err)
		}
		if err := os.MkdirAll(logPath, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		unit, err := app.GenerateUnit(app.UnitConfig{
			BinaryPath:       binaryPath,
			LogPath:          logPath,
			WorkingDirectory: home,
		})
		if err != nil {
			return fmt.Errorf("failed to generate unit: %w", err)
		}

		unitPath, err := app.GetUnitPath()
		if err != nil {
			return fmt.Errorf("failed to get unit path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(unitPath), 0755); err != nil {
			return fmt.Errorf("failed to create systemd user directory: %w", err)
		}

		if _, err := os.Stat(unitPath); err == nil {
			fmt.Println("Service is already installed. Stopping it first...")
			if err := systemctl("disable", "--now", app.UnitName); err != nil {
				fmt.Printf("Warning: failed to stop existing service: %v\n", err)
			}
		}

		if err := os.WriteFile(unitPath, []byte(unit), 0644); err != nil {
			return fmt.Errorf("failed to write unit file: %w", err)
		}
		fmt.Printf("✓ Installed unit to %s\n", unitPath)

		if err := systemctl("daemon-reload"); err != nil {
			return err
		}
		if err := systemctl("enable", "--now", app.UnitName); err != nil {
			return err
		}

		fmt.Println("✓ Service enabled and started")
		fmt.Printf("✓ Logs will be written to %s\n", logPath)
		fmt.Println("\nYou can check the service status with:")
		fmt.Printf("  systemctl --user status %s\n", app.UnitName)
		fmt.Println("\nTo uninstall, run:")
		fmt.Println("  tapdeck uninstall")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}

// systemctl runs a systemctl command against the user manager.
func systemctl(args ...string) error {
	cmd := exec.Command("systemctl", append([]string{"--user"}, args...)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if out := strings.TrimSpace(string(output)); out != "" {
			return fmt.Errorf("systemctl %s failed: %s", strings.Join(args, " "), out)
		}
		return fmt.Errorf("failed to run systemctl %s: %w", strings.Join(args, " "), err)
	}
	return nil
}
