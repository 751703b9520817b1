package cmd

import (
	"fmt"
	"os"

	"github.com/jfmyers9/tapdeck/internal/app"
	"github.com/spf13/cobra"
)

// uninstallCmd represents the uninstall command
var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall the tapdeck systemd user service",
	Long: `Stop and remove the tapdeck systemd user service.

This command will:
  - Stop and disable the running service (if any)
  - Remove the unit from ~/.config/systemd/user/
  - Reload systemd`,
	RunE: func(cmd *cobra.Command, args []string) error {
		unitPath, err := app.GetUnitPath()
		if err != nil {
			return fmt.Errorf("failed to get unit path: %w", err)
		}

		if _, err := os.Stat(unitPath); os.IsNotExist(err) {
			fmt.Println("Service is not installed (unit not found)")
			return nil
		}

		fmt.Println("Stopping service...")
		if err := systemctl("disable", "--now", app.UnitName); err != nil {
			fmt.Printf("Warning: failed to stop service: %v\n", err)
			fmt.Println("Continuing with unit removal...")
		} else {
			fmt.Println("✓ Service stopped")
		}

		if err := os.Remove(unitPath); err != nil {
			return fmt.Errorf("failed to remove unit file: %w", err)
		}
		fmt.Printf("✓ Removed unit from %s\n", unitPath)

		if err := systemctl("daemon-reload"); err != nil {
			fmt.Printf("Warning: %v\n", err)
		}

		fmt.Println("\nThe tapdeck service has been uninstalled.")
		fmt.Println("\nTo reinstall, run:")
		fmt.Println("  tapdeck install")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}
