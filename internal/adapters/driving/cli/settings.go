package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage numbering settings",
	Long: `View and configure the starting numbers used when a type opens a new
counter bucket. Changing a starting number never renumbers existing
records; it only affects buckets that have not issued a number yet.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show configured starting numbers",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [type] [number]",
	Short: "Set the starting number for a record type",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	overrides, err := settingsService.StartingNumbers(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Starting numbers:")
	if len(overrides) == 0 {
		cmd.Println("  (none configured, all types start at 1)")
		return nil
	}
	for _, o := range overrides {
		cmd.Printf("  %-14s %d\n", o.TypeCode, o.StartingNumber)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	n, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid starting number %q", args[1])
	}

	if err := settingsService.SetStartingNumber(cmd.Context(), args[0], n); err != nil {
		return fmt.Errorf("failed to set starting number: %w", err)
	}

	cmd.Printf("Starting number for %s set to %d\n", args[0], n)
	cmd.Println("Existing counters keep their numbers; the change applies to new buckets.")
	return nil
}
