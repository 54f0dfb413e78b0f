package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/registo-labs/registo/internal/adapters/driven/config/file"
	"github.com/registo-labs/registo/internal/adapters/driven/storage/sqlite"
	"github.com/registo-labs/registo/internal/core/ports/driving"
	"github.com/registo-labs/registo/internal/core/services"
	"github.com/registo-labs/registo/internal/logger"
)

// version is set by Execute from the build.
var version = "dev"

var (
	verbose   bool
	dataDir   string
	configDir string
)

// Services used by the commands, wired on first use.
var (
	store           *sqlite.Store
	recordService   driving.RecordService
	searchService   driving.SearchService
	settingsService driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "registo",
	Short: "Record keeping for meeting minutes and official documents",
	Long: `Registo keeps the official record books of an organization: meeting
minutes and numbered documents. Every record receives a gapless sequence
number within its type (annual or continuous), and all records are
searchable by content, identifier and date.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		// help and version need no storage
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if store != nil {
			if err := store.Close(); err != nil {
				logger.Warn("closing store: %v", err)
			}
			store = nil
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.registo/data)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.registo)")
}

// initServices opens the store and wires the service layer. It is a
// no-op when services are already wired, which is how tests substitute
// their own.
func initServices() error {
	if recordService != nil {
		return nil
	}

	config, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	if dataDir == "" {
		dataDir = config.GetString("data_dir")
	}
	s, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	store = s
	logger.Debug("Store at %s", store.Path())

	allocator := services.NewAllocatorService(store.SequenceStore(), store.MeetingTypeStore(), config)
	recordService = services.NewRecordsService(store.DocumentStore(), store.MeetingStore(), store.MeetingTypeStore(), allocator)
	searchService = services.NewSearchService(store.SearchIndex())
	settingsService = services.NewSettingsService(store.SettingsStore(), allocator)
	return nil
}

// Execute runs the root command.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}
