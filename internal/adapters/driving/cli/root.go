// Package cli provides the quicksearch command line.
package cli

import (
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/quicksearch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/quicksearch/internal/core/domain"
	"github.com/custodia-labs/quicksearch/internal/core/ports/driving"
	"github.com/custodia-labs/quicksearch/internal/core/services"
	"github.com/custodia-labs/quicksearch/internal/logger"
)

var (
	// version is set at build time.
	version = "dev"

	verbose   bool
	configDir string
	sceneFlag string

	settingsService driving.SettingsService
)

var rootCmd = &cobra.Command{
	Use:   "quicksearch",
	Short: "Incremental search over scene nodes",
	Long: heredoc.Doc(`
		quicksearch finds nodes in a scene as you type.

		A query is free text followed by directives, e.g.
		  arm -type joint -visible
		Free text matches node names case-insensitively; directives narrow
		the listing the same way the host's node listing flags do.

		The scene is read from a SQLite catalogue (see "scene import") or
		straight from a .toml scene file passed with --scene.
	`),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every query step to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.quicksearch)")
	rootCmd.PersistentFlags().StringVar(&sceneFlag, "scene", "", "scene database or .toml scene file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetSettingsService replaces the settings service. Commands otherwise
// read ~/.quicksearch/config.toml.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if settingsService != nil {
		return nil
	}
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	settingsService = services.NewSettingsService(store)
	return nil
}

// loadSettings returns the current settings with the --scene override.
func loadSettings() (*domain.AppSettings, error) {
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	s, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if sceneFlag != "" {
		s.Scene.Path = sceneFlag
	}
	return s, nil
}
