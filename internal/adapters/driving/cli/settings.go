package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/quicksearch/internal/core/domain"
)

// settingKeys lists the keys "settings set" accepts, in display order.
var settingKeys = []string{
	"search.initial_count",
	"search.page_size",
	"search.debounce_ms",
	"search.separator",
	"search.common_flags",
	"search.persistent_flags",
	"scene.path",
	"scene.watch",
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: heredoc.Doc(`
		View and change the result window, directive toggles and scene
		location. Settings live in ~/.quicksearch/config.toml.
	`),
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value...>",
	Short: "Change a setting",
	Long: heredoc.Docf(`
		Sets one setting. List settings take several values.

		Keys:
		  %s
	`, strings.Join(settingKeys, "\n  ")),
	Example: heredoc.Doc(`
		quicksearch settings set search.page_size 50
		quicksearch settings set search.common_flags transforms shapes lights
		quicksearch settings set scene.watch false
	`),
	Args: cobra.MinimumNArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Initial rows: %d\n", settings.Search.InitialCount)
	cmd.Printf("  Page size: %d\n", settings.Search.PageSize)
	cmd.Printf("  Debounce: %s\n", settings.Search.Debounce)
	cmd.Printf("  Separator: %q\n", settings.Search.Separator)
	cmd.Printf("  Toggles: %s\n", strings.Join(settings.Search.CommonFlags, ", "))
	cmd.Printf("  Always sent: %s\n", strings.Join(settings.Search.PersistentFlags, ", "))
	cmd.Println()

	cmd.Println("[Scene]")
	path := settings.Scene.Path
	if path == "" {
		path = "(default)"
	}
	cmd.Printf("  Path: %s\n", path)
	cmd.Printf("  Watch: %s\n", yesNo(settings.Scene.Watch))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := applySetting(settings, args[0], args[1:]); err != nil {
		return err
	}
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Printf("%s = %s\n", args[0], strings.Join(args[1:], " "))
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	defaults := settingsService.GetDefaults()
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Println("Settings restored to defaults.")
	return nil
}

// applySetting parses values for key into settings.
func applySetting(settings *domain.AppSettings, key string, values []string) error {
	single := func() (string, error) {
		if len(values) != 1 {
			return "", fmt.Errorf("%w: %s takes one value", domain.ErrInvalidInput, key)
		}
		return values[0], nil
	}

	switch key {
	case "search.initial_count", "search.page_size":
		v, err := single()
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		if key == "search.initial_count" {
			settings.Search.InitialCount = n
		} else {
			settings.Search.PageSize = n
		}
	case "search.debounce_ms":
		v, err := single()
		if err != nil {
			return err
		}
		d, err := parseMillis(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		settings.Search.Debounce = d
	case "search.separator":
		v, err := single()
		if err != nil {
			return err
		}
		settings.Search.Separator = v
	case "search.common_flags":
		settings.Search.CommonFlags = splitList(values)
	case "search.persistent_flags":
		settings.Search.PersistentFlags = splitList(values)
	case "scene.path":
		v, err := single()
		if err != nil {
			return err
		}
		settings.Scene.Path = v
	case "scene.watch":
		v, err := single()
		if err != nil {
			return err
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		settings.Scene.Watch = b
	default:
		return fmt.Errorf("%w: unknown setting %q (known: %s)",
			domain.ErrInvalidInput, key, strings.Join(settingKeys, ", "))
	}
	return nil
}

// parseMillis accepts a plain millisecond count or a duration string.
func parseMillis(v string) (time.Duration, error) {
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(v)
}

// splitList accepts values as separate arguments or comma separated.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
