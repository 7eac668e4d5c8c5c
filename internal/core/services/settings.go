package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/quicksearch/internal/core/domain"
	"github.com/custodia-labs/quicksearch/internal/core/ports/driven"
	"github.com/custodia-labs/quicksearch/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyInitialCount    = "search.initial_count"
	keyPageSize        = "search.page_size"
	keyDebounce        = "search.debounce_ms"
	keySeparator       = "search.separator"
	keyCommonFlags     = "search.common_flags"
	keyPersistentFlags = "search.persistent_flags"
	keyScenePath       = "scene.path"
	keySceneWatch      = "scene.watch"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Search: domain.SearchSettings{
			InitialCount:    s.getInt(keyInitialCount, defaults.Search.InitialCount),
			PageSize:        s.getInt(keyPageSize, defaults.Search.PageSize),
			Debounce:        s.getDuration(keyDebounce, defaults.Search.Debounce),
			Separator:       s.getString(keySeparator, defaults.Search.Separator),
			CommonFlags:     s.getStrings(keyCommonFlags, defaults.Search.CommonFlags),
			PersistentFlags: s.getStrings(keyPersistentFlags, defaults.Search.PersistentFlags),
		},
		Scene: domain.SceneSettings{
			Path:  s.configStore.GetString(keyScenePath),
			Watch: s.getBool(keySceneWatch, defaults.Scene.Watch),
		},
	}

	if err := settings.Search.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", s.configStore.Path(), err)
	}
	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Search.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keyInitialCount, settings.Search.InitialCount},
		{keyPageSize, settings.Search.PageSize},
		{keyDebounce, int(settings.Search.Debounce / time.Millisecond)},
		{keySeparator, settings.Search.Separator},
		{keyCommonFlags, settings.Search.CommonFlags},
		{keyPersistentFlags, settings.Search.PersistentFlags},
		{keyScenePath, settings.Scene.Path},
		{keySceneWatch, settings.Scene.Watch},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getStrings(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

// getDuration reads a millisecond count. Duration strings ("150ms") are
// accepted too.
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	if str := s.configStore.GetString(key); str != "" {
		if d, err := time.ParseDuration(str); err == nil {
			return d
		}
		return defaultVal
	}
	if ms := s.configStore.GetInt(key); ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultVal
}
