package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/quicksearch/internal/adapters/driven/scenefile"
	"github.com/custodia-labs/quicksearch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quicksearch/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/quicksearch/internal/core/domain"
	"github.com/custodia-labs/quicksearch/internal/core/ports/driven"
	"github.com/custodia-labs/quicksearch/internal/core/services"
)

// Scene is a scene catalogue the commands search and edit.
type Scene interface {
	driven.Lister
	driven.SelectionHost
	driven.TypeCatalog

	// Separator returns the scene's path separator.
	Separator(ctx context.Context) (string, error)

	// Import replaces the scene contents.
	Import(ctx context.Context, separator string, nodes []domain.Node) error

	// Nodes returns the full scene.
	Nodes(ctx context.Context) ([]domain.Node, error)
}

// SceneHandle is an opened scene.
type SceneHandle struct {
	Scene

	// Path is the file backing the scene.
	Path string

	// Reload re-reads the scene after an outside edit. Nil when the
	// scene is read fresh on every listing.
	Reload func(ctx context.Context) error

	// Close releases the scene.
	Close func() error
}

// SceneOpener opens the scene at path. An empty path selects the default
// scene database.
type SceneOpener func(ctx context.Context, path string) (*SceneHandle, error)

// sceneOpener is replaced in tests.
var sceneOpener SceneOpener = OpenScene

// SetSceneOpener replaces how commands open scenes.
func SetSceneOpener(open SceneOpener) {
	sceneOpener = open
}

// OpenScene opens a .toml scene file into memory, or any other path as a
// SQLite scene database. Selection changes on a .toml scene are not
// written back to the file.
func OpenScene(_ context.Context, path string) (*SceneHandle, error) {
	if isSceneFile(path) {
		loaded, err := scenefile.Load(path)
		if err != nil {
			return nil, err
		}
		scene := memory.NewScene(loaded.Separator, loaded.Nodes...)
		return &SceneHandle{
			Scene: scene,
			Path:  path,
			Reload: func(context.Context) error {
				fresh, err := scenefile.Load(path)
				if err != nil {
					return err
				}
				scene.Replace(fresh.Separator, fresh.Nodes)
				return nil
			},
			Close: func() error { return nil },
		}, nil
	}

	store, err := sqlite.NewStore(path)
	if err != nil {
		return nil, fmt.Errorf("opening scene database: %w", err)
	}
	return &SceneHandle{Scene: store, Path: store.Path(), Close: store.Close}, nil
}

func isSceneFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// newModel builds a result model over scene from settings. The scene's
// node types bound typed directive values.
func newModel(ctx context.Context, scene Scene, settings domain.SearchSettings) (*services.ResultModel, error) {
	sep, err := scene.Separator(ctx)
	if err != nil {
		return nil, err
	}
	// The scene's own separator wins over the configured one.
	settings.Separator = sep

	model := services.NewResultModel(scene, settings.Schema(), services.WithSettings(settings))
	if err := model.LoadNodeTypes(ctx, scene); err != nil {
		return nil, fmt.Errorf("loading node types: %w", err)
	}
	return model, nil
}
