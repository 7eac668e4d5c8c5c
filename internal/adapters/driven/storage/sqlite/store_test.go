package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quicksearch/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "data", DefaultFileName))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

// seedScene imports a small rig scene.
func seedScene(t *testing.T, store *Store) {
	t.Helper()

	nodes := []domain.Node{
		{Path: "|rig", Type: "transform", Inherits: []string{"dagNode"},
			Flags: []string{"transforms", "dagObjects", "visible"}},
		{Path: "|rig|root_jnt", Type: "joint", Inherits: []string{"transform", "dagNode"},
			Flags: []string{"transforms", "dagObjects", "visible"}},
		{Path: "|cam|camShape", Type: "camera", Inherits: []string{"shape", "dagNode"},
			Flags: []string{"cameras", "shapes", "dagObjects", "invisible"}},
		{Path: "|key_light", Type: "pointLight", Inherits: []string{"light", "shape", "dagNode"},
			Flags: []string{"lights", "shapes", "dagObjects", "visible"}, Selected: true},
		{Path: "lambert1", Type: "lambert", Flags: []string{"materials"}},
	}
	require.NoError(t, store.Import(context.Background(), "", nodes))
}

func TestNewStore_CreatesDirectoryAndMigrates(t *testing.T) {
	store := setupTestStore(t)

	assert.FileExists(t, store.Path())

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	for _, table := range []string{"nodes", "node_flags", "node_types", "scene_meta"} {
		var name string
		err := store.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	first, err := NewStore(path)
	require.NoError(t, err)
	seedScene(t, first)
	require.NoError(t, first.Close())

	second, err := NewStore(path)
	require.NoError(t, err)
	defer second.Close()

	n, err := second.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestStore_WALMode(t *testing.T) {
	store := setupTestStore(t)

	var mode string
	require.NoError(t, store.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	seedScene(t, store)

	long := func(extra domain.Directives) domain.Directives {
		d := domain.Directives{"long": domain.Bool(true), "recursive": domain.Bool(true)}
		for k, v := range extra {
			d[k] = v
		}
		return d
	}

	tests := []struct {
		name string
		set  domain.Directives
		want []string
	}{
		{"everything", long(nil),
			[]string{"|rig", "|rig|root_jnt", "|cam|camShape", "|key_light", "lambert1"}},
		{"categories union", long(domain.Directives{"cameras": domain.Bool(true), "lights": domain.Bool(true)}),
			[]string{"|cam|camShape", "|key_light"}},
		{"state restricts", long(domain.Directives{"shapes": domain.Bool(true), "visible": domain.Bool(true)}),
			[]string{"|key_light"}},
		{"inherited type", long(domain.Directives{"type": domain.TypeList("transform")}),
			[]string{"|rig", "|rig|root_jnt"}},
		{"exact type", long(domain.Directives{"exactType": domain.TypeList("transform")}),
			[]string{"|rig"}},
		{"exclude type", long(domain.Directives{"excludeType": domain.TypeList("shape")}),
			[]string{"|rig", "|rig|root_jnt", "lambert1"}},
		{"category or type", long(domain.Directives{"materials": domain.Bool(true), "type": domain.TypeList("light")}),
			[]string{"|key_light", "lambert1"}},
		{"selection", long(domain.Directives{"selection": domain.Bool(true)}),
			[]string{"|key_light"}},
		{"short names", domain.Directives{"transforms": domain.Bool(true)},
			[]string{"rig", "root_jnt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.List(ctx, tt.set)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore_List_EmptyScene(t *testing.T) {
	store := setupTestStore(t)

	got, err := store.List(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_Import_Replaces(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	seedScene(t, store)

	require.NoError(t, store.Import(ctx, "/", []domain.Node{{Path: "/a/b", Type: "t"}}))

	got, err := store.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, got)

	sep, err := store.Separator(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/", sep)

	types, err := store.NodeTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"t"}, types)
}

func TestStore_Import_DuplicatePathRollsBack(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	seedScene(t, store)

	err := store.Import(ctx, "", []domain.Node{
		{Path: "|x", Type: "t"},
		{Path: "|x", Type: "t"},
	})

	require.Error(t, err)
	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestStore_Nodes(t *testing.T) {
	store := setupTestStore(t)
	seedScene(t, store)

	nodes, err := store.Nodes(context.Background())
	require.NoError(t, err)

	want := []domain.Node{
		{Path: "|rig", Type: "transform", Inherits: []string{"dagNode"},
			Flags: []string{"transforms", "dagObjects", "visible"}},
		{Path: "|rig|root_jnt", Type: "joint", Inherits: []string{"transform", "dagNode"},
			Flags: []string{"transforms", "dagObjects", "visible"}},
		{Path: "|cam|camShape", Type: "camera", Inherits: []string{"shape", "dagNode"},
			Flags: []string{"cameras", "shapes", "dagObjects", "invisible"}},
		{Path: "|key_light", Type: "pointLight", Inherits: []string{"light", "shape", "dagNode"},
			Flags: []string{"lights", "shapes", "dagObjects", "visible"}, Selected: true},
		{Path: "lambert1", Type: "lambert", Flags: []string{"materials"}},
	}
	if diff := cmp.Diff(want, nodes); diff != "" {
		t.Errorf("Nodes() mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_Separator_Default(t *testing.T) {
	store := setupTestStore(t)

	sep, err := store.Separator(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSeparator, sep)
}

func TestStore_Selection(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	seedScene(t, store)

	sel, err := store.Selected(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"|key_light"}, sel)

	require.NoError(t, store.Select(ctx, []string{"root_jnt", "|cam|camShape"}))

	sel, err = store.Selected(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"|rig|root_jnt", "|cam|camShape"}, sel)
}

func TestStore_Select_UnknownLeavesSelection(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	seedScene(t, store)

	err := store.Select(ctx, []string{"|rig", "ghost"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	sel, err := store.Selected(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"|key_light"}, sel)
}

func TestStore_Select_Ambiguous(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	require.NoError(t, store.Import(ctx, "", []domain.Node{
		{Path: "|a|jnt", Type: "joint"},
		{Path: "|b|jnt", Type: "joint"},
	}))

	err := store.Select(ctx, []string{"jnt"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_NodeTypes(t *testing.T) {
	store := setupTestStore(t)
	seedScene(t, store)

	types, err := store.NodeTypes(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{
		"camera", "dagNode", "joint", "lambert", "light",
		"pointLight", "shape", "transform",
	}, types)
}

func TestListQuery_NoFilter(t *testing.T) {
	query, args := listQuery(domain.NodeFilter{Long: true})

	assert.Equal(t, "SELECT n.path FROM nodes n ORDER BY n.id", query)
	assert.Empty(t, args)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}
