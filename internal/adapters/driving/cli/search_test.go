package cli

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countRows(out string) int {
	return strings.Count(out, "|rig|jnt")
}

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
	assert.Equal(t, "Search scene nodes", searchCmd.Short)
}

func TestSearchCmd_Flags(t *testing.T) {
	limit := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "n", limit.Shorthand)
	assert.Equal(t, "0", limit.DefValue)

	for _, name := range []string{"all", "json", "select"} {
		assert.NotNil(t, searchCmd.Flags().Lookup(name), "flag %s", name)
	}
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	setupTestEnv(t, nil)

	_, err := execute(t, "search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestSearchCmd_ListsMatches(t *testing.T) {
	setupTestEnv(t, nil, rigNodes(30)...)

	out, err := execute(t, "search", "jnt0")

	require.NoError(t, err)
	assert.Contains(t, out, "Results: 10")
	assert.Contains(t, out, "jnt00")
	assert.Contains(t, out, "|rig|jnt09")
	assert.Equal(t, 10, countRows(out))
	assert.NotContains(t, out, "more")
}

func TestSearchCmd_Directives(t *testing.T) {
	setupTestEnv(t, nil, rigNodes(3)...)

	out, err := execute(t, "search", "--", "rig", "-type", "joint")
	require.NoError(t, err)
	assert.Contains(t, out, "Results: 3 ( -type joint )")

	out, err = execute(t, "search", "--", "key", "-lt")
	require.NoError(t, err)
	assert.Contains(t, out, "Results: 1 ( -lights )")
	assert.Contains(t, out, "|key_light")
}

func TestSearchCmd_InitialWindow(t *testing.T) {
	setupTestEnv(t, map[string]any{"search.initial_count": 5, "search.page_size": 5}, rigNodes(30)...)

	out, err := execute(t, "search", "jnt")

	require.NoError(t, err)
	assert.Equal(t, 5, countRows(out))
	assert.Contains(t, out, "25 more")
}

func TestSearchCmd_LimitGrowsWindow(t *testing.T) {
	setupTestEnv(t, map[string]any{"search.initial_count": 5, "search.page_size": 5}, rigNodes(30)...)

	out, err := execute(t, "search", "--limit", "12", "jnt")

	require.NoError(t, err)
	assert.Equal(t, 12, countRows(out))
	assert.Contains(t, out, "18 more")
}

func TestSearchCmd_All(t *testing.T) {
	setupTestEnv(t, map[string]any{"search.initial_count": 5, "search.page_size": 5}, rigNodes(30)...)

	out, err := execute(t, "search", "--all", "jnt")

	require.NoError(t, err)
	assert.Equal(t, 30, countRows(out))
	assert.NotContains(t, out, "more")
}

func TestSearchCmd_JSON(t *testing.T) {
	setupTestEnv(t, nil, rigNodes(30)...)

	out, err := execute(t, "search", "--json", "-n", "2", "jnt")
	require.NoError(t, err)

	var got searchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "jnt", got.Query)
	assert.Equal(t, "30", got.Status)
	assert.Equal(t, 30, got.Total)
	assert.Equal(t, []searchRow{
		{ID: "|rig|jnt00", Name: "jnt00"},
		{ID: "|rig|jnt01", Name: "jnt01"},
	}, got.Results)
}

func TestSearchCmd_Select(t *testing.T) {
	scene := setupTestEnv(t, nil, rigNodes(10)...)

	out, err := execute(t, "search", "--select", "-n", "3", "jnt")
	require.NoError(t, err)

	selected, err := scene.Selected(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"|rig|jnt00", "|rig|jnt01", "|rig|jnt02"}, selected)
	assert.Equal(t, 3, strings.Count(out, "* jnt"))
}

func TestSearchCmd_ShowsSceneSelection(t *testing.T) {
	scene := setupTestEnv(t, nil, rigNodes(5)...)
	require.NoError(t, scene.Select(context.Background(), []string{"|rig|jnt01"}))

	out, err := execute(t, "search", "jnt")

	require.NoError(t, err)
	assert.Contains(t, out, "* jnt01")
	assert.Equal(t, 1, strings.Count(out, "* "))
}

func TestSearchCmd_NoMatches(t *testing.T) {
	setupTestEnv(t, nil, rigNodes(5)...)

	out, err := execute(t, "search", "zzz")

	require.NoError(t, err)
	assert.Contains(t, out, "No matches. 0")
}

func TestSearchCmd_OpenFails(t *testing.T) {
	setupTestEnv(t, nil)
	sceneOpener = func(context.Context, string) (*SceneHandle, error) {
		return nil, errors.New("disk on fire")
	}

	_, err := execute(t, "search", "jnt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}
