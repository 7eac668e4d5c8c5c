package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/quicksearch/internal/adapters/driven/scenefile"
)

var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Manage the scene catalogue",
	Long: heredoc.Doc(`
		Import, inspect and edit the scene that searches run against.

		The scene is the database named by --scene or scene.path, or
		~/.quicksearch/scene.db when neither is set.
	`),
}

var sceneImportCmd = &cobra.Command{
	Use:   "import <file.toml>",
	Short: "Replace the scene with a TOML scene file",
	Long: heredoc.Doc(`
		Reads a TOML scene file and replaces the scene database contents
		with its nodes. The file is validated first; nothing changes if it
		is invalid.
	`),
	Example: heredoc.Doc(`
		quicksearch scene import rig.toml
		quicksearch --scene shots/sh010.db scene import sh010.toml
	`),
	Args: cobra.ExactArgs(1),
	RunE: runSceneImport,
}

var sceneExportCmd = &cobra.Command{
	Use:   "export [file.toml]",
	Short: "Write the scene as a TOML scene file",
	Long:  `Writes every node of the scene to a TOML scene file, or to stdout.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSceneExport,
}

var sceneTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List node types in the scene",
	Long:  `Lists every exact and inherited node type, the values -type accepts.`,
	Args:  cobra.NoArgs,
	RunE:  runSceneTypes,
}

var sceneSelectCmd = &cobra.Command{
	Use:   "select [node...]",
	Short: "Show or replace the scene selection",
	Long: heredoc.Doc(`
		Without arguments, prints the selected nodes. With arguments,
		replaces the selection. Nodes are full paths or unambiguous short
		names.
	`),
	RunE: runSceneSelect,
}

var sceneClearSelection bool

func init() {
	sceneSelectCmd.Flags().BoolVar(&sceneClearSelection, "clear", false, "clear the selection")
	sceneCmd.AddCommand(sceneImportCmd)
	sceneCmd.AddCommand(sceneExportCmd)
	sceneCmd.AddCommand(sceneTypesCmd)
	sceneCmd.AddCommand(sceneSelectCmd)
	rootCmd.AddCommand(sceneCmd)
}

// openSettingsScene opens the scene named by --scene or the settings.
func openSettingsScene(cmd *cobra.Command) (*SceneHandle, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	return sceneOpener(cmd.Context(), settings.Scene.Path)
}

func runSceneImport(cmd *cobra.Command, args []string) error {
	loaded, err := scenefile.Load(args[0])
	if err != nil {
		return err
	}

	handle, err := openSettingsScene(cmd)
	if err != nil {
		return err
	}
	defer handle.Close() //nolint:errcheck // import is committed

	if isSceneFile(handle.Path) {
		return errors.New("cannot import into a .toml scene; pass a database with --scene")
	}
	if err := handle.Import(cmd.Context(), loaded.Separator, loaded.Nodes); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	cmd.Printf("Imported %d nodes into %s\n", len(loaded.Nodes), handle.Path)
	return nil
}

func runSceneExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	handle, err := openSettingsScene(cmd)
	if err != nil {
		return err
	}
	defer handle.Close() //nolint:errcheck // read only

	sep, err := handle.Separator(ctx)
	if err != nil {
		return err
	}
	nodes, err := handle.Nodes(ctx)
	if err != nil {
		return err
	}
	scene := &scenefile.Scene{Separator: sep, Nodes: nodes}

	if len(args) == 0 {
		return scenefile.Encode(cmd.OutOrStdout(), scene)
	}

	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("creating %s: %w", args[0], err)
	}
	if err := scenefile.Encode(f, scene); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	cmd.Printf("Exported %d nodes to %s\n", len(nodes), args[0])
	return nil
}

func runSceneTypes(cmd *cobra.Command, _ []string) error {
	handle, err := openSettingsScene(cmd)
	if err != nil {
		return err
	}
	defer handle.Close() //nolint:errcheck // read only

	types, err := handle.NodeTypes(cmd.Context())
	if err != nil {
		return err
	}
	if len(types) == 0 {
		cmd.Println("No node types. Import a scene first.")
		return nil
	}
	for _, t := range types {
		cmd.Println(t)
	}
	return nil
}

func runSceneSelect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	handle, err := openSettingsScene(cmd)
	if err != nil {
		return err
	}
	defer handle.Close() //nolint:errcheck // selection is committed

	if len(args) > 0 || sceneClearSelection {
		if len(args) > 0 && sceneClearSelection {
			return errors.New("--clear takes no nodes")
		}
		if err := handle.Select(ctx, args); err != nil {
			return fmt.Errorf("select failed: %w", err)
		}
	}

	selected, err := handle.Selected(ctx)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		cmd.Println("Nothing selected.")
		return nil
	}
	for _, id := range selected {
		cmd.Println(id)
	}
	return nil
}
