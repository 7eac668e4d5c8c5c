package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/quicksearch/internal/core/services"
)

var (
	searchLimit  int
	searchAll    bool
	searchJSON   bool
	searchSelect bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search scene nodes",
	Long: heredoc.Doc(`
		Runs one query against the scene and prints the matching nodes.

		Everything before the first directive is matched against node
		names; directives narrow the listing. Put the query after "--" or
		quote it so directives are not read as flags.
	`),
	Example: heredoc.Doc(`
		quicksearch search arm
		quicksearch search -- arm -type joint -visible
		quicksearch search --all --select "ctrl -tr"
	`),
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "rows to show (default: the initial window)")
	searchCmd.Flags().BoolVarP(&searchAll, "all", "a", false, "show every match")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchSelect, "select", false, "make the shown rows the scene selection")
	rootCmd.AddCommand(searchCmd)
}

type searchOutput struct {
	Query   string      `json:"query"`
	Status  string      `json:"status"`
	Total   int         `json:"total"`
	Results []searchRow `json:"results"`
}

type searchRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Selected bool   `json:"selected,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	handle, err := sceneOpener(ctx, settings.Scene.Path)
	if err != nil {
		return err
	}
	defer handle.Close() //nolint:errcheck // read-mostly

	model, err := newModel(ctx, handle, settings.Search)
	if err != nil {
		return err
	}
	if out := model.SetQuery(ctx, query); out.Err != nil {
		return fmt.Errorf("search failed: %w", out.Err)
	}

	limit := searchLimit
	if searchAll {
		limit = len(model.Results())
	}
	for model.RowCount() < limit && model.CanGrow() {
		model.Grow()
	}
	shown := model.RowCount()
	if limit > 0 {
		shown = min(shown, limit)
	}

	selection := services.NewSelectionAdapter(ctx, model, handle)
	defer selection.Close()
	if searchSelect {
		rows := make([]int, shown)
		for i := range rows {
			rows[i] = i
		}
		if err := selection.SelectRows(ctx, rows); err != nil {
			return err
		}
	} else if err := selection.Sync(ctx); err != nil {
		return err
	}

	out := searchOutput{
		Query:   query,
		Status:  model.StatusText(),
		Total:   len(model.Results()),
		Results: make([]searchRow, 0, shown),
	}
	marked := make(map[int]bool)
	for _, row := range selection.SelectedRows() {
		marked[row] = true
	}
	for row := range shown {
		id, _ := model.ItemAt(row)
		name, _ := model.DisplayAt(row)
		out.Results = append(out.Results, searchRow{ID: id, Name: name, Selected: marked[row]})
	}

	if searchJSON {
		return outputSearchJSON(cmd, out)
	}
	return outputSearchTable(cmd, out)
}

func outputSearchJSON(cmd *cobra.Command, out searchOutput) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, out searchOutput) error {
	if out.Total == 0 {
		cmd.Printf("No matches. %s\n", out.Status)
		return nil
	}

	cmd.Printf("Results: %s\n\n", out.Status)
	width := 0
	for _, r := range out.Results {
		width = max(width, len(r.Name))
	}
	for _, r := range out.Results {
		mark := " "
		if r.Selected {
			mark = "*"
		}
		cmd.Printf("%s %-*s  %s\n", mark, width, r.Name, r.ID)
	}
	if rest := out.Total - len(out.Results); rest > 0 {
		cmd.Printf("\n… %d more (use --all or --limit)\n", rest)
	}
	return nil
}
