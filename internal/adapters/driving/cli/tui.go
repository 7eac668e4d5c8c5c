package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/quicksearch/internal/adapters/driven/scenewatch"
	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui"
	"github.com/custodia-labs/quicksearch/internal/core/services"
	"github.com/custodia-labs/quicksearch/internal/logger"
)

// selfWriteWindow is how long after a selection write file events are
// attributed to that write.
const selfWriteWindow = scenewatch.DefaultQuiet + scenewatch.DefaultInterval + 500*time.Millisecond

var tuiLogFile string

// ErrNotTerminal is returned when the tui command runs without a terminal.
var ErrNotTerminal = errors.New("tui requires an interactive terminal")

// isTerminal is replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the quick-search window",
	Long: heredoc.Doc(`
		Opens the interactive quick-search window over the scene.

		Results update as you type. Toggles under the query box set the
		common directives; rows picked in the list become the scene
		selection. With scene.watch enabled, outside edits to the scene
		relist the results.

		Controls:
		  tab / shift+tab  Switch between query, toggles and list
		  ↑/↓, pgup/pgdn   Move through results
		  space            Toggle an option or a row's selection
		  enter            Select only the row under the cursor
		  ctrl+r           Reset toggles
		  ctrl+l           Relist the scene
		  esc, ctrl+c      Quit
	`),
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiLogFile, "log", "", "write logs to this file while the window is open")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	if !isTerminal() {
		return ErrNotTerminal
	}

	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	restore, err := redirectLogs(tuiLogFile)
	if err != nil {
		return err
	}
	defer restore()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	handle, err := sceneOpener(ctx, settings.Scene.Path)
	if err != nil {
		return err
	}
	defer handle.Close() //nolint:errcheck // closed on exit

	scene := &trackedScene{Scene: handle.Scene}
	model, err := newModel(ctx, scene, settings.Search)
	if err != nil {
		return err
	}

	sessions := services.NewSessionRegistry()
	selection := services.NewSelectionAdapter(ctx, model, scene)
	id := sessions.Open(model, selection)
	defer sessions.Close(id) //nolint:errcheck // id is ours

	if out, err := sessions.Show(ctx, id); err != nil {
		return err
	} else if out.Err != nil {
		logger.Warn("Initial listing failed: %v", out.Err)
	}

	ports := tui.NewPorts(model, selection)
	ports.Settings = settingsService
	ports.ReloadScene = func(ctx context.Context) error {
		if handle.Reload != nil {
			if err := handle.Reload(ctx); err != nil {
				return err
			}
		}
		return model.LoadNodeTypes(ctx, scene)
	}

	if settings.Scene.Watch && handle.Path != "" {
		w, err := scenewatch.New(handle.Path)
		if err != nil {
			logger.Warn("Not watching scene: %v", err)
		} else {
			defer w.Close() //nolint:errcheck // best effort on exit
			go w.Run(ctx)
			ports.SceneChanges = filterChanges(ctx, w.Changes(), scene, selfWriteWindow)
		}
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// redirectLogs keeps log lines off the screen while the window is open.
func redirectLogs(path string) (restore func(), err error) {
	if path == "" {
		logger.SetOutput(io.Discard)
		return func() { logger.SetOutput(os.Stderr) }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	logger.SetOutput(f)
	return func() {
		logger.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

// trackedScene records when the window itself wrote the selection, so the
// resulting file events are not mistaken for outside edits.
type trackedScene struct {
	Scene

	mu        sync.Mutex
	lastWrite time.Time
}

func (s *trackedScene) Select(ctx context.Context, ids []string) error {
	err := s.Scene.Select(ctx, ids)
	s.mu.Lock()
	s.lastWrite = time.Now()
	s.mu.Unlock()
	return err
}

func (s *trackedScene) wroteWithin(d time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.lastWrite.IsZero() && time.Since(s.lastWrite) < d
}

// filterChanges forwards change signals that were not caused by the
// window's own writes. The returned channel closes when in closes or ctx
// ends.
func filterChanges(ctx context.Context, in <-chan struct{}, scene *trackedScene, within time.Duration) <-chan struct{} {
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-in:
				if !ok {
					return
				}
				if scene.wroteWithin(within) {
					logger.Debug("Ignoring scene change from own selection write")
					continue
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out
}
