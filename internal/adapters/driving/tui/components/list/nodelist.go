// Package list provides the virtualised result list of the search window.
package list

import (
	"strings"

	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quicksearch/internal/core/ports/driving"
)

// growMargin is how close to the last displayed row the cursor may get
// before the next page is requested.
const growMargin = 3

// NodeList renders the displayed rows of a result model. Rows past the
// model's window are fetched with Grow as the cursor nears the end.
type NodeList struct {
	model    driving.ResultModel
	styles   *styles.Styles
	marked   map[int]struct{}
	cursor   int
	offset   int
	width    int
	height   int
	showPath bool
}

// NewNodeList creates a list over model.
func NewNodeList(s *styles.Styles, model driving.ResultModel) *NodeList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &NodeList{
		model:    model,
		styles:   s,
		marked:   make(map[int]struct{}),
		width:    80,
		height:   10,
		showPath: true,
	}
}

// Reset moves the cursor to the top. Call it when the model resets.
func (l *NodeList) Reset() {
	l.cursor = 0
	l.offset = 0
	l.clamp()
}

// SetMarked records which rows are in the scene selection.
func (l *NodeList) SetMarked(rows []int) {
	l.marked = make(map[int]struct{}, len(rows))
	for _, r := range rows {
		l.marked[r] = struct{}{}
	}
}

// IsMarked reports whether row is in the scene selection.
func (l *NodeList) IsMarked(row int) bool {
	_, ok := l.marked[row]
	return ok
}

// Marked returns the selected rows.
func (l *NodeList) Marked() []int {
	rows := make([]int, 0, len(l.marked))
	for r := range l.marked {
		rows = append(rows, r)
	}
	return rows
}

// MoveUp moves the cursor up one row.
func (l *NodeList) MoveUp() {
	l.MoveBy(-1)
}

// MoveDown moves the cursor down one row.
func (l *NodeList) MoveDown() {
	l.MoveBy(1)
}

// PageUp moves the cursor up one screen.
func (l *NodeList) PageUp() {
	l.MoveBy(-l.visibleRows())
}

// PageDown moves the cursor down one screen.
func (l *NodeList) PageDown() {
	l.MoveBy(l.visibleRows())
}

// MoveBy moves the cursor by delta rows. Pages are grown first when the
// target lands near the end of the displayed rows.
func (l *NodeList) MoveBy(delta int) {
	target := l.cursor + delta
	l.growTo(target)
	l.cursor = target
	l.clamp()
}

// growTo asks the model for more rows until row is at least growMargin
// rows above the end of the window, or nothing remains.
func (l *NodeList) growTo(row int) {
	if l.model == nil {
		return
	}
	for row >= l.model.RowCount()-growMargin && l.model.CanGrow() {
		if _, _, ok := l.model.Grow(); !ok {
			return
		}
	}
}

func (l *NodeList) clamp() {
	rows := 0
	if l.model != nil {
		rows = l.model.RowCount()
	}
	if l.cursor >= rows {
		l.cursor = rows - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}

	visible := l.visibleRows()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+visible {
		l.offset = l.cursor - visible + 1
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

func (l *NodeList) visibleRows() int {
	return max(l.height, 1)
}

// Cursor returns the row under the cursor.
func (l *NodeList) Cursor() int {
	return l.cursor
}

// CursorItem returns the identifier under the cursor.
func (l *NodeList) CursorItem() (string, bool) {
	if l.model == nil {
		return "", false
	}
	return l.model.ItemAt(l.cursor)
}

// Offset returns the first visible row.
func (l *NodeList) Offset() int {
	return l.offset
}

// SetShowPath toggles the full path column.
func (l *NodeList) SetShowPath(show bool) {
	l.showPath = show
}

// View renders the visible rows.
func (l *NodeList) View() string {
	if l.model == nil || l.model.RowCount() == 0 {
		return l.styles.Muted.Render("No matches")
	}

	end := min(l.offset+l.visibleRows(), l.model.RowCount())
	lines := make([]string, 0, end-l.offset)
	for row := l.offset; row < end; row++ {
		lines = append(lines, l.renderRow(row))
	}
	return strings.Join(lines, "\n")
}

func (l *NodeList) renderRow(row int) string {
	name, _ := l.model.DisplayAt(row)
	id, _ := l.model.ItemAt(row)

	mark := "  "
	if l.IsMarked(row) {
		mark = "● "
	}

	text := mark + name
	if l.showPath && id != name {
		budget := l.width - len([]rune(text)) - 3
		if budget > 8 {
			text += "  " + truncateLeft(id, budget)
		}
	}

	switch {
	case row == l.cursor:
		return l.styles.Cursor.Render(text)
	case l.IsMarked(row):
		return l.styles.Marked.Render(text)
	default:
		return l.styles.Normal.Render(mark+name) + l.styles.Muted.Render(strings.TrimPrefix(text, mark+name))
	}
}

// truncateLeft keeps the tail of s, which is the informative end of a
// node path.
func truncateLeft(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return "…" + string(r[len(r)-n+1:])
}

// SetDimensions sets the width and the number of visible rows.
func (l *NodeList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
	l.clamp()
}

// Width returns the current width.
func (l *NodeList) Width() int {
	return l.width
}

// Height returns the number of visible rows.
func (l *NodeList) Height() int {
	return l.height
}
