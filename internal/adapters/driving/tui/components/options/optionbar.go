// Package options provides the row of directive toggles.
package options

import (
	"strings"

	"github.com/custodia-labs/quicksearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quicksearch/internal/core/domain"
)

// ValueFunc returns the effective value of a directive.
type ValueFunc func(name string) (domain.Value, bool)

// Bar shows one toggle per common directive. A toggle is checked when the
// directive is set in the effective layer, whether it came from the query
// or from the toggle itself.
type Bar struct {
	styles   *styles.Styles
	bindings []domain.ControlBinding
	value    ValueFunc
	cursor   int
	focused  bool
}

// NewBar creates a toggle row for bindings.
func NewBar(s *styles.Styles, bindings []domain.ControlBinding, value ValueFunc) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Bar{styles: s, bindings: bindings, value: value}
}

// Left moves the cursor to the previous toggle, wrapping around.
func (b *Bar) Left() {
	if len(b.bindings) == 0 {
		return
	}
	b.cursor = (b.cursor + len(b.bindings) - 1) % len(b.bindings)
}

// Right moves the cursor to the next toggle, wrapping around.
func (b *Bar) Right() {
	if len(b.bindings) == 0 {
		return
	}
	b.cursor = (b.cursor + 1) % len(b.bindings)
}

// Current returns the binding under the cursor.
func (b *Bar) Current() (domain.ControlBinding, bool) {
	if len(b.bindings) == 0 {
		return domain.ControlBinding{}, false
	}
	return b.bindings[b.cursor], true
}

// Checked reports whether a directive is currently set.
func (b *Bar) Checked(name string) bool {
	if b.value == nil {
		return false
	}
	v, ok := b.value(name)
	return ok && v.IsSet()
}

// Focus gives the row keyboard focus.
func (b *Bar) Focus() {
	b.focused = true
}

// Blur removes focus.
func (b *Bar) Blur() {
	b.focused = false
}

// Focused reports whether the row has focus.
func (b *Bar) Focused() bool {
	return b.focused
}

// Bindings returns the toggles shown.
func (b *Bar) Bindings() []domain.ControlBinding {
	return b.bindings
}

// View renders the toggles on one line.
func (b *Bar) View() string {
	parts := make([]string, 0, len(b.bindings))
	for i, binding := range b.bindings {
		box := "[ ] "
		style := b.styles.Option
		if b.Checked(binding.Directive) {
			box = "[x] "
			style = b.styles.OptionOn
		}
		if b.focused && i == b.cursor {
			style = style.Inherit(b.styles.OptionCursor)
		}
		parts = append(parts, style.Render(box+binding.Label))
	}
	return strings.Join(parts, "  ")
}
