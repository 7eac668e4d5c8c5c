package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/quicksearch/internal/core/domain"
)

// --- Mock implementations ---

// mockLister implements driven.Lister and records every call.
type mockLister struct {
	ids   []string
	err   error
	calls []domain.Directives
	// byFlag overrides ids when the named directive is set.
	byFlag map[string][]string
}

func (m *mockLister) List(_ context.Context, d domain.Directives) ([]string, error) {
	m.calls = append(m.calls, d.Clone())
	if m.err != nil {
		return nil, m.err
	}
	for name, ids := range m.byFlag {
		if d[name].IsSet() {
			return append([]string(nil), ids...), nil
		}
	}
	return append([]string(nil), m.ids...), nil
}

// mockHost implements driven.SelectionHost.
type mockHost struct {
	selected  []string
	selectErr error
	getErr    error
	pushes    [][]string
}

func (m *mockHost) Selected(_ context.Context) ([]string, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return append([]string(nil), m.selected...), nil
}

func (m *mockHost) Select(_ context.Context, ids []string) error {
	m.pushes = append(m.pushes, append([]string(nil), ids...))
	if m.selectErr != nil {
		return m.selectErr
	}
	m.selected = append([]string(nil), ids...)
	return nil
}

// mockCatalog implements driven.TypeCatalog.
type mockCatalog struct {
	types []string
	err   error
}

func (m *mockCatalog) NodeTypes(_ context.Context) ([]string, error) {
	return m.types, m.err
}

// numbered returns n sorted identifiers "|item000".."|itemNNN".
func numbered(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("|item%03d", i)
	}
	return ids
}
