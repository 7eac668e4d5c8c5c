package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/quicksearch/internal/core/domain"
	"github.com/custodia-labs/quicksearch/internal/core/ports/driven"
)

// Ensure Store implements the host interfaces.
var (
	_ driven.Lister        = (*Store)(nil)
	_ driven.SelectionHost = (*Store)(nil)
	_ driven.TypeCatalog   = (*Store)(nil)
)

const metaSeparator = "separator"

// Separator returns the path separator the scene was imported with.
func (s *Store) Separator(ctx context.Context) (string, error) {
	var sep string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM scene_meta WHERE key = ?", metaSeparator).Scan(&sep)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultSeparator, nil
	}
	if err != nil {
		return "", fmt.Errorf("reading separator: %w", err)
	}
	return sep, nil
}

// Import replaces the scene with nodes in one transaction.
func (s *Store) Import(ctx context.Context, separator string, nodes []domain.Node) error {
	if separator == "" {
		separator = domain.DefaultSeparator
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning import: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM nodes"); err != nil {
		return fmt.Errorf("clearing nodes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO scene_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, metaSeparator, separator); err != nil {
		return fmt.Errorf("saving separator: %w", err)
	}

	insertNode, err := tx.PrepareContext(ctx,
		"INSERT INTO nodes (path, name, type, selected) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer insertNode.Close()
	insertFlag, err := tx.PrepareContext(ctx,
		"INSERT OR IGNORE INTO node_flags (node_id, flag) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer insertFlag.Close()
	insertType, err := tx.PrepareContext(ctx,
		"INSERT OR IGNORE INTO node_types (node_id, type, depth) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer insertType.Close()

	for _, n := range nodes {
		res, err := insertNode.ExecContext(ctx, n.Path, n.Name(separator), n.Type, boolToInt(n.Selected))
		if err != nil {
			return fmt.Errorf("inserting node %s: %w", n.Path, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for _, flag := range n.Flags {
			if _, err := insertFlag.ExecContext(ctx, id, flag); err != nil {
				return fmt.Errorf("inserting flag %s of %s: %w", flag, n.Path, err)
			}
		}
		for depth, t := range append([]string{n.Type}, n.Inherits...) {
			if _, err := insertType.ExecContext(ctx, id, t, depth); err != nil {
				return fmt.Errorf("inserting type %s of %s: %w", t, n.Path, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	return nil
}

// Nodes returns the full scene in import order.
func (s *Store) Nodes(ctx context.Context) ([]domain.Node, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, path, type, selected FROM nodes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	var nodes []domain.Node
	index := make(map[int64]int)
	for rows.Next() {
		var (
			id       int64
			n        domain.Node
			selected int
		)
		if err := rows.Scan(&id, &n.Path, &n.Type, &selected); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		n.Selected = selected == 1
		index[id] = len(nodes)
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.eachPair(ctx, "SELECT node_id, type FROM node_types WHERE depth > 0 ORDER BY node_id, depth",
		func(id int64, t string) {
			if i, ok := index[id]; ok {
				nodes[i].Inherits = append(nodes[i].Inherits, t)
			}
		})
	if err != nil {
		return nil, fmt.Errorf("querying node types: %w", err)
	}
	err = s.eachPair(ctx, "SELECT node_id, flag FROM node_flags ORDER BY node_id, rowid",
		func(id int64, flag string) {
			if i, ok := index[id]; ok {
				nodes[i].Flags = append(nodes[i].Flags, flag)
			}
		})
	if err != nil {
		return nil, fmt.Errorf("querying node flags: %w", err)
	}
	return nodes, nil
}

func (s *Store) eachPair(ctx context.Context, query string, fn func(int64, string)) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    int64
			value string
		)
		if err := rows.Scan(&id, &value); err != nil {
			return err
		}
		fn(id, value)
	}
	return rows.Err()
}

// Count returns the number of nodes in the scene.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM nodes").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting nodes: %w", err)
	}
	return n, nil
}

// List returns the identifiers of nodes matching the directive set, in
// import order.
func (s *Store) List(ctx context.Context, directives domain.Directives) ([]string, error) {
	filter := domain.NewNodeFilter(directives)
	query, args := listQuery(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}
	defer rows.Close()

	var ids []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// listQuery renders a node filter as SQL. It mirrors NodeFilter.Match.
func listQuery(f domain.NodeFilter) (string, []any) {
	column := "n.name"
	if f.Long {
		column = "n.path"
	}

	var (
		where []string
		args  []any
	)

	if f.Selective() {
		var kinds []string
		if len(f.Categories) > 0 {
			kinds = append(kinds, "EXISTS (SELECT 1 FROM node_flags f WHERE f.node_id = n.id AND f.flag IN ("+
				placeholders(len(f.Categories))+"))")
			args = appendStrings(args, f.Categories)
		}
		if len(f.Types) > 0 {
			kinds = append(kinds, "EXISTS (SELECT 1 FROM node_types t WHERE t.node_id = n.id AND t.type IN ("+
				placeholders(len(f.Types))+"))")
			args = appendStrings(args, f.Types)
		}
		if len(f.ExactTypes) > 0 {
			kinds = append(kinds, "n.type IN ("+placeholders(len(f.ExactTypes))+")")
			args = appendStrings(args, f.ExactTypes)
		}
		where = append(where, "("+strings.Join(kinds, " OR ")+")")
	}

	if len(f.ExcludeTypes) > 0 {
		where = append(where, "NOT EXISTS (SELECT 1 FROM node_types t WHERE t.node_id = n.id AND t.type IN ("+
			placeholders(len(f.ExcludeTypes))+"))")
		args = appendStrings(args, f.ExcludeTypes)
	}

	for _, flag := range f.Required {
		if flag == "selection" {
			where = append(where, "n.selected = 1")
			continue
		}
		where = append(where, "EXISTS (SELECT 1 FROM node_flags f WHERE f.node_id = n.id AND f.flag = ?)")
		args = append(args, flag)
	}

	query := "SELECT " + column + " FROM nodes n"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	return query + " ORDER BY n.id", args
}

// Selected returns the full paths of selected nodes in import order.
func (s *Store) Selected(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT path FROM nodes WHERE selected = 1 ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying selection: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning selection: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Select replaces the selection. Identifiers may be full paths or, when
// unambiguous, short names. Nothing changes if any identifier fails to
// resolve.
func (s *Store) Select(ctx context.Context, ids []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning select: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	nodeIDs := make([]int64, 0, len(ids))
	for _, id := range ids {
		nodeID, err := resolve(ctx, tx, id)
		if err != nil {
			return err
		}
		nodeIDs = append(nodeIDs, nodeID)
	}

	if _, err := tx.ExecContext(ctx, "UPDATE nodes SET selected = 0 WHERE selected = 1"); err != nil {
		return fmt.Errorf("clearing selection: %w", err)
	}
	for _, nodeID := range nodeIDs {
		if _, err := tx.ExecContext(ctx, "UPDATE nodes SET selected = 1 WHERE id = ?", nodeID); err != nil {
			return fmt.Errorf("selecting node: %w", err)
		}
	}
	return tx.Commit()
}

func resolve(ctx context.Context, tx *sql.Tx, id string) (int64, error) {
	var nodeID int64
	err := tx.QueryRowContext(ctx, "SELECT id FROM nodes WHERE path = ?", id).Scan(&nodeID)
	if err == nil {
		return nodeID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("resolving %q: %w", id, err)
	}

	rows, err := tx.QueryContext(ctx, "SELECT id FROM nodes WHERE name = ? LIMIT 2", id)
	if err != nil {
		return 0, fmt.Errorf("resolving %q: %w", id, err)
	}
	defer rows.Close()

	var found []int64
	for rows.Next() {
		if err := rows.Scan(&nodeID); err != nil {
			return 0, err
		}
		found = append(found, nodeID)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	switch len(found) {
	case 0:
		return 0, fmt.Errorf("%w: node %q", domain.ErrNotFound, id)
	case 1:
		return found[0], nil
	default:
		return 0, fmt.Errorf("%w: %q matches several nodes", domain.ErrInvalidInput, id)
	}
}

// NodeTypes returns every exact and inherited type in the scene, sorted.
func (s *Store) NodeTypes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT type FROM node_types ORDER BY type")
	if err != nil {
		return nil, fmt.Errorf("querying node types: %w", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scanning node type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func appendStrings(args []any, values []string) []any {
	for _, v := range values {
		args = append(args, v)
	}
	return args
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
