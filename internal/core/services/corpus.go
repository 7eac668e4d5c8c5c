package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/quicksearch/internal/core/domain"
	"github.com/custodia-labs/quicksearch/internal/core/ports/driven"
	"github.com/custodia-labs/quicksearch/internal/logger"
)

// Corpus caches the host listing for one effective directive set.
type Corpus struct {
	lister    driven.Lister
	snapshot  domain.Snapshot
	builtFrom domain.Directives
	built     bool
	refreshes int
}

// NewCorpus creates an empty corpus backed by lister.
func NewCorpus(lister driven.Lister) *Corpus {
	return &Corpus{lister: lister}
}

// Fetch calls the listing collaborator and returns a sorted snapshot.
// It does not touch the cached state, so it may run off the dispatch thread.
// Failures, including a panicking lister, are returned wrapped in
// domain.ErrListingFailed.
func (c *Corpus) Fetch(ctx context.Context, set domain.Directives) (snap domain.Snapshot, err error) {
	if c.lister == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrListingFailed, domain.ErrListerUnavailable)
	}

	defer func() {
		if r := recover(); r != nil {
			snap, err = nil, fmt.Errorf("%w: lister panicked: %v", domain.ErrListingFailed, r)
		}
	}()

	logger.Debug("Listing corpus with %q", set.String())
	ids, err := c.lister.List(ctx, set.Clone())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrListingFailed, err)
	}

	snap = make(domain.Snapshot, len(ids))
	copy(snap, ids)
	sort.Strings(snap)
	return snap, nil
}

// Install replaces the cached snapshot. A non-nil err installs an empty
// snapshot; the set is recorded either way so an unchanged query does not
// retry a failing listing on every keystroke.
func (c *Corpus) Install(set domain.Directives, snap domain.Snapshot, err error) {
	if err != nil {
		logger.Warn("Corpus refresh failed, using empty corpus: %v", err)
		snap = domain.Snapshot{}
	}
	c.snapshot = snap
	c.builtFrom = set.Clone()
	c.built = true
	c.refreshes++
	logger.Debug("Corpus holds %d items", len(snap))
}

// Refresh fetches and installs a new snapshot for set.
func (c *Corpus) Refresh(ctx context.Context, set domain.Directives) error {
	snap, err := c.Fetch(ctx, set)
	c.Install(set, snap, err)
	return err
}

// Snapshot returns the current snapshot. Callers must not modify it.
func (c *Corpus) Snapshot() domain.Snapshot {
	return c.snapshot
}

// BuiltFrom returns the directive set the snapshot was listed with.
func (c *Corpus) BuiltFrom() domain.Directives {
	return c.builtFrom.Clone()
}

// Stale reports whether set differs from the snapshot's directive set.
func (c *Corpus) Stale(set domain.Directives) bool {
	return !c.built || !c.builtFrom.Equal(set)
}

// Refreshes returns the number of installed snapshots.
func (c *Corpus) Refreshes() int {
	return c.refreshes
}
