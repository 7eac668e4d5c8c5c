package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/quicksearch/internal/core/domain"
	"github.com/custodia-labs/quicksearch/internal/logger"
)

// Session is one open search window: a model plus its selection adapter.
type Session struct {
	ID        string
	Model     *ResultModel
	Selection *SelectionAdapter
}

// SessionRegistry hands out handles to search sessions. The host's
// lifecycle manager owns the registry; nothing here is process-wide.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*Session)}
}

// Open registers a session and returns its handle.
func (r *SessionRegistry) Open(model *ResultModel, selection *SelectionAdapter) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New().String()
	r.sessions[id] = &Session{ID: id, Model: model, Selection: selection}
	logger.Debug("Opened search session %s", id)
	return id
}

// Get returns the session for a handle.
func (r *SessionRegistry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return s, nil
}

// Show prepares a session for display: the query is cleared and the
// corpus relisted, since the scene may have changed while hidden.
func (r *SessionRegistry) Show(ctx context.Context, id string) (domain.Outcome, error) {
	s, err := r.Get(id)
	if err != nil {
		return domain.Outcome{}, err
	}
	s.Model.SetQuery(ctx, "")
	return s.Model.ForceUpdate(ctx), nil
}

// Close removes a session and detaches its selection adapter.
func (r *SessionRegistry) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	if s.Selection != nil {
		s.Selection.Close()
	}
	delete(r.sessions, id)
	logger.Debug("Closed search session %s", id)
	return nil
}

// IDs returns the open session handles in ascending order.
func (r *SessionRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
