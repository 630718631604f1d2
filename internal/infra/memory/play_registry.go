package memory

import (
	"context"
	"sync"

	"archetype-quiz-service/internal/domain"
)

// PlayRegistry is an in-memory implementation of app.PlayRegistry.
type PlayRegistry struct {
	mu     sync.Mutex
	active map[string]string
}

func NewPlayRegistry() *PlayRegistry {
	return &PlayRegistry{
		active: make(map[string]string),
	}
}

func (r *PlayRegistry) Acquire(_ context.Context, profileID, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.active[profileID]; ok && current != sessionID {
		return domain.ErrPlayInProgress
	}
	r.active[profileID] = sessionID
	return nil
}

func (r *PlayRegistry) Release(_ context.Context, profileID, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active[profileID] == sessionID {
		delete(r.active, profileID)
	}
}

func (r *PlayRegistry) Active(_ context.Context, profileID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sessionID, ok := r.active[profileID]
	return sessionID, ok
}
