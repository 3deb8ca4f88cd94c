package memstore

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-storefront/sessions"
)

var _ sessions.Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a process local sessions.Repo. Nothing survives a restart.
type InMemoryRepo struct {
	mu    sync.RWMutex
	slots map[sessions.Slot]string
}

// New creates a new in-memory session repository
func New() *InMemoryRepo {
	return &InMemoryRepo{
		slots: make(map[sessions.Slot]string),
	}
}

func (r *InMemoryRepo) Write(_ context.Context, slot sessions.Slot, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.slots[slot] = value
	return nil
}

func (r *InMemoryRepo) WriteAll(_ context.Context, values map[sessions.Slot]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for slot, value := range values {
		r.slots[slot] = value
	}
	return nil
}

func (r *InMemoryRepo) Read(_ context.Context, slot sessions.Slot) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.slots[slot]
	return value, ok, nil
}

func (r *InMemoryRepo) ReadAll(_ context.Context, slots ...sessions.Slot) (map[sessions.Slot]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	values := make(map[sessions.Slot]string, len(slots))
	for _, slot := range slots {
		if value, ok := r.slots[slot]; ok {
			values[slot] = value
		}
	}
	return values, nil
}

func (r *InMemoryRepo) Clear(_ context.Context, slots ...sessions.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, slot := range slots {
		delete(r.slots, slot)
	}
	return nil
}

// Len reports how many slots are populated
func (r *InMemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots)
}

func (r *InMemoryRepo) Close() error {
	return nil
}
