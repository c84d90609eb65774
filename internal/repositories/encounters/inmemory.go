package encounters

import (
	"context"
	"sync"

	"github.com/talekeeper/combat-api/internal/encounter"
	"github.com/talekeeper/combat-api/internal/errors"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*encounter.State
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string]*encounter.State),
	}
}

// Ensure InMemoryRepository implements Repository
var _ Repository = (*InMemoryRepository)(nil)

// Save stores an encounter
func (r *InMemoryRepository) Save(_ context.Context, input SaveInput) (*SaveOutput, error) {
	if input.State == nil {
		return nil, errors.InvalidArgument("state is required")
	}
	if input.State.ID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[input.State.ID] = input.State

	return &SaveOutput{}, nil
}

// Get retrieves an encounter by ID
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	state, exists := r.store[input.EncounterID]
	if !exists {
		return nil, errors.NotFoundf("encounter %s not found", input.EncounterID)
	}

	return &GetOutput{State: state}, nil
}

// Delete removes an encounter
func (r *InMemoryRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.EncounterID]; !exists {
		return nil, errors.NotFoundf("encounter %s not found", input.EncounterID)
	}

	delete(r.store, input.EncounterID)

	return &DeleteOutput{}, nil
}
