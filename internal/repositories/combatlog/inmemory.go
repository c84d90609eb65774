package combatlog

import (
	"context"
	"sync"

	"github.com/talekeeper/combat-api/internal/errors"
	"github.com/talekeeper/combat-api/internal/pkg/clock"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	logs  map[string][]*Entry
	clock clock.Clock
}

// NewInMemory creates a new in-memory combat log repository
func NewInMemory(c clock.Clock) *InMemoryRepository {
	if c == nil {
		c = clock.New()
	}
	return &InMemoryRepository{
		logs:  make(map[string][]*Entry),
		clock: c,
	}
}

// Ensure InMemoryRepository implements Repository
var _ Repository = (*InMemoryRepository)(nil)

// Append stores an entry, assigning its sequence number
func (r *InMemoryRepository) Append(_ context.Context, input AppendInput) (*AppendOutput, error) {
	if input.Entry == nil {
		return nil, errors.InvalidArgument("entry cannot be nil")
	}
	if input.Entry.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	log := r.logs[input.Entry.EncounterID]
	input.Entry.Sequence = len(log) + 1
	input.Entry.CreatedAt = r.clock.Now()
	r.logs[input.Entry.EncounterID] = append(log, input.Entry)

	return &AppendOutput{Entry: input.Entry}, nil
}

// List retrieves an encounter's entries in append order
func (r *InMemoryRepository) List(_ context.Context, input ListInput) (*ListOutput, error) {
	if input.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID cannot be empty")
	}
	if input.Limit < 0 {
		return nil, errors.InvalidArgumentf("limit must be non-negative, got %d", input.Limit)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	log := r.logs[input.EncounterID]
	if input.Limit > 0 && input.Limit < len(log) {
		log = log[len(log)-input.Limit:]
	}

	entries := make([]*Entry, len(log))
	copy(entries, log)

	return &ListOutput{Entries: entries}, nil
}
