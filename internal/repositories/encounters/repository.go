// Package encounters provides storage for live encounter state.
package encounters

//go:generate mockgen -destination=mock/mock_repository.go -package=encountersmock github.com/talekeeper/combat-api/internal/repositories/encounters Repository

import (
	"context"

	"github.com/talekeeper/combat-api/internal/encounter"
)

// Repository defines the storage interface for encounters.
//
// Encounter state is live, mutable data: Get returns the stored
// *encounter.State itself, not a copy, and the orchestrator serializes
// access per encounter. Save after every mutation keeps durable
// backends in sync; the in-memory backend treats it as a no-op for
// already-stored states.
type Repository interface {
	// Save stores an encounter, overwriting any previous state
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// Get retrieves an encounter by ID
	// Returns errors.NotFound if the encounter doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Delete removes an encounter
	// Returns errors.NotFound if the encounter doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// SaveInput defines the request for saving an encounter
type SaveInput struct {
	State *encounter.State
}

// SaveOutput defines the response for saving an encounter
type SaveOutput struct{}

// GetInput defines the request for retrieving an encounter
type GetInput struct {
	EncounterID string
}

// GetOutput defines the response for retrieving an encounter
type GetOutput struct {
	State *encounter.State
}

// DeleteInput defines the request for deleting an encounter
type DeleteInput struct {
	EncounterID string
}

// DeleteOutput defines the response for deleting an encounter
type DeleteOutput struct{}
