// Package characters provides the interface for character persistence
package characters

//go:generate mockgen -destination=mock/mock_repository.go -package=charactersmock github.com/talekeeper/combat-api/internal/repositories/characters Repository

import (
	"context"

	"github.com/talekeeper/combat-api/internal/entities"
)

// Repository defines the interface for character persistence
type Repository interface {
	// Create creates a new character
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if a character with the same ID exists
	// Returns errors.Internal for storage failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a character by ID
	// Returns errors.NotFound if the character doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// GetByName retrieves a character by name
	// Returns errors.NotFound if no character has that name
	GetByName(ctx context.Context, input GetByNameInput) (*GetByNameOutput, error)

	// List retrieves all characters ordered by name
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// UpdateHP sets a character's current hit points
	// Returns errors.NotFound if the character doesn't exist
	UpdateHP(ctx context.Context, input UpdateHPInput) (*UpdateHPOutput, error)

	// Delete removes a character by ID
	// Returns errors.NotFound if the character doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// CreateInput defines the input for creating a character
type CreateInput struct {
	Character *entities.Character
}

// CreateOutput defines the output for creating a character
type CreateOutput struct {
	Character *entities.Character
}

// GetInput defines the input for getting a character
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a character
type GetOutput struct {
	Character *entities.Character
}

// GetByNameInput defines the input for getting a character by name
type GetByNameInput struct {
	Name string
}

// GetByNameOutput defines the output for getting a character by name
type GetByNameOutput struct {
	Character *entities.Character
}

// ListInput defines the input for listing characters
type ListInput struct {
	// Empty for now, can be extended with filters later
}

// ListOutput defines the output for listing characters
type ListOutput struct {
	Characters []*entities.Character
}

// UpdateHPInput defines the input for updating a character's hit points
type UpdateHPInput struct {
	ID string
	HP int
}

// UpdateHPOutput defines the output for updating a character's hit points
type UpdateHPOutput struct {
	Character *entities.Character
}

// DeleteInput defines the input for deleting a character
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a character
type DeleteOutput struct {
	// Empty for now, can be extended later
}
