// Package combatlog provides append-only storage for combat log entries.
package combatlog

//go:generate mockgen -destination=mock/mock_repository.go -package=combatlogmock github.com/talekeeper/combat-api/internal/repositories/combatlog Repository

import (
	"context"
	"encoding/json"
	"time"
)

// Action identifies what kind of event a log entry records.
type Action string

// Log entry actions
const (
	ActionEncounterStart Action = "encounter_start"
	ActionAttack         Action = "attack"
	ActionSavingThrow    Action = "saving_throw"
	ActionDamage         Action = "damage"
	ActionHeal           Action = "heal"
	ActionTurnAdvance    Action = "turn_advance"
	ActionEncounterEnd   Action = "encounter_end"
)

// Entry is one combat log record. Sequence is assigned by the
// repository on append and is monotonic per encounter, starting at 1.
type Entry struct {
	ID          string          `json:"id"`
	EncounterID string          `json:"encounter_id"`
	Sequence    int             `json:"sequence"`
	Round       int             `json:"round"`
	ActorID     string          `json:"actor_id,omitempty"`
	Action      Action          `json:"action"`
	TargetID    string          `json:"target_id,omitempty"`
	Detail      json.RawMessage `json:"detail,omitempty"`
	HPDelta     int             `json:"hp_delta,omitempty"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Repository defines the storage interface for combat log entries
type Repository interface {
	// Append stores an entry, assigning its sequence number.
	// Returns the stored entry with Sequence populated.
	Append(ctx context.Context, input AppendInput) (*AppendOutput, error)

	// List retrieves an encounter's entries in append order
	List(ctx context.Context, input ListInput) (*ListOutput, error)
}

// AppendInput defines the input for appending a log entry
type AppendInput struct {
	Entry *Entry
}

// AppendOutput defines the output for appending a log entry
type AppendOutput struct {
	Entry *Entry
}

// ListInput defines the input for listing an encounter's log entries
type ListInput struct {
	EncounterID string
	// Limit caps the number of entries returned, counted from the end
	// of the log. Zero means no limit.
	Limit int
}

// ListOutput defines the output for listing log entries
type ListOutput struct {
	Entries []*Entry
}
