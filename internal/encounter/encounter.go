// Package encounter implements the encounter state machine: initiative
// ordering, round and turn progression, and participant hit points.
//
// A State is designed for a single logical writer. The package does no
// internal locking; callers serialize access per encounter.
package encounter

import (
	"sort"

	"github.com/talekeeper/combat-api/internal/entities"
	"github.com/talekeeper/combat-api/internal/errors"
)

// Status is the lifecycle state of an encounter. Transitions are
// linear: Forming -> Active -> Concluded, no cycles back.
type Status string

// Encounter statuses
const (
	StatusForming   Status = "forming"
	StatusActive    Status = "active"
	StatusConcluded Status = "concluded"
)

// InitiativeEntry pairs a participant with its initiative value.
type InitiativeEntry struct {
	ParticipantID string `json:"participant_id"`
	Initiative    int    `json:"initiative"`
}

// State holds one encounter's turn order and participants.
type State struct {
	ID           string
	Status       Status
	Order        []InitiativeEntry
	Round        int
	TurnIndex    int
	participants map[string]*entities.Participant
}

// New creates an encounter in the Forming state.
func New(id string) *State {
	return &State{
		ID:           id,
		Status:       StatusForming,
		participants: make(map[string]*entities.Participant),
	}
}

// Begin transitions Forming -> Active. Participants are ordered by
// initiative descending; ties break on higher DEX modifier, then on
// declaration order (first declared wins), so the ordering is
// deterministic and total. initiativeRolls maps participant ID to the
// rolled initiative total and must cover every participant.
func (s *State) Begin(participants []*entities.Participant, initiativeRolls map[string]int) error {
	if s.Status != StatusForming {
		return errors.InvalidArgumentf("encounter %s has already begun", s.ID)
	}
	if len(participants) == 0 {
		return errors.InvalidArgument("encounter needs at least one participant")
	}

	// Validate the whole roster before mutating anything so a failed
	// Begin leaves the encounter Forming and retryable.
	order := make([]InitiativeEntry, 0, len(participants))
	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		initiative, ok := initiativeRolls[p.ID]
		if !ok {
			return errors.UnknownParticipantf("no initiative roll for participant %q", p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return errors.InvalidArgumentf("duplicate participant %q", p.ID)
		}
		seen[p.ID] = struct{}{}
		order = append(order, InitiativeEntry{ParticipantID: p.ID, Initiative: initiative})
	}

	for _, p := range participants {
		s.participants[p.ID] = p
	}

	dexMod := func(id string) int {
		return s.participants[id].Modifiers[entities.AbilityDEX]
	}
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].Initiative != order[j].Initiative {
			return order[i].Initiative > order[j].Initiative
		}
		return dexMod(order[i].ParticipantID) > dexMod(order[j].ParticipantID)
	})

	s.Order = order
	s.Round = 1
	s.TurnIndex = 0
	s.Status = StatusActive
	return nil
}

// checkWritable rejects mutations outside the Active state.
func (s *State) checkWritable() error {
	switch s.Status {
	case StatusActive:
		return nil
	case StatusConcluded:
		return errors.EncounterConcluded("encounter has concluded")
	default:
		return errors.InvalidArgumentf("encounter %s has not begun", s.ID)
	}
}

// EnsureActive reports an error unless the encounter accepts
// mutations. Callers use it to reject an action before rolling any
// dice for it.
func (s *State) EnsureActive() error {
	return s.checkWritable()
}

// AdvanceTurn moves to the next participant in initiative order,
// wrapping to the top of the order and incrementing the round number
// when the last participant's turn ends.
func (s *State) AdvanceTurn() error {
	if err := s.checkWritable(); err != nil {
		return err
	}

	s.TurnIndex++
	if s.TurnIndex >= len(s.Order) {
		s.TurnIndex = 0
		s.Round++
	}
	return nil
}

// CurrentParticipantID returns the participant whose turn it is.
func (s *State) CurrentParticipantID() string {
	if len(s.Order) == 0 {
		return ""
	}
	return s.Order[s.TurnIndex].ParticipantID
}

// Participant looks up a participant by ID.
func (s *State) Participant(id string) (*entities.Participant, error) {
	p, ok := s.participants[id]
	if !ok {
		return nil, errors.UnknownParticipantf("participant %q is not in encounter %s", id, s.ID)
	}
	return p, nil
}

// ApplyDamage subtracts amount from the participant's HP, clamped at 0.
// A negative amount fails with InvalidAmount: healing must go through
// ApplyHealing, not negative damage.
func (s *State) ApplyDamage(participantID string, amount int) (int, error) {
	if err := s.checkWritable(); err != nil {
		return 0, err
	}
	if amount < 0 {
		return 0, errors.InvalidAmountf("damage amount must be non-negative, got %d", amount)
	}

	p, err := s.Participant(participantID)
	if err != nil {
		return 0, err
	}

	p.HPCurrent = max(0, p.HPCurrent-amount)
	return p.HPCurrent, nil
}

// ApplyHealing adds amount to the participant's HP, clamped at HPMax.
func (s *State) ApplyHealing(participantID string, amount int) (int, error) {
	if err := s.checkWritable(); err != nil {
		return 0, err
	}
	if amount < 0 {
		return 0, errors.InvalidAmountf("healing amount must be non-negative, got %d", amount)
	}

	p, err := s.Participant(participantID)
	if err != nil {
		return 0, err
	}

	p.HPCurrent = min(p.HPMax, p.HPCurrent+amount)
	return p.HPCurrent, nil
}

// IsUnconscious reports whether the participant has dropped to 0 HP.
func IsUnconscious(p *entities.Participant) bool {
	return p.HPCurrent == 0
}

// Conclude transitions Active -> Concluded. Terminal: every later
// mutation fails with EncounterConcluded.
func (s *State) Conclude() error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	s.Status = StatusConcluded
	return nil
}
