package combat

import (
	"github.com/talekeeper/combat-api/internal/dice"
	"github.com/talekeeper/combat-api/internal/encounter"
	"github.com/talekeeper/combat-api/internal/entities"
	"github.com/talekeeper/combat-api/internal/repositories/combatlog"
	"github.com/talekeeper/combat-api/internal/rules"
)

// CreateCharacterInput defines the input for creating a character.
// Abilities may be provided explicitly; when nil, scores are rolled
// with RollMethod (defaulting to 4d6-drop-lowest) and assigned in
// STR, DEX, CON, INT, WIS, CHA order.
type CreateCharacterInput struct {
	Name              string
	PlayerName        string
	Class             string
	Level             int
	HPMax             int
	ArmorClass        int
	Abilities         map[entities.AbilityKey]int
	RollMethod        string
	SaveProficiencies []entities.AbilityKey
}

// CreateCharacterOutput defines the output for creating a character
type CreateCharacterOutput struct {
	Character *entities.Character
}

// GetCharacterInput defines the input for retrieving a character.
// ID takes precedence; Name is used when ID is empty.
type GetCharacterInput struct {
	ID   string
	Name string
}

// GetCharacterOutput defines the output for retrieving a character
type GetCharacterOutput struct {
	Character *entities.Character
}

// ListCharactersInput defines the input for listing characters
type ListCharactersInput struct{}

// ListCharactersOutput defines the output for listing characters
type ListCharactersOutput struct {
	Characters []*entities.Character
}

// RollDiceInput defines the input for a free-form dice roll
type RollDiceInput struct {
	Notation string
}

// RollDiceOutput defines the output for a free-form dice roll
type RollDiceOutput struct {
	Roll *dice.RollOutcome
}

// RollD20Input defines the input for a d20 check roll
type RollD20Input struct {
	Modifier  int
	Advantage dice.AdvantageMode
}

// RollD20Output defines the output for a d20 check roll
type RollD20Output struct {
	Roll *dice.RollOutcome
}

// InitiativeResult pairs a participant with its rolled initiative.
type InitiativeResult struct {
	ParticipantID string            `json:"participant_id"`
	Name          string            `json:"name"`
	Initiative    int               `json:"initiative"`
	Roll          *dice.RollOutcome `json:"roll"`
}

// StartEncounterInput defines the input for starting an encounter.
// CharacterIDs are looked up in character storage; their order is the
// declaration order used for final initiative tie-breaks.
type StartEncounterInput struct {
	CharacterIDs []string
}

// StartEncounterOutput defines the output for starting an encounter
type StartEncounterOutput struct {
	EncounterID          string
	Order                []encounter.InitiativeEntry
	InitiativeRolls      []InitiativeResult
	Round                int
	CurrentParticipantID string
}

// ExecuteAttackInput defines the input for one attack action
type ExecuteAttackInput struct {
	EncounterID    string
	AttackerID     string
	TargetID       string
	AttackBonus    int
	DamageNotation string
	Advantage      dice.AdvantageMode
}

// ExecuteAttackOutput defines the output for one attack action.
// PersistErr carries a character-storage failure after the in-memory
// encounter state was already updated; callers may retry persistence
// without re-rolling the attack.
type ExecuteAttackOutput struct {
	Outcome           *rules.AttackOutcome
	TargetHP          int
	TargetUnconscious bool
	LogEntry          *combatlog.Entry
	PersistErr        error
}

// ExecuteSavingThrowInput defines the input for one saving throw
type ExecuteSavingThrowInput struct {
	EncounterID   string
	ParticipantID string
	Ability       entities.AbilityKey
	DC            int
	Advantage     dice.AdvantageMode
}

// ExecuteSavingThrowOutput defines the output for one saving throw
type ExecuteSavingThrowOutput struct {
	Outcome  *rules.SaveOutcome
	LogEntry *combatlog.Entry
}

// ApplyDamageInput defines the input for applying flat damage
type ApplyDamageInput struct {
	EncounterID   string
	ParticipantID string
	Amount        int
}

// ApplyDamageOutput defines the output for applying flat damage
type ApplyDamageOutput struct {
	HP          int
	Unconscious bool
	LogEntry    *combatlog.Entry
	PersistErr  error
}

// ApplyHealingInput defines the input for applying healing
type ApplyHealingInput struct {
	EncounterID   string
	ParticipantID string
	Amount        int
}

// ApplyHealingOutput defines the output for applying healing
type ApplyHealingOutput struct {
	HP         int
	HPMax      int
	LogEntry   *combatlog.Entry
	PersistErr error
}

// NextTurnInput defines the input for advancing the turn
type NextTurnInput struct {
	EncounterID string
}

// NextTurnOutput defines the output for advancing the turn
type NextTurnOutput struct {
	Round                int
	TurnIndex            int
	CurrentParticipantID string
}

// EndEncounterInput defines the input for concluding an encounter
type EndEncounterInput struct {
	EncounterID string
}

// EndEncounterOutput defines the output for concluding an encounter
type EndEncounterOutput struct {
	Rounds int
}

// GetCombatLogInput defines the input for reading the combat log
type GetCombatLogInput struct {
	EncounterID string
	Limit       int
}

// GetCombatLogOutput defines the output for reading the combat log
type GetCombatLogOutput struct {
	Entries []*combatlog.Entry
}
