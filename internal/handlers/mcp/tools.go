package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/talekeeper/combat-api/internal/entities"
)

// RollResult represents one dice roll in MCP tool output.
type RollResult struct {
	Rolls      []int  `json:"rolls" jsonschema:"every die drawn, in draw order"`
	Chosen     []int  `json:"chosen" jsonschema:"the dice kept for the total"`
	Modifier   int    `json:"modifier" jsonschema:"flat modifier applied to the total"`
	Total      int    `json:"total" jsonschema:"sum of chosen dice and modifier"`
	IsCritical bool   `json:"is_critical" jsonschema:"whether the kept d20 is a natural 20"`
	Notation   string `json:"notation,omitempty" jsonschema:"the notation that was rolled"`
}

// CharacterResult represents a character in MCP tool output.
type CharacterResult struct {
	ID               string                      `json:"id" jsonschema:"character identifier"`
	Name             string                      `json:"name" jsonschema:"character name"`
	PlayerName       string                      `json:"player_name,omitempty" jsonschema:"owning player"`
	Class            string                      `json:"class,omitempty" jsonschema:"character class"`
	Level            int                         `json:"level" jsonschema:"character level"`
	HPCurrent        int                         `json:"hp_current" jsonschema:"current hit points"`
	HPMax            int                         `json:"hp_max" jsonschema:"maximum hit points"`
	ArmorClass       int                         `json:"armor_class" jsonschema:"armor class"`
	Abilities        map[entities.AbilityKey]int `json:"abilities" jsonschema:"ability scores"`
	Modifiers        map[entities.AbilityKey]int `json:"modifiers" jsonschema:"ability modifiers"`
	SavingThrows     map[entities.AbilityKey]int `json:"saving_throws" jsonschema:"saving throw bonuses"`
	ProficiencyBonus int                         `json:"proficiency_bonus" jsonschema:"proficiency bonus"`
}

// RollD20Input represents the MCP tool input for a d20 check.
type RollD20Input struct {
	Modifier  int    `json:"modifier" jsonschema:"modifier added to the roll"`
	Advantage string `json:"advantage,omitempty" jsonschema:"advantage state: normal, advantage, or disadvantage"`
}

// RollD20Result represents the MCP tool output for a d20 check.
type RollD20Result struct {
	Roll RollResult `json:"roll" jsonschema:"the d20 roll"`
}

// RollDamageInput represents the MCP tool input for a damage roll.
type RollDamageInput struct {
	Notation string `json:"notation" jsonschema:"dice notation like 2d6+3"`
}

// RollDamageResult represents the MCP tool output for a damage roll.
type RollDamageResult struct {
	Roll RollResult `json:"roll" jsonschema:"the damage roll"`
}

// CreateCharacterInput represents the MCP tool input for creating a character.
type CreateCharacterInput struct {
	Name              string                      `json:"name" jsonschema:"character name, unique"`
	PlayerName        string                      `json:"player_name,omitempty" jsonschema:"owning player"`
	Class             string                      `json:"class,omitempty" jsonschema:"character class"`
	Level             int                         `json:"level,omitempty" jsonschema:"character level, defaults to 1"`
	HPMax             int                         `json:"hp_max" jsonschema:"maximum hit points"`
	ArmorClass        int                         `json:"armor_class,omitempty" jsonschema:"armor class, defaults to 10"`
	Abilities         map[entities.AbilityKey]int `json:"abilities,omitempty" jsonschema:"explicit ability scores; omit to roll them"`
	RollMethod        string                      `json:"roll_method,omitempty" jsonschema:"ability roll method: 4d6_drop_lowest or 3d6"`
	SaveProficiencies []entities.AbilityKey       `json:"save_proficiencies,omitempty" jsonschema:"abilities with saving throw proficiency"`
}

// CreateCharacterResult represents the MCP tool output for creating a character.
type CreateCharacterResult struct {
	Character CharacterResult `json:"character" jsonschema:"the created character"`
}

// GetCharacterInput represents the MCP tool input for fetching a character.
type GetCharacterInput struct {
	ID   string `json:"id,omitempty" jsonschema:"character identifier"`
	Name string `json:"name,omitempty" jsonschema:"character name, used when id is omitted"`
}

// GetCharacterResult represents the MCP tool output for fetching a character.
type GetCharacterResult struct {
	Character CharacterResult `json:"character" jsonschema:"the character"`
}

// ListCharactersInput represents the MCP tool input for listing characters.
type ListCharactersInput struct{}

// ListCharactersResult represents the MCP tool output for listing characters.
type ListCharactersResult struct {
	Characters []CharacterResult `json:"characters" jsonschema:"all characters, ordered by name"`
}

// StartCombatInput represents the MCP tool input for starting combat.
type StartCombatInput struct {
	CharacterIDs []string `json:"character_ids" jsonschema:"characters joining the encounter, in declaration order"`
}

// InitiativeEntryResult represents one initiative slot in MCP tool output.
type InitiativeEntryResult struct {
	ParticipantID string `json:"participant_id" jsonschema:"participant identifier"`
	Initiative    int    `json:"initiative" jsonschema:"rolled initiative total"`
}

// StartCombatResult represents the MCP tool output for starting combat.
type StartCombatResult struct {
	EncounterID          string                  `json:"encounter_id" jsonschema:"identifier of the new encounter"`
	Order                []InitiativeEntryResult `json:"order" jsonschema:"turn order, highest initiative first"`
	Round                int                     `json:"round" jsonschema:"current round, starts at 1"`
	CurrentParticipantID string                  `json:"current_participant_id" jsonschema:"whose turn it is"`
}

// RollAttackInput represents the MCP tool input for an attack.
type RollAttackInput struct {
	EncounterID    string `json:"encounter_id" jsonschema:"encounter the attack happens in"`
	AttackerID     string `json:"attacker_id" jsonschema:"attacking participant"`
	TargetID       string `json:"target_id" jsonschema:"participant being attacked"`
	AttackBonus    int    `json:"attack_bonus" jsonschema:"bonus added to the attack roll"`
	DamageNotation string `json:"damage_notation" jsonschema:"damage dice like 1d8+4"`
	Advantage      string `json:"advantage,omitempty" jsonschema:"advantage state: normal, advantage, or disadvantage"`
}

// RollAttackResult represents the MCP tool output for an attack.
type RollAttackResult struct {
	Hit               bool        `json:"hit" jsonschema:"whether the attack hit"`
	Critical          bool        `json:"critical" jsonschema:"whether the attack was a critical hit"`
	AttackRoll        RollResult  `json:"attack_roll" jsonschema:"the attack roll"`
	DamageRoll        *RollResult `json:"damage_roll,omitempty" jsonschema:"the damage roll, present on a hit"`
	TargetHP          int         `json:"target_hp" jsonschema:"target hit points after the attack"`
	TargetUnconscious bool        `json:"target_unconscious" jsonschema:"whether the target dropped to 0 HP"`
	Narration         string      `json:"narration" jsonschema:"short description of the attack"`
}

// RollSavingThrowInput represents the MCP tool input for a saving throw.
type RollSavingThrowInput struct {
	EncounterID   string `json:"encounter_id" jsonschema:"encounter the save happens in"`
	ParticipantID string `json:"participant_id" jsonschema:"participant making the save"`
	Ability       string `json:"ability" jsonschema:"ability key: STR, DEX, CON, INT, WIS, or CHA"`
	DC            int    `json:"dc" jsonschema:"difficulty class to meet"`
	Advantage     string `json:"advantage,omitempty" jsonschema:"advantage state: normal, advantage, or disadvantage"`
}

// RollSavingThrowResult represents the MCP tool output for a saving throw.
type RollSavingThrowResult struct {
	Success bool       `json:"success" jsonschema:"whether the save met the DC"`
	DC      int        `json:"dc" jsonschema:"difficulty class"`
	Roll    RollResult `json:"roll" jsonschema:"the saving throw roll"`
}

// DamageCharacterInput represents the MCP tool input for flat damage.
type DamageCharacterInput struct {
	EncounterID   string `json:"encounter_id" jsonschema:"encounter the damage happens in"`
	ParticipantID string `json:"participant_id" jsonschema:"participant taking damage"`
	Amount        int    `json:"amount" jsonschema:"damage amount, non-negative"`
}

// DamageCharacterResult represents the MCP tool output for flat damage.
type DamageCharacterResult struct {
	HP          int    `json:"hp" jsonschema:"hit points after the damage"`
	Unconscious bool   `json:"unconscious" jsonschema:"whether the participant dropped to 0 HP"`
	Narration   string `json:"narration" jsonschema:"short description of the damage"`
}

// HealCharacterInput represents the MCP tool input for healing.
type HealCharacterInput struct {
	EncounterID   string `json:"encounter_id" jsonschema:"encounter the healing happens in"`
	ParticipantID string `json:"participant_id" jsonschema:"participant being healed"`
	Amount        int    `json:"amount" jsonschema:"healing amount, non-negative"`
}

// HealCharacterResult represents the MCP tool output for healing.
type HealCharacterResult struct {
	HP        int    `json:"hp" jsonschema:"hit points after the healing"`
	Narration string `json:"narration" jsonschema:"short description of the healing"`
}

// NextTurnInput represents the MCP tool input for advancing the turn.
type NextTurnInput struct {
	EncounterID string `json:"encounter_id" jsonschema:"encounter to advance"`
}

// NextTurnResult represents the MCP tool output for advancing the turn.
type NextTurnResult struct {
	Round                int    `json:"round" jsonschema:"current round"`
	CurrentParticipantID string `json:"current_participant_id" jsonschema:"whose turn it is now"`
}

// EndCombatInput represents the MCP tool input for ending combat.
type EndCombatInput struct {
	EncounterID string `json:"encounter_id" jsonschema:"encounter to conclude"`
}

// EndCombatResult represents the MCP tool output for ending combat.
type EndCombatResult struct {
	Rounds int `json:"rounds" jsonschema:"how many rounds the encounter ran"`
}

// GetCombatLogInput represents the MCP tool input for reading the log.
type GetCombatLogInput struct {
	EncounterID string `json:"encounter_id" jsonschema:"encounter whose log to read"`
	Limit       int    `json:"limit,omitempty" jsonschema:"max entries, counted from the end; 0 for all"`
}

// CombatLogEntryResult represents one log entry in MCP tool output.
type CombatLogEntryResult struct {
	Sequence    int    `json:"sequence" jsonschema:"monotonic position in the encounter's log"`
	Round       int    `json:"round" jsonschema:"round the event happened in"`
	Action      string `json:"action" jsonschema:"event kind"`
	ActorID     string `json:"actor_id,omitempty" jsonschema:"acting participant"`
	TargetID    string `json:"target_id,omitempty" jsonschema:"targeted participant"`
	HPDelta     int    `json:"hp_delta,omitempty" jsonschema:"hit point change caused by the event"`
	Description string `json:"description,omitempty" jsonschema:"human-readable summary"`
}

// GetCombatLogResult represents the MCP tool output for reading the log.
type GetCombatLogResult struct {
	Entries []CombatLogEntryResult `json:"entries" jsonschema:"log entries in append order"`
}

// RollD20Tool defines the MCP tool schema for d20 checks.
func RollD20Tool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_d20",
		Description: "Rolls a d20 with a modifier and optional advantage or disadvantage",
	}
}

// RollDamageTool defines the MCP tool schema for free-form dice rolls.
func RollDamageTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_damage",
		Description: "Rolls dice notation like 2d6+3",
	}
}

// CreateCharacterTool defines the MCP tool schema for creating characters.
func CreateCharacterTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_character",
		Description: "Creates a character, rolling ability scores unless explicit ones are given",
	}
}

// GetCharacterTool defines the MCP tool schema for fetching a character.
func GetCharacterTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_character",
		Description: "Fetches a character by id or name",
	}
}

// ListCharactersTool defines the MCP tool schema for listing characters.
func ListCharactersTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_characters",
		Description: "Lists all characters ordered by name",
	}
}

// StartCombatTool defines the MCP tool schema for starting an encounter.
func StartCombatTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "start_combat",
		Description: "Rolls initiative for the given characters and starts an encounter",
	}
}

// RollAttackTool defines the MCP tool schema for attacks.
func RollAttackTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_attack",
		Description: "Resolves an attack against a target's armor class and applies damage on a hit",
	}
}

// RollSavingThrowTool defines the MCP tool schema for saving throws.
func RollSavingThrowTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll_saving_throw",
		Description: "Rolls a saving throw against a difficulty class",
	}
}

// DamageCharacterTool defines the MCP tool schema for flat damage.
func DamageCharacterTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "damage_character",
		Description: "Applies flat damage to a participant, clamping HP at 0",
	}
}

// HealCharacterTool defines the MCP tool schema for healing.
func HealCharacterTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "heal_character",
		Description: "Heals a participant, clamping HP at its maximum",
	}
}

// NextTurnTool defines the MCP tool schema for advancing the turn.
func NextTurnTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "next_turn",
		Description: "Advances the encounter to the next participant in initiative order",
	}
}

// EndCombatTool defines the MCP tool schema for ending combat.
func EndCombatTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "end_combat",
		Description: "Concludes an encounter; no further actions are accepted",
	}
}

// GetCombatLogTool defines the MCP tool schema for reading the combat log.
func GetCombatLogTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_combat_log",
		Description: "Reads an encounter's combat log in order",
	}
}
