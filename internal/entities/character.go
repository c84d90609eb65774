// Package entities defines the domain entities shared across the
// repository, orchestrator, and handler layers.
package entities

import "time"

// AbilityKey identifies one of the six D&D 5e ability scores
type AbilityKey string

// Ability keys
const (
	AbilitySTR AbilityKey = "STR"
	AbilityDEX AbilityKey = "DEX"
	AbilityCON AbilityKey = "CON"
	AbilityINT AbilityKey = "INT"
	AbilityWIS AbilityKey = "WIS"
	AbilityCHA AbilityKey = "CHA"
)

// AbilityKeys lists the six keys in conventional sheet order.
var AbilityKeys = []AbilityKey{
	AbilitySTR, AbilityDEX, AbilityCON, AbilityINT, AbilityWIS, AbilityCHA,
}

// Character is the authoritative character record held by persistence.
// Modifiers and SavingThrows are derived from Abilities at creation and
// stored denormalized, matching what the combat core consumes.
type Character struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	PlayerName       string             `json:"player_name"`
	Class            string             `json:"class"`
	Level            int                `json:"level"`
	HPCurrent        int                `json:"hp_current"`
	HPMax            int                `json:"hp_max"`
	ArmorClass       int                `json:"armor_class"`
	Abilities        map[AbilityKey]int `json:"abilities"`
	Modifiers        map[AbilityKey]int `json:"modifiers"`
	SavingThrows     map[AbilityKey]int `json:"saving_throws"`
	ProficiencyBonus int                `json:"proficiency_bonus"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// Participant is the combat-facing view of a character, owned by the
// encounter state machine for the encounter's duration. The
// authoritative record stays in persistence and is synchronized by the
// orchestrator after each HP mutation.
type Participant struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	ArmorClass   int                `json:"armor_class"`
	HPCurrent    int                `json:"hp_current"`
	HPMax        int                `json:"hp_max"`
	Modifiers    map[AbilityKey]int `json:"ability_modifiers"`
	SavingThrows map[AbilityKey]int `json:"saving_throw_bonuses"`
}

// Participant derives the combat-facing view of the character.
func (c *Character) Participant() *Participant {
	return &Participant{
		ID:           c.ID,
		Name:         c.Name,
		ArmorClass:   c.ArmorClass,
		HPCurrent:    c.HPCurrent,
		HPMax:        c.HPMax,
		Modifiers:    c.Modifiers,
		SavingThrows: c.SavingThrows,
	}
}
