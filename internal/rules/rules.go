// Package rules implements the resolution engine: attack rolls against
// armor class, saving throws against a difficulty class, and initiative.
package rules

import (
	"github.com/talekeeper/combat-api/internal/dice"
	"github.com/talekeeper/combat-api/internal/errors"
)

// AttackOutcome is the result of resolving one attack. DamageRoll is
// present iff Hit is true, and Critical implies Hit.
type AttackOutcome struct {
	Hit              bool              `json:"hit"`
	Critical         bool              `json:"critical"`
	AttackRoll       *dice.RollOutcome `json:"attack_roll"`
	DamageRoll       *dice.RollOutcome `json:"damage_roll,omitempty"`
	TargetArmorClass int               `json:"target_armor_class"`
}

// SaveOutcome is the result of resolving one saving throw.
type SaveOutcome struct {
	Success bool              `json:"success"`
	DC      int               `json:"dc"`
	Roll    *dice.RollOutcome `json:"roll"`
}

// Config holds the dependencies for the resolution engine
type Config struct {
	Dice *dice.Engine
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Dice == nil {
		vb.RequiredField("Dice")
	}

	return vb.Build()
}

// Resolver computes attack, saving throw, and initiative outcomes.
type Resolver struct {
	dice *dice.Engine
}

// NewResolver creates a resolution engine with the provided dependencies
func NewResolver(cfg *Config) (*Resolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Resolver{dice: cfg.Dice}, nil
}

// ResolveAttack rolls an attack against the target's armor class and,
// on a hit, rolls damage. The natural-1 and natural-20 checks run
// before the AC comparison: a natural 1 misses even when the total
// beats AC, and a natural 20 hits (critically) even when it does not.
// Critical hits roll the damage dice twice.
func (r *Resolver) ResolveAttack(attackBonus, targetAC int, advantage dice.AdvantageMode, damageSpec dice.Spec) (*AttackOutcome, error) {
	attackRoll, err := r.dice.RollD20(attackBonus, advantage)
	if err != nil {
		return nil, err
	}

	outcome := &AttackOutcome{
		AttackRoll:       attackRoll,
		TargetArmorClass: targetAC,
	}

	switch natural := attackRoll.Chosen[0]; {
	case natural == 1:
		outcome.Hit = false
	case natural == 20:
		outcome.Hit = true
		outcome.Critical = true
	default:
		outcome.Hit = attackRoll.Total >= targetAC
	}

	if !outcome.Hit {
		return outcome, nil
	}

	if outcome.Critical {
		outcome.DamageRoll, err = r.dice.RollCritical(damageSpec, 0)
	} else {
		outcome.DamageRoll, err = r.dice.RollDamage(damageSpec, 0)
	}
	if err != nil {
		return nil, err
	}

	return outcome, nil
}

// ResolveSavingThrow rolls a saving throw against a difficulty class.
// Success iff total >= dc. Unlike attacks, natural 1s and 20s carry no
// auto-fail or auto-succeed rule here; confirm against house rules
// before extending.
func (r *Resolver) ResolveSavingThrow(saveBonus, dc int, advantage dice.AdvantageMode) (*SaveOutcome, error) {
	roll, err := r.dice.RollD20(saveBonus, advantage)
	if err != nil {
		return nil, err
	}

	return &SaveOutcome{
		Success: roll.Total >= dc,
		DC:      dc,
		Roll:    roll,
	}, nil
}

// ResolveInitiative rolls initiative: a plain d20 plus the DEX modifier.
func (r *Resolver) ResolveInitiative(dexModifier int) (*dice.RollOutcome, error) {
	return r.dice.RollD20(dexModifier, dice.Normal)
}
