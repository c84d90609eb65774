// Package dice implements the dice engine for D&D 5e combat mechanics:
// notation parsing, damage and critical rolls, and d20 rolls with
// advantage and disadvantage.
package dice

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/talekeeper/combat-api/internal/errors"
)

// Ability score rolling methods
const (
	MethodStandard = "4d6_drop_lowest"
	MethodClassic  = "3d6"
)

// maxDiceCount bounds a single roll so a malformed tool call cannot
// burn CPU on millions of draws.
const maxDiceCount = 1000

// Regex for dice notation like "2d6+3", "d20", "1d8-1"
var notationRegex = regexp.MustCompile(`^(\d*)d(\d+)([+-]\d+)?$`)

// AdvantageMode selects the d20 roll policy
type AdvantageMode string

// Advantage modes
const (
	Normal       AdvantageMode = "normal"
	Advantage    AdvantageMode = "advantage"
	Disadvantage AdvantageMode = "disadvantage"
)

// ParseAdvantageMode converts a wire string to an AdvantageMode. The
// empty string means Normal.
func ParseAdvantageMode(s string) (AdvantageMode, error) {
	switch AdvantageMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Normal:
		return Normal, nil
	case Advantage:
		return Advantage, nil
	case Disadvantage:
		return Disadvantage, nil
	default:
		return Normal, errors.InvalidArgumentf("unknown advantage mode: %q", s)
	}
}

// Spec is a parsed dice specification. Immutable once parsed.
type Spec struct {
	Count    int
	Sides    int
	Modifier int
}

// Notation renders the spec back to its canonical string form.
func (s Spec) Notation() string {
	switch {
	case s.Modifier > 0:
		return fmt.Sprintf("%dd%d+%d", s.Count, s.Sides, s.Modifier)
	case s.Modifier < 0:
		return fmt.Sprintf("%dd%d%d", s.Count, s.Sides, s.Modifier)
	default:
		return fmt.Sprintf("%dd%d", s.Count, s.Sides)
	}
}

// RollOutcome is the result of a roll with full audit detail. Rolls
// preserves every die actually rolled, including the discarded twin
// under advantage or disadvantage; Chosen is the subset summed into
// Total. Never mutated after construction.
type RollOutcome struct {
	Rolls      []int `json:"rolls"`
	Chosen     []int `json:"chosen"`
	Modifier   int   `json:"modifier"`
	Total      int   `json:"total"`
	IsCritical bool  `json:"is_critical"`
}

// Parse accepts case-insensitive, whitespace-tolerant notation of the
// form [count]d<sides>[+|-modifier]. Count defaults to 1 and modifier
// to 0. Any other shape fails with MalformedNotation.
func Parse(notation string) (Spec, error) {
	cleaned := strings.ToLower(strings.Join(strings.Fields(notation), ""))
	if cleaned == "" {
		return Spec{}, errors.MalformedNotation("dice notation is empty")
	}

	matches := notationRegex.FindStringSubmatch(cleaned)
	if matches == nil {
		return Spec{}, errors.MalformedNotationf("invalid dice notation: %q", notation)
	}

	count := 1
	if matches[1] != "" {
		parsed, err := strconv.Atoi(matches[1])
		if err != nil {
			return Spec{}, errors.MalformedNotationf("invalid dice count in notation: %q", notation)
		}
		count = parsed
	}

	sides, err := strconv.Atoi(matches[2])
	if err != nil {
		return Spec{}, errors.MalformedNotationf("invalid die size in notation: %q", notation)
	}

	modifier := 0
	if matches[3] != "" {
		parsed, err := strconv.Atoi(matches[3])
		if err != nil {
			return Spec{}, errors.MalformedNotationf("invalid modifier in notation: %q", notation)
		}
		modifier = parsed
	}

	if count < 1 {
		return Spec{}, errors.InvalidCountf("dice count must be at least 1: %q", notation)
	}
	if sides < 1 {
		return Spec{}, errors.InvalidDief("die must have at least 1 side: %q", notation)
	}

	return Spec{Count: count, Sides: sides, Modifier: modifier}, nil
}

// Config holds the dependencies for the dice engine
type Config struct {
	Roller Roller
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roller == nil {
		vb.RequiredField("Roller")
	}

	return vb.Build()
}

// Engine rolls dice through a Roller. It owns no state beyond the RNG
// source, so an Engine is as concurrency-safe as its Roller.
type Engine struct {
	roller Roller
}

// NewEngine creates a dice engine with the provided dependencies
func NewEngine(cfg *Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Engine{roller: cfg.Roller}, nil
}

// Roll makes one uniform draw in [1, sides].
func (e *Engine) Roll(sides int) (int, error) {
	if sides < 1 {
		return 0, errors.InvalidDief("cannot roll a d%d", sides)
	}
	return e.roller.Roll(sides), nil
}

// RollN makes count independent draws of the same die.
func (e *Engine) RollN(count, sides int) ([]int, error) {
	if sides < 1 {
		return nil, errors.InvalidDief("cannot roll a d%d", sides)
	}
	if count < 1 {
		return nil, errors.InvalidCountf("dice count must be at least 1, got %d", count)
	}
	if count > maxDiceCount {
		return nil, errors.InvalidCountf("dice count must be at most %d, got %d", maxDiceCount, count)
	}

	rolls := make([]int, count)
	for i := range rolls {
		rolls[i] = e.roller.Roll(sides)
	}
	return rolls, nil
}

// RollDamage rolls spec.Count dice of spec.Sides, sums them, and adds
// spec.Modifier plus bonus. No dice are discarded.
func (e *Engine) RollDamage(spec Spec, bonus int) (*RollOutcome, error) {
	rolls, err := e.RollN(spec.Count, spec.Sides)
	if err != nil {
		return nil, err
	}

	modifier := spec.Modifier + bonus
	return &RollOutcome{
		Rolls:    rolls,
		Chosen:   rolls,
		Modifier: modifier,
		Total:    sum(rolls) + modifier,
	}, nil
}

// RollCritical rolls critical-hit damage: the dice double, the flat
// modifier is added once, unscaled.
func (e *Engine) RollCritical(spec Spec, bonus int) (*RollOutcome, error) {
	if spec.Count > maxDiceCount/2 {
		return nil, errors.InvalidCountf("dice count must be at most %d, got %d", maxDiceCount/2, spec.Count)
	}

	doubled := Spec{Count: spec.Count * 2, Sides: spec.Sides, Modifier: spec.Modifier}
	outcome, err := e.RollDamage(doubled, bonus)
	if err != nil {
		return nil, err
	}

	outcome.IsCritical = true
	return outcome, nil
}

// RollD20 rolls a d20 with a modifier under the given advantage mode.
// Advantage and disadvantage draw two dice in order and keep the max or
// min respectively; Rolls always records both draws. The roll is
// critical when the chosen die face is a natural 20.
func (e *Engine) RollD20(modifier int, advantage AdvantageMode) (*RollOutcome, error) {
	var rolls, chosen []int

	switch advantage {
	case Normal:
		roll := e.roller.Roll(20)
		rolls = []int{roll}
		chosen = []int{roll}
	case Advantage, Disadvantage:
		first := e.roller.Roll(20)
		second := e.roller.Roll(20)
		rolls = []int{first, second}

		kept := max(first, second)
		if advantage == Disadvantage {
			kept = min(first, second)
		}
		chosen = []int{kept}
	default:
		return nil, errors.InvalidArgumentf("unknown advantage mode: %q", advantage)
	}

	return &RollOutcome{
		Rolls:      rolls,
		Chosen:     chosen,
		Modifier:   modifier,
		Total:      chosen[0] + modifier,
		IsCritical: chosen[0] == 20,
	}, nil
}

// RollAbilityScores rolls six ability scores using the given method:
// MethodStandard (4d6 drop lowest) or MethodClassic (3d6).
func (e *Engine) RollAbilityScores(method string) ([]int, error) {
	scores := make([]int, 6)

	switch method {
	case MethodStandard:
		for i := range scores {
			rolls, err := e.RollN(4, 6)
			if err != nil {
				return nil, err
			}
			sort.Sort(sort.Reverse(sort.IntSlice(rolls)))
			scores[i] = sum(rolls[:3])
		}
	case MethodClassic:
		for i := range scores {
			rolls, err := e.RollN(3, 6)
			if err != nil {
				return nil, err
			}
			scores[i] = sum(rolls)
		}
	default:
		return nil, errors.InvalidArgumentf("unknown ability score method: %q", method)
	}

	return scores, nil
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
