// Package combat implements the combat orchestrator: it sequences
// dice rolls, rules resolution, encounter state changes, persistence,
// and combat logging for each combat operation.
package combat

//go:generate mockgen -destination=mock/mock_service.go -package=combatmock github.com/talekeeper/combat-api/internal/orchestrators/combat Service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/talekeeper/combat-api/internal/dice"
	"github.com/talekeeper/combat-api/internal/encounter"
	"github.com/talekeeper/combat-api/internal/entities"
	"github.com/talekeeper/combat-api/internal/errors"
	"github.com/talekeeper/combat-api/internal/pkg/idgen"
	"github.com/talekeeper/combat-api/internal/repositories/characters"
	"github.com/talekeeper/combat-api/internal/repositories/combatlog"
	"github.com/talekeeper/combat-api/internal/repositories/encounters"
	"github.com/talekeeper/combat-api/internal/rules"
)

// Service defines the interface for combat operations
type Service interface {
	// CreateCharacter creates a character, deriving modifiers,
	// proficiency bonus, and saving throws from its ability scores
	CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error)

	// GetCharacter retrieves a character by ID or name
	GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error)

	// ListCharacters retrieves all characters ordered by name
	ListCharacters(ctx context.Context, input *ListCharactersInput) (*ListCharactersOutput, error)

	// RollDice rolls free-form dice notation like "2d6+3"
	RollDice(ctx context.Context, input *RollDiceInput) (*RollDiceOutput, error)

	// RollD20 rolls a d20 check with a modifier and advantage state
	RollD20(ctx context.Context, input *RollD20Input) (*RollD20Output, error)

	// StartEncounter rolls initiative for the given characters and
	// activates a new encounter
	StartEncounter(ctx context.Context, input *StartEncounterInput) (*StartEncounterOutput, error)

	// ExecuteAttack resolves one attack inside an encounter and
	// applies its damage
	ExecuteAttack(ctx context.Context, input *ExecuteAttackInput) (*ExecuteAttackOutput, error)

	// ExecuteSavingThrow resolves one saving throw inside an encounter
	ExecuteSavingThrow(ctx context.Context, input *ExecuteSavingThrowInput) (*ExecuteSavingThrowOutput, error)

	// ApplyDamage applies flat damage to a participant
	ApplyDamage(ctx context.Context, input *ApplyDamageInput) (*ApplyDamageOutput, error)

	// ApplyHealing applies healing to a participant
	ApplyHealing(ctx context.Context, input *ApplyHealingInput) (*ApplyHealingOutput, error)

	// NextTurn advances the encounter to the next participant
	NextTurn(ctx context.Context, input *NextTurnInput) (*NextTurnOutput, error)

	// EndEncounter concludes an encounter
	EndEncounter(ctx context.Context, input *EndEncounterInput) (*EndEncounterOutput, error)

	// GetCombatLog retrieves an encounter's combat log
	GetCombatLog(ctx context.Context, input *GetCombatLogInput) (*GetCombatLogOutput, error)
}

// Config holds the dependencies for the combat orchestrator
type Config struct {
	CharacterRepo characters.Repository
	EncounterRepo encounters.Repository
	CombatLogRepo combatlog.Repository
	Dice          *dice.Engine
	Rules         *rules.Resolver
	IDGenerator   idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.EncounterRepo == nil {
		vb.RequiredField("EncounterRepo")
	}
	if c.CombatLogRepo == nil {
		vb.RequiredField("CombatLogRepo")
	}
	if c.Dice == nil {
		vb.RequiredField("Dice")
	}
	if c.Rules == nil {
		vb.RequiredField("Rules")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	characterRepo characters.Repository
	encounterRepo encounters.Repository
	combatLogRepo combatlog.Repository
	dice          *dice.Engine
	rules         *rules.Resolver
	idGen         idgen.Generator

	// Encounter state is single-writer; mu serializes mutations.
	mu sync.Mutex
}

// NewOrchestrator creates a new combat orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		characterRepo: cfg.CharacterRepo,
		encounterRepo: cfg.EncounterRepo,
		combatLogRepo: cfg.CombatLogRepo,
		dice:          cfg.Dice,
		rules:         cfg.Rules,
		idGen:         cfg.IDGenerator,
	}, nil
}

// Ensure orchestrator implements Service
var _ Service = (*orchestrator)(nil)

func (o *orchestrator) CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Name == "" {
		return nil, errors.InvalidArgument("name is required")
	}
	if input.HPMax <= 0 {
		return nil, errors.InvalidArgumentf("hp max must be positive, got %d", input.HPMax)
	}

	level := input.Level
	if level == 0 {
		level = 1
	}
	if level < 1 || level > 20 {
		return nil, errors.InvalidArgumentf("level must be between 1 and 20, got %d", level)
	}

	armorClass := input.ArmorClass
	if armorClass == 0 {
		armorClass = 10
	}

	abilities, err := o.resolveAbilities(input)
	if err != nil {
		return nil, err
	}

	modifiers := make(map[entities.AbilityKey]int, len(entities.AbilityKeys))
	for _, key := range entities.AbilityKeys {
		modifiers[key] = rules.AbilityModifier(abilities[key])
	}

	profBonus := rules.ProficiencyBonus(level)
	saves := make(map[entities.AbilityKey]int, len(entities.AbilityKeys))
	for _, key := range entities.AbilityKeys {
		saves[key] = modifiers[key]
	}
	for _, key := range input.SaveProficiencies {
		if _, ok := saves[key]; !ok {
			return nil, errors.InvalidArgumentf("unknown save proficiency %q", key)
		}
		saves[key] = modifiers[key] + profBonus
	}

	char := &entities.Character{
		ID:               o.idGen.Generate(),
		Name:             input.Name,
		PlayerName:       input.PlayerName,
		Class:            input.Class,
		Level:            level,
		HPCurrent:        input.HPMax,
		HPMax:            input.HPMax,
		ArmorClass:       armorClass,
		Abilities:        abilities,
		Modifiers:        modifiers,
		SavingThrows:     saves,
		ProficiencyBonus: profBonus,
	}

	created, err := o.characterRepo.Create(ctx, characters.CreateInput{Character: char})
	if err != nil {
		return nil, err
	}

	slog.Info("Character created",
		"character_id", created.Character.ID,
		"name", created.Character.Name,
		"level", created.Character.Level,
	)

	return &CreateCharacterOutput{Character: created.Character}, nil
}

// resolveAbilities returns the explicit scores, or rolls a fresh set.
func (o *orchestrator) resolveAbilities(input *CreateCharacterInput) (map[entities.AbilityKey]int, error) {
	if input.Abilities != nil {
		for _, key := range entities.AbilityKeys {
			if _, ok := input.Abilities[key]; !ok {
				return nil, errors.InvalidArgumentf("missing ability score %q", key)
			}
		}
		return input.Abilities, nil
	}

	method := input.RollMethod
	if method == "" {
		method = dice.MethodStandard
	}

	scores, err := o.dice.RollAbilityScores(method)
	if err != nil {
		return nil, err
	}

	abilities := make(map[entities.AbilityKey]int, len(entities.AbilityKeys))
	for i, key := range entities.AbilityKeys {
		abilities[key] = scores[i]
	}
	return abilities, nil
}

func (o *orchestrator) GetCharacter(ctx context.Context, input *GetCharacterInput) (*GetCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	switch {
	case input.ID != "":
		out, err := o.characterRepo.Get(ctx, characters.GetInput{ID: input.ID})
		if err != nil {
			return nil, err
		}
		return &GetCharacterOutput{Character: out.Character}, nil
	case input.Name != "":
		out, err := o.characterRepo.GetByName(ctx, characters.GetByNameInput{Name: input.Name})
		if err != nil {
			return nil, err
		}
		return &GetCharacterOutput{Character: out.Character}, nil
	default:
		return nil, errors.InvalidArgument("either ID or Name is required")
	}
}

func (o *orchestrator) ListCharacters(ctx context.Context, _ *ListCharactersInput) (*ListCharactersOutput, error) {
	out, err := o.characterRepo.List(ctx, characters.ListInput{})
	if err != nil {
		return nil, err
	}
	return &ListCharactersOutput{Characters: out.Characters}, nil
}

func (o *orchestrator) RollDice(_ context.Context, input *RollDiceInput) (*RollDiceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	spec, err := dice.Parse(input.Notation)
	if err != nil {
		return nil, err
	}

	roll, err := o.dice.RollDamage(spec, 0)
	if err != nil {
		return nil, err
	}

	return &RollDiceOutput{Roll: roll}, nil
}

func (o *orchestrator) RollD20(_ context.Context, input *RollD20Input) (*RollD20Output, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	advantage := input.Advantage
	if advantage == "" {
		advantage = dice.Normal
	}

	roll, err := o.dice.RollD20(input.Modifier, advantage)
	if err != nil {
		return nil, err
	}

	return &RollD20Output{Roll: roll}, nil
}

func (o *orchestrator) StartEncounter(ctx context.Context, input *StartEncounterInput) (*StartEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if len(input.CharacterIDs) == 0 {
		return nil, errors.InvalidArgument("at least one character is required")
	}

	// Load every character before any dice are rolled so a missing one
	// fails the whole operation cleanly.
	participants := make([]*entities.Participant, 0, len(input.CharacterIDs))
	for _, id := range input.CharacterIDs {
		out, err := o.characterRepo.Get(ctx, characters.GetInput{ID: id})
		if err != nil {
			return nil, err
		}
		participants = append(participants, out.Character.Participant())
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	rolls := make(map[string]int, len(participants))
	results := make([]InitiativeResult, 0, len(participants))
	for _, p := range participants {
		roll, err := o.rules.ResolveInitiative(p.Modifiers[entities.AbilityDEX])
		if err != nil {
			return nil, err
		}
		rolls[p.ID] = roll.Total
		results = append(results, InitiativeResult{
			ParticipantID: p.ID,
			Name:          p.Name,
			Initiative:    roll.Total,
			Roll:          roll,
		})
	}

	state := encounter.New(o.idGen.Generate())
	if err := state.Begin(participants, rolls); err != nil {
		return nil, err
	}

	if _, err := o.encounterRepo.Save(ctx, encounters.SaveInput{State: state}); err != nil {
		return nil, err
	}

	detail, err := json.Marshal(results)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal initiative results")
	}

	entry, err := o.appendLog(ctx, &combatlog.Entry{
		EncounterID: state.ID,
		Round:       state.Round,
		Action:      combatlog.ActionEncounterStart,
		Detail:      detail,
		Description: fmt.Sprintf("Encounter started with %d participants", len(participants)),
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Encounter started",
		"encounter_id", state.ID,
		"participant_count", len(participants),
		"first_turn", state.CurrentParticipantID(),
		"log_sequence", entry.Sequence,
	)

	return &StartEncounterOutput{
		EncounterID:          state.ID,
		Order:                state.Order,
		InitiativeRolls:      results,
		Round:                state.Round,
		CurrentParticipantID: state.CurrentParticipantID(),
	}, nil
}

func (o *orchestrator) ExecuteAttack(ctx context.Context, input *ExecuteAttackInput) (*ExecuteAttackOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	damageSpec, err := dice.Parse(input.DamageNotation)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	state, err := o.getState(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}
	if err := state.EnsureActive(); err != nil {
		return nil, err
	}

	// Both participants must exist before any dice are rolled or any
	// state changes.
	attacker, err := state.Participant(input.AttackerID)
	if err != nil {
		return nil, err
	}
	target, err := state.Participant(input.TargetID)
	if err != nil {
		return nil, err
	}

	advantage := input.Advantage
	if advantage == "" {
		advantage = dice.Normal
	}

	outcome, err := o.rules.ResolveAttack(input.AttackBonus, target.ArmorClass, advantage, damageSpec)
	if err != nil {
		return nil, err
	}

	output := &ExecuteAttackOutput{
		Outcome:  outcome,
		TargetHP: target.HPCurrent,
	}

	hpDelta := 0
	if outcome.Hit {
		oldHP := target.HPCurrent
		newHP, err := state.ApplyDamage(target.ID, outcome.DamageRoll.Total)
		if err != nil {
			return nil, err
		}
		hpDelta = newHP - oldHP
		output.TargetHP = newHP
		output.TargetUnconscious = encounter.IsUnconscious(target)
	}

	detail, err := json.Marshal(outcome)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal attack outcome")
	}

	entry, err := o.appendLog(ctx, &combatlog.Entry{
		EncounterID: state.ID,
		Round:       state.Round,
		ActorID:     attacker.ID,
		Action:      combatlog.ActionAttack,
		TargetID:    target.ID,
		Detail:      detail,
		HPDelta:     hpDelta,
		Description: attackDescription(attacker, target, outcome),
	})
	if err != nil {
		return nil, err
	}
	output.LogEntry = entry

	if outcome.Hit {
		output.PersistErr = o.persistHP(ctx, state.ID, target)
	}

	slog.Info("Attack resolved",
		"encounter_id", state.ID,
		"attacker_id", attacker.ID,
		"target_id", target.ID,
		"hit", outcome.Hit,
		"critical", outcome.Critical,
		"target_hp", output.TargetHP,
	)

	return output, nil
}

func (o *orchestrator) ExecuteSavingThrow(ctx context.Context, input *ExecuteSavingThrowInput) (*ExecuteSavingThrowOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.DC <= 0 {
		return nil, errors.InvalidArgumentf("dc must be positive, got %d", input.DC)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	state, err := o.getState(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}
	if err := state.EnsureActive(); err != nil {
		return nil, err
	}

	p, err := state.Participant(input.ParticipantID)
	if err != nil {
		return nil, err
	}

	bonus, ok := p.SavingThrows[input.Ability]
	if !ok {
		return nil, errors.InvalidArgumentf("unknown ability %q", input.Ability)
	}

	advantage := input.Advantage
	if advantage == "" {
		advantage = dice.Normal
	}

	outcome, err := o.rules.ResolveSavingThrow(bonus, input.DC, advantage)
	if err != nil {
		return nil, err
	}

	detail, err := json.Marshal(outcome)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal save outcome")
	}

	verdict := "fails"
	if outcome.Success {
		verdict = "succeeds"
	}
	entry, err := o.appendLog(ctx, &combatlog.Entry{
		EncounterID: state.ID,
		Round:       state.Round,
		ActorID:     p.ID,
		Action:      combatlog.ActionSavingThrow,
		Detail:      detail,
		Description: fmt.Sprintf("%s %s a DC %d %s save (%d)", p.Name, verdict, input.DC, input.Ability, outcome.Roll.Total),
	})
	if err != nil {
		return nil, err
	}

	return &ExecuteSavingThrowOutput{Outcome: outcome, LogEntry: entry}, nil
}

func (o *orchestrator) ApplyDamage(ctx context.Context, input *ApplyDamageInput) (*ApplyDamageOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	state, err := o.getState(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}
	if err := state.EnsureActive(); err != nil {
		return nil, err
	}

	p, err := state.Participant(input.ParticipantID)
	if err != nil {
		return nil, err
	}
	oldHP := p.HPCurrent

	newHP, err := state.ApplyDamage(input.ParticipantID, input.Amount)
	if err != nil {
		return nil, err
	}

	entry, err := o.appendLog(ctx, &combatlog.Entry{
		EncounterID: state.ID,
		Round:       state.Round,
		Action:      combatlog.ActionDamage,
		TargetID:    p.ID,
		HPDelta:     newHP - oldHP,
		Description: fmt.Sprintf("%s takes %d damage (%d -> %d HP)", p.Name, input.Amount, oldHP, newHP),
	})
	if err != nil {
		return nil, err
	}

	return &ApplyDamageOutput{
		HP:          newHP,
		Unconscious: encounter.IsUnconscious(p),
		LogEntry:    entry,
		PersistErr:  o.persistHP(ctx, state.ID, p),
	}, nil
}

func (o *orchestrator) ApplyHealing(ctx context.Context, input *ApplyHealingInput) (*ApplyHealingOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	state, err := o.getState(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}
	if err := state.EnsureActive(); err != nil {
		return nil, err
	}

	p, err := state.Participant(input.ParticipantID)
	if err != nil {
		return nil, err
	}
	oldHP := p.HPCurrent

	newHP, err := state.ApplyHealing(input.ParticipantID, input.Amount)
	if err != nil {
		return nil, err
	}

	entry, err := o.appendLog(ctx, &combatlog.Entry{
		EncounterID: state.ID,
		Round:       state.Round,
		Action:      combatlog.ActionHeal,
		TargetID:    p.ID,
		HPDelta:     newHP - oldHP,
		Description: fmt.Sprintf("%s recovers %d HP (%d -> %d)", p.Name, newHP-oldHP, oldHP, newHP),
	})
	if err != nil {
		return nil, err
	}

	return &ApplyHealingOutput{
		HP:         newHP,
		HPMax:      p.HPMax,
		LogEntry:   entry,
		PersistErr: o.persistHP(ctx, state.ID, p),
	}, nil
}

func (o *orchestrator) NextTurn(ctx context.Context, input *NextTurnInput) (*NextTurnOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	state, err := o.getState(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}

	if err := state.AdvanceTurn(); err != nil {
		return nil, err
	}

	current := state.CurrentParticipantID()
	if _, err := o.appendLog(ctx, &combatlog.Entry{
		EncounterID: state.ID,
		Round:       state.Round,
		ActorID:     current,
		Action:      combatlog.ActionTurnAdvance,
		Description: fmt.Sprintf("Round %d, turn passes to %s", state.Round, current),
	}); err != nil {
		return nil, err
	}

	slog.Info("Advanced turn",
		"encounter_id", state.ID,
		"round", state.Round,
		"current_participant", current,
	)

	return &NextTurnOutput{
		Round:                state.Round,
		TurnIndex:            state.TurnIndex,
		CurrentParticipantID: current,
	}, nil
}

func (o *orchestrator) EndEncounter(ctx context.Context, input *EndEncounterInput) (*EndEncounterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	state, err := o.getState(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}

	if err := state.Conclude(); err != nil {
		return nil, err
	}

	if _, err := o.appendLog(ctx, &combatlog.Entry{
		EncounterID: state.ID,
		Round:       state.Round,
		Action:      combatlog.ActionEncounterEnd,
		Description: fmt.Sprintf("Encounter ended after %d rounds", state.Round),
	}); err != nil {
		return nil, err
	}

	slog.Info("Encounter ended",
		"encounter_id", state.ID,
		"rounds", state.Round,
	)

	return &EndEncounterOutput{Rounds: state.Round}, nil
}

func (o *orchestrator) GetCombatLog(ctx context.Context, input *GetCombatLogInput) (*GetCombatLogOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	// Verify the encounter exists so an unknown ID is NotFound instead
	// of an empty log.
	if _, err := o.getState(ctx, input.EncounterID); err != nil {
		return nil, err
	}

	out, err := o.combatLogRepo.List(ctx, combatlog.ListInput{
		EncounterID: input.EncounterID,
		Limit:       input.Limit,
	})
	if err != nil {
		return nil, err
	}

	return &GetCombatLogOutput{Entries: out.Entries}, nil
}

func (o *orchestrator) getState(ctx context.Context, encounterID string) (*encounter.State, error) {
	if encounterID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	out, err := o.encounterRepo.Get(ctx, encounters.GetInput{EncounterID: encounterID})
	if err != nil {
		return nil, err
	}
	return out.State, nil
}

func (o *orchestrator) appendLog(ctx context.Context, entry *combatlog.Entry) (*combatlog.Entry, error) {
	entry.ID = o.idGen.Generate()

	out, err := o.combatLogRepo.Append(ctx, combatlog.AppendInput{Entry: entry})
	if err != nil {
		return nil, errors.Wrap(err, "failed to append combat log entry")
	}
	return out.Entry, nil
}

// persistHP writes a participant's HP back to character storage. The
// in-memory encounter state is already authoritative at this point, so
// a storage failure is reported to the caller for retry instead of
// failing the combat action.
func (o *orchestrator) persistHP(ctx context.Context, encounterID string, p *entities.Participant) error {
	_, err := o.characterRepo.UpdateHP(ctx, characters.UpdateHPInput{ID: p.ID, HP: p.HPCurrent})
	if err != nil {
		slog.Warn("Failed to persist participant HP",
			"encounter_id", encounterID,
			"participant_id", p.ID,
			"hp", p.HPCurrent,
			"error", err,
		)
		return err
	}
	return nil
}

func attackDescription(attacker, target *entities.Participant, outcome *rules.AttackOutcome) string {
	switch {
	case !outcome.Hit:
		return fmt.Sprintf("%s misses %s (%d vs AC %d)",
			attacker.Name, target.Name, outcome.AttackRoll.Total, outcome.TargetArmorClass)
	case outcome.Critical:
		return fmt.Sprintf("%s critically hits %s for %d damage",
			attacker.Name, target.Name, outcome.DamageRoll.Total)
	default:
		return fmt.Sprintf("%s hits %s for %d damage (%d vs AC %d)",
			attacker.Name, target.Name, outcome.DamageRoll.Total,
			outcome.AttackRoll.Total, outcome.TargetArmorClass)
	}
}
