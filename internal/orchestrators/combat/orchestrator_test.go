package combat_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/talekeeper/combat-api/internal/dice"
	"github.com/talekeeper/combat-api/internal/entities"
	"github.com/talekeeper/combat-api/internal/errors"
	"github.com/talekeeper/combat-api/internal/orchestrators/combat"
	"github.com/talekeeper/combat-api/internal/pkg/idgen"
	"github.com/talekeeper/combat-api/internal/repositories/characters"
	"github.com/talekeeper/combat-api/internal/repositories/combatlog"
	"github.com/talekeeper/combat-api/internal/repositories/encounters"
	"github.com/talekeeper/combat-api/internal/rules"
	"github.com/talekeeper/combat-api/internal/testutils"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctx      context.Context
	cleanup  func()
	charRepo characters.Repository
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *OrchestratorTestSuite) TearDownTest() {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}

// newService builds an orchestrator whose dice draws come from the
// given queue, backed by fresh in-memory storage.
func (s *OrchestratorTestSuite) newService(queue ...int) combat.Service {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	charRepo, err := characters.NewRedis(&characters.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.charRepo = charRepo

	engine, err := dice.NewEngine(&dice.Config{Roller: dice.NewQueued(queue...)})
	s.Require().NoError(err)

	svc, err := combat.NewOrchestrator(&combat.Config{
		CharacterRepo: charRepo,
		EncounterRepo: encounters.NewInMemory(),
		CombatLogRepo: combatlog.NewInMemory(nil),
		Dice:          engine,
		Rules:         s.newResolver(engine),
		IDGenerator:   idgen.NewSequential("id"),
	})
	s.Require().NoError(err)
	return svc
}

func (s *OrchestratorTestSuite) newResolver(engine *dice.Engine) *rules.Resolver {
	resolver, err := rules.NewResolver(&rules.Config{Dice: engine})
	s.Require().NoError(err)
	return resolver
}

// seedCharacter stores a character directly, bypassing ability rolls.
func (s *OrchestratorTestSuite) seedCharacter(name string, hp, ac, dexMod int) string {
	char := &entities.Character{
		ID:         "char_" + name,
		Name:       name,
		Level:      3,
		HPCurrent:  hp,
		HPMax:      hp,
		ArmorClass: ac,
		Abilities: map[entities.AbilityKey]int{
			entities.AbilitySTR: 16, entities.AbilityDEX: 10 + dexMod*2, entities.AbilityCON: 14,
			entities.AbilityINT: 10, entities.AbilityWIS: 12, entities.AbilityCHA: 8,
		},
		Modifiers: map[entities.AbilityKey]int{
			entities.AbilitySTR: 3, entities.AbilityDEX: dexMod, entities.AbilityCON: 2,
			entities.AbilityINT: 0, entities.AbilityWIS: 1, entities.AbilityCHA: -1,
		},
		SavingThrows: map[entities.AbilityKey]int{
			entities.AbilitySTR: 5, entities.AbilityDEX: dexMod, entities.AbilityCON: 4,
			entities.AbilityINT: 0, entities.AbilityWIS: 1, entities.AbilityCHA: -1,
		},
		ProficiencyBonus: 2,
	}
	_, err := s.charRepo.Create(s.ctx, characters.CreateInput{Character: char})
	s.Require().NoError(err)
	return char.ID
}

// startDuel seeds a fighter and a goblin and starts an encounter. The
// queue must begin with the two initiative draws.
func (s *OrchestratorTestSuite) startDuel(svc combat.Service) (encID, fighterID, goblinID string) {
	fighterID = s.seedCharacter("Bruenor", 20, 15, 1)
	goblinID = s.seedCharacter("Goblin", 7, 13, 2)

	out, err := svc.StartEncounter(s.ctx, &combat.StartEncounterInput{
		CharacterIDs: []string{fighterID, goblinID},
	})
	s.Require().NoError(err)
	return out.EncounterID, fighterID, goblinID
}

func (s *OrchestratorTestSuite) TestCreateCharacter_DerivesValues() {
	svc := s.newService()

	out, err := svc.CreateCharacter(s.ctx, &combat.CreateCharacterInput{
		Name:       "Bruenor",
		Class:      "fighter",
		Level:      5,
		HPMax:      44,
		ArmorClass: 18,
		Abilities: map[entities.AbilityKey]int{
			entities.AbilitySTR: 16, entities.AbilityDEX: 9, entities.AbilityCON: 14,
			entities.AbilityINT: 10, entities.AbilityWIS: 12, entities.AbilityCHA: 8,
		},
		SaveProficiencies: []entities.AbilityKey{entities.AbilitySTR, entities.AbilityCON},
	})
	s.Require().NoError(err)

	char := out.Character
	s.Equal(44, char.HPCurrent)
	s.Equal(3, char.ProficiencyBonus)
	s.Equal(3, char.Modifiers[entities.AbilitySTR])
	s.Equal(-1, char.Modifiers[entities.AbilityDEX], "score 9 floors to -1")
	s.Equal(6, char.SavingThrows[entities.AbilitySTR], "modifier plus proficiency")
	s.Equal(-1, char.SavingThrows[entities.AbilityDEX], "modifier only")

	got, err := svc.GetCharacter(s.ctx, &combat.GetCharacterInput{Name: "Bruenor"})
	s.Require().NoError(err)
	s.Equal(char.ID, got.Character.ID)
}

func (s *OrchestratorTestSuite) TestCreateCharacter_RollsAbilities() {
	// Six 4d6-drop-lowest sets, 24 draws. First set 6,6,6,1 keeps 18.
	queue := []int{6, 6, 6, 1}
	for i := 0; i < 20; i++ {
		queue = append(queue, 3)
	}
	svc := s.newService(queue...)

	out, err := svc.CreateCharacter(s.ctx, &combat.CreateCharacterInput{
		Name:  "Rolled",
		HPMax: 10,
	})
	s.Require().NoError(err)

	s.Equal(18, out.Character.Abilities[entities.AbilitySTR])
	s.Equal(9, out.Character.Abilities[entities.AbilityDEX])
	s.Equal(4, out.Character.Modifiers[entities.AbilitySTR])
	s.Equal(1, out.Character.Level)
	s.Equal(10, out.Character.ArmorClass, "default AC")
}

func (s *OrchestratorTestSuite) TestCreateCharacter_Validation() {
	svc := s.newService()

	_, err := svc.CreateCharacter(s.ctx, &combat.CreateCharacterInput{HPMax: 10})
	s.True(errors.IsInvalidArgument(err), "name required")

	_, err = svc.CreateCharacter(s.ctx, &combat.CreateCharacterInput{Name: "X"})
	s.True(errors.IsInvalidArgument(err), "hp max required")

	_, err = svc.CreateCharacter(s.ctx, &combat.CreateCharacterInput{
		Name: "X", HPMax: 10,
		Abilities: map[entities.AbilityKey]int{entities.AbilitySTR: 10},
	})
	s.True(errors.IsInvalidArgument(err), "incomplete ability set")
}

func (s *OrchestratorTestSuite) TestStartEncounter_OrdersByInitiative() {
	// Fighter draws 12 (+1 DEX = 13), goblin draws 15 (+2 DEX = 17).
	svc := s.newService(12, 15)

	fighterID := s.seedCharacter("Bruenor", 20, 15, 1)
	goblinID := s.seedCharacter("Goblin", 7, 13, 2)

	out, err := svc.StartEncounter(s.ctx, &combat.StartEncounterInput{
		CharacterIDs: []string{fighterID, goblinID},
	})
	s.Require().NoError(err)

	s.Equal(1, out.Round)
	s.Equal(goblinID, out.CurrentParticipantID)
	s.Require().Len(out.Order, 2)
	s.Equal(goblinID, out.Order[0].ParticipantID)
	s.Equal(17, out.Order[0].Initiative)
	s.Equal(fighterID, out.Order[1].ParticipantID)
	s.Equal(13, out.Order[1].Initiative)

	log, err := svc.GetCombatLog(s.ctx, &combat.GetCombatLogInput{EncounterID: out.EncounterID})
	s.Require().NoError(err)
	s.Require().Len(log.Entries, 1)
	s.Equal(combatlog.ActionEncounterStart, log.Entries[0].Action)
	s.Equal(1, log.Entries[0].Sequence)
}

func (s *OrchestratorTestSuite) TestStartEncounter_UnknownCharacter() {
	svc := s.newService()

	_, err := svc.StartEncounter(s.ctx, &combat.StartEncounterInput{
		CharacterIDs: []string{"missing"},
	})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestExecuteAttack_HitPersistsDamage() {
	// Initiative 12, 15; attack d20 of 18, damage d8 of 5.
	svc := s.newService(12, 15, 18, 5)
	encID, fighterID, goblinID := s.startDuel(svc)

	out, err := svc.ExecuteAttack(s.ctx, &combat.ExecuteAttackInput{
		EncounterID:    encID,
		AttackerID:     fighterID,
		TargetID:       goblinID,
		AttackBonus:    8,
		DamageNotation: "1d8+4",
	})
	s.Require().NoError(err)
	s.Require().NoError(out.PersistErr)

	s.True(out.Outcome.Hit)
	s.False(out.Outcome.Critical)
	s.Len(out.Outcome.AttackRoll.Rolls, 1, "unset advantage rolls a single d20")
	s.Equal(26, out.Outcome.AttackRoll.Total, "18 + 8 vs AC 13")
	s.Equal(9, out.Outcome.DamageRoll.Total)
	s.Equal(0, out.TargetHP, "goblin had 7 HP, clamped at 0")
	s.True(out.TargetUnconscious)
	s.Equal(-7, out.LogEntry.HPDelta, "delta reflects the clamped HP change")
	s.Equal(2, out.LogEntry.Sequence)

	// HP change reaches character storage.
	stored, err := s.charRepo.Get(s.ctx, characters.GetInput{ID: goblinID})
	s.Require().NoError(err)
	s.Equal(0, stored.Character.HPCurrent)
}

func (s *OrchestratorTestSuite) TestExecuteAttack_NaturalOneMisses() {
	svc := s.newService(12, 15, 1)
	encID, fighterID, goblinID := s.startDuel(svc)

	out, err := svc.ExecuteAttack(s.ctx, &combat.ExecuteAttackInput{
		EncounterID:    encID,
		AttackerID:     fighterID,
		TargetID:       goblinID,
		AttackBonus:    15,
		DamageNotation: "1d8+4",
	})
	s.Require().NoError(err)

	s.False(out.Outcome.Hit, "natural 1 misses despite 16 vs AC 13")
	s.Nil(out.Outcome.DamageRoll)
	s.Equal(7, out.TargetHP, "no damage applied")
}

func (s *OrchestratorTestSuite) TestExecuteAttack_UnknownParticipant() {
	// Queue holds only the initiative draws: an attack against an
	// unknown target must fail before consuming any dice.
	svc := s.newService(12, 15)
	encID, fighterID, _ := s.startDuel(svc)

	_, err := svc.ExecuteAttack(s.ctx, &combat.ExecuteAttackInput{
		EncounterID:    encID,
		AttackerID:     fighterID,
		TargetID:       "nobody",
		DamageNotation: "1d8",
	})
	s.True(errors.IsUnknownParticipant(err))

	_, err = svc.ExecuteAttack(s.ctx, &combat.ExecuteAttackInput{
		EncounterID:    encID,
		AttackerID:     "nobody",
		TargetID:       fighterID,
		DamageNotation: "1d8",
	})
	s.True(errors.IsUnknownParticipant(err))
}

func (s *OrchestratorTestSuite) TestExecuteAttack_MalformedNotation() {
	svc := s.newService(12, 15)
	encID, fighterID, goblinID := s.startDuel(svc)

	_, err := svc.ExecuteAttack(s.ctx, &combat.ExecuteAttackInput{
		EncounterID:    encID,
		AttackerID:     fighterID,
		TargetID:       goblinID,
		DamageNotation: "d",
	})
	s.True(errors.IsMalformedNotation(err))
}

func (s *OrchestratorTestSuite) TestExecuteSavingThrow() {
	// Initiative 12, 15; save d20 of 11, +4 CON save vs DC 15.
	svc := s.newService(12, 15, 11)
	encID, fighterID, _ := s.startDuel(svc)

	out, err := svc.ExecuteSavingThrow(s.ctx, &combat.ExecuteSavingThrowInput{
		EncounterID:   encID,
		ParticipantID: fighterID,
		Ability:       entities.AbilityCON,
		DC:            15,
	})
	s.Require().NoError(err)

	s.True(out.Outcome.Success, "11 + 4 meets DC 15")
	s.Equal(15, out.Outcome.Roll.Total)
	s.Equal(combatlog.ActionSavingThrow, out.LogEntry.Action)
}

func (s *OrchestratorTestSuite) TestApplyDamageAndHealing() {
	svc := s.newService(12, 15)
	encID, fighterID, _ := s.startDuel(svc)

	dmg, err := svc.ApplyDamage(s.ctx, &combat.ApplyDamageInput{
		EncounterID:   encID,
		ParticipantID: fighterID,
		Amount:        8,
	})
	s.Require().NoError(err)
	s.Require().NoError(dmg.PersistErr)
	s.Equal(12, dmg.HP)
	s.False(dmg.Unconscious)
	s.Equal(-8, dmg.LogEntry.HPDelta)

	heal, err := svc.ApplyHealing(s.ctx, &combat.ApplyHealingInput{
		EncounterID:   encID,
		ParticipantID: fighterID,
		Amount:        100,
	})
	s.Require().NoError(err)
	s.Equal(20, heal.HP, "clamped at max")
	s.Equal(20, heal.HPMax)
	s.Equal(8, heal.LogEntry.HPDelta, "delta reflects the clamp")

	_, err = svc.ApplyDamage(s.ctx, &combat.ApplyDamageInput{
		EncounterID:   encID,
		ParticipantID: fighterID,
		Amount:        -5,
	})
	s.True(errors.IsInvalidAmount(err))
}

func (s *OrchestratorTestSuite) TestNextTurn_WrapsRounds() {
	svc := s.newService(12, 15)
	encID, fighterID, goblinID := s.startDuel(svc)

	out, err := svc.NextTurn(s.ctx, &combat.NextTurnInput{EncounterID: encID})
	s.Require().NoError(err)
	s.Equal(1, out.Round)
	s.Equal(fighterID, out.CurrentParticipantID)

	out, err = svc.NextTurn(s.ctx, &combat.NextTurnInput{EncounterID: encID})
	s.Require().NoError(err)
	s.Equal(2, out.Round, "wrapping increments the round")
	s.Equal(goblinID, out.CurrentParticipantID)
}

func (s *OrchestratorTestSuite) TestEndEncounter_IsTerminal() {
	svc := s.newService(12, 15)
	encID, fighterID, goblinID := s.startDuel(svc)

	out, err := svc.EndEncounter(s.ctx, &combat.EndEncounterInput{EncounterID: encID})
	s.Require().NoError(err)
	s.Equal(1, out.Rounds)

	_, err = svc.ExecuteAttack(s.ctx, &combat.ExecuteAttackInput{
		EncounterID:    encID,
		AttackerID:     fighterID,
		TargetID:       goblinID,
		DamageNotation: "1d8",
	})
	s.True(errors.IsEncounterConcluded(err))

	_, err = svc.NextTurn(s.ctx, &combat.NextTurnInput{EncounterID: encID})
	s.True(errors.IsEncounterConcluded(err))

	_, err = svc.EndEncounter(s.ctx, &combat.EndEncounterInput{EncounterID: encID})
	s.True(errors.IsEncounterConcluded(err))
}

func (s *OrchestratorTestSuite) TestGetCombatLog_SequencesAreMonotonic() {
	svc := s.newService(12, 15, 18, 5)
	encID, fighterID, goblinID := s.startDuel(svc)

	_, err := svc.ExecuteAttack(s.ctx, &combat.ExecuteAttackInput{
		EncounterID:    encID,
		AttackerID:     fighterID,
		TargetID:       goblinID,
		AttackBonus:    8,
		DamageNotation: "1d8+4",
	})
	s.Require().NoError(err)

	_, err = svc.NextTurn(s.ctx, &combat.NextTurnInput{EncounterID: encID})
	s.Require().NoError(err)

	_, err = svc.EndEncounter(s.ctx, &combat.EndEncounterInput{EncounterID: encID})
	s.Require().NoError(err)

	log, err := svc.GetCombatLog(s.ctx, &combat.GetCombatLogInput{EncounterID: encID})
	s.Require().NoError(err)
	s.Require().Len(log.Entries, 4)
	for i, entry := range log.Entries {
		s.Equal(i+1, entry.Sequence)
	}
	s.Equal(combatlog.ActionEncounterStart, log.Entries[0].Action)
	s.Equal(combatlog.ActionAttack, log.Entries[1].Action)
	s.Equal(combatlog.ActionTurnAdvance, log.Entries[2].Action)
	s.Equal(combatlog.ActionEncounterEnd, log.Entries[3].Action)

	_, err = svc.GetCombatLog(s.ctx, &combat.GetCombatLogInput{EncounterID: "missing"})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestRollDice() {
	svc := s.newService(4, 6)

	out, err := svc.RollDice(s.ctx, &combat.RollDiceInput{Notation: "2d6+3"})
	s.Require().NoError(err)
	s.Equal(13, out.Roll.Total)

	_, err = svc.RollDice(s.ctx, &combat.RollDiceInput{Notation: "nonsense"})
	s.True(errors.IsMalformedNotation(err))
}

func (s *OrchestratorTestSuite) TestRollD20_Advantage() {
	svc := s.newService(6, 17)

	out, err := svc.RollD20(s.ctx, &combat.RollD20Input{
		Modifier:  3,
		Advantage: dice.Advantage,
	})
	s.Require().NoError(err)
	s.Equal([]int{6, 17}, out.Roll.Rolls)
	s.Equal(20, out.Roll.Total)
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}
