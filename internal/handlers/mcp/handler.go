// Package mcp exposes combat operations as MCP tools over a stdio
// transport, so language-model clients can drive encounters.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/talekeeper/combat-api/internal/dice"
	"github.com/talekeeper/combat-api/internal/entities"
	"github.com/talekeeper/combat-api/internal/errors"
	"github.com/talekeeper/combat-api/internal/narrative"
	"github.com/talekeeper/combat-api/internal/orchestrators/combat"
)

// Config holds the dependencies for the MCP handler
type Config struct {
	Service   combat.Service
	Narrative narrative.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Service == nil {
		vb.RequiredField("Service")
	}
	if c.Narrative == nil {
		vb.RequiredField("Narrative")
	}

	return vb.Build()
}

// Handler adapts the combat service to MCP tool handlers.
type Handler struct {
	service   combat.Service
	narrative narrative.Generator
}

// NewHandler creates a new MCP handler with the provided dependencies
func NewHandler(cfg *Config) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Handler{
		service:   cfg.Service,
		narrative: cfg.Narrative,
	}, nil
}

// Register adds every combat tool to the server.
func (h *Handler) Register(server *mcp.Server) {
	mcp.AddTool(server, RollD20Tool(), h.RollD20())
	mcp.AddTool(server, RollDamageTool(), h.RollDamage())
	mcp.AddTool(server, CreateCharacterTool(), h.CreateCharacter())
	mcp.AddTool(server, GetCharacterTool(), h.GetCharacter())
	mcp.AddTool(server, ListCharactersTool(), h.ListCharacters())
	mcp.AddTool(server, StartCombatTool(), h.StartCombat())
	mcp.AddTool(server, RollAttackTool(), h.RollAttack())
	mcp.AddTool(server, RollSavingThrowTool(), h.RollSavingThrow())
	mcp.AddTool(server, DamageCharacterTool(), h.DamageCharacter())
	mcp.AddTool(server, HealCharacterTool(), h.HealCharacter())
	mcp.AddTool(server, NextTurnTool(), h.NextTurn())
	mcp.AddTool(server, EndCombatTool(), h.EndCombat())
	mcp.AddTool(server, GetCombatLogTool(), h.GetCombatLog())
}

func toRollResult(roll *dice.RollOutcome, notation string) RollResult {
	return RollResult{
		Rolls:      roll.Rolls,
		Chosen:     roll.Chosen,
		Modifier:   roll.Modifier,
		Total:      roll.Total,
		IsCritical: roll.IsCritical,
		Notation:   notation,
	}
}

func toCharacterResult(char *entities.Character) CharacterResult {
	return CharacterResult{
		ID:               char.ID,
		Name:             char.Name,
		PlayerName:       char.PlayerName,
		Class:            char.Class,
		Level:            char.Level,
		HPCurrent:        char.HPCurrent,
		HPMax:            char.HPMax,
		ArmorClass:       char.ArmorClass,
		Abilities:        char.Abilities,
		Modifiers:        char.Modifiers,
		SavingThrows:     char.SavingThrows,
		ProficiencyBonus: char.ProficiencyBonus,
	}
}

// RollD20 handles the roll_d20 tool.
func (h *Handler) RollD20() mcp.ToolHandlerFor[RollD20Input, RollD20Result] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollD20Input) (*mcp.CallToolResult, RollD20Result, error) {
		advantage, err := dice.ParseAdvantageMode(input.Advantage)
		if err != nil {
			return nil, RollD20Result{}, err
		}

		out, err := h.service.RollD20(ctx, &combat.RollD20Input{
			Modifier:  input.Modifier,
			Advantage: advantage,
		})
		if err != nil {
			return nil, RollD20Result{}, err
		}

		return nil, RollD20Result{Roll: toRollResult(out.Roll, "")}, nil
	}
}

// RollDamage handles the roll_damage tool.
func (h *Handler) RollDamage() mcp.ToolHandlerFor[RollDamageInput, RollDamageResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollDamageInput) (*mcp.CallToolResult, RollDamageResult, error) {
		out, err := h.service.RollDice(ctx, &combat.RollDiceInput{Notation: input.Notation})
		if err != nil {
			return nil, RollDamageResult{}, err
		}

		return nil, RollDamageResult{Roll: toRollResult(out.Roll, input.Notation)}, nil
	}
}

// CreateCharacter handles the create_character tool.
func (h *Handler) CreateCharacter() mcp.ToolHandlerFor[CreateCharacterInput, CreateCharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CreateCharacterInput) (*mcp.CallToolResult, CreateCharacterResult, error) {
		out, err := h.service.CreateCharacter(ctx, &combat.CreateCharacterInput{
			Name:              input.Name,
			PlayerName:        input.PlayerName,
			Class:             input.Class,
			Level:             input.Level,
			HPMax:             input.HPMax,
			ArmorClass:        input.ArmorClass,
			Abilities:         input.Abilities,
			RollMethod:        input.RollMethod,
			SaveProficiencies: input.SaveProficiencies,
		})
		if err != nil {
			return nil, CreateCharacterResult{}, err
		}

		return nil, CreateCharacterResult{Character: toCharacterResult(out.Character)}, nil
	}
}

// GetCharacter handles the get_character tool.
func (h *Handler) GetCharacter() mcp.ToolHandlerFor[GetCharacterInput, GetCharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetCharacterInput) (*mcp.CallToolResult, GetCharacterResult, error) {
		out, err := h.service.GetCharacter(ctx, &combat.GetCharacterInput{
			ID:   input.ID,
			Name: input.Name,
		})
		if err != nil {
			return nil, GetCharacterResult{}, err
		}

		return nil, GetCharacterResult{Character: toCharacterResult(out.Character)}, nil
	}
}

// ListCharacters handles the list_characters tool.
func (h *Handler) ListCharacters() mcp.ToolHandlerFor[ListCharactersInput, ListCharactersResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ListCharactersInput) (*mcp.CallToolResult, ListCharactersResult, error) {
		out, err := h.service.ListCharacters(ctx, &combat.ListCharactersInput{})
		if err != nil {
			return nil, ListCharactersResult{}, err
		}

		result := ListCharactersResult{
			Characters: make([]CharacterResult, 0, len(out.Characters)),
		}
		for _, char := range out.Characters {
			result.Characters = append(result.Characters, toCharacterResult(char))
		}

		return nil, result, nil
	}
}

// StartCombat handles the start_combat tool.
func (h *Handler) StartCombat() mcp.ToolHandlerFor[StartCombatInput, StartCombatResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input StartCombatInput) (*mcp.CallToolResult, StartCombatResult, error) {
		out, err := h.service.StartEncounter(ctx, &combat.StartEncounterInput{
			CharacterIDs: input.CharacterIDs,
		})
		if err != nil {
			return nil, StartCombatResult{}, err
		}

		result := StartCombatResult{
			EncounterID:          out.EncounterID,
			Round:                out.Round,
			CurrentParticipantID: out.CurrentParticipantID,
			Order:                make([]InitiativeEntryResult, 0, len(out.Order)),
		}
		for _, entry := range out.Order {
			result.Order = append(result.Order, InitiativeEntryResult{
				ParticipantID: entry.ParticipantID,
				Initiative:    entry.Initiative,
			})
		}

		return nil, result, nil
	}
}

// RollAttack handles the roll_attack tool.
func (h *Handler) RollAttack() mcp.ToolHandlerFor[RollAttackInput, RollAttackResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollAttackInput) (*mcp.CallToolResult, RollAttackResult, error) {
		advantage, err := dice.ParseAdvantageMode(input.Advantage)
		if err != nil {
			return nil, RollAttackResult{}, err
		}

		out, err := h.service.ExecuteAttack(ctx, &combat.ExecuteAttackInput{
			EncounterID:    input.EncounterID,
			AttackerID:     input.AttackerID,
			TargetID:       input.TargetID,
			AttackBonus:    input.AttackBonus,
			DamageNotation: input.DamageNotation,
			Advantage:      advantage,
		})
		if err != nil {
			return nil, RollAttackResult{}, err
		}

		result := RollAttackResult{
			Hit:               out.Outcome.Hit,
			Critical:          out.Outcome.Critical,
			AttackRoll:        toRollResult(out.Outcome.AttackRoll, ""),
			TargetHP:          out.TargetHP,
			TargetUnconscious: out.TargetUnconscious,
		}

		damage := 0
		if out.Outcome.DamageRoll != nil {
			roll := toRollResult(out.Outcome.DamageRoll, input.DamageNotation)
			result.DamageRoll = &roll
			damage = out.Outcome.DamageRoll.Total
		}

		result.Narration = h.narrative.DescribeAttack(narrative.AttackContext{
			Attacker:    input.AttackerID,
			Target:      input.TargetID,
			Hit:         out.Outcome.Hit,
			Critical:    out.Outcome.Critical,
			AttackTotal: out.Outcome.AttackRoll.Total,
			TargetAC:    out.Outcome.TargetArmorClass,
			Damage:      damage,
		})

		return nil, result, nil
	}
}

// RollSavingThrow handles the roll_saving_throw tool.
func (h *Handler) RollSavingThrow() mcp.ToolHandlerFor[RollSavingThrowInput, RollSavingThrowResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollSavingThrowInput) (*mcp.CallToolResult, RollSavingThrowResult, error) {
		advantage, err := dice.ParseAdvantageMode(input.Advantage)
		if err != nil {
			return nil, RollSavingThrowResult{}, err
		}

		out, err := h.service.ExecuteSavingThrow(ctx, &combat.ExecuteSavingThrowInput{
			EncounterID:   input.EncounterID,
			ParticipantID: input.ParticipantID,
			Ability:       entities.AbilityKey(input.Ability),
			DC:            input.DC,
			Advantage:     advantage,
		})
		if err != nil {
			return nil, RollSavingThrowResult{}, err
		}

		return nil, RollSavingThrowResult{
			Success: out.Outcome.Success,
			DC:      out.Outcome.DC,
			Roll:    toRollResult(out.Outcome.Roll, ""),
		}, nil
	}
}

// DamageCharacter handles the damage_character tool.
func (h *Handler) DamageCharacter() mcp.ToolHandlerFor[DamageCharacterInput, DamageCharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DamageCharacterInput) (*mcp.CallToolResult, DamageCharacterResult, error) {
		out, err := h.service.ApplyDamage(ctx, &combat.ApplyDamageInput{
			EncounterID:   input.EncounterID,
			ParticipantID: input.ParticipantID,
			Amount:        input.Amount,
		})
		if err != nil {
			return nil, DamageCharacterResult{}, err
		}

		return nil, DamageCharacterResult{
			HP:          out.HP,
			Unconscious: out.Unconscious,
			Narration: h.narrative.DescribeDamage(narrative.DamageContext{
				Character:   input.ParticipantID,
				Damage:      input.Amount,
				OldHP:       out.HP - out.LogEntry.HPDelta,
				NewHP:       out.HP,
				Unconscious: out.Unconscious,
			}),
		}, nil
	}
}

// HealCharacter handles the heal_character tool.
func (h *Handler) HealCharacter() mcp.ToolHandlerFor[HealCharacterInput, HealCharacterResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input HealCharacterInput) (*mcp.CallToolResult, HealCharacterResult, error) {
		out, err := h.service.ApplyHealing(ctx, &combat.ApplyHealingInput{
			EncounterID:   input.EncounterID,
			ParticipantID: input.ParticipantID,
			Amount:        input.Amount,
		})
		if err != nil {
			return nil, HealCharacterResult{}, err
		}

		return nil, HealCharacterResult{
			HP: out.HP,
			Narration: h.narrative.DescribeHealing(narrative.HealContext{
				Character: input.ParticipantID,
				Healing:   out.LogEntry.HPDelta,
				OldHP:     out.HP - out.LogEntry.HPDelta,
				NewHP:     out.HP,
				MaxHP:     out.HPMax,
			}),
		}, nil
	}
}

// NextTurn handles the next_turn tool.
func (h *Handler) NextTurn() mcp.ToolHandlerFor[NextTurnInput, NextTurnResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input NextTurnInput) (*mcp.CallToolResult, NextTurnResult, error) {
		out, err := h.service.NextTurn(ctx, &combat.NextTurnInput{EncounterID: input.EncounterID})
		if err != nil {
			return nil, NextTurnResult{}, err
		}

		return nil, NextTurnResult{
			Round:                out.Round,
			CurrentParticipantID: out.CurrentParticipantID,
		}, nil
	}
}

// EndCombat handles the end_combat tool.
func (h *Handler) EndCombat() mcp.ToolHandlerFor[EndCombatInput, EndCombatResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EndCombatInput) (*mcp.CallToolResult, EndCombatResult, error) {
		out, err := h.service.EndEncounter(ctx, &combat.EndEncounterInput{EncounterID: input.EncounterID})
		if err != nil {
			return nil, EndCombatResult{}, err
		}

		return nil, EndCombatResult{Rounds: out.Rounds}, nil
	}
}

// GetCombatLog handles the get_combat_log tool.
func (h *Handler) GetCombatLog() mcp.ToolHandlerFor[GetCombatLogInput, GetCombatLogResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetCombatLogInput) (*mcp.CallToolResult, GetCombatLogResult, error) {
		out, err := h.service.GetCombatLog(ctx, &combat.GetCombatLogInput{
			EncounterID: input.EncounterID,
			Limit:       input.Limit,
		})
		if err != nil {
			return nil, GetCombatLogResult{}, err
		}

		result := GetCombatLogResult{
			Entries: make([]CombatLogEntryResult, 0, len(out.Entries)),
		}
		for _, entry := range out.Entries {
			result.Entries = append(result.Entries, CombatLogEntryResult{
				Sequence:    entry.Sequence,
				Round:       entry.Round,
				Action:      string(entry.Action),
				ActorID:     entry.ActorID,
				TargetID:    entry.TargetID,
				HPDelta:     entry.HPDelta,
				Description: entry.Description,
			})
		}

		return nil, result, nil
	}
}
