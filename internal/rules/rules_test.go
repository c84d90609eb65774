package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talekeeper/combat-api/internal/dice"
	"github.com/talekeeper/combat-api/internal/rules"
)

func newResolver(t *testing.T, roller dice.Roller) *rules.Resolver {
	t.Helper()
	engine, err := dice.NewEngine(&dice.Config{Roller: roller})
	require.NoError(t, err)
	resolver, err := rules.NewResolver(&rules.Config{Dice: engine})
	require.NoError(t, err)
	return resolver
}

func TestResolveAttack_Hit(t *testing.T) {
	// d20 of 18 with +8 vs AC 15: total 26, hit, not critical.
	// Damage 1d8+4 with a die draw of 5: 9 damage.
	resolver := newResolver(t, dice.NewQueued(18, 5))

	outcome, err := resolver.ResolveAttack(8, 15, dice.Normal, dice.Spec{Count: 1, Sides: 8, Modifier: 4})
	require.NoError(t, err)

	assert.True(t, outcome.Hit)
	assert.False(t, outcome.Critical)
	assert.Equal(t, 26, outcome.AttackRoll.Total)
	require.NotNil(t, outcome.DamageRoll)
	assert.Equal(t, 9, outcome.DamageRoll.Total)
	assert.Equal(t, 15, outcome.TargetArmorClass)
}

func TestResolveAttack_Miss(t *testing.T) {
	// d20 of 4 with +3 vs AC 15: total 7, miss, no damage roll.
	resolver := newResolver(t, dice.NewQueued(4))

	outcome, err := resolver.ResolveAttack(3, 15, dice.Normal, dice.Spec{Count: 1, Sides: 8, Modifier: 4})
	require.NoError(t, err)

	assert.False(t, outcome.Hit)
	assert.False(t, outcome.Critical)
	assert.Nil(t, outcome.DamageRoll)
}

func TestResolveAttack_NaturalOneAlwaysMisses(t *testing.T) {
	// Total 1+15 = 16 >= AC 5 would numerically hit, but a natural 1
	// is a forced miss.
	resolver := newResolver(t, dice.NewQueued(1))

	outcome, err := resolver.ResolveAttack(15, 5, dice.Normal, dice.Spec{Count: 1, Sides: 6})
	require.NoError(t, err)

	assert.False(t, outcome.Hit)
	assert.False(t, outcome.Critical)
	assert.Nil(t, outcome.DamageRoll)
}

func TestResolveAttack_NaturalTwentyAlwaysHits(t *testing.T) {
	// Total 20-2 = 18 < AC 30 would numerically miss, but a natural 20
	// is a forced critical hit. Critical damage rolls two dice.
	resolver := newResolver(t, dice.NewQueued(20, 3, 6))

	outcome, err := resolver.ResolveAttack(-2, 30, dice.Normal, dice.Spec{Count: 1, Sides: 8, Modifier: 4})
	require.NoError(t, err)

	assert.True(t, outcome.Hit)
	assert.True(t, outcome.Critical)
	require.NotNil(t, outcome.DamageRoll)
	assert.True(t, outcome.DamageRoll.IsCritical)
	assert.Len(t, outcome.DamageRoll.Rolls, 2)
	assert.Equal(t, 13, outcome.DamageRoll.Total)
}

func TestResolveAttack_CriticalImpliesHit(t *testing.T) {
	for seed := int64(0); seed < 100; seed++ {
		resolver := newResolver(t, dice.NewSeeded(seed))
		outcome, err := resolver.ResolveAttack(3, 14, dice.Normal, dice.Spec{Count: 1, Sides: 6})
		require.NoError(t, err)

		if outcome.Critical {
			assert.True(t, outcome.Hit)
		}
		if outcome.Hit {
			assert.NotNil(t, outcome.DamageRoll)
		} else {
			assert.Nil(t, outcome.DamageRoll)
		}
	}
}

func TestResolveAttack_Advantage(t *testing.T) {
	// Advantage draws 6 then 17, keeps 17: total 20 vs AC 18 hits.
	resolver := newResolver(t, dice.NewQueued(6, 17, 4))

	outcome, err := resolver.ResolveAttack(3, 18, dice.Advantage, dice.Spec{Count: 1, Sides: 6})
	require.NoError(t, err)

	assert.True(t, outcome.Hit)
	assert.Equal(t, []int{6, 17}, outcome.AttackRoll.Rolls)
	assert.Equal(t, []int{17}, outcome.AttackRoll.Chosen)
}

func TestResolveSavingThrow(t *testing.T) {
	resolver := newResolver(t, dice.NewQueued(12))

	outcome, err := resolver.ResolveSavingThrow(3, 15, dice.Normal)
	require.NoError(t, err)
	assert.True(t, outcome.Success, "12+3 meets DC 15")
	assert.Equal(t, 15, outcome.Roll.Total)

	resolver = newResolver(t, dice.NewQueued(11))
	outcome, err = resolver.ResolveSavingThrow(3, 15, dice.Normal)
	require.NoError(t, err)
	assert.False(t, outcome.Success)
}

func TestResolveSavingThrow_NoNaturalSpecialCasing(t *testing.T) {
	// A natural 1 with a large bonus still succeeds on total alone.
	resolver := newResolver(t, dice.NewQueued(1))
	outcome, err := resolver.ResolveSavingThrow(10, 5, dice.Normal)
	require.NoError(t, err)
	assert.True(t, outcome.Success)

	// A natural 20 with a large penalty still fails on total alone.
	resolver = newResolver(t, dice.NewQueued(20))
	outcome, err = resolver.ResolveSavingThrow(-10, 15, dice.Normal)
	require.NoError(t, err)
	assert.False(t, outcome.Success)
}

func TestResolveInitiative(t *testing.T) {
	resolver := newResolver(t, dice.NewQueued(14))

	roll, err := resolver.ResolveInitiative(2)
	require.NoError(t, err)
	assert.Equal(t, 16, roll.Total)
	assert.Len(t, roll.Rolls, 1)
}

func TestAbilityModifier(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{1, -5},
		{7, -2},
		{8, -1},
		{9, -1}, // floor division, not truncation
		{10, 0},
		{11, 0},
		{12, 1},
		{15, 2},
		{18, 4},
		{20, 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, rules.AbilityModifier(tt.score), "score %d", tt.score)
	}
}

func TestProficiencyBonus(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{1, 2}, {4, 2}, {5, 3}, {8, 3}, {9, 4}, {13, 5}, {17, 6}, {20, 6},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, rules.ProficiencyBonus(tt.level), "level %d", tt.level)
	}
}

func TestSpellDerivedValues(t *testing.T) {
	assert.Equal(t, 13, rules.SpellSaveDC(5, 2))
	assert.Equal(t, 5, rules.SpellAttackBonus(5, 2))
}
