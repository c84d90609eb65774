package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talekeeper/combat-api/internal/dice"
	"github.com/talekeeper/combat-api/internal/errors"
)

func newEngine(t *testing.T, roller dice.Roller) *dice.Engine {
	t.Helper()
	engine, err := dice.NewEngine(&dice.Config{Roller: roller})
	require.NoError(t, err)
	return engine
}

func TestNewEngine_RequiresRoller(t *testing.T) {
	_, err := dice.NewEngine(&dice.Config{})
	assert.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestParse(t *testing.T) {
	tests := []struct {
		notation string
		want     dice.Spec
	}{
		{"2d6+3", dice.Spec{Count: 2, Sides: 6, Modifier: 3}},
		{"d20", dice.Spec{Count: 1, Sides: 20, Modifier: 0}},
		{"1d8-1", dice.Spec{Count: 1, Sides: 8, Modifier: -1}},
		{"4d6", dice.Spec{Count: 4, Sides: 6, Modifier: 0}},
		{"1D8+4", dice.Spec{Count: 1, Sides: 8, Modifier: 4}},
		{" 2d6 + 3 ", dice.Spec{Count: 2, Sides: 6, Modifier: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.notation, func(t *testing.T) {
			spec, err := dice.Parse(tt.notation)
			require.NoError(t, err)
			assert.Equal(t, tt.want, spec)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	notations := []string{"", "xd6", "2d", "d", "2x6", "2d6+", "2d6++3", "banana"}

	for _, notation := range notations {
		t.Run(notation, func(t *testing.T) {
			_, err := dice.Parse(notation)
			assert.True(t, errors.IsMalformedNotation(err), "expected MalformedNotation, got %v", err)
		})
	}
}

func TestParse_InvalidDie(t *testing.T) {
	_, err := dice.Parse("2d0")
	assert.True(t, errors.IsInvalidDie(err))

	_, err = dice.Parse("0d6")
	assert.True(t, errors.IsInvalidCount(err))
}

func TestSpecNotation(t *testing.T) {
	assert.Equal(t, "2d6+3", dice.Spec{Count: 2, Sides: 6, Modifier: 3}.Notation())
	assert.Equal(t, "1d8-1", dice.Spec{Count: 1, Sides: 8, Modifier: -1}.Notation())
	assert.Equal(t, "1d20", dice.Spec{Count: 1, Sides: 20}.Notation())
}

func TestRoll_Bounds(t *testing.T) {
	engine := newEngine(t, dice.NewSeeded(42))

	for i := 0; i < 200; i++ {
		roll, err := engine.Roll(6)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, roll, 1)
		assert.LessOrEqual(t, roll, 6)
	}
}

func TestRoll_InvalidDie(t *testing.T) {
	engine := newEngine(t, dice.NewSeeded(42))

	_, err := engine.Roll(0)
	assert.True(t, errors.IsInvalidDie(err))

	_, err = engine.Roll(-4)
	assert.True(t, errors.IsInvalidDie(err))
}

func TestRollN(t *testing.T) {
	engine := newEngine(t, dice.NewQueued(3, 5, 1))

	rolls, err := engine.RollN(3, 6)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5, 1}, rolls)
}

func TestRollN_InvalidCount(t *testing.T) {
	engine := newEngine(t, dice.NewSeeded(42))

	_, err := engine.RollN(0, 6)
	assert.True(t, errors.IsInvalidCount(err))

	_, err = engine.RollN(1001, 6)
	assert.True(t, errors.IsInvalidCount(err))
}

func TestRollDamage(t *testing.T) {
	engine := newEngine(t, dice.NewQueued(4, 2))

	outcome, err := engine.RollDamage(dice.Spec{Count: 2, Sides: 6, Modifier: 3}, 0)
	require.NoError(t, err)

	assert.Equal(t, []int{4, 2}, outcome.Rolls)
	assert.Equal(t, outcome.Rolls, outcome.Chosen)
	assert.Equal(t, 3, outcome.Modifier)
	assert.Equal(t, 9, outcome.Total)
	assert.False(t, outcome.IsCritical)
}

func TestRollDamage_BonusRange(t *testing.T) {
	engine := newEngine(t, dice.NewSeeded(7))
	spec := dice.Spec{Count: 1, Sides: 6}

	for _, bonus := range []int{-2, 0, 5} {
		for i := 0; i < 100; i++ {
			outcome, err := engine.RollDamage(spec, bonus)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, outcome.Total, 1+bonus)
			assert.LessOrEqual(t, outcome.Total, 6+bonus)
		}
	}
}

func TestRollCritical_DoublesDiceNotModifier(t *testing.T) {
	engine := newEngine(t, dice.NewQueued(5, 7))

	outcome, err := engine.RollCritical(dice.Spec{Count: 1, Sides: 8, Modifier: 4}, 0)
	require.NoError(t, err)

	assert.Len(t, outcome.Rolls, 2, "critical doubles the dice")
	assert.Equal(t, 4, outcome.Modifier, "modifier is added once, unscaled")
	assert.Equal(t, 16, outcome.Total)
	assert.True(t, outcome.IsCritical)
}

func TestRollCritical_TotalRange(t *testing.T) {
	engine := newEngine(t, dice.NewSeeded(99))
	spec := dice.Spec{Count: 1, Sides: 8, Modifier: 4}

	for i := 0; i < 200; i++ {
		outcome, err := engine.RollCritical(spec, 0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, outcome.Total, 2+4)
		assert.LessOrEqual(t, outcome.Total, 16+4)
	}
}

func TestRollD20_Normal(t *testing.T) {
	engine := newEngine(t, dice.NewQueued(13))

	outcome, err := engine.RollD20(5, dice.Normal)
	require.NoError(t, err)

	assert.Equal(t, []int{13}, outcome.Rolls)
	assert.Equal(t, []int{13}, outcome.Chosen)
	assert.Equal(t, 18, outcome.Total)
	assert.False(t, outcome.IsCritical)
}

func TestRollD20_Advantage(t *testing.T) {
	engine := newEngine(t, dice.NewQueued(8, 15))

	outcome, err := engine.RollD20(2, dice.Advantage)
	require.NoError(t, err)

	assert.Equal(t, []int{8, 15}, outcome.Rolls, "both draws preserved in order")
	assert.Equal(t, []int{15}, outcome.Chosen)
	assert.Equal(t, 17, outcome.Total)
}

func TestRollD20_Disadvantage(t *testing.T) {
	engine := newEngine(t, dice.NewQueued(8, 15))

	outcome, err := engine.RollD20(2, dice.Disadvantage)
	require.NoError(t, err)

	assert.Equal(t, []int{8, 15}, outcome.Rolls)
	assert.Equal(t, []int{8}, outcome.Chosen)
	assert.Equal(t, 10, outcome.Total)
}

func TestRollD20_AdvantageNeverBelowDisadvantage(t *testing.T) {
	// For any fixed pair of draws, advantage keeps a face >= the one
	// disadvantage would keep.
	for seed := int64(0); seed < 50; seed++ {
		adv, err := newEngine(t, dice.NewSeeded(seed)).RollD20(0, dice.Advantage)
		require.NoError(t, err)
		dis, err := newEngine(t, dice.NewSeeded(seed)).RollD20(0, dice.Disadvantage)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, adv.Chosen[0], dis.Chosen[0])
	}
}

func TestRollD20_NaturalTwentyIsCritical(t *testing.T) {
	engine := newEngine(t, dice.NewQueued(20))

	outcome, err := engine.RollD20(0, dice.Normal)
	require.NoError(t, err)
	assert.True(t, outcome.IsCritical)
}

func TestRollAbilityScores(t *testing.T) {
	engine := newEngine(t, dice.NewSeeded(11))

	scores, err := engine.RollAbilityScores(dice.MethodStandard)
	require.NoError(t, err)
	require.Len(t, scores, 6)
	for _, score := range scores {
		assert.GreaterOrEqual(t, score, 3)
		assert.LessOrEqual(t, score, 18)
	}

	scores, err = engine.RollAbilityScores(dice.MethodClassic)
	require.NoError(t, err)
	require.Len(t, scores, 6)

	_, err = engine.RollAbilityScores("point_buy")
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestRollAbilityScores_DropLowest(t *testing.T) {
	// 4d6 drop lowest: [6,1,4,3] keeps 6+4+3 = 13.
	engine := newEngine(t, dice.NewQueued(
		6, 1, 4, 3,
		1, 1, 1, 1,
		6, 6, 6, 6,
		2, 2, 2, 2,
		5, 4, 3, 2,
		1, 6, 1, 6,
	))

	scores, err := engine.RollAbilityScores(dice.MethodStandard)
	require.NoError(t, err)
	assert.Equal(t, []int{13, 3, 18, 6, 12, 13}, scores)
}

func TestParseAdvantageMode(t *testing.T) {
	tests := []struct {
		input string
		want  dice.AdvantageMode
	}{
		{"normal", dice.Normal},
		{"", dice.Normal},
		{"ADVANTAGE", dice.Advantage},
		{" disadvantage ", dice.Disadvantage},
	}

	for _, tt := range tests {
		mode, err := dice.ParseAdvantageMode(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, mode)
	}

	_, err := dice.ParseAdvantageMode("lucky")
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestSeededRoller_Deterministic(t *testing.T) {
	first := dice.NewSeeded(1234)
	second := dice.NewSeeded(1234)

	for i := 0; i < 100; i++ {
		assert.Equal(t, first.Roll(20), second.Roll(20))
	}
}
