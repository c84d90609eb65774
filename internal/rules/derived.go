package rules

// AbilityModifier computes the modifier for an ability score. Floor
// division, not truncation: a score of 9 yields -1, not 0.
func AbilityModifier(score int) int {
	diff := score - 10
	if diff < 0 {
		return -((-diff + 1) / 2)
	}
	return diff / 2
}

// ProficiencyBonus computes the proficiency bonus for a character level.
func ProficiencyBonus(level int) int {
	return 2 + (level-1)/4
}

// SpellSaveDC computes the spell save difficulty class.
func SpellSaveDC(level, abilityMod int) int {
	return 8 + ProficiencyBonus(level) + abilityMod
}

// SpellAttackBonus computes the spell attack bonus.
func SpellAttackBonus(level, abilityMod int) int {
	return ProficiencyBonus(level) + abilityMod
}
