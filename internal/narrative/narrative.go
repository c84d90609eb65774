// Package narrative turns combat outcomes into short human-readable
// descriptions. The combat core never depends on this package; the
// handler layer attaches descriptions to its responses and to log
// entries after resolution.
package narrative

import "fmt"

// AttackContext carries the details of a resolved attack.
type AttackContext struct {
	Attacker    string
	Target      string
	Hit         bool
	Critical    bool
	AttackTotal int
	TargetAC    int
	Damage      int
}

// DamageContext carries the details of applied damage.
type DamageContext struct {
	Character   string
	Damage      int
	OldHP       int
	NewHP       int
	Unconscious bool
}

// HealContext carries the details of applied healing.
type HealContext struct {
	Character string
	Healing   int
	OldHP     int
	NewHP     int
	MaxHP     int
}

// Generator produces descriptions for combat events.
type Generator interface {
	DescribeAttack(ctx AttackContext) string
	DescribeDamage(ctx DamageContext) string
	DescribeHealing(ctx HealContext) string
}

// TemplateGenerator is a deterministic Generator built on fixed
// templates. It needs no external services and always succeeds, which
// makes it the default and the fallback.
type TemplateGenerator struct{}

// NewTemplateGenerator creates a template-based generator.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

// Ensure TemplateGenerator implements Generator
var _ Generator = (*TemplateGenerator)(nil)

// DescribeAttack describes a resolved attack.
func (g *TemplateGenerator) DescribeAttack(ctx AttackContext) string {
	switch {
	case !ctx.Hit:
		return fmt.Sprintf("%s's attack goes wide of %s (%d vs AC %d).",
			ctx.Attacker, ctx.Target, ctx.AttackTotal, ctx.TargetAC)
	case ctx.Critical:
		return fmt.Sprintf("%s lands a devastating critical hit on %s for %d damage!",
			ctx.Attacker, ctx.Target, ctx.Damage)
	default:
		return fmt.Sprintf("%s strikes %s for %d damage (%d vs AC %d).",
			ctx.Attacker, ctx.Target, ctx.Damage, ctx.AttackTotal, ctx.TargetAC)
	}
}

// DescribeDamage describes applied damage.
func (g *TemplateGenerator) DescribeDamage(ctx DamageContext) string {
	switch {
	case ctx.Unconscious:
		return fmt.Sprintf("%s takes %d damage and collapses unconscious (%d -> %d HP).",
			ctx.Character, ctx.Damage, ctx.OldHP, ctx.NewHP)
	case ctx.NewHP <= ctx.OldHP/4:
		return fmt.Sprintf("%s takes %d damage and is badly wounded (%d -> %d HP).",
			ctx.Character, ctx.Damage, ctx.OldHP, ctx.NewHP)
	default:
		return fmt.Sprintf("%s takes %d damage (%d -> %d HP).",
			ctx.Character, ctx.Damage, ctx.OldHP, ctx.NewHP)
	}
}

// DescribeHealing describes applied healing.
func (g *TemplateGenerator) DescribeHealing(ctx HealContext) string {
	if ctx.NewHP >= ctx.MaxHP {
		return fmt.Sprintf("Healing energy fully restores %s (%d -> %d HP).",
			ctx.Character, ctx.OldHP, ctx.NewHP)
	}
	return fmt.Sprintf("%s recovers %d hit points (%d -> %d HP).",
		ctx.Character, ctx.Healing, ctx.OldHP, ctx.NewHP)
}
