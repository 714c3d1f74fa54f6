package character

// SkillCategory discriminates the two kinds of skill.
type SkillCategory string

const (
	// SkillActive marks action skills used during play (rolls, costs, targets).
	SkillActive SkillCategory = "ACTIVE"
	// SkillPassive marks always-on skills that modify the calculator.
	SkillPassive SkillCategory = "PASSIVE"
)

// AcquisitionType records how a skill was obtained; it drives the EXP cost
// table, not the calculator.
type AcquisitionType string

const (
	AcquisitionFree     AcquisitionType = "Free"
	AcquisitionStandard AcquisitionType = "Standard"
	AcquisitionGrade    AcquisitionType = "Grade"
	AcquisitionOther    AcquisitionType = "Other"
)

// DefaultVariantKey names the variant used when an entity declares no
// explicit current variant.
const DefaultVariantKey = "default"

// Variant is one named configuration of a skill's or item's mechanics, e.g.
// the "sword mode" and "gun mode" of a transforming weapon. Passive mechanics
// (modifiers, overrides) and active mechanics (timing, cost, roll) share one
// struct; which half is meaningful follows from the owner's category.
type Variant struct {
	// Modifiers adds formula-valued bonuses into base stats, keyed by stat.
	Modifiers map[string]string `json:"modifiers,omitempty"`
	// Overrides replaces default derived-stat formulas, keyed by stat.
	Overrides map[string]string `json:"overrides,omitempty"`
	// PassiveCheck is display text for passive judgement rolls.
	PassiveCheck string `json:"passive_check,omitempty"`

	Timing      string `json:"timing,omitempty"`
	ChargeTime  string `json:"charge_time,omitempty"`
	Target      string `json:"target,omitempty"`
	Range       string `json:"range,omitempty"`
	Cost        string `json:"cost,omitempty"`
	RollFormula string `json:"roll_formula,omitempty"`
	Effect      string `json:"effect,omitempty"`
	Duration    string `json:"duration,omitempty"`
	ChatPalette string `json:"chat_palette,omitempty"`
	Restriction string `json:"restriction,omitempty"`
}

// GrantedStat is a stat that exists simply because its owner is owned,
// independent of any explicit event.
type GrantedStat struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Value  string `json:"value"`
	IsMain bool   `json:"is_main,omitempty"`
}

// Skill is a learned or planned capability. Events carry full skill
// snapshots; the reducer never merges deltas.
type Skill struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Category    SkillCategory `json:"category"`

	// Variants holds the named alternative configurations; CurrentVariant
	// selects the one in effect.
	Variants       map[string]Variant `json:"variants,omitempty"`
	CurrentVariant string             `json:"current_variant,omitempty"`

	// GrantedStats and GrantedResources apply once the skill is owned,
	// regardless of category or current variant.
	GrantedStats     []GrantedStat `json:"granted_stats,omitempty"`
	GrantedResources []Resource    `json:"granted_resources,omitempty"`

	Tags        []string        `json:"tags,omitempty"`
	Acquisition AcquisitionType `json:"acquisition,omitempty"`
}

// Current returns the variant in effect: the declared current variant,
// falling back to "default", else the zero variant.
func (s Skill) Current() Variant {
	if variant, ok := s.Variants[s.CurrentVariant]; ok {
		return variant
	}
	if variant, ok := s.Variants[DefaultVariantKey]; ok {
		return variant
	}
	return Variant{}
}
