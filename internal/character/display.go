package character

import (
	"github.com/astmary-project/astmery/internal/character/formula"
	"github.com/astmary-project/astmery/internal/character/stat"
)

// Project builds the live display state: the canonical state with current
// resource values injected as formula overrides, so a formula like "Defense
// halves below half HP" reacts to the session without touching the committed
// state.
//
// Neither input is mutated. The projection is recomputed in full on every
// call; the formula table is small enough that incremental diffing would buy
// nothing.
func Project(state *State, resourceValues map[string]float64) State {
	projected := state.Clone()

	// Current values key the override map by both id and name, so formulas
	// may reference either.
	overrides := make(map[string]float64, 2*len(state.Resources))
	for _, res := range state.Resources {
		value, ok := resourceValues[res.ID]
		if !ok {
			value = res.Clamp(state, res.InitialValue(state))
		}
		overrides[res.ID] = value
		if res.Name != "" {
			overrides[res.Name] = value
		}
	}

	baseScope := state.Scope(nil)
	liveScope := state.Scope(overrides)

	// A dynamic modifier contributes the delta between its live and its
	// canonical evaluation; the canonical share is already baked into the
	// committed stats by the bonus pass.
	applyDeltas := func(variant Variant) {
		for _, key := range sortedKeys(variant.Modifiers) {
			base, errBase := formula.EvalNumberOrFormula(variant.Modifiers[key], baseScope)
			live, errLive := formula.EvalNumberOrFormula(variant.Modifiers[key], liveScope)
			if errBase != nil || errLive != nil {
				continue
			}
			if delta := live - base; delta != 0 {
				projected.Stats[stat.Canonical(key)] += delta
			}
		}
	}

	formulas := make(map[string]string, len(stat.DefaultFormulas))
	for key, f := range stat.DefaultFormulas {
		formulas[key] = f
	}
	overlay := func(variant Variant) {
		for _, key := range sortedKeys(variant.Overrides) {
			formulas[stat.Canonical(key)] = variant.Overrides[key]
		}
	}

	for _, item := range state.EquipmentSlots {
		applyDeltas(item.Current())
		overlay(item.Current())
		for _, passive := range item.PassiveSkills {
			if passive.Category == SkillPassive {
				applyDeltas(passive.Current())
				overlay(passive.Current())
			}
		}
	}
	for _, skill := range state.Skills {
		if skill.Category == SkillPassive {
			applyDeltas(skill.Current())
			overlay(skill.Current())
		}
	}

	projScope := formula.Scope{
		Stats:     projected.Stats,
		Derived:   state.DerivedStats,
		Overrides: overrides,
	}
	projected.DerivedStats = make(map[string]float64, len(formulas))
	for _, key := range sortedKeys(formulas) {
		result, err := formula.Eval(formulas[key], projScope)
		if err != nil {
			result = 0
		}
		projected.DerivedStats[key] = result + projected.Stats[key]
	}

	return projected
}
