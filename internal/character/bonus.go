package character

import (
	"sort"

	"github.com/astmary-project/astmery/internal/character/formula"
	"github.com/astmary-project/astmery/internal/character/stat"
)

// ApplyBonuses runs the dynamic bonus pass over a freshly folded state:
// equipment and skill modifiers flow into base stats, formula overrides
// overlay the default table, granted stats and resources materialize, then
// every derived stat is recomputed from scratch.
//
// Order is fixed: equipment first (with item-borne passive skills, depth
// first), then learned skills. Later overrides win, so a skill can trump an
// item's formula. Map iteration is sorted everywhere so replays are
// deterministic.
func ApplyBonuses(state *State) {
	formulas := make(map[string]string, len(stat.DefaultFormulas))
	for key, f := range stat.DefaultFormulas {
		formulas[key] = f
	}

	for _, item := range state.EquipmentSlots {
		applyVariant(state, formulas, item.Current())
		for _, passive := range item.PassiveSkills {
			applySkill(state, formulas, passive)
		}
	}
	for _, skill := range state.Skills {
		applySkill(state, formulas, skill)
	}

	// Derived stats are rebuilt in full: formula result plus whatever additive
	// bonus has accumulated under the same key in base stats.
	state.DerivedStats = make(map[string]float64, len(formulas))
	for _, key := range sortedKeys(formulas) {
		result, err := formula.Eval(formulas[key], state.Scope(nil))
		if err != nil {
			result = 0
		}
		state.DerivedStats[key] = result + state.Stats[key]
	}

	syncPoolResource(state, ImplicitHPID, "MaxHP")
	syncPoolResource(state, ImplicitMPID, "MaxMP")

	state.Exp.Free = state.Exp.Total - state.Exp.Used
	state.CustomMainStats = dedupeStrings(state.CustomMainStats)
}

func applySkill(state *State, formulas map[string]string, skill Skill) {
	// Only passive skills feed the calculator through their variant; active
	// skill variants describe rolls and costs, not standing bonuses. Granted
	// stats and resources apply regardless of category.
	if skill.Category == SkillPassive {
		applyVariant(state, formulas, skill.Current())
	}

	for _, granted := range skill.GrantedStats {
		key := stat.Canonical(granted.Key)
		if key == "" {
			continue
		}
		if granted.Label != "" {
			if _, exists := state.CustomLabels[key]; !exists {
				state.CustomLabels[key] = granted.Label
			}
		}
		if granted.IsMain && !containsString(state.CustomMainStats, key) {
			state.CustomMainStats = append(state.CustomMainStats, key)
		}
		if granted.Value != "" {
			if v, err := formula.EvalNumberOrFormula(granted.Value, state.Scope(nil)); err == nil {
				state.Stats[key] += v
			}
		}
	}

	// Granted resources dedupe by id: the first grant wins, replays and
	// duplicate skills never stack pools.
	for _, res := range skill.GrantedResources {
		exists := false
		for i := range state.Resources {
			if state.Resources[i].ID == res.ID {
				exists = true
				break
			}
		}
		if !exists {
			state.Resources = append(state.Resources, res)
		}
	}
}

func applyVariant(state *State, formulas map[string]string, variant Variant) {
	// Modifiers evaluate at their point in the pass, so an earlier bonus is
	// visible to a later formula-valued one.
	for _, key := range sortedKeys(variant.Modifiers) {
		bonus, err := formula.EvalNumberOrFormula(variant.Modifiers[key], state.Scope(nil))
		if err != nil {
			continue
		}
		state.Stats[stat.Canonical(key)] += bonus
	}
	for _, key := range sortedKeys(variant.Overrides) {
		formulas[stat.Canonical(key)] = variant.Overrides[key]
	}
}

// syncPoolResource pins the HP/MP pool definitions to their derived maxima.
// An explicit definition keeps its identity but its cap and refill always
// track the derived stat.
func syncPoolResource(state *State, id, maxKey string) {
	if _, ok := state.DerivedStats[maxKey]; !ok {
		return
	}
	ref := "{" + maxKey + "}"
	for i := range state.Resources {
		if state.Resources[i].ID == id {
			state.Resources[i].Max = ref
			state.Resources[i].Initial = ref
			return
		}
	}
	state.Resources = append(state.Resources, implicitResource(id, maxKey))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func dedupeStrings(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := list[:0:0]
	for _, item := range list {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
