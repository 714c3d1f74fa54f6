package character

import (
	"testing"

	"github.com/astmary-project/astmery/internal/character/event"
)

func passiveSkill(id string, variant Variant) Skill {
	return Skill{
		ID:             id,
		Name:           id,
		Category:       SkillPassive,
		Variants:       map[string]Variant{DefaultVariantKey: variant},
		CurrentVariant: DefaultVariantKey,
	}
}

func TestBonusGrantedResourceDedupedByID(t *testing.T) {
	pool := Resource{ID: "karma-pool", Name: "カルマ", Max: "10", Min: "0", Initial: "10"}
	first := passiveSkill("blessing", Variant{})
	first.GrantedResources = []Resource{pool}
	second := passiveSkill("curse", Variant{})
	second.GrantedResources = []Resource{pool}

	events := []event.Event{
		mustEvent(t)(NewSkillLearnedEvent(first, 0, "")),
		mustEvent(t)(NewSkillLearnedEvent(second, 0, "")),
	}

	state := mustCalculate(t, events)
	count := 0
	for _, res := range state.Resources {
		if res.ID == "karma-pool" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("karma-pool defined %d times, want exactly 1", count)
	}
}

func TestBonusGrantedStatRegistersLabelAndValue(t *testing.T) {
	blessed := passiveSkill("blessed", Variant{})
	blessed.GrantedStats = []GrantedStat{
		{Key: "karma", Label: "カルマ", Value: "3", IsMain: true},
	}

	events := []event.Event{
		mustEvent(t)(NewSkillLearnedEvent(blessed, 0, "")),
	}

	state := mustCalculate(t, events)
	if got := state.Stats["karma"]; got != 3 {
		t.Fatalf("karma = %v, want 3", got)
	}
	if got := state.CustomLabels["karma"]; got != "カルマ" {
		t.Fatalf("label = %q, want カルマ", got)
	}
	if !containsString(state.CustomMainStats, "karma") {
		t.Fatal("karma should be promoted to main stats")
	}
}

func TestBonusModifierKeysResolveAliases(t *testing.T) {
	amulet := Item{
		ID:       "amulet",
		Category: ItemEquipment,
		Variants: map[string]Variant{
			DefaultVariantKey: {Modifiers: map[string]string{"肉体": "2"}},
		},
		CurrentVariant: DefaultVariantKey,
	}
	events := []event.Event{
		mustEvent(t)(NewStatGrownEvent("Body", 3, 0, "")),
		mustEvent(t)(NewItemAddedEvent(amulet, "INITIAL", "")),
		mustEvent(t)(NewItemEquippedEvent("amulet", "", "")),
	}

	state := mustCalculate(t, events)
	if got := state.Stats["Body"]; got != 5 {
		t.Fatalf("Body = %v, want 3 + 2 via alias", got)
	}
}

func TestBonusActiveSkillVariantDoesNotModifyStats(t *testing.T) {
	strike := Skill{
		ID:       "strike",
		Category: SkillActive,
		Variants: map[string]Variant{
			DefaultVariantKey: {
				Modifiers:   map[string]string{"Body": "99"},
				RollFormula: "2d6+{Combat}",
			},
		},
		CurrentVariant: DefaultVariantKey,
	}
	events := []event.Event{
		mustEvent(t)(NewSkillLearnedEvent(strike, 0, "")),
	}

	state := mustCalculate(t, events)
	if got := state.Stats["Body"]; got != 0 {
		t.Fatalf("Body = %v, want 0 (active variants carry no standing bonus)", got)
	}
}

func TestBonusItemBornePassiveSkillApplies(t *testing.T) {
	cursedBlade := Item{
		ID:       "cursed-blade",
		Category: ItemEquipment,
		Variants: map[string]Variant{
			DefaultVariantKey: {},
		},
		CurrentVariant: DefaultVariantKey,
		PassiveSkills: []Skill{
			passiveSkill("curse", Variant{Modifiers: map[string]string{"Spirit": "-2"}}),
		},
	}
	events := []event.Event{
		mustEvent(t)(NewStatGrownEvent("Spirit", 5, 0, "")),
		mustEvent(t)(NewItemAddedEvent(cursedBlade, "DROP", "")),
		mustEvent(t)(NewItemEquippedEvent("cursed-blade", "", "")),
	}

	state := mustCalculate(t, events)
	if got := state.Stats["Spirit"]; got != 3 {
		t.Fatalf("Spirit = %v, want 5 - 2 from the item-borne curse", got)
	}
}

func TestBonusUnequippedItemHasNoEffect(t *testing.T) {
	amulet := Item{
		ID:       "amulet",
		Category: ItemEquipment,
		Variants: map[string]Variant{
			DefaultVariantKey: {Modifiers: map[string]string{"Body": "2"}},
		},
		CurrentVariant: DefaultVariantKey,
	}
	events := []event.Event{
		mustEvent(t)(NewItemAddedEvent(amulet, "SHOP", "")),
	}

	state := mustCalculate(t, events)
	if got := state.Stats["Body"]; got != 0 {
		t.Fatalf("Body = %v, want 0 while the item stays unequipped", got)
	}
}

func TestBonusSyncsPoolDefinitionsToDerivedMaxima(t *testing.T) {
	events := []event.Event{
		mustEvent(t)(NewStatGrownEvent("Grade", 2, 0, "")),
		mustEvent(t)(NewStatGrownEvent("Spirit", 3, 0, "")),
	}

	state := mustCalculate(t, events)
	hp, ok := state.FindResource("HP")
	if !ok {
		t.Fatal("HP pool should be synthesized")
	}
	if hp.Max != "{MaxHP}" || hp.Initial != "{MaxHP}" {
		t.Fatalf("HP pool = %+v, want max and initial pinned to {MaxHP}", hp)
	}
	mp, ok := state.FindResource("MP")
	if !ok {
		t.Fatal("MP pool should be synthesized")
	}
	if _, max := mp.Bounds(&state); max != 25 {
		t.Fatalf("MP cap = %v, want (2+3)*5 = 25", max)
	}
}

func TestBonusExplicitPoolKeepsIdentityButTracksCap(t *testing.T) {
	custom := Resource{ID: "HP", Name: "生命力", Max: "9999", ResetMode: ResetNone}
	events := []event.Event{
		mustEvent(t)(NewStatGrownEvent("Grade", 2, 0, "")),
		mustEvent(t)(NewStatGrownEvent("Body", 4, 0, "")),
		mustEvent(t)(NewResourceDefinedEvent(custom, "")),
	}

	state := mustCalculate(t, events)
	hp, ok := state.FindResource("HP")
	if !ok {
		t.Fatal("HP pool missing")
	}
	if hp.Name != "生命力" || hp.ResetMode != ResetNone {
		t.Fatalf("HP pool = %+v, want explicit naming and reset mode kept", hp)
	}
	if hp.Max != "{MaxHP}" {
		t.Fatalf("HP cap = %q, want pinned to {MaxHP}", hp.Max)
	}
}

func TestBonusExplicitPoolInitialPinnedToDerivedMax(t *testing.T) {
	custom := Resource{ID: "HP", Name: "生命力", Max: "9999", Initial: "10"}
	events := []event.Event{
		mustEvent(t)(NewStatGrownEvent("Grade", 10, 0, "")),
		mustEvent(t)(NewStatGrownEvent("Body", 5, 0, "")),
		mustEvent(t)(NewResourceDefinedEvent(custom, "")),
		mustEvent(t)(NewResourcesResetEvent("")),
	}

	state := mustCalculate(t, events)
	hp, ok := state.FindResource("HP")
	if !ok {
		t.Fatal("HP pool missing")
	}
	if hp.Initial != "{MaxHP}" {
		t.Fatalf("HP initial = %q, want pinned to {MaxHP}", hp.Initial)
	}
	if got := state.ResourceValues["HP"]; got != 75 {
		t.Fatalf("HP after reset = %v, want derived MaxHP 75", got)
	}
}
