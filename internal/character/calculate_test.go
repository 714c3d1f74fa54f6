package character

import (
	"reflect"
	"testing"

	"github.com/astmary-project/astmery/internal/character/event"
)

// mustEvent adapts an event constructor's two return values into a single
// event, failing the test on a construction error. Curried so a constructor
// call can feed it directly: mustEvent(t)(NewStatGrownEvent(...)).
func mustEvent(t *testing.T) func(event.Event, error) event.Event {
	return func(evt event.Event, err error) event.Event {
		t.Helper()
		if err != nil {
			t.Fatalf("building event: %v", err)
		}
		return evt
	}
}

func mustCalculate(t *testing.T, events []event.Event) State {
	t.Helper()
	state, err := Calculate(events, nil, nil)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	return state
}

func TestCalculateAccumulatesStatGrowth(t *testing.T) {
	events := []event.Event{
		mustEvent(t)(NewStatGrownEvent("STR", 5, 0, "")),
		mustEvent(t)(NewStatGrownEvent("STR", 3, 0, "")),
		mustEvent(t)(NewStatGrownEvent("DEX", 10, 0, "")),
	}

	state := mustCalculate(t, events)
	if got := state.Stats["STR"]; got != 8 {
		t.Fatalf("STR = %v, want 8", got)
	}
	if got := state.Stats["DEX"]; got != 10 {
		t.Fatalf("DEX = %v, want 10", got)
	}
}

func TestCalculateIsDeterministic(t *testing.T) {
	events := []event.Event{
		mustEvent(t)(NewStatGrownEvent("Grade", 2, 0, "")),
		mustEvent(t)(NewStatGrownEvent("肉体", 4, 0, "")),
		mustEvent(t)(NewExperienceGainedEvent(50, "session", "")),
		mustEvent(t)(NewStatUpdatedEvent("Magic", "{Grade} * 3", "")),
	}

	first := mustCalculate(t, events)
	second := mustCalculate(t, events)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("replay differs:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestCalculateExperienceLedger(t *testing.T) {
	events := []event.Event{
		mustEvent(t)(NewExperienceGainedEvent(100, "", "")),
		mustEvent(t)(NewExperienceSpentEvent(30, "ABILITY", "")),
	}

	state := mustCalculate(t, events)
	if state.Exp.Total != 100 || state.Exp.Used != 30 || state.Exp.Free != 70 {
		t.Fatalf("exp = %+v, want total 100 used 30 free 70", state.Exp)
	}
}

func TestCalculateDefaultDerivedStats(t *testing.T) {
	events := []event.Event{
		mustEvent(t)(NewStatGrownEvent("Grade", 2, 0, "")),
		mustEvent(t)(NewStatGrownEvent("Body", 4, 0, "")),
	}

	state := mustCalculate(t, events)
	if got := state.DerivedStats["MaxHP"]; got != 30 {
		t.Fatalf("MaxHP = %v, want (2+4)*5 = 30", got)
	}
	if got := state.DerivedStats["Defense"]; got != 8 {
		t.Fatalf("Defense = %v, want 4*2 = 8", got)
	}
}

func TestCalculateDerivedCompositionWithOverrideAndModifier(t *testing.T) {
	shield := Item{
		ID:       "shield",
		Name:     "Shield",
		Category: ItemEquipment,
		Slot:     "SubHand",
		Variants: map[string]Variant{
			DefaultVariantKey: {Overrides: map[string]string{"Defense": "{Body} * 3"}},
		},
		CurrentVariant: DefaultVariantKey,
	}
	toughness := Skill{
		ID:       "toughness",
		Name:     "Toughness",
		Category: SkillPassive,
		Variants: map[string]Variant{
			DefaultVariantKey: {Modifiers: map[string]string{"MaxHP": "10"}},
		},
		CurrentVariant: DefaultVariantKey,
	}
	events := []event.Event{
		mustEvent(t)(NewStatGrownEvent("Grade", 10, 0, "")),
		mustEvent(t)(NewStatGrownEvent("Body", 5, 0, "")),
		mustEvent(t)(NewItemAddedEvent(shield, "INITIAL", "")),
		mustEvent(t)(NewItemEquippedEvent("shield", "", "")),
		mustEvent(t)(NewSkillLearnedEvent(toughness, 0, "")),
	}

	state := mustCalculate(t, events)
	if got := state.DerivedStats["MaxHP"]; got != 85 {
		t.Fatalf("MaxHP = %v, want (10+5)*5 + 10 = 85", got)
	}
	if got := state.DerivedStats["Defense"]; got != 15 {
		t.Fatalf("Defense = %v, want overridden 5*3 = 15", got)
	}
}

func TestCalculateStatUpdatedSeesStateSoFar(t *testing.T) {
	events := []event.Event{
		mustEvent(t)(NewStatGrownEvent("Grade", 4, 0, "")),
		mustEvent(t)(NewStatUpdatedEvent("Magic", "{Grade} * 2", "")),
		mustEvent(t)(NewStatGrownEvent("Grade", 2, 0, "")),
	}

	state := mustCalculate(t, events)
	if got := state.Stats["Magic"]; got != 8 {
		t.Fatalf("Magic = %v, want 8 (evaluated before the later growth)", got)
	}
}

func TestCalculateStatUpdatedBrokenFormulaSetsZero(t *testing.T) {
	events := []event.Event{
		mustEvent(t)(NewStatGrownEvent("Magic", 5, 0, "")),
		mustEvent(t)(NewStatUpdatedEvent("Magic", "{Grade} * ", "")),
	}

	state := mustCalculate(t, events)
	if got := state.Stats["Magic"]; got != 0 {
		t.Fatalf("Magic = %v, want 0 after an unevaluable formula", got)
	}
}

func TestCalculateFiltersRevokedEvents(t *testing.T) {
	grow := mustEvent(t)(NewStatGrownEvent("STR", 3, 0, ""))
	events := []event.Event{
		mustEvent(t)(NewStatGrownEvent("STR", 5, 0, "")),
		grow,
		mustEvent(t)(NewLogRevokedEvent(grow.ID, "misclick", "")),
	}

	state := mustCalculate(t, events)
	if got := state.Stats["STR"]; got != 5 {
		t.Fatalf("STR = %v, want 5 after revoking the +3 growth", got)
	}
}

func TestCalculateResourceClamping(t *testing.T) {
	ammo := Resource{ID: "ammo", Name: "弾薬", Max: "10", Min: "0", Initial: "10"}
	events := []event.Event{
		mustEvent(t)(NewResourceDefinedEvent(ammo, "")),
		mustEvent(t)(NewResourceUpdatedEvent(ResourceUpdate{
			ResourceID: "ammo",
			Op:         ResourceOpModify,
			Value:      floatPtr(-50),
		}, "")),
	}

	state := mustCalculate(t, events)
	if got := state.ResourceValues["ammo"]; got != 0 {
		t.Fatalf("ammo = %v, want clamped to 0", got)
	}
}

func TestCalculateImplicitPoolResetUsesDerivedMax(t *testing.T) {
	five := 5.0
	events := []event.Event{
		mustEvent(t)(NewStatGrownEvent("Grade", 2, 0, "")),
		mustEvent(t)(NewStatGrownEvent("Body", 4, 0, "")),
		mustEvent(t)(NewResourceUpdatedEvent(ResourceUpdate{
			ResourceID: "hp",
			Op:         ResourceOpSet,
			Value:      &five,
		}, "")),
		mustEvent(t)(NewResourcesResetEvent("")),
	}

	state := mustCalculate(t, events)
	if got := state.ResourceValues["HP"]; got != 30 {
		t.Fatalf("HP after reset = %v, want derived MaxHP 30", got)
	}
}

func TestCalculateCircularOverridesDoNotCrash(t *testing.T) {
	ringA := Item{
		ID:       "ring-a",
		Category: ItemEquipment,
		Variants: map[string]Variant{
			DefaultVariantKey: {Overrides: map[string]string{"Defense": "{MagicDefense} + 1"}},
		},
		CurrentVariant: DefaultVariantKey,
	}
	ringB := Item{
		ID:       "ring-b",
		Category: ItemEquipment,
		Variants: map[string]Variant{
			DefaultVariantKey: {Overrides: map[string]string{"MagicDefense": "{Defense} + 1"}},
		},
		CurrentVariant: DefaultVariantKey,
	}
	events := []event.Event{
		mustEvent(t)(NewItemAddedEvent(ringA, "INITIAL", "")),
		mustEvent(t)(NewItemAddedEvent(ringB, "INITIAL", "")),
		mustEvent(t)(NewItemEquippedEvent("ring-a", "", "")),
		mustEvent(t)(NewItemEquippedEvent("ring-b", "", "")),
	}

	state := mustCalculate(t, events)
	if _, ok := state.DerivedStats["Defense"]; !ok {
		t.Fatal("Defense should be defined")
	}
	if _, ok := state.DerivedStats["MagicDefense"]; !ok {
		t.Fatal("MagicDefense should be defined")
	}
}

func floatPtr(v float64) *float64 { return &v }
