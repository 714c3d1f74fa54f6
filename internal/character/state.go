// Package character implements the event-sourced character sheet calculator:
// the state aggregate, the event fold, the dynamic bonus pass and the
// display-state projector.
//
// The calculator core is single-threaded and synchronous: every function here
// is a pure, CPU-bound transformation with no I/O. Callers hand in an
// immutable snapshot (an ordered event log, a state value) and get a fresh
// value out; no internal locking is performed or needed.
package character

import "github.com/astmary-project/astmery/internal/character/formula"

// ExpState is the experience ledger. Free is always recomputed as
// Total - Used, never stored independently.
type ExpState struct {
	Total int `json:"total"`
	Used  int `json:"used"`
	Free  int `json:"free"`
}

// State is the aggregate replayed from a character's event journal.
//
// DerivedStats, the HP/MP entries in Resources, and granted labels are always
// outputs of the bonus pass; events only ever mutate base stats, inventory,
// skills, the experience ledger, explicit resource definitions, and labels
// registered through label events.
type State struct {
	// Stats holds base stat values keyed by free-form stat keys.
	Stats map[string]float64 `json:"stats"`
	// DerivedStats is recomputed in full by every bonus pass.
	DerivedStats map[string]float64 `json:"derived_stats"`
	// CustomLabels maps ad-hoc stat keys to display labels.
	CustomLabels map[string]string `json:"custom_labels"`
	// CustomMainStats lists keys promoted to the primary display group.
	CustomMainStats []string `json:"custom_main_stats"`
	// Tags are free-form markers seeded at creation.
	Tags []string `json:"tags"`

	// Inventory is every owned item; EquipmentSlots is the equipped subset.
	Inventory      []Item `json:"inventory"`
	EquipmentSlots []Item `json:"equipment_slots"`

	Skills        []Skill `json:"skills"`
	SkillWishlist []Skill `json:"skill_wishlist"`

	// Resources holds pool definitions; ResourceValues the journal-persisted
	// current values. Session-scoped values live outside the state entirely.
	Resources      []Resource         `json:"resources"`
	ResourceValues map[string]float64 `json:"resource_values"`

	Exp ExpState `json:"exp"`
}

// NewState returns an empty state seeded with base stats and initial tags.
func NewState(baseStats map[string]float64, initialTags []string) State {
	stats := make(map[string]float64, len(baseStats))
	for key, value := range baseStats {
		stats[key] = value
	}
	tags := make([]string, 0, len(initialTags))
	tags = append(tags, initialTags...)
	return State{
		Stats:           stats,
		DerivedStats:    map[string]float64{},
		CustomLabels:    map[string]string{},
		CustomMainStats: []string{},
		Tags:            tags,
		Inventory:       []Item{},
		EquipmentSlots:  []Item{},
		Skills:          []Skill{},
		SkillWishlist:   []Skill{},
		Resources:       []Resource{},
		ResourceValues:  map[string]float64{},
	}
}

// Scope builds a formula scope over this state with optional one-off
// override values layered on top.
func (s *State) Scope(overrides map[string]float64) formula.Scope {
	return formula.Scope{
		Stats:     s.Stats,
		Derived:   s.DerivedStats,
		Overrides: overrides,
	}
}

// Clone returns a deep copy of the state's calculator-relevant containers.
// Entity values (items, skills, resources) are copied by value; their inner
// maps are treated as immutable snapshots and shared.
func (s *State) Clone() State {
	next := *s
	next.Stats = cloneFloatMap(s.Stats)
	next.DerivedStats = cloneFloatMap(s.DerivedStats)
	next.CustomLabels = cloneStringMap(s.CustomLabels)
	next.CustomMainStats = append([]string(nil), s.CustomMainStats...)
	next.Tags = append([]string(nil), s.Tags...)
	next.Inventory = append([]Item(nil), s.Inventory...)
	next.EquipmentSlots = append([]Item(nil), s.EquipmentSlots...)
	next.Skills = append([]Skill(nil), s.Skills...)
	next.SkillWishlist = append([]Skill(nil), s.SkillWishlist...)
	next.Resources = append([]Resource(nil), s.Resources...)
	next.ResourceValues = cloneFloatMap(s.ResourceValues)
	return next
}

func cloneFloatMap(src map[string]float64) map[string]float64 {
	dst := make(map[string]float64, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}

func cloneStringMap(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
