package character

import (
	"math"
	"strings"

	"github.com/astmary-project/astmery/internal/character/formula"
)

// ResetMode controls what a bulk reset does to a resource.
type ResetMode string

const (
	// ResetToInitial restores the resource to its evaluated initial value.
	ResetToInitial ResetMode = "initial"
	// ResetNone leaves the resource untouched by bulk resets (money, ammo
	// bought rather than regenerated, etc).
	ResetNone ResetMode = "none"
)

// Resource defines a named pool (HP, MP, user-defined). Max, Min and Initial
// are formula strings evaluated against the character state, never bare
// numbers, so a pool cap can track a derived stat. The current value lives
// outside the definition, in a resource-value map.
type Resource struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Max       string    `json:"max,omitempty"`
	Min       string    `json:"min,omitempty"`
	Initial   string    `json:"initial,omitempty"`
	ResetMode ResetMode `json:"reset_mode,omitempty"`
}

// Bounds evaluates the resource's min and max against the state. Undefined
// bounds default to minus and plus infinity.
func (r Resource) Bounds(state *State) (min, max float64) {
	min = math.Inf(-1)
	max = math.Inf(1)
	if r.Min != "" {
		if v, err := formula.EvalNumberOrFormula(r.Min, state.Scope(nil)); err == nil {
			min = v
		}
	}
	if r.Max != "" {
		if v, err := formula.EvalNumberOrFormula(r.Max, state.Scope(nil)); err == nil {
			max = v
		}
	}
	return min, max
}

// InitialValue evaluates the resource's initial formula against the state.
func (r Resource) InitialValue(state *State) float64 {
	if r.Initial == "" {
		return 0
	}
	v, err := formula.EvalNumberOrFormula(r.Initial, state.Scope(nil))
	if err != nil {
		return 0
	}
	return v
}

// Clamp bounds a candidate value to the resource's evaluated range.
func (r Resource) Clamp(state *State, value float64) float64 {
	min, max := r.Bounds(state)
	return math.Min(max, math.Max(min, value))
}

// FindResource locates a definition by case-insensitive id or exact name.
func (s *State) FindResource(idOrName string) (Resource, bool) {
	for _, res := range s.Resources {
		if strings.EqualFold(res.ID, idOrName) || res.Name == idOrName {
			return res, true
		}
	}
	return Resource{}, false
}
