package character

import (
	"strings"

	"github.com/astmary-project/astmery/internal/character/formula"
)

// ResourceOp is the kind of change a resource update applies.
type ResourceOp string

const (
	// ResourceOpSet replaces the current value.
	ResourceOpSet ResourceOp = "set"
	// ResourceOpModify adds a signed delta to the current value.
	ResourceOpModify ResourceOp = "modify"
	// ResourceOpReset restores the evaluated initial value.
	ResourceOpReset ResourceOp = "reset"
)

// ResourceUpdate is a single change to one resource's current value. Value
// takes precedence over Formula; a reset ignores both.
type ResourceUpdate struct {
	ResourceID string     `json:"resource_id"`
	Op         ResourceOp `json:"op"`
	Value      *float64   `json:"value,omitempty"`
	Formula    string     `json:"formula,omitempty"`
}

// ImplicitHPID and ImplicitMPID key the HP/MP pools every character has once
// the corresponding derived maxima exist, without an explicit definition.
const (
	ImplicitHPID = "HP"
	ImplicitMPID = "MP"
)

// ResolveResource locates the definition an update targets. Explicit
// definitions win; otherwise HP and MP resolve to implicit pools capped by
// the derived MaxHP/MaxMP when those stats exist.
func ResolveResource(state *State, idOrName string) (Resource, bool) {
	if res, ok := state.FindResource(idOrName); ok {
		return res, true
	}
	switch {
	case strings.EqualFold(idOrName, ImplicitHPID):
		if _, ok := state.DerivedStats["MaxHP"]; ok {
			return implicitResource(ImplicitHPID, "MaxHP"), true
		}
	case strings.EqualFold(idOrName, ImplicitMPID):
		if _, ok := state.DerivedStats["MaxMP"]; ok {
			return implicitResource(ImplicitMPID, "MaxMP"), true
		}
	}
	return Resource{}, false
}

func implicitResource(id, maxKey string) Resource {
	ref := "{" + maxKey + "}"
	return Resource{
		ID:        id,
		Name:      id,
		Max:       ref,
		Min:       "0",
		Initial:   ref,
		ResetMode: ResetToInitial,
	}
}

// ApplyResourceUpdate applies one update to a value map and returns the
// result. The input map is never mutated; when the update resolves to no
// change (unknown resource, bad formula, value already equal) the same map
// reference is returned.
func ApplyResourceUpdate(state *State, values map[string]float64, update ResourceUpdate) map[string]float64 {
	res, ok := ResolveResource(state, update.ResourceID)
	if !ok {
		return values
	}

	current, hasCurrent := values[res.ID]
	if !hasCurrent {
		current = res.Clamp(state, res.InitialValue(state))
	}

	var next float64
	switch update.Op {
	case ResourceOpSet:
		operand, ok := updateOperand(state, update)
		if !ok {
			return values
		}
		next = operand
	case ResourceOpModify:
		operand, ok := updateOperand(state, update)
		if !ok {
			return values
		}
		next = current + operand
	case ResourceOpReset:
		next = res.InitialValue(state)
	default:
		return values
	}
	next = res.Clamp(state, next)

	if hasCurrent && next == current {
		return values
	}
	out := cloneFloatMap(values)
	out[res.ID] = next
	return out
}

func updateOperand(state *State, update ResourceUpdate) (float64, bool) {
	if update.Value != nil {
		return *update.Value, true
	}
	if update.Formula == "" {
		return 0, false
	}
	v, err := formula.EvalNumberOrFormula(update.Formula, state.Scope(nil))
	if err != nil {
		return 0, false
	}
	return v, true
}

// ResetResources restores every resettable pool to its initial value:
// explicit definitions whose reset mode is not "none", plus the implicit HP
// and MP pools. The input map is never mutated; the same reference comes
// back when nothing changed.
func ResetResources(state *State, values map[string]float64) map[string]float64 {
	out := values
	mutated := false
	assign := func(id string, value float64) {
		if prev, ok := out[id]; ok && prev == value {
			return
		}
		if !mutated {
			out = cloneFloatMap(values)
			mutated = true
		}
		out[id] = value
	}

	for _, res := range state.Resources {
		if res.ResetMode == ResetNone {
			continue
		}
		assign(res.ID, res.Clamp(state, res.InitialValue(state)))
	}
	for _, id := range []string{ImplicitHPID, ImplicitMPID} {
		if _, explicit := state.FindResource(id); explicit {
			continue
		}
		if res, ok := ResolveResource(state, id); ok {
			assign(res.ID, res.Clamp(state, res.InitialValue(state)))
		}
	}
	return out
}
