package character

import (
	"sort"

	"github.com/astmary-project/astmery/internal/character/event"
)

// Calculate replays a character journal into its current state. The same
// journal, base stats and tags always produce the same state.
//
// Replay runs in three phases. Tombstones are resolved and events sorted by
// timestamp. The fold then accumulates every structural event, with resource
// value events set aside: their bounds and initial values reference derived
// stats that do not exist until the bonus pass has run. After ApplyBonuses
// the queued value events are applied in their original order.
func Calculate(events []event.Event, baseStats map[string]float64, initialTags []string) (State, error) {
	live := event.FilterRevoked(events)
	sorted := make([]event.Event, len(live))
	copy(sorted, live)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	state := NewState(baseStats, initialTags)
	var valueEvents []event.Event
	for _, evt := range sorted {
		switch evt.Type {
		case event.TypeResourceUpdated, event.TypeResourcesReset:
			valueEvents = append(valueEvents, evt)
		default:
			if err := Fold(&state, evt); err != nil {
				return State{}, err
			}
		}
	}

	ApplyBonuses(&state)

	for _, evt := range valueEvents {
		switch evt.Type {
		case event.TypeResourceUpdated:
			var p ResourceUpdatedPayload
			if err := decodePayload(evt, &p); err != nil {
				return State{}, err
			}
			state.ResourceValues = ApplyResourceUpdate(&state, state.ResourceValues, p.Update)
		case event.TypeResourcesReset:
			state.ResourceValues = ResetResources(&state, state.ResourceValues)
		}
	}

	return state, nil
}
