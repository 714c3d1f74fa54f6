// Package session implements the ephemeral per-room layer on top of a
// character state: chat events, rolls, and the resource values that change
// during play without being written to the character journal.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/astmary-project/astmery/internal/character"
)

// EventType identifies the kind of a session event.
type EventType string

const (
	// EventChat is a free-text message.
	EventChat EventType = "CHAT"
	// EventRoll records a dice roll and its outcome.
	EventRoll EventType = "ROLL"
	// EventUpdateResource changes one resource's current value.
	EventUpdateResource EventType = "UPDATE_RESOURCE"
	// EventResetResources restores every resettable resource.
	EventResetResources EventType = "RESET_RESOURCES"
)

// Event is one entry in a room's session log.
type Event struct {
	ID          string    `json:"id"`
	Timestamp   int64     `json:"timestamp"`
	Type        EventType `json:"type"`
	Description string    `json:"description,omitempty"`

	// Message carries the text of a CHAT event.
	Message string `json:"message,omitempty"`
	// Roll carries the outcome of a ROLL event.
	Roll *RollRecord `json:"roll,omitempty"`
	// ResourceUpdate carries the change of an UPDATE_RESOURCE event.
	ResourceUpdate *character.ResourceUpdate `json:"resource_update,omitempty"`
}

// RollRecord is the displayable outcome of a dice roll, embedded in the
// session log at creation time so replays never re-roll.
type RollRecord struct {
	Formula  string  `json:"formula"`
	Detail   string  `json:"detail"`
	Total    float64 `json:"total"`
	Critical bool    `json:"critical,omitempty"`
	Fumble   bool    `json:"fumble,omitempty"`
}

func newEvent(eventType EventType) Event {
	return Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UnixMilli(),
		Type:      eventType,
	}
}

// NewChat builds a chat event.
func NewChat(message string) Event {
	evt := newEvent(EventChat)
	evt.Message = message
	return evt
}

// NewRoll builds a roll event with its pre-computed outcome.
func NewRoll(record RollRecord, description string) Event {
	evt := newEvent(EventRoll)
	evt.Roll = &record
	evt.Description = description
	return evt
}

// NewResourceUpdate builds a single resource change event.
func NewResourceUpdate(update character.ResourceUpdate) Event {
	evt := newEvent(EventUpdateResource)
	evt.ResourceUpdate = &update
	evt.Description = "Update " + update.ResourceID
	return evt
}

// NewResetResources builds a bulk reset event.
func NewResetResources() Event {
	evt := newEvent(EventResetResources)
	evt.Description = "Reset all resources"
	return evt
}

// Apply folds one session event into a resource value map. Chat and roll
// events change nothing. The input map is never mutated, and the same
// reference comes back when no change occurred, so callers can use identity
// to skip re-rendering and persistence.
func Apply(values map[string]float64, evt Event, state *character.State) map[string]float64 {
	switch evt.Type {
	case EventUpdateResource:
		if evt.ResourceUpdate == nil {
			return values
		}
		return character.ApplyResourceUpdate(state, values, *evt.ResourceUpdate)
	case EventResetResources:
		return character.ResetResources(state, values)
	default:
		return values
	}
}
