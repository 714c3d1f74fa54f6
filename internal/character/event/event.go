// Package event defines the append-only character event journal model.
//
// Events are immutable facts. Each carries a type tag and a JSON payload; the
// reducer in the character package interprets payloads by tag. The journal is
// the sole source of truth for a character's history: state is never stored,
// always derived by replay.
package event

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type identifies the kind of a character event.
type Type string

// Experience and growth events.
const (
	// TypeExperienceGained records experience points earned.
	TypeExperienceGained Type = "EXPERIENCE_GAINED"
	// TypeExperienceSpent records experience points spent.
	TypeExperienceSpent Type = "EXPERIENCE_SPENT"
	// TypeStatGrown records an integer delta applied to a base stat.
	TypeStatGrown Type = "STAT_GROWN"
	// TypeStatUpdated records a base stat set from a formula.
	TypeStatUpdated Type = "STAT_UPDATED"
	// TypeStatLabelRegistered records a display label for an ad-hoc stat key.
	TypeStatLabelRegistered Type = "STAT_LABEL_REGISTERED"
)

// Resource events.
const (
	// TypeResourceDefined records an upsert of a resource definition.
	TypeResourceDefined Type = "RESOURCE_DEFINED"
	// TypeResourceUpdated records a persistent resource value change.
	TypeResourceUpdated Type = "RESOURCE_UPDATED"
	// TypeResourcesReset records a persistent bulk reset of resource values.
	TypeResourcesReset Type = "RESOURCES_RESET"
)

// Item events. Add/update payloads carry the full entity snapshot, not a
// delta; removal carries only the id.
const (
	// TypeItemAdded records an item entering the inventory.
	TypeItemAdded Type = "ITEM_ADDED"
	// TypeItemUpdated records an item snapshot replacement.
	TypeItemUpdated Type = "ITEM_UPDATED"
	// TypeItemRemoved records an item leaving the inventory.
	TypeItemRemoved Type = "ITEM_REMOVED"
	// TypeItemEquipped records an inventory item copied into an equipment slot.
	TypeItemEquipped Type = "ITEM_EQUIPPED"
	// TypeItemUnequipped records an item leaving its equipment slot.
	TypeItemUnequipped Type = "ITEM_UNEQUIPPED"
)

// Skill events.
const (
	// TypeSkillLearned records a skill acquisition.
	TypeSkillLearned Type = "SKILL_LEARNED"
	// TypeSkillUpdated records a skill snapshot replacement.
	TypeSkillUpdated Type = "SKILL_UPDATED"
	// TypeSkillForgotten records a skill removal.
	TypeSkillForgotten Type = "SKILL_FORGOTTEN"
	// TypeWishlistSkillAdded records a planned skill entering the wishlist.
	TypeWishlistSkillAdded Type = "WISHLIST_SKILL_ADDED"
	// TypeWishlistSkillRemoved records a planned skill leaving the wishlist.
	TypeWishlistSkillRemoved Type = "WISHLIST_SKILL_REMOVED"
)

// System events.
const (
	// TypeLogRevoked is a tombstone referencing a prior event id. The reducer
	// treats it as a no-op; FilterRevoked resolves tombstones before replay.
	TypeLogRevoked Type = "LOG_REVOKED"
)

// Event is one immutable entry in a character's journal.
type Event struct {
	// ID uniquely identifies the event.
	ID string `json:"id"`
	// Timestamp is the creation time in Unix milliseconds. It is an input to
	// reduction, never derived during it.
	Timestamp int64 `json:"timestamp"`
	// Type identifies the kind of event.
	Type Type `json:"type"`
	// Description is optional free text shown in history views.
	Description string `json:"description,omitempty"`
	// PayloadJSON holds the variant-specific data as JSON.
	PayloadJSON []byte `json:"payload,omitempty"`
}

// IsValid reports whether the event type tag is usable.
func (t Type) IsValid() bool {
	return strings.TrimSpace(string(t)) != ""
}

// New builds an event envelope of the given type with a fresh id and the
// current wall-clock timestamp.
func New(eventType Type, payloadJSON []byte, description string) Event {
	return Event{
		ID:          uuid.NewString(),
		Timestamp:   time.Now().UnixMilli(),
		Type:        eventType,
		Description: description,
		PayloadJSON: payloadJSON,
	}
}

// Known reports whether the type is one of the journal's event variants.
func Known(t Type) bool {
	switch t {
	case TypeExperienceGained, TypeExperienceSpent, TypeStatGrown,
		TypeStatUpdated, TypeStatLabelRegistered,
		TypeResourceDefined, TypeResourceUpdated, TypeResourcesReset,
		TypeItemAdded, TypeItemUpdated, TypeItemRemoved,
		TypeItemEquipped, TypeItemUnequipped,
		TypeSkillLearned, TypeSkillUpdated, TypeSkillForgotten,
		TypeWishlistSkillAdded, TypeWishlistSkillRemoved,
		TypeLogRevoked:
		return true
	}
	return false
}

// FilterRevoked resolves LOG_REVOKED tombstones into a filtered log: every
// event targeted by a tombstone is dropped, along with the tombstones
// themselves. The input slice is not modified.
func FilterRevoked(events []Event) []Event {
	revoked := make(map[string]bool)
	for _, evt := range events {
		if evt.Type != TypeLogRevoked {
			continue
		}
		var payload struct {
			TargetID string `json:"target_id"`
		}
		if err := unmarshalPayload(evt.PayloadJSON, &payload); err == nil && payload.TargetID != "" {
			revoked[payload.TargetID] = true
		}
	}
	if len(revoked) == 0 {
		return events
	}
	filtered := make([]Event, 0, len(events))
	for _, evt := range events {
		if evt.Type == TypeLogRevoked || revoked[evt.ID] {
			continue
		}
		filtered = append(filtered, evt)
	}
	return filtered
}
