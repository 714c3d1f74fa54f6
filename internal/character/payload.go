package character

import (
	"encoding/json"
	"fmt"

	"github.com/astmary-project/astmery/internal/character/event"
)

// Payload structs for every journal event variant. Item and skill payloads
// embed full entity snapshots rather than deltas; the reducer replaces
// wholesale and never merges.

// ExperienceGainedPayload captures the payload for EXPERIENCE_GAINED events.
type ExperienceGainedPayload struct {
	Amount int    `json:"amount"`
	Reason string `json:"reason,omitempty"`
}

// ExperienceSpentPayload captures the payload for EXPERIENCE_SPENT events.
type ExperienceSpentPayload struct {
	Amount   int    `json:"amount"`
	Category string `json:"category,omitempty"`
}

// StatGrownPayload captures the payload for STAT_GROWN events.
type StatGrownPayload struct {
	Key   string  `json:"key"`
	Delta float64 `json:"delta"`
	// Cost is the EXP spent on the growth, charged to the ledger when present.
	Cost int `json:"cost,omitempty"`
}

// StatUpdatedPayload captures the payload for STAT_UPDATED events. The
// formula is evaluated against the state as accumulated so far, not the
// final state.
type StatUpdatedPayload struct {
	Key     string `json:"key"`
	Formula string `json:"formula"`
}

// StatLabelRegisteredPayload captures the payload for STAT_LABEL_REGISTERED
// events.
type StatLabelRegisteredPayload struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	IsMain bool   `json:"is_main,omitempty"`
}

// ResourceDefinedPayload captures the payload for RESOURCE_DEFINED events.
type ResourceDefinedPayload struct {
	Resource Resource `json:"resource"`
}

// ResourceUpdatedPayload captures the payload for RESOURCE_UPDATED events.
type ResourceUpdatedPayload struct {
	Update ResourceUpdate `json:"update"`
}

// ResourcesResetPayload captures the payload for RESOURCES_RESET events.
type ResourcesResetPayload struct{}

// ItemAddedPayload captures the payload for ITEM_ADDED events.
type ItemAddedPayload struct {
	Item   Item   `json:"item"`
	Source string `json:"source,omitempty"`
}

// ItemUpdatedPayload captures the payload for ITEM_UPDATED events.
type ItemUpdatedPayload struct {
	ItemID string `json:"item_id"`
	Item   Item   `json:"item"`
}

// ItemRemovedPayload captures the payload for ITEM_REMOVED events.
type ItemRemovedPayload struct {
	ItemID string `json:"item_id"`
}

// ItemEquippedPayload captures the payload for ITEM_EQUIPPED events.
type ItemEquippedPayload struct {
	ItemID string `json:"item_id"`
	Slot   string `json:"slot,omitempty"`
}

// ItemUnequippedPayload captures the payload for ITEM_UNEQUIPPED events.
type ItemUnequippedPayload struct {
	ItemID string `json:"item_id"`
	Slot   string `json:"slot,omitempty"`
}

// SkillLearnedPayload captures the payload for SKILL_LEARNED events.
type SkillLearnedPayload struct {
	Skill Skill `json:"skill"`
	// Cost is the EXP charged for the acquisition when present.
	Cost int `json:"cost,omitempty"`
}

// SkillUpdatedPayload captures the payload for SKILL_UPDATED events.
type SkillUpdatedPayload struct {
	SkillID string `json:"skill_id"`
	Skill   Skill  `json:"skill"`
}

// SkillForgottenPayload captures the payload for SKILL_FORGOTTEN events.
type SkillForgottenPayload struct {
	SkillID string `json:"skill_id"`
}

// WishlistSkillAddedPayload captures the payload for WISHLIST_SKILL_ADDED
// events.
type WishlistSkillAddedPayload struct {
	Skill Skill `json:"skill"`
}

// WishlistSkillRemovedPayload captures the payload for
// WISHLIST_SKILL_REMOVED events.
type WishlistSkillRemovedPayload struct {
	SkillID string `json:"skill_id"`
}

// LogRevokedPayload captures the payload for LOG_REVOKED tombstones.
type LogRevokedPayload struct {
	TargetID string `json:"target_id"`
	Reason   string `json:"reason,omitempty"`
}

// ValidateEvent rejects events the reducer could not interpret: unknown type
// tags and payloads that fail to unmarshal or miss required fields. It runs
// at the system boundary (store append, journal load), so the fold never
// sees an event it cannot handle.
func ValidateEvent(evt event.Event) error {
	if !evt.Type.IsValid() {
		return fmt.Errorf("event %s: missing type", evt.ID)
	}
	if !event.Known(evt.Type) {
		return fmt.Errorf("event %s: unknown type %q", evt.ID, evt.Type)
	}
	decode := func(target any) error {
		if len(evt.PayloadJSON) == 0 {
			return fmt.Errorf("event %s (%s): missing payload", evt.ID, evt.Type)
		}
		if err := json.Unmarshal(evt.PayloadJSON, target); err != nil {
			return fmt.Errorf("event %s (%s): %w", evt.ID, evt.Type, err)
		}
		return nil
	}
	fail := func(field string) error {
		return fmt.Errorf("event %s (%s): %s is required", evt.ID, evt.Type, field)
	}

	switch evt.Type {
	case event.TypeExperienceGained:
		var payload ExperienceGainedPayload
		if err := decode(&payload); err != nil {
			return err
		}
		if payload.Amount < 0 {
			return fmt.Errorf("event %s (%s): amount must be non-negative", evt.ID, evt.Type)
		}
	case event.TypeExperienceSpent:
		var payload ExperienceSpentPayload
		if err := decode(&payload); err != nil {
			return err
		}
		if payload.Amount < 0 {
			return fmt.Errorf("event %s (%s): amount must be non-negative", evt.ID, evt.Type)
		}
	case event.TypeStatGrown:
		var payload StatGrownPayload
		if err := decode(&payload); err != nil {
			return err
		}
		if payload.Key == "" {
			return fail("key")
		}
	case event.TypeStatUpdated:
		var payload StatUpdatedPayload
		if err := decode(&payload); err != nil {
			return err
		}
		if payload.Key == "" {
			return fail("key")
		}
		if payload.Formula == "" {
			return fail("formula")
		}
	case event.TypeStatLabelRegistered:
		var payload StatLabelRegisteredPayload
		if err := decode(&payload); err != nil {
			return err
		}
		if payload.Key == "" {
			return fail("key")
		}
		if payload.Label == "" {
			return fail("label")
		}
	case event.TypeResourceDefined:
		var payload ResourceDefinedPayload
		if err := decode(&payload); err != nil {
			return err
		}
		if payload.Resource.ID == "" {
			return fail("resource.id")
		}
		if payload.Resource.Name == "" {
			return fail("resource.name")
		}
	case event.TypeResourceUpdated:
		var payload ResourceUpdatedPayload
		if err := decode(&payload); err != nil {
			return err
		}
		if payload.Update.ResourceID == "" {
			return fail("update.resource_id")
		}
		switch payload.Update.Op {
		case ResourceOpSet, ResourceOpModify, ResourceOpReset:
		default:
			return fmt.Errorf("event %s (%s): unknown op %q", evt.ID, evt.Type, payload.Update.Op)
		}
	case event.TypeResourcesReset:
		// No payload required.
	case event.TypeItemAdded:
		var payload ItemAddedPayload
		if err := decode(&payload); err != nil {
			return err
		}
		if payload.Item.ID == "" {
			return fail("item.id")
		}
	case event.TypeItemUpdated:
		var payload ItemUpdatedPayload
		if err := decode(&payload); err != nil {
			return err
		}
		if payload.ItemID == "" {
			return fail("item_id")
		}
		if payload.Item.ID == "" {
			return fail("item.id")
		}
	case event.TypeItemRemoved:
		var payload ItemRemovedPayload
		if err := decode(&payload); err != nil {
			return err
		}
		if payload.ItemID == "" {
			return fail("item_id")
		}
	case event.TypeItemEquipped:
		var payload ItemEquippedPayload
		if err := decode(&payload); err != nil {
			return err
		}
		if payload.ItemID == "" {
			return fail("item_id")
		}
	case event.TypeItemUnequipped:
		var payload ItemUnequippedPayload
		if err := decode(&payload); err != nil {
			return err
		}
		if payload.ItemID == "" {
			return fail("item_id")
		}
	case event.TypeSkillLearned:
		var payload SkillLearnedPayload
		if err := decode(&payload); err != nil {
			return err
		}
		if payload.Skill.ID == "" {
			return fail("skill.id")
		}
	case event.TypeSkillUpdated:
		var payload SkillUpdatedPayload
		if err := decode(&payload); err != nil {
			return err
		}
		if payload.SkillID == "" {
			return fail("skill_id")
		}
		if payload.Skill.ID == "" {
			return fail("skill.id")
		}
	case event.TypeSkillForgotten:
		var payload SkillForgottenPayload
		if err := decode(&payload); err != nil {
			return err
		}
		if payload.SkillID == "" {
			return fail("skill_id")
		}
	case event.TypeWishlistSkillAdded:
		var payload WishlistSkillAddedPayload
		if err := decode(&payload); err != nil {
			return err
		}
		if payload.Skill.ID == "" {
			return fail("skill.id")
		}
	case event.TypeWishlistSkillRemoved:
		var payload WishlistSkillRemovedPayload
		if err := decode(&payload); err != nil {
			return err
		}
		if payload.SkillID == "" {
			return fail("skill_id")
		}
	case event.TypeLogRevoked:
		var payload LogRevokedPayload
		if err := decode(&payload); err != nil {
			return err
		}
		if payload.TargetID == "" {
			return fail("target_id")
		}
	}
	return nil
}
