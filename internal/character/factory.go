package character

import (
	"github.com/astmary-project/astmery/internal/character/event"
)

// Event constructors. Each builds a fully formed journal entry (fresh id,
// wall-clock timestamp, marshalled payload) ready to append; validation of
// the payload happens at the store boundary via ValidateEvent.

func newEvent(eventType event.Type, payload any, description string) (event.Event, error) {
	raw, err := event.MarshalPayload(payload)
	if err != nil {
		return event.Event{}, err
	}
	return event.New(eventType, raw, description), nil
}

// NewExperienceGainedEvent records earned experience points.
func NewExperienceGainedEvent(amount int, reason, description string) (event.Event, error) {
	return newEvent(event.TypeExperienceGained, ExperienceGainedPayload{
		Amount: amount,
		Reason: reason,
	}, description)
}

// NewExperienceSpentEvent records spent experience points.
func NewExperienceSpentEvent(amount int, category, description string) (event.Event, error) {
	return newEvent(event.TypeExperienceSpent, ExperienceSpentPayload{
		Amount:   amount,
		Category: category,
	}, description)
}

// NewStatGrownEvent records a delta applied to a base stat, optionally
// charging an experience cost.
func NewStatGrownEvent(key string, delta float64, cost int, description string) (event.Event, error) {
	return newEvent(event.TypeStatGrown, StatGrownPayload{
		Key:   key,
		Delta: delta,
		Cost:  cost,
	}, description)
}

// NewStatUpdatedEvent records a base stat set from a formula.
func NewStatUpdatedEvent(key, formulaText, description string) (event.Event, error) {
	return newEvent(event.TypeStatUpdated, StatUpdatedPayload{
		Key:     key,
		Formula: formulaText,
	}, description)
}

// NewStatLabelRegisteredEvent records a display label for an ad-hoc stat key.
func NewStatLabelRegisteredEvent(key, label string, isMain bool, description string) (event.Event, error) {
	return newEvent(event.TypeStatLabelRegistered, StatLabelRegisteredPayload{
		Key:    key,
		Label:  label,
		IsMain: isMain,
	}, description)
}

// NewResourceDefinedEvent records a resource definition upsert.
func NewResourceDefinedEvent(res Resource, description string) (event.Event, error) {
	return newEvent(event.TypeResourceDefined, ResourceDefinedPayload{Resource: res}, description)
}

// NewResourceUpdatedEvent records a persistent resource value change.
func NewResourceUpdatedEvent(update ResourceUpdate, description string) (event.Event, error) {
	return newEvent(event.TypeResourceUpdated, ResourceUpdatedPayload{Update: update}, description)
}

// NewResourcesResetEvent records a persistent bulk resource reset.
func NewResourcesResetEvent(description string) (event.Event, error) {
	return newEvent(event.TypeResourcesReset, ResourcesResetPayload{}, description)
}

// NewItemAddedEvent records an item entering the inventory.
func NewItemAddedEvent(item Item, source, description string) (event.Event, error) {
	return newEvent(event.TypeItemAdded, ItemAddedPayload{Item: item, Source: source}, description)
}

// NewItemUpdatedEvent records an item snapshot replacement.
func NewItemUpdatedEvent(item Item, description string) (event.Event, error) {
	return newEvent(event.TypeItemUpdated, ItemUpdatedPayload{ItemID: item.ID, Item: item}, description)
}

// NewItemRemovedEvent records an item leaving the inventory.
func NewItemRemovedEvent(itemID, description string) (event.Event, error) {
	return newEvent(event.TypeItemRemoved, ItemRemovedPayload{ItemID: itemID}, description)
}

// NewItemEquippedEvent records an inventory item entering an equipment slot.
func NewItemEquippedEvent(itemID, slot, description string) (event.Event, error) {
	return newEvent(event.TypeItemEquipped, ItemEquippedPayload{ItemID: itemID, Slot: slot}, description)
}

// NewItemUnequippedEvent records an item leaving its equipment slot.
func NewItemUnequippedEvent(itemID, description string) (event.Event, error) {
	return newEvent(event.TypeItemUnequipped, ItemUnequippedPayload{ItemID: itemID}, description)
}

// NewSkillLearnedEvent records a skill acquisition, optionally charging an
// experience cost.
func NewSkillLearnedEvent(skill Skill, cost int, description string) (event.Event, error) {
	return newEvent(event.TypeSkillLearned, SkillLearnedPayload{Skill: skill, Cost: cost}, description)
}

// NewSkillUpdatedEvent records a skill snapshot replacement.
func NewSkillUpdatedEvent(skill Skill, description string) (event.Event, error) {
	return newEvent(event.TypeSkillUpdated, SkillUpdatedPayload{SkillID: skill.ID, Skill: skill}, description)
}

// NewSkillForgottenEvent records a skill removal.
func NewSkillForgottenEvent(skillID, description string) (event.Event, error) {
	return newEvent(event.TypeSkillForgotten, SkillForgottenPayload{SkillID: skillID}, description)
}

// NewWishlistSkillAddedEvent records a planned skill entering the wishlist.
func NewWishlistSkillAddedEvent(skill Skill, description string) (event.Event, error) {
	return newEvent(event.TypeWishlistSkillAdded, WishlistSkillAddedPayload{Skill: skill}, description)
}

// NewWishlistSkillRemovedEvent records a planned skill leaving the wishlist.
func NewWishlistSkillRemovedEvent(skillID, description string) (event.Event, error) {
	return newEvent(event.TypeWishlistSkillRemoved, WishlistSkillRemovedPayload{SkillID: skillID}, description)
}

// NewLogRevokedEvent records a tombstone against a prior event.
func NewLogRevokedEvent(targetID, reason, description string) (event.Event, error) {
	return newEvent(event.TypeLogRevoked, LogRevokedPayload{TargetID: targetID, Reason: reason}, description)
}
