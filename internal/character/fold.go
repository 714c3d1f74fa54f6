package character

import (
	"encoding/json"
	"fmt"

	"github.com/astmary-project/astmery/internal/character/event"
	"github.com/astmary-project/astmery/internal/character/formula"
	"github.com/astmary-project/astmery/internal/character/stat"
)

// Fold applies one journal event to the state in place. Events referencing
// ids that no longer resolve (an unequip for an item never equipped, a forget
// for an unknown skill) are silent no-ops so that replay stays total over any
// historical journal.
//
// RESOURCE_UPDATED, RESOURCES_RESET and LOG_REVOKED are no-ops here: resource
// value events need the bonus pass to have run (their bounds reference derived
// stats) and are replayed by Calculate after it; tombstones are resolved
// before replay by event.FilterRevoked.
func Fold(state *State, evt event.Event) error {
	switch evt.Type {
	case event.TypeExperienceGained:
		var p ExperienceGainedPayload
		if err := decodePayload(evt, &p); err != nil {
			return err
		}
		state.Exp.Total += p.Amount

	case event.TypeExperienceSpent:
		var p ExperienceSpentPayload
		if err := decodePayload(evt, &p); err != nil {
			return err
		}
		state.Exp.Used += p.Amount

	case event.TypeStatGrown:
		var p StatGrownPayload
		if err := decodePayload(evt, &p); err != nil {
			return err
		}
		key := stat.Canonical(p.Key)
		state.Stats[key] += p.Delta
		state.Exp.Used += p.Cost

	case event.TypeStatUpdated:
		var p StatUpdatedPayload
		if err := decodePayload(evt, &p); err != nil {
			return err
		}
		// The formula sees the state as accumulated so far, not the final
		// state; replay order is meaningful. A formula that fails to
		// evaluate still assigns its zero result.
		value, err := formula.EvalNumberOrFormula(p.Formula, state.Scope(nil))
		if err != nil {
			value = 0
		}
		state.Stats[stat.Canonical(p.Key)] = value

	case event.TypeStatLabelRegistered:
		var p StatLabelRegisteredPayload
		if err := decodePayload(evt, &p); err != nil {
			return err
		}
		state.CustomLabels[p.Key] = p.Label
		if p.IsMain && !containsString(state.CustomMainStats, p.Key) {
			state.CustomMainStats = append(state.CustomMainStats, p.Key)
		}

	case event.TypeResourceDefined:
		var p ResourceDefinedPayload
		if err := decodePayload(evt, &p); err != nil {
			return err
		}
		upsertResource(state, p.Resource)

	case event.TypeResourceUpdated, event.TypeResourcesReset, event.TypeLogRevoked:
		// Handled outside the fold.

	case event.TypeItemAdded:
		var p ItemAddedPayload
		if err := decodePayload(evt, &p); err != nil {
			return err
		}
		if idx := itemIndex(state.Inventory, p.Item.ID); idx >= 0 {
			state.Inventory[idx] = p.Item
		} else {
			state.Inventory = append(state.Inventory, p.Item)
		}

	case event.TypeItemUpdated:
		var p ItemUpdatedPayload
		if err := decodePayload(evt, &p); err != nil {
			return err
		}
		if idx := itemIndex(state.Inventory, p.ItemID); idx >= 0 {
			state.Inventory[idx] = p.Item
		}
		// The equipped copy tracks the new snapshot but keeps its slot.
		if idx := itemIndex(state.EquipmentSlots, p.ItemID); idx >= 0 {
			slot := state.EquipmentSlots[idx].Slot
			state.EquipmentSlots[idx] = p.Item
			state.EquipmentSlots[idx].Slot = slot
		}

	case event.TypeItemRemoved:
		var p ItemRemovedPayload
		if err := decodePayload(evt, &p); err != nil {
			return err
		}
		state.Inventory = removeItem(state.Inventory, p.ItemID)
		state.EquipmentSlots = removeItem(state.EquipmentSlots, p.ItemID)

	case event.TypeItemEquipped:
		var p ItemEquippedPayload
		if err := decodePayload(evt, &p); err != nil {
			return err
		}
		if itemIndex(state.EquipmentSlots, p.ItemID) >= 0 {
			return nil // already equipped
		}
		idx := itemIndex(state.Inventory, p.ItemID)
		if idx < 0 {
			return nil
		}
		equipped := state.Inventory[idx]
		if p.Slot != "" {
			equipped.Slot = p.Slot
		}
		state.EquipmentSlots = append(state.EquipmentSlots, equipped)

	case event.TypeItemUnequipped:
		var p ItemUnequippedPayload
		if err := decodePayload(evt, &p); err != nil {
			return err
		}
		state.EquipmentSlots = removeItem(state.EquipmentSlots, p.ItemID)

	case event.TypeSkillLearned:
		var p SkillLearnedPayload
		if err := decodePayload(evt, &p); err != nil {
			return err
		}
		if skillIndex(state.Skills, p.Skill.ID) < 0 {
			state.Skills = append(state.Skills, p.Skill)
		}
		state.SkillWishlist = removeSkill(state.SkillWishlist, p.Skill.ID)
		state.Exp.Used += p.Cost

	case event.TypeSkillUpdated:
		var p SkillUpdatedPayload
		if err := decodePayload(evt, &p); err != nil {
			return err
		}
		if idx := skillIndex(state.Skills, p.SkillID); idx >= 0 {
			state.Skills[idx] = p.Skill
		}

	case event.TypeSkillForgotten:
		var p SkillForgottenPayload
		if err := decodePayload(evt, &p); err != nil {
			return err
		}
		state.Skills = removeSkill(state.Skills, p.SkillID)

	case event.TypeWishlistSkillAdded:
		var p WishlistSkillAddedPayload
		if err := decodePayload(evt, &p); err != nil {
			return err
		}
		if skillIndex(state.SkillWishlist, p.Skill.ID) < 0 {
			state.SkillWishlist = append(state.SkillWishlist, p.Skill)
		}

	case event.TypeWishlistSkillRemoved:
		var p WishlistSkillRemovedPayload
		if err := decodePayload(evt, &p); err != nil {
			return err
		}
		state.SkillWishlist = removeSkill(state.SkillWishlist, p.SkillID)

	default:
		return fmt.Errorf("fold: unknown event type %q", evt.Type)
	}
	return nil
}

func decodePayload(evt event.Event, target any) error {
	if len(evt.PayloadJSON) == 0 {
		return fmt.Errorf("fold %s (%s): missing payload", evt.ID, evt.Type)
	}
	if err := json.Unmarshal(evt.PayloadJSON, target); err != nil {
		return fmt.Errorf("fold %s (%s): %w", evt.ID, evt.Type, err)
	}
	return nil
}

func upsertResource(state *State, res Resource) {
	for i := range state.Resources {
		if state.Resources[i].ID == res.ID {
			state.Resources[i] = res
			return
		}
	}
	state.Resources = append(state.Resources, res)
}

func itemIndex(items []Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func removeItem(items []Item, id string) []Item {
	out := items[:0:0]
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

func skillIndex(skills []Skill, id string) int {
	for i := range skills {
		if skills[i].ID == id {
			return i
		}
	}
	return -1
}

func removeSkill(skills []Skill, id string) []Skill {
	out := skills[:0:0]
	for _, skill := range skills {
		if skill.ID != id {
			out = append(out, skill)
		}
	}
	return out
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
