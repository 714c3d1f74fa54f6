package character

// ItemCategory discriminates inventory item kinds.
type ItemCategory string

const (
	// ItemConsumable marks stackable items consumed on use.
	ItemConsumable ItemCategory = "CONSUMABLE"
	// ItemEquipment marks items that occupy an equipment slot.
	ItemEquipment ItemCategory = "EQUIPMENT"
)

// Item is an owned inventory entry. Equipment carries passive mechanic
// variants and may embed item-borne passive skills (a cursed blade's curse
// travels with the blade, not the character).
type Item struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Category    ItemCategory `json:"category"`

	// Slot is the equipment slot this item occupies when equipped.
	Slot string `json:"slot,omitempty"`
	// Quantity applies to consumables only.
	Quantity int `json:"quantity,omitempty"`

	Variants       map[string]Variant `json:"variants,omitempty"`
	CurrentVariant string             `json:"current_variant,omitempty"`

	// PassiveSkills are applied by the bonus pass while the item is equipped.
	PassiveSkills []Skill `json:"passive_skills,omitempty"`

	// UseEffect is the active effect triggered by consuming the item.
	UseEffect *Variant `json:"use_effect,omitempty"`
}

// Current returns the variant in effect for this item.
func (i Item) Current() Variant {
	if variant, ok := i.Variants[i.CurrentVariant]; ok {
		return variant
	}
	if variant, ok := i.Variants[DefaultVariantKey]; ok {
		return variant
	}
	return Variant{}
}
