package domain

// ItemType identifies an inventory item kind
type ItemType string

const (
	ItemWood    ItemType = "wood"
	ItemStone   ItemType = "stone"
	ItemAxe     ItemType = "axe"
	ItemPickaxe ItemType = "pickaxe"
)

// IsTool reports whether the item tracks durability instead of amount
func (t ItemType) IsTool() bool {
	return t == ItemAxe || t == ItemPickaxe
}

// InventoryItem is a single stack (resources) or a single tool.
// An item only exists while its amount or durability is positive; a stack
// that is fully consumed or a tool that breaks is deleted, never kept at zero.
type InventoryItem struct {
	ID         string   `json:"id"`
	PlayerID   string   `json:"player_id"`
	Type       ItemType `json:"type"`
	Amount     int      `json:"amount"`
	Durability int      `json:"durability"`
}
