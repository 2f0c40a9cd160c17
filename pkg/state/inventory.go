package state

import "slices"

// Item identifies something the player can carry.
type Item string

const (
	ItemKeyCard          Item = "keyCard"
	ItemLabCode          Item = "labCode"
	ItemComputerPassword Item = "computerPassword"
	ItemVaultMap         Item = "vaultMap"
	ItemSymbolSequence   Item = "symbolSequence"
)

var itemNames = map[Item]string{
	ItemKeyCard:          "key card",
	ItemLabCode:          "lab code",
	ItemComputerPassword: "computer password",
	ItemVaultMap:         "vault map",
	ItemSymbolSequence:   "symbol sequence",
}

// DisplayName is the player-facing name of the item.
func (i Item) DisplayName() string {
	if name, ok := itemNames[i]; ok {
		return name
	}
	return string(i)
}

// Inventory is a grow-only set of items, kept in acquisition order.
type Inventory []Item

func (inv Inventory) Has(item Item) bool {
	return slices.Contains(inv, item)
}

// Add returns an inventory containing item. Items already held are not duplicated.
func (inv Inventory) Add(items ...Item) Inventory {
	out := inv.Clone()
	for _, item := range items {
		if !out.Has(item) {
			out = append(out, item)
		}
	}
	return out
}

func (inv Inventory) Clone() Inventory {
	if inv == nil {
		return Inventory{}
	}
	return slices.Clone(inv)
}

// Names returns the display names in acquisition order.
func (inv Inventory) Names() []string {
	names := make([]string, 0, len(inv))
	for _, item := range inv {
		names = append(names, item.DisplayName())
	}
	return names
}
