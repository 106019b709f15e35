package domain

// Item is one inventory stack. Identity is the (Name, Tier) pair.
type Item struct {
	Name string `json:"name"`
	Tier int    `json:"tier"`
	Qty  int    `json:"qty"`
}

// Inventory is ordered by first acquisition and holds at most one entry per
// (Name, Tier).
type Inventory []Item

// Add merges item into the inventory. A matching (Name, Tier) entry has its
// quantity increased, otherwise the item is appended. Quantities below 1
// count as 1.
func (inv *Inventory) Add(item Item) {
	if item.Qty < 1 {
		item.Qty = 1
	}
	for i := range *inv {
		existing := &(*inv)[i]
		if existing.Name == item.Name && existing.Tier == item.Tier {
			existing.Qty += item.Qty
			return
		}
	}
	*inv = append(*inv, item)
}

// Quantity returns the stack size for (name, tier), 0 when absent.
func (inv Inventory) Quantity(name string, tier int) int {
	for _, it := range inv {
		if it.Name == name && it.Tier == tier {
			return it.Qty
		}
	}
	return 0
}

// Normalize folds duplicate (Name, Tier) entries together. Records loaded
// from storage or sent by clients go through it before use.
func (inv Inventory) Normalize() Inventory {
	out := make(Inventory, 0, len(inv))
	for _, it := range inv {
		out.Add(it)
	}
	return out
}

// Clone returns an independent copy.
func (inv Inventory) Clone() Inventory {
	if inv == nil {
		return Inventory{}
	}
	out := make(Inventory, len(inv))
	copy(out, inv)
	return out
}

// QuestProgress tracks one quest for a participant.
type QuestProgress struct {
	QuestID   string `json:"questId"`
	Progress  int    `json:"progress"`
	Completed bool   `json:"completed"`
}

// CloneQuests copies a quest slice, never returning nil.
func CloneQuests(quests []QuestProgress) []QuestProgress {
	out := make([]QuestProgress, len(quests))
	copy(out, quests)
	return out
}
