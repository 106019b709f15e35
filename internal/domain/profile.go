package domain

import "time"

// AccountRecord is what the profile store knows about an account. Durable
// fields are nil when they were never written.
type AccountRecord struct {
	ID        AccountID
	Username  string
	PassHash  string
	Pos       *Position
	RotationY *float64
	Inventory Inventory
	Quests    []QuestProgress
	Level     *int
	Exp       *int
	Gold      *int
	HP        *int
	MaxHP     *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfilePatch is a partial update of durable fields. Nil fields are left
// untouched by the store. Session data never appears here.
type ProfilePatch struct {
	Pos       *Position
	RotationY *float64
	Inventory *Inventory
	Quests    *[]QuestProgress
	Level     *int
	Exp       *int
	Gold      *int
	HP        *int
	MaxHP     *int
}

// IsEmpty reports whether the patch would change nothing.
func (p ProfilePatch) IsEmpty() bool {
	return p.Pos == nil && p.RotationY == nil && p.Inventory == nil && p.Quests == nil &&
		p.Level == nil && p.Exp == nil && p.Gold == nil && p.HP == nil && p.MaxHP == nil
}

// Fields lists the names of the populated fields, for logs.
func (p ProfilePatch) Fields() []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(p.Pos != nil, "position")
	add(p.RotationY != nil, "rotation")
	add(p.Inventory != nil, "inventory")
	add(p.Quests != nil, "quests")
	add(p.Level != nil, "level")
	add(p.Exp != nil, "exp")
	add(p.Gold != nil, "gold")
	add(p.HP != nil, "hp")
	add(p.MaxHP != nil, "maxHp")
	return out
}

// Apply writes the populated fields into rec, leaving the others untouched.
// It is the in-memory counterpart of the store's partial update.
func (p ProfilePatch) Apply(rec *AccountRecord) {
	if p.Pos != nil {
		pos := *p.Pos
		rec.Pos = &pos
	}
	if p.RotationY != nil {
		v := *p.RotationY
		rec.RotationY = &v
	}
	if p.Inventory != nil {
		rec.Inventory = p.Inventory.Clone()
	}
	if p.Quests != nil {
		rec.Quests = CloneQuests(*p.Quests)
	}
	setInt := func(dst **int, src *int) {
		if src != nil {
			v := *src
			*dst = &v
		}
	}
	setInt(&rec.Level, p.Level)
	setInt(&rec.Exp, p.Exp)
	setInt(&rec.Gold, p.Gold)
	setInt(&rec.HP, p.HP)
	setInt(&rec.MaxHP, p.MaxHP)
}
