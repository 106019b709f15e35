package domain

// Participant is a connected player's live, authoritative state.
type Participant struct {
	SessionID SessionID       `json:"sessionId"`
	AccountID AccountID       `json:"accountId,omitempty"`
	Name      string          `json:"name"`
	Pos       Position        `json:"pos"`
	RotationY float64         `json:"rotationY"`
	Stats     Stats           `json:"stats"`
	Inventory Inventory       `json:"inventory"`
	Quests    []QuestProgress `json:"quests"`
}

// IsGuest reports whether the participant has no durable account.
func (p *Participant) IsGuest() bool {
	return p.AccountID.IsZero()
}

// Clone returns a deep copy safe to hand out of the engine.
func (p *Participant) Clone() Participant {
	c := *p
	c.Inventory = p.Inventory.Clone()
	c.Quests = CloneQuests(p.Quests)
	return c
}

// DurableProfile captures every field that survives the session.
func (p *Participant) DurableProfile() ProfilePatch {
	pos := p.Pos
	rot := p.RotationY
	inv := p.Inventory.Clone()
	quests := CloneQuests(p.Quests)
	level, exp, gold := p.Stats.Level, p.Stats.Exp, p.Stats.Gold
	hp, maxHP := p.Stats.HP, p.Stats.MaxHP
	return ProfilePatch{
		Pos:       &pos,
		RotationY: &rot,
		Inventory: &inv,
		Quests:    &quests,
		Level:     &level,
		Exp:       &exp,
		Gold:      &gold,
		HP:        &hp,
		MaxHP:     &maxHP,
	}
}

// MonsterKind determines base stat scale and loot ceiling.
type MonsterKind string

const (
	MonsterNormal MonsterKind = "normal"
	MonsterBoss   MonsterKind = "boss"
)

// Valid reports whether k is a known kind.
func (k MonsterKind) Valid() bool {
	return k == MonsterNormal || k == MonsterBoss
}

// Monster is a non-player combat target. It has no dead state: a monster
// whose hp reaches 0 is removed from the engine.
type Monster struct {
	ID       MonsterID   `json:"id"`
	Kind     MonsterKind `json:"kind"`
	Name     string      `json:"name"`
	Pos      Position    `json:"pos"`
	HP       int         `json:"hp"`
	MaxHP    int         `json:"maxHp"`
	Level    int         `json:"level"`
	LootTier int         `json:"lootTier"`
}

// TakeDamage applies amount and reports whether the monster died.
// hp is clamped into [0, MaxHP] afterwards.
func (m *Monster) TakeDamage(amount int) bool {
	m.HP -= amount
	died := m.HP <= 0
	if m.HP < 0 {
		m.HP = 0
	}
	if m.HP > m.MaxHP {
		m.HP = m.MaxHP
	}
	return died
}
