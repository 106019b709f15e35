package domain

// Stats are a participant's progression and resources.
type Stats struct {
	Level int `json:"level"`
	Exp   int `json:"exp"`
	Gold  int `json:"gold"`
	HP    int `json:"hp"`
	MaxHP int `json:"maxHp"`
}

// ExpToNext is the experience needed to leave the current level.
func (s *Stats) ExpToNext() int {
	return s.Level * ExpPerLevel
}

// TakeDamage subtracts amount and clamps at 0. Returns true if hp reached 0.
func (s *Stats) TakeDamage(amount int) bool {
	if amount < 0 {
		amount = 0
	}
	s.HP -= amount
	if s.HP <= 0 {
		s.HP = 0
		return true
	}
	return false
}

// Heal restores hp up to MaxHP.
func (s *Stats) Heal(amount int) {
	s.HP += amount
	if s.HP > s.MaxHP {
		s.HP = s.MaxHP
	}
}

// AddGold never lets the balance go negative.
func (s *Stats) AddGold(amount int) {
	s.Gold += amount
	if s.Gold < 0 {
		s.Gold = 0
	}
}

// LevelUp consumes experience while it covers the current threshold and
// returns every level reached, in order. Each level grants +10 max hp and a
// full heal.
func (s *Stats) LevelUp() []int {
	var reached []int
	for s.Exp >= s.ExpToNext() {
		s.Exp -= s.ExpToNext()
		s.Level++
		s.MaxHP += MaxHPPerLevel
		s.Heal(s.MaxHP - s.HP)
		reached = append(reached, s.Level)
	}
	return reached
}
