package domain

import "testing"

func TestStats_LevelUp(t *testing.T) {
	tests := []struct {
		name       string
		start      Stats
		wantLevels []int
		wantLevel  int
		wantExp    int
		wantMaxHP  int
	}{
		{"below threshold", Stats{Level: 1, Exp: 99, HP: 50, MaxHP: 100}, nil, 1, 99, 100},
		{"exact threshold", Stats{Level: 1, Exp: 100, HP: 50, MaxHP: 100}, []int{2}, 2, 0, 110},
		// 100 + 200 + 300 = 600 consumed, 50 left
		{"three levels at once", Stats{Level: 1, Exp: 650, HP: 1, MaxHP: 100}, []int{2, 3, 4}, 4, 50, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.start
			got := s.LevelUp()
			if len(got) != len(tt.wantLevels) {
				t.Fatalf("levels = %v, want %v", got, tt.wantLevels)
			}
			for i := range got {
				if got[i] != tt.wantLevels[i] {
					t.Errorf("levels[%d] = %d, want %d", i, got[i], tt.wantLevels[i])
				}
			}
			if s.Level != tt.wantLevel || s.Exp != tt.wantExp || s.MaxHP != tt.wantMaxHP {
				t.Errorf("stats = %+v", s)
			}
			if s.Exp >= s.ExpToNext() {
				t.Errorf("exp %d still covers threshold %d", s.Exp, s.ExpToNext())
			}
			if len(got) > 0 && s.HP != s.MaxHP {
				t.Errorf("hp = %d, want full heal to %d", s.HP, s.MaxHP)
			}
		})
	}
}

func TestStats_Heal(t *testing.T) {
	tests := []struct {
		name   string
		hp     int
		amount int
		want   int
	}{
		{"partial", 40, 25, 65},
		{"capped at max", 90, 25, 100},
		{"zero", 40, 0, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Stats{HP: tt.hp, MaxHP: 100}
			s.Heal(tt.amount)
			if s.HP != tt.want {
				t.Errorf("hp = %d, want %d", s.HP, tt.want)
			}
		})
	}

	// a wounded participant is fully healed by a level gain
	s := Stats{Level: 1, Exp: 100, HP: 12, MaxHP: 100}
	s.LevelUp()
	if s.HP != 110 || s.MaxHP != 110 {
		t.Errorf("after level up hp/maxHp = %d/%d, want 110/110", s.HP, s.MaxHP)
	}
}

func TestStats_TakeDamage(t *testing.T) {
	s := Stats{HP: 10, MaxHP: 100}
	if died := s.TakeDamage(4); died || s.HP != 6 {
		t.Fatalf("after 4 dmg: died=%v hp=%d", died, s.HP)
	}
	if died := s.TakeDamage(50); !died || s.HP != 0 {
		t.Fatalf("after 50 dmg: died=%v hp=%d", died, s.HP)
	}
}

func TestMonster_TakeDamage(t *testing.T) {
	m := Monster{HP: 10, MaxHP: 75}
	if !m.TakeDamage(10) || m.HP != 0 {
		t.Errorf("exact kill: hp=%d", m.HP)
	}
	m = Monster{HP: 75, MaxHP: 75}
	if m.TakeDamage(-5); m.HP != 75 {
		t.Errorf("hp above max after negative damage: %d", m.HP)
	}
}

func TestParticipant_DurableProfile(t *testing.T) {
	p := Participant{
		SessionID: "s1",
		AccountID: "a1",
		Pos:       Position{X: 1, Y: 2, Z: 3},
		Stats:     Stats{Level: 2, Exp: 5, Gold: 7, HP: 80, MaxHP: 110},
		Inventory: Inventory{{Name: "Bone", Tier: 1, Qty: 1}},
	}
	patch := p.DurableProfile()
	if patch.IsEmpty() {
		t.Fatal("durable profile is empty")
	}
	if len(patch.Fields()) != 9 {
		t.Errorf("Fields() = %v", patch.Fields())
	}

	p.Inventory[0].Qty = 50
	if (*patch.Inventory)[0].Qty != 1 {
		t.Error("patch shares inventory with participant")
	}

	var rec AccountRecord
	patch.Apply(&rec)
	if rec.Gold == nil || *rec.Gold != 7 || rec.Pos == nil || rec.Pos.Y != 2 {
		t.Errorf("Apply() = %+v", rec)
	}
	if !(ProfilePatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
}
