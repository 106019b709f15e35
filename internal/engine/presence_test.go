package engine

import (
	"errors"
	"testing"

	"github.com/Kobrals/feeriequest-3d/internal/domain"
)

func TestPresence_AttachGuest(t *testing.T) {
	r := NewPresence()
	p, events, err := r.Attach("s1", nil, "  ")
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if !p.IsGuest() {
		t.Error("guest has an account id")
	}
	if p.Stats.Gold != domain.GuestStartGold || p.Stats.HP != 100 || p.Stats.MaxHP != 100 || p.Stats.Level != 1 {
		t.Errorf("guest stats = %+v", p.Stats)
	}
	if p.Name != "Guest-s1" {
		t.Errorf("guest name = %q", p.Name)
	}
	if len(events) != 2 || events[0].Kind != domain.EventAuthenticated || events[1].Kind != domain.EventParticipantJoined {
		t.Fatalf("events = %+v", events)
	}
}

func TestPresence_AttachAccount(t *testing.T) {
	rot := 1.25
	acc := &domain.AccountRecord{
		ID:        "acc1",
		Username:  "alice",
		Pos:       &domain.Position{X: 3, Y: 4, Z: 1},
		RotationY: &rot,
		Level:     intPtr(4),
		Gold:      intPtr(12),
		Inventory: domain.Inventory{{Name: "Bone", Tier: 1, Qty: 1}, {Name: "Bone", Tier: 1, Qty: 2}},
	}

	tests := []struct {
		name     string
		acc      *domain.AccountRecord
		wantGold int
		wantHP   int
		wantLvl  int
	}{
		{"hydrated", acc, 12, 100, 4},
		{"fresh account defaults", &domain.AccountRecord{ID: "acc2", Username: "bob"}, 0, 100, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewPresence()
			p, _, err := r.Attach("s1", tt.acc, "")
			if err != nil {
				t.Fatalf("Attach: %v", err)
			}
			if p.IsGuest() || p.Name != tt.acc.Username {
				t.Errorf("participant = %+v", p)
			}
			if p.Stats.Gold != tt.wantGold || p.Stats.HP != tt.wantHP || p.Stats.Level != tt.wantLvl {
				t.Errorf("stats = %+v", p.Stats)
			}
		})
	}

	r := NewPresence()
	p, _, _ := r.Attach("s9", acc, "")
	if p.Pos.X != 3 || p.RotationY != 1.25 {
		t.Errorf("position not hydrated: %+v rot %v", p.Pos, p.RotationY)
	}
	if len(p.Inventory) != 1 || p.Inventory[0].Qty != 3 {
		t.Errorf("inventory not normalised: %+v", p.Inventory)
	}
}

func TestPresence_AttachTwice(t *testing.T) {
	r := NewPresence()
	if _, _, err := r.Attach("s1", nil, "a"); err != nil {
		t.Fatal(err)
	}
	_, events, err := r.Attach("s1", nil, "b")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if events != nil {
		t.Error("rejected attach produced events")
	}
	if p, _ := r.Get("s1"); p.Name != "a" {
		t.Errorf("first participant replaced: %q", p.Name)
	}
}

func TestPresence_MoveAndDetach(t *testing.T) {
	r := NewPresence()
	r.Attach("s1", nil, "a")

	events, ok := r.UpdatePosition("s1", 1, 2, 3, 0.5)
	if !ok || len(events) != 1 || events[0].Kind != domain.EventParticipantMoved {
		t.Fatalf("UpdatePosition events = %+v", events)
	}
	if _, ok := r.UpdatePosition("ghost", 1, 2, 3, 0); ok {
		t.Error("move for unknown session succeeded")
	}

	p, events, ok := r.Detach("s1")
	if !ok || p.Pos.Y != 2 || len(events) != 1 || events[0].Kind != domain.EventParticipantLeft {
		t.Fatalf("Detach = %+v %+v %v", p, events, ok)
	}
	if _, events, ok := r.Detach("s1"); ok || events != nil {
		t.Error("second Detach was not a no-op")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d", r.Len())
	}
}

func TestPresence_SnapshotIsCopy(t *testing.T) {
	r := NewPresence()
	r.Attach("b", nil, "b")
	r.Attach("a", nil, "a")

	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].SessionID != "a" {
		t.Fatalf("snapshot order = %+v", snap)
	}
	snap[0].Stats.Gold = 9999
	if p, _ := r.Get("a"); p.Stats.Gold == 9999 {
		t.Error("snapshot aliases live state")
	}
}
