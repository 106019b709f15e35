package api

import (
	"errors"
	"math"
	"strings"
	"unicode/utf8"
)

// Validator is implemented by payloads that can check themselves.
type Validator interface {
	Validate() error
}

const (
	MinUsernameLen = 3
	MaxUsernameLen = 32
	MinPasswordLen = 4
	MaxPasswordLen = 72 // bcrypt input limit
	MaxProposedDmg = 1000
)

func (p AuthPayload) Validate() error {
	if strings.TrimSpace(p.Token) == "" {
		return errors.New("token is required")
	}
	return nil
}

func (p JoinGuestPayload) Validate() error {
	if utf8.RuneCountInString(p.Name) > MaxUsernameLen {
		return errors.New("name too long")
	}
	return nil
}

func (p MovePayload) Validate() error {
	for _, v := range []float64{p.X, p.Y, p.Z, p.RotationY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("coordinates must be finite")
		}
	}
	return nil
}

func (p AttackPayload) Validate() error {
	if p.MonsterID == 0 {
		return errors.New("monsterId is required")
	}
	// negative proposals are accepted, resolution floors every hit at 1
	if math.IsNaN(p.Damage) || math.IsInf(p.Damage, 0) || p.Damage > MaxProposedDmg {
		return errors.New("dmg out of range")
	}
	return nil
}

func (r CredentialsRequest) Validate() error {
	name := strings.TrimSpace(r.Username)
	if name == "" || r.Password == "" {
		return errors.New("username and password are required")
	}
	if n := utf8.RuneCountInString(name); n < MinUsernameLen || n > MaxUsernameLen {
		return errors.New("username must be 3 to 32 characters")
	}
	if len(r.Password) < MinPasswordLen || len(r.Password) > MaxPasswordLen {
		return errors.New("password must be 4 to 72 bytes")
	}
	return nil
}

// IsEmpty reports whether the request carries no profile field.
func (r SaveRequest) IsEmpty() bool {
	return r.X == nil && r.Y == nil && r.Z == nil && r.RotationY == nil &&
		r.Level == nil && r.Exp == nil && r.Gold == nil && r.HP == nil && r.MaxHP == nil &&
		r.Inventory == nil && r.Quests == nil
}

func (r SaveRequest) Validate() error {
	if r.IsEmpty() {
		return errors.New("no profile field supplied")
	}
	if r.Level != nil && *r.Level < 1 {
		return errors.New("level must be at least 1")
	}
	for _, v := range []*int{r.Exp, r.Gold, r.HP} {
		if v != nil && *v < 0 {
			return errors.New("exp, gold and hp must not be negative")
		}
	}
	if r.MaxHP != nil && *r.MaxHP < 1 {
		return errors.New("maxHp must be positive")
	}
	if r.HP != nil && r.MaxHP != nil && *r.HP > *r.MaxHP {
		return errors.New("hp exceeds maxHp")
	}
	if r.Inventory != nil {
		for _, it := range *r.Inventory {
			if strings.TrimSpace(it.Name) == "" || it.Tier < 1 {
				return errors.New("inventory items need a name and a tier")
			}
		}
	}
	return nil
}
