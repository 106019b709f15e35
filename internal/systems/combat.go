package systems

import (
	"math"

	"github.com/Kobrals/feeriequest-3d/internal/domain"
	"github.com/Kobrals/feeriequest-3d/pkg/bestiary"
	"github.com/Kobrals/feeriequest-3d/pkg/logger"
	"github.com/Kobrals/feeriequest-3d/pkg/utils"

	"github.com/sirupsen/logrus"
)

// AttackOutcome describes everything one attack resolution changed.
// ResolveAttack has already applied it to the participant and the monster.
type AttackOutcome struct {
	Damage    int
	MonsterHP int
	Killed    bool

	// Set when Killed.
	Reward       Reward
	LevelsGained []int

	// Set when the monster survived and struck back.
	Retaliated  bool
	Retaliation int
	Died        bool
	GoldLost    int
}

// Reward is what a kill grants.
type Reward struct {
	Gold int
	Exp  int
	Loot *domain.Item
}

// FinalDamage computes max(1, floor(proposed + level*1.2 + uniform(-3,3))).
func FinalDamage(src utils.Source, proposed float64, level int) int {
	raw := proposed + float64(level)*domain.LevelDamageBonus +
		utils.Uniform(src, -domain.DamageJitter, domain.DamageJitter)
	if raw < 1 {
		return 1
	}
	return int(math.Floor(raw))
}

// ResolveAttack applies one attack by p on m. Random draws happen in a fixed
// order: damage jitter, then either the kill rolls (gold, loot roll, loot
// pick) or the retaliation rolls (chance, amount, respawn x, respawn y).
func ResolveAttack(src utils.Source, p *domain.Participant, m *domain.Monster, proposed float64) AttackOutcome {
	combatLogger := logger.Component("combat_system").WithFields(logrus.Fields{
		"session_id":  p.SessionID,
		"player_name": p.Name,
		"monster_id":  m.ID.String(),
		"monster":     m.Name,
	})

	hpBefore := m.HP
	out := AttackOutcome{Damage: FinalDamage(src, proposed, p.Stats.Level)}
	out.Killed = m.TakeDamage(out.Damage)
	out.MonsterHP = m.HP

	if out.Killed {
		out.Reward = RollReward(src, m)
		GrantReward(p, out.Reward)
		out.LevelsGained = p.Stats.LevelUp()
	} else {
		out.Retaliated, out.Retaliation = RollRetaliation(src, m)
		if out.Retaliated && p.Stats.TakeDamage(out.Retaliation) {
			out.Died = true
			out.GoldLost = ApplyDeath(src, p)
		}
	}

	combatLogger.WithFields(logrus.Fields{
		"proposed_damage": proposed,
		"final_damage":    out.Damage,
		"hp_before":       hpBefore,
		"hp_after":        out.MonsterHP,
		"target_died":     out.Killed,
		"retaliation":     out.Retaliation,
		"player_died":     out.Died,
	}).Info("Attack resolved.")

	return out
}

// RollRetaliation fires with probability RetaliationChance. The amount is
// only drawn when it fires.
func RollRetaliation(src utils.Source, m *domain.Monster) (bool, int) {
	if src.Float64() >= domain.RetaliationChance {
		return false, 0
	}
	raw := float64(m.Level)*domain.RetaliationByLevel + utils.Uniform(src, 0, domain.RetaliationJitter)
	dmg := int(math.Floor(raw))
	if dmg < 1 {
		dmg = 1
	}
	return true, dmg
}

// ApplyDeath resets a participant whose hp reached 0: hp to 60% of max,
// a random position in the respawn square (z = 0) and a 5% gold penalty.
// Returns the gold lost.
func ApplyDeath(src utils.Source, p *domain.Participant) int {
	p.Stats.HP = int(math.Floor(float64(p.Stats.MaxHP) * domain.RespawnHPRatio))
	p.Pos = domain.Position{
		X: utils.Uniform(src, -domain.RespawnRadius, domain.RespawnRadius),
		Y: utils.Uniform(src, -domain.RespawnRadius, domain.RespawnRadius),
	}
	lost := int(math.Floor(float64(p.Stats.Gold) * domain.DeathGoldPenalty))
	p.Stats.AddGold(-lost)
	return lost
}

// RollReward draws gold then the loot roll, and the loot name only when an
// item drops.
func RollReward(src utils.Source, m *domain.Monster) Reward {
	r := Reward{
		Gold: domain.BaseGoldReward + utils.UniformInt(src, 0, domain.GoldRewardJitter) + m.Level*domain.GoldByLevel,
		Exp:  domain.BaseExpReward + m.Level*domain.ExpByLevel,
	}

	roll := src.Float64()
	switch {
	case roll > domain.RareLootThreshold:
		tier := m.LootTier
		if tier < 2 {
			tier = 2
		}
		r.Loot = &domain.Item{Name: bestiary.Pick(src, bestiary.RareLoot), Tier: tier, Qty: 1}
	case roll > domain.LootThreshold:
		r.Loot = &domain.Item{Name: bestiary.Pick(src, bestiary.CommonLoot), Tier: 1, Qty: 1}
	}
	return r
}

// GrantReward adds gold, exp and loot. Levelling is a separate step.
func GrantReward(p *domain.Participant, r Reward) {
	p.Stats.AddGold(r.Gold)
	p.Stats.Exp += r.Exp
	if r.Loot != nil {
		p.Inventory.Add(*r.Loot)
	}
}

// KillPatch is the partial profile written after a kill. hp and maxHp are
// included only when levels were gained.
func KillPatch(p *domain.Participant, out AttackOutcome) domain.ProfilePatch {
	gold, exp, level := p.Stats.Gold, p.Stats.Exp, p.Stats.Level
	inv := p.Inventory.Clone()
	patch := domain.ProfilePatch{
		Gold:      &gold,
		Exp:       &exp,
		Level:     &level,
		Inventory: &inv,
	}
	if len(out.LevelsGained) > 0 {
		hp, maxHP := p.Stats.HP, p.Stats.MaxHP
		patch.HP = &hp
		patch.MaxHP = &maxHP
	}
	return patch
}
