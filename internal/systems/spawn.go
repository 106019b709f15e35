package systems

import (
	"github.com/Kobrals/feeriequest-3d/internal/domain"
	"github.com/Kobrals/feeriequest-3d/pkg/bestiary"
	"github.com/Kobrals/feeriequest-3d/pkg/utils"
)

// NewMonster builds a monster of kind around (originX, originY). The caller
// assigns the id. Draws: x jitter, y jitter.
func NewMonster(src utils.Source, kind domain.MonsterKind, originX, originY float64, baseLevel int) domain.Monster {
	if baseLevel < 1 {
		baseLevel = 1
	}

	m := domain.Monster{
		Kind:  kind,
		Level: baseLevel,
		Pos: domain.Position{
			X: originX + utils.Uniform(src, -domain.SpawnJitter, domain.SpawnJitter),
			Y: originY + utils.Uniform(src, -domain.SpawnJitter, domain.SpawnJitter),
		},
	}

	switch kind {
	case domain.MonsterBoss:
		m.Name = bestiary.Boss(0).Name
		m.MaxHP = domain.BossHP
		m.LootTier = domain.BossLootTier
	default:
		m.Kind = domain.MonsterNormal
		m.Name = bestiary.ForLevel(baseLevel).Name
		m.MaxHP = domain.NormalBaseHP + domain.NormalHPByLevel*baseLevel
		m.LootTier = domain.NormalLootTier
	}
	m.HP = m.MaxHP
	return m
}
