package engine

import (
	"sort"

	"github.com/Kobrals/feeriequest-3d/internal/domain"
	"github.com/Kobrals/feeriequest-3d/internal/systems"
	"github.com/Kobrals/feeriequest-3d/pkg/logger"
	"github.com/Kobrals/feeriequest-3d/pkg/utils"
)

// Encounter owns the live monsters and resolves combat against them. Like
// Presence it belongs to the GameService loop.
type Encounter struct {
	src      utils.Source
	monsters map[domain.MonsterID]*domain.Monster
	lastID   domain.MonsterID
}

func NewEncounter(src utils.Source) *Encounter {
	return &Encounter{
		src:      src,
		monsters: make(map[domain.MonsterID]*domain.Monster),
	}
}

// Spawn creates a monster around the origin and registers it under a fresh id.
func (e *Encounter) Spawn(kind domain.MonsterKind, originX, originY float64, baseLevel int) domain.Monster {
	m := systems.NewMonster(e.src, kind, originX, originY, baseLevel)
	e.lastID++
	m.ID = e.lastID
	e.monsters[m.ID] = &m
	return m
}

// Populate spawns the start-up population: normals around (0,0) with levels
// cycling 1..3 and bosses around (60,60) at level 5.
func (e *Encounter) Populate(normals, bosses int) []domain.Event {
	events := make([]domain.Event, 0, normals+bosses)
	for i := 0; i < normals; i++ {
		m := e.Spawn(domain.MonsterNormal, 0, 0, i%3+1)
		events = append(events, domain.NewBroadcast(domain.EventMonsterSpawned, m))
	}
	for i := 0; i < bosses; i++ {
		m := e.Spawn(domain.MonsterBoss, 60, 60, 5)
		events = append(events, domain.NewBroadcast(domain.EventMonsterSpawned, m))
	}
	return events
}

// Wander moves every live monster and returns the batch update. Nothing is
// returned when there are no monsters.
func (e *Encounter) Wander() []domain.Event {
	if len(e.monsters) == 0 {
		return nil
	}
	systems.Wander(e.src, e.ordered())
	return []domain.Event{domain.NewBroadcast(domain.EventMonstersBatch, e.Snapshot())}
}

// ResolveAttack applies an attack by p. It is a no-op returning false when
// the monster is absent, which covers a second attack on a monster that
// already died.
func (e *Encounter) ResolveAttack(p *domain.Participant, id domain.MonsterID, proposed float64) (systems.AttackOutcome, []domain.Event, bool) {
	m, ok := e.monsters[id]
	if !ok || p == nil {
		logger.Component("encounter").
			WithField("monster_id", id.String()).
			Debug("Attack ignored: target absent.")
		return systems.AttackOutcome{}, nil, false
	}

	out := systems.ResolveAttack(e.src, p, m, proposed)
	origin := p.SessionID

	var events []domain.Event
	if out.Killed {
		delete(e.monsters, id)
		events = append(events, domain.NewEvent(domain.EventMonsterKilled, origin, domain.MonsterKilledPayload{
			MonsterID: id,
			KillerID:  origin,
			Gold:      out.Reward.Gold,
			Exp:       out.Reward.Exp,
			Loot:      out.Reward.Loot,
		}))
		for _, lvl := range out.LevelsGained {
			events = append(events, domain.NewEvent(domain.EventLeveledUp, origin, domain.LeveledUpPayload{Level: lvl}))
		}
		return out, events, true
	}

	events = append(events, domain.NewEvent(domain.EventMonsterDamaged, origin, domain.MonsterDamagedPayload{
		MonsterID: id,
		HP:        out.MonsterHP,
	}))
	if out.Retaliated {
		hpAfterHit := p.Stats.HP
		if out.Died {
			hpAfterHit = 0
		}
		events = append(events, domain.NewEvent(domain.EventDamageTaken, origin, domain.DamageTakenPayload{
			Amount: out.Retaliation,
			HP:     hpAfterHit,
		}))
	}
	if out.Died {
		events = append(events,
			domain.NewEvent(domain.EventDied, origin, domain.DiedPayload{
				HP:   p.Stats.HP,
				X:    p.Pos.X,
				Y:    p.Pos.Y,
				Gold: p.Stats.Gold,
			}),
			movedEvent(p),
		)
	}
	return out, events, true
}

// Get returns a copy of the monster.
func (e *Encounter) Get(id domain.MonsterID) (domain.Monster, bool) {
	m, ok := e.monsters[id]
	if !ok {
		return domain.Monster{}, false
	}
	return *m, true
}

// Count returns the number of live monsters of kind.
func (e *Encounter) Count(kind domain.MonsterKind) int {
	n := 0
	for _, m := range e.monsters {
		if m.Kind == kind {
			n++
		}
	}
	return n
}

// Snapshot returns copies of every live monster ordered by id.
func (e *Encounter) Snapshot() []domain.Monster {
	ordered := e.ordered()
	out := make([]domain.Monster, len(ordered))
	for i, m := range ordered {
		out[i] = *m
	}
	return out
}

func (e *Encounter) ordered() []*domain.Monster {
	out := make([]*domain.Monster, 0, len(e.monsters))
	for _, m := range e.monsters {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
