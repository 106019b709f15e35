package engine

import (
	"context"
	"errors"
	"time"

	"github.com/Kobrals/feeriequest-3d/internal/domain"
	"github.com/Kobrals/feeriequest-3d/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ErrStopped is returned to callers once the game loop has exited.
var ErrStopped = errors.New("game service stopped")

// Relay delivers events to connected sessions.
type Relay interface {
	Publish(evt domain.Event)
}

// Snapshot is a consistent view of the live world.
type Snapshot struct {
	Participants []domain.Participant `json:"players"`
	Monsters     []domain.Monster     `json:"monsters"`
	TakenAt      time.Time            `json:"takenAt"`
}

// GameService is the single owner of presence and encounter state. Every
// mutation runs on the Run goroutine: client commands, wander ticks and
// replenishment ticks are serialised there.
type GameService struct {
	cfg       Config
	presence  *Presence
	encounter *Encounter
	relay     Relay
	persist   Persistence

	commands chan domain.InternalCommand
	inspects chan chan Snapshot
	done     chan struct{}
	seeded   bool
}

func NewService(cfg Config, relay Relay, persist Persistence) *GameService {
	if cfg.CommandBuffer < 1 {
		cfg.CommandBuffer = 1
	}
	return &GameService{
		cfg:       cfg,
		presence:  NewPresence(),
		encounter: NewEncounter(cfg.source()),
		relay:     relay,
		persist:   persist,
		commands:  make(chan domain.InternalCommand, cfg.CommandBuffer),
		inspects:  make(chan chan Snapshot),
		done:      make(chan struct{}),
	}
}

// Submit queues a command for the loop. It blocks while the queue is full.
func (s *GameService) Submit(ctx context.Context, cmd domain.InternalCommand) error {
	select {
	case <-s.done:
		return ErrStopped
	default:
	}
	select {
	case s.commands <- cmd:
		return nil
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Inspect returns a snapshot taken on the loop after every command submitted
// before the call has been applied.
func (s *GameService) Inspect(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	select {
	case s.inspects <- reply:
	case <-s.done:
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Done is closed after Run has returned and the shutdown saves were queued.
func (s *GameService) Done() <-chan struct{} {
	return s.done
}

// Run is the game loop. It returns when ctx is cancelled, after queueing a
// save for every account still attached.
func (s *GameService) Run(ctx context.Context) error {
	log := logger.Component("game_service")
	defer close(s.done)

	s.seed()
	log.WithFields(logrus.Fields{
		"monsters": s.encounter.Count(domain.MonsterNormal),
		"bosses":   s.encounter.Count(domain.MonsterBoss),
	}).Info("Game loop started.")

	wander, stopWander := tick(s.cfg.WanderInterval)
	defer stopWander()
	respawn, stopRespawn := tick(s.cfg.RespawnInterval)
	defer stopRespawn()

	for {
		select {
		case <-ctx.Done():
			s.drain()
			s.shutdown()
			log.Info("Game loop stopped.")
			return nil

		case cmd := <-s.commands:
			s.execute(cmd)

		case reply := <-s.inspects:
			s.drain()
			reply <- s.snapshot()

		case <-wander:
			s.publish(s.encounter.Wander())

		case <-respawn:
			s.replenish()
		}
	}
}

func (s *GameService) seed() {
	if s.seeded {
		return
	}
	s.seeded = true
	s.publish(s.encounter.Populate(s.cfg.MonsterCount, s.cfg.BossCount))
}

// replenish tops the normal population back up, one monster per tick.
func (s *GameService) replenish() {
	n := s.encounter.Count(domain.MonsterNormal)
	if n >= s.cfg.MonsterCount {
		return
	}
	m := s.encounter.Spawn(domain.MonsterNormal, 0, 0, n%3+1)
	s.publish([]domain.Event{domain.NewBroadcast(domain.EventMonsterSpawned, m)})
}

// drain applies every command already queued.
func (s *GameService) drain() {
	for {
		select {
		case cmd := <-s.commands:
			s.execute(cmd)
		default:
			return
		}
	}
}

func (s *GameService) shutdown() {
	saved := 0
	for _, p := range s.presence.Snapshot() {
		if p.IsGuest() {
			continue
		}
		if s.save(&p, SaveOnShutdown, nil) {
			saved++
		}
	}
	logger.Component("game_service").
		WithField("profiles", saved).
		Info("Shutdown saves queued.")
}

func (s *GameService) snapshot() Snapshot {
	return Snapshot{
		Participants: s.presence.Snapshot(),
		Monsters:     s.encounter.Snapshot(),
		TakenAt:      time.Now(),
	}
}

func (s *GameService) publish(events []domain.Event) {
	for _, evt := range events {
		s.relay.Publish(evt)
	}
}

// save queues the durable profile of p. Guests are never saved.
func (s *GameService) save(p *domain.Participant, reason SaveReason, done func(error)) bool {
	if p.IsGuest() || s.persist == nil {
		return false
	}
	return s.persist.Enqueue(SaveJob{
		Account: p.AccountID,
		Session: p.SessionID,
		Reason:  reason,
		Patch:   p.DurableProfile(),
		Done:    done,
	})
}

func tick(d time.Duration) (<-chan time.Time, func()) {
	if d <= 0 {
		return nil, func() {}
	}
	t := time.NewTicker(d)
	return t.C, t.Stop
}
