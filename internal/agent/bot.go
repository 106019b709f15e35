package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Kobrals/feeriequest-3d/internal/domain"
	"github.com/Kobrals/feeriequest-3d/pkg/api"
	"github.com/Kobrals/feeriequest-3d/pkg/logger"
	"github.com/Kobrals/feeriequest-3d/pkg/utils"

	"github.com/sirupsen/logrus"
)

// Commander accepts engine commands. *engine.GameService implements it.
type Commander interface {
	Submit(ctx context.Context, cmd domain.InternalCommand) error
}

// Subscriber hands out per-session event channels. *network.Broadcaster
// implements it.
type Subscriber interface {
	Register(id domain.SessionID) chan api.ServerMessage
	Unregister(id domain.SessionID)
}

// Settings tune how a bot plays.
type Settings struct {
	Interval time.Duration // one decision per tick
	Reach    float64       // attacks only land in range
	Step     float64       // max distance walked per tick
	Damage   float64       // proposed damage per hit
}

func DefaultSettings() Settings {
	return Settings{
		Interval: 700 * time.Millisecond,
		Reach:    6,
		Step:     4,
		Damage:   18,
	}
}

// Bot is an in-process guest that hunts the nearest monster. It sees the
// world only through the events a WebSocket client would receive and acts
// only through engine commands, the same way a remote player does.
type Bot struct {
	Session domain.SessionID
	Name    string

	game     Commander
	hub      Subscriber
	settings Settings
	inbox    chan api.ServerMessage

	joined   bool
	pos      domain.Position
	monsters map[domain.MonsterID]domain.Monster
	log      *logrus.Entry
}

func NewBot(name string, game Commander, hub Subscriber, settings Settings) *Bot {
	session := domain.SessionID("bot-" + utils.GenerateID())
	return &Bot{
		Session:  session,
		Name:     name,
		game:     game,
		hub:      hub,
		settings: settings,
		inbox:    hub.Register(session),
		monsters: make(map[domain.MonsterID]domain.Monster),
		log: logger.Component("agent").WithFields(logrus.Fields{
			"session_id": session,
			"bot":        name,
		}),
	}
}

// Run joins as a guest and plays until ctx is cancelled or the engine stops.
func (b *Bot) Run(ctx context.Context) {
	defer b.leave()

	join := domain.InternalCommand{Action: domain.ActionAttach, Session: b.Session, DisplayName: b.Name}
	if err := b.game.Submit(ctx, join); err != nil {
		b.log.WithError(err).Warn("Bot could not join.")
		return
	}

	interval := b.settings.Interval
	if interval <= 0 {
		interval = DefaultSettings().Interval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-b.inbox:
			if !ok {
				return
			}
			b.observe(msg)
		case <-ticker.C:
			if err := b.act(ctx); err != nil {
				b.log.WithError(err).Debug("Bot stopped acting.")
				return
			}
		}
	}
}

func (b *Bot) leave() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := b.game.Submit(ctx, domain.InternalCommand{Action: domain.ActionDetach, Session: b.Session}); err != nil {
		b.log.WithError(err).Debug("Detach not delivered.")
	}
	b.hub.Unregister(b.Session)
	b.log.Info("Bot left.")
}

// observe keeps the bot's local picture of the world in sync.
func (b *Bot) observe(msg api.ServerMessage) {
	switch p := msg.Payload.(type) {
	case domain.AuthenticatedPayload:
		b.joined = true
		b.pos = p.Participant.Pos
		b.log.Info("Bot joined.")
	case domain.FullStatePayload:
		b.replaceMonsters(p.Monsters)
	case []domain.Monster:
		b.replaceMonsters(p)
	case domain.Monster:
		b.monsters[p.ID] = p
	case domain.MonsterDamagedPayload:
		if m, ok := b.monsters[p.MonsterID]; ok {
			m.HP = p.HP
			b.monsters[p.MonsterID] = m
		}
	case domain.MonsterKilledPayload:
		delete(b.monsters, p.MonsterID)
	case domain.DiedPayload:
		b.pos = domain.Position{X: p.X, Y: p.Y}
	case domain.RejectedPayload:
		b.log.WithField("action", p.Action).Warn("Bot command rejected: " + p.Error)
	}
}

func (b *Bot) replaceMonsters(list []domain.Monster) {
	clear(b.monsters)
	for _, m := range list {
		b.monsters[m.ID] = m
	}
}

// nearest returns the closest known monster, lowest id on ties.
func (b *Bot) nearest() (domain.Monster, bool) {
	ids := make([]domain.MonsterID, 0, len(b.monsters))
	for id := range b.monsters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var (
		best  domain.Monster
		found bool
		dist  = math.Inf(1)
	)
	for _, id := range ids {
		m := b.monsters[id]
		if d := b.pos.PlanarDistanceTo(m.Pos); d < dist {
			best, dist, found = m, d, true
		}
	}
	return best, found
}

// act walks toward the nearest monster or hits it when in reach.
func (b *Bot) act(ctx context.Context) error {
	if !b.joined {
		return nil
	}
	target, ok := b.nearest()
	if !ok {
		return nil
	}

	dist := b.pos.PlanarDistanceTo(target.Pos)
	if dist <= b.settings.Reach {
		return b.send(ctx, domain.ActionAttack, api.AttackPayload{
			MonsterID: uint64(target.ID),
			Damage:    b.settings.Damage,
		})
	}

	dx, dy := target.Pos.X-b.pos.X, target.Pos.Y-b.pos.Y
	ratio := math.Min(1, b.settings.Step/dist)
	b.pos = b.pos.Shift(dx*ratio, dy*ratio)
	return b.send(ctx, domain.ActionMove, api.MovePayload{
		X:         b.pos.X,
		Y:         b.pos.Y,
		Z:         b.pos.Z,
		RotationY: math.Atan2(dx, dy),
	})
}

func (b *Bot) send(ctx context.Context, action domain.ActionType, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", action, err)
	}
	return b.game.Submit(ctx, domain.InternalCommand{Action: action, Session: b.Session, Payload: raw})
}
