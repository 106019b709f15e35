package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Kobrals/feeriequest-3d/internal/domain"
	"github.com/Kobrals/feeriequest-3d/internal/systems"
)

// Presence is the registry of connected participants. It is owned by the
// GameService loop and is not safe for concurrent use. Operations return the
// events they produce, they never publish.
type Presence struct {
	participants map[domain.SessionID]*domain.Participant
}

func NewPresence() *Presence {
	return &Presence{participants: make(map[domain.SessionID]*domain.Participant)}
}

// Attach creates the live participant for a session. With an account the
// durable fields are hydrated from it, otherwise a guest is created.
func (r *Presence) Attach(id domain.SessionID, account *domain.AccountRecord, displayName string) (domain.Participant, []domain.Event, error) {
	if id == "" {
		return domain.Participant{}, nil, fmt.Errorf("%w: empty session id", domain.ErrValidation)
	}
	if _, ok := r.participants[id]; ok {
		return domain.Participant{}, nil, fmt.Errorf("%w: session %s already joined", domain.ErrConflict, id)
	}

	var p *domain.Participant
	if account != nil {
		p = hydrate(id, account)
	} else {
		p = newGuest(id, displayName)
	}
	r.participants[id] = p

	view := p.Clone()
	events := []domain.Event{
		domain.NewEvent(domain.EventAuthenticated, id, domain.AuthenticatedPayload{Participant: view}),
		domain.NewEvent(domain.EventParticipantJoined, id, view),
	}
	return view, events, nil
}

func newGuest(id domain.SessionID, name string) *domain.Participant {
	name = strings.TrimSpace(name)
	if name == "" {
		short := string(id)
		if len(short) > 4 {
			short = short[:4]
		}
		name = domain.GuestNamePrefix + short
	}
	return &domain.Participant{
		SessionID: id,
		Name:      name,
		Stats: domain.Stats{
			Level: domain.DefaultLevel,
			Gold:  domain.GuestStartGold,
			HP:    domain.DefaultHP,
			MaxHP: domain.DefaultHP,
		},
		Inventory: domain.Inventory{},
		Quests:    []domain.QuestProgress{},
	}
}

func hydrate(id domain.SessionID, acc *domain.AccountRecord) *domain.Participant {
	intOr := func(v *int, def int) int {
		if v == nil {
			return def
		}
		return *v
	}

	p := &domain.Participant{
		SessionID: id,
		AccountID: acc.ID,
		Name:      acc.Username,
		Stats: domain.Stats{
			Level: intOr(acc.Level, domain.DefaultLevel),
			Exp:   intOr(acc.Exp, 0),
			Gold:  intOr(acc.Gold, domain.DefaultGold),
			MaxHP: intOr(acc.MaxHP, domain.DefaultHP),
		},
		Inventory: acc.Inventory.Normalize(),
		Quests:    domain.CloneQuests(acc.Quests),
	}
	p.Stats.HP = intOr(acc.HP, p.Stats.MaxHP)
	if p.Stats.Level < 1 {
		p.Stats.Level = domain.DefaultLevel
	}
	if p.Stats.HP > p.Stats.MaxHP {
		p.Stats.HP = p.Stats.MaxHP
	}
	if acc.Pos != nil {
		p.Pos = *acc.Pos
	}
	if acc.RotationY != nil {
		p.RotationY = *acc.RotationY
	}
	return p
}

// Get returns a copy of the participant.
func (r *Presence) Get(id domain.SessionID) (domain.Participant, bool) {
	p, ok := r.participants[id]
	if !ok {
		return domain.Participant{}, false
	}
	return p.Clone(), true
}

// lookup hands out the live record to the encounter engine.
func (r *Presence) lookup(id domain.SessionID) *domain.Participant {
	return r.participants[id]
}

// UpdatePosition stores the reported position, last write wins.
func (r *Presence) UpdatePosition(id domain.SessionID, x, y, z, facing float64) ([]domain.Event, bool) {
	p, ok := r.participants[id]
	if !ok {
		return nil, false
	}
	res := systems.CalculateMove(p, x, y, z, facing)
	if !res.HasMoved {
		return nil, false
	}
	p.Pos = res.Pos
	p.RotationY = res.RotationY
	return []domain.Event{movedEvent(p)}, true
}

func movedEvent(p *domain.Participant) domain.Event {
	return domain.NewEvent(domain.EventParticipantMoved, p.SessionID, domain.ParticipantMovedPayload{
		SessionID: p.SessionID,
		X:         p.Pos.X,
		Y:         p.Pos.Y,
		Z:         p.Pos.Z,
		RotationY: p.RotationY,
	})
}

// Detach removes the participant. Detaching an unknown session is a no-op.
func (r *Presence) Detach(id domain.SessionID) (domain.Participant, []domain.Event, bool) {
	p, ok := r.participants[id]
	if !ok {
		return domain.Participant{}, nil, false
	}
	delete(r.participants, id)
	evt := domain.NewEvent(domain.EventParticipantLeft, id, domain.ParticipantLeftPayload{SessionID: id})
	return *p, []domain.Event{evt}, true
}

// Snapshot returns copies of every participant ordered by session id.
func (r *Presence) Snapshot() []domain.Participant {
	out := make([]domain.Participant, 0, len(r.participants))
	for _, p := range r.participants {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out
}

// Len is the number of attached participants.
func (r *Presence) Len() int {
	return len(r.participants)
}
