package domain

// EventKind enumerates every outbound notification.
type EventKind uint8

const (
	EventUnknown EventKind = iota
	EventAuthenticated
	EventParticipantJoined
	EventParticipantLeft
	EventParticipantMoved
	EventFullState
	EventMonsterSpawned
	EventMonstersBatch
	EventMonsterDamaged
	EventMonsterKilled
	EventDamageTaken
	EventDied
	EventLeveledUp
	EventSaveAcknowledged
	EventRejected
)

// Domain -> wire type
var eventKindToString = map[EventKind]string{
	EventAuthenticated:     "AUTHENTICATED",
	EventParticipantJoined: "PLAYER_JOINED",
	EventParticipantLeft:   "PLAYER_LEFT",
	EventParticipantMoved:  "PLAYER_MOVED",
	EventFullState:         "STATE",
	EventMonsterSpawned:    "MONSTER_SPAWNED",
	EventMonstersBatch:     "MONSTERS_UPDATE",
	EventMonsterDamaged:    "MONSTER_DAMAGED",
	EventMonsterKilled:     "MONSTER_KILLED",
	EventDamageTaken:       "DAMAGED",
	EventDied:              "DIED",
	EventLeveledUp:         "LEVELED_UP",
	EventSaveAcknowledged:  "SAVE_RESULT",
	EventRejected:          "ERROR",
}

func (k EventKind) String() string {
	if val, ok := eventKindToString[k]; ok {
		return val
	}
	return "UNKNOWN"
}

// Audience is the addressing rule of an event.
type Audience uint8

const (
	AudienceNone Audience = iota
	AudienceAll
	AudienceOthers
	AudienceOrigin
)

// Audience returns who receives events of kind k.
func (k EventKind) Audience() Audience {
	switch k {
	case EventParticipantJoined, EventParticipantLeft,
		EventMonsterSpawned, EventMonsterDamaged, EventMonsterKilled, EventMonstersBatch:
		return AudienceAll
	case EventParticipantMoved:
		return AudienceOthers
	case EventAuthenticated, EventFullState, EventDamageTaken, EventDied,
		EventLeveledUp, EventSaveAcknowledged, EventRejected:
		return AudienceOrigin
	case EventUnknown:
		return AudienceNone
	}
	return AudienceNone
}

// Event is a state change produced by the presence registry or the encounter
// engine. Origin is the session that caused it (empty for timer events).
type Event struct {
	Kind    EventKind
	Origin  SessionID
	Payload any
}

// Payloads. Field names follow the browser client's expectations.

type AuthenticatedPayload struct {
	Participant Participant `json:"player"`
}

type ParticipantLeftPayload struct {
	SessionID SessionID `json:"sessionId"`
}

type ParticipantMovedPayload struct {
	SessionID SessionID `json:"sessionId"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Z         float64   `json:"z"`
	RotationY float64   `json:"rotationY"`
}

type FullStatePayload struct {
	Participants []Participant `json:"players"`
	Monsters     []Monster     `json:"monsters"`
}

type MonsterDamagedPayload struct {
	MonsterID MonsterID `json:"monsterId"`
	HP        int       `json:"hp"`
}

type MonsterKilledPayload struct {
	MonsterID MonsterID `json:"monsterId"`
	KillerID  SessionID `json:"by"`
	Gold      int       `json:"gold"`
	Exp       int       `json:"exp"`
	Loot      *Item     `json:"loot,omitempty"`
}

type DamageTakenPayload struct {
	Amount int `json:"dmg"`
	HP     int `json:"hp"`
}

type DiedPayload struct {
	HP   int     `json:"hp"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Gold int     `json:"gold"`
}

type LeveledUpPayload struct {
	Level int `json:"level"`
}

type SaveAcknowledgedPayload struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type RejectedPayload struct {
	Action string `json:"action,omitempty"`
	Error  string `json:"error"`
}

// Constructors keep call sites short.

func NewBroadcast(kind EventKind, payload any) Event {
	return Event{Kind: kind, Payload: payload}
}

func NewEvent(kind EventKind, origin SessionID, payload any) Event {
	return Event{Kind: kind, Origin: origin, Payload: payload}
}

// Rejection builds an ERROR event addressed to origin.
func Rejection(origin SessionID, action ActionType, err error) Event {
	return Event{
		Kind:    EventRejected,
		Origin:  origin,
		Payload: RejectedPayload{Action: action.String(), Error: err.Error()},
	}
}
