package api

import (
	"encoding/json"
)

// --- SERVER -> CLIENT ---

// ServerMessage is the envelope of every real-time message sent to a client.
type ServerMessage struct {
	// Type is the outbound event name (PLAYER_JOINED, MONSTER_KILLED, ...).
	Type string `json:"type"`

	// Payload depends on Type.
	Payload any `json:"payload,omitempty"`
}

// --- CLIENT -> SERVER ---

// ClientCommand is the envelope of every real-time message from a client.
type ClientCommand struct {
	// Action is the intent name (AUTH, JOIN_GUEST, MOVE, ATTACK, REQUEST_STATE, SAVE).
	Action string `json:"action"`

	// Payload is decoded according to Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// AuthPayload carries a credential issued by /api/login or /api/register.
type AuthPayload struct {
	Token string `json:"token"`
}

// JoinGuestPayload joins without an account. A blank name gets a generated one.
type JoinGuestPayload struct {
	Name string `json:"name"`
}

// MovePayload is the client's authoritative position report.
type MovePayload struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	RotationY float64 `json:"rotationY"`
}

// AttackPayload targets a monster with a client-proposed damage value.
type AttackPayload struct {
	MonsterID uint64  `json:"monsterId"`
	Damage    float64 `json:"dmg"`
}

// --- HTTP ---

// CredentialsRequest is the body of /api/register and /api/login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned after register and login.
type TokenResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// ItemView is one inventory stack.
type ItemView struct {
	Name string `json:"name"`
	Tier int    `json:"tier"`
	Qty  int    `json:"qty"`
}

// QuestView is one quest progress entry.
type QuestView struct {
	QuestID   string `json:"questId"`
	Progress  int    `json:"progress"`
	Completed bool   `json:"completed"`
}

// ProfileView is the durable profile as returned by GET /api/profile.
type ProfileView struct {
	Username  string      `json:"username"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Z         float64     `json:"z"`
	RotationY float64     `json:"rotationY"`
	Level     int         `json:"level"`
	Exp       int         `json:"exp"`
	Gold      int         `json:"gold"`
	HP        int         `json:"hp"`
	MaxHP     int         `json:"maxHp"`
	Inventory []ItemView  `json:"inventory"`
	Quests    []QuestView `json:"quests"`
}

// SaveRequest is a partial profile update. Absent fields are left untouched.
// Token may be given in the body when no Authorization header is sent.
type SaveRequest struct {
	Token     string       `json:"token,omitempty"`
	X         *float64     `json:"x,omitempty"`
	Y         *float64     `json:"y,omitempty"`
	Z         *float64     `json:"z,omitempty"`
	RotationY *float64     `json:"rotationY,omitempty"`
	Level     *int         `json:"level,omitempty"`
	Exp       *int         `json:"exp,omitempty"`
	Gold      *int         `json:"gold,omitempty"`
	HP        *int         `json:"hp,omitempty"`
	MaxHP     *int         `json:"maxHp,omitempty"`
	Inventory *[]ItemView  `json:"inventory,omitempty"`
	Quests    *[]QuestView `json:"quests,omitempty"`
}

// OKResponse acknowledges a write.
type OKResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
