package domain

import "strings"

// ActionType is the closed set of inbound intents.
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionAuthenticate
	ActionJoinGuest
	ActionMove
	ActionAttack
	ActionRequestState
	ActionSave
	// Internal actions, produced by the gateway and never parsed from the wire.
	ActionAttach
	ActionDetach
)

// JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"AUTH":          ActionAuthenticate,
	"JOIN_GUEST":    ActionJoinGuest,
	"MOVE":          ActionMove,
	"ATTACK":        ActionAttack,
	"REQUEST_STATE": ActionRequestState,
	"SAVE":          ActionSave,
}

// Domain -> String, for logs
var actionCmdToString = map[ActionType]string{
	ActionAuthenticate: "AUTH",
	ActionJoinGuest:    "JOIN_GUEST",
	ActionMove:         "MOVE",
	ActionAttack:       "ATTACK",
	ActionRequestState: "REQUEST_STATE",
	ActionSave:         "SAVE",
	ActionAttach:       "ATTACH",
	ActionDetach:       "DETACH",
}

// ParseAction converts a wire action name into an ActionType, case-insensitively.
// Internal actions cannot be parsed.
func ParseAction(s string) ActionType {
	upper := strings.ToUpper(strings.TrimSpace(s))
	if val, ok := actionStringToCmd[upper]; ok {
		return val
	}
	return ActionUnknown
}

func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}
