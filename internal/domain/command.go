package domain

import "encoding/json"

// InternalCommand is what the engine loop consumes.
type InternalCommand struct {
	Action  ActionType
	Session SessionID
	Payload json.RawMessage

	// Set by the gateway for ActionAttach. Account is nil for guests.
	Account     *AccountRecord
	DisplayName string
}
