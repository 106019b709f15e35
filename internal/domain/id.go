package domain

import "strconv"

// SessionID identifies one live connection. It is never persisted.
type SessionID string

func (id SessionID) String() string { return string(id) }

// AccountID identifies a durable account in the profile store.
// The zero value means "guest".
type AccountID string

func (id AccountID) String() string { return string(id) }

// IsZero reports whether no durable account is attached.
func (id AccountID) IsZero() bool { return id == "" }

// MonsterID is assigned monotonically by the encounter engine and never
// reused within a process lifetime.
type MonsterID uint64

func (id MonsterID) String() string {
	return "m" + strconv.FormatUint(uint64(id), 10)
}
