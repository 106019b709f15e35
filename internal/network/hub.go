package network

import (
	"sync"

	"github.com/Kobrals/feeriequest-3d/internal/domain"
	"github.com/Kobrals/feeriequest-3d/pkg/api"
	"github.com/Kobrals/feeriequest-3d/pkg/logger"

	"github.com/sirupsen/logrus"
)

// SubscriberBuffer is the per-session outbound queue length.
const SubscriberBuffer = 100

// Broadcaster fans events out to connected sessions. Delivery is best effort:
// a session whose channel is full misses the message.
type Broadcaster struct {
	mu sync.RWMutex
	// session -> personal channel
	subscribers map[domain.SessionID]chan api.ServerMessage
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[domain.SessionID]chan api.ServerMessage),
	}
}

// Register creates the personal channel of a session.
func (b *Broadcaster) Register(id domain.SessionID) chan api.ServerMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	// a stale channel for the same id is closed
	if old, ok := b.subscribers[id]; ok {
		close(old)
	}

	ch := make(chan api.ServerMessage, SubscriberBuffer)
	b.subscribers[id] = ch
	return ch
}

// Unregister closes and removes the session's channel.
func (b *Broadcaster) Unregister(id domain.SessionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
}

// Publish addresses evt according to its kind.
func (b *Broadcaster) Publish(evt domain.Event) {
	msg := api.ServerMessage{Type: evt.Kind.String(), Payload: evt.Payload}

	switch evt.Kind.Audience() {
	case domain.AudienceAll:
		b.Broadcast(msg)
	case domain.AudienceOthers:
		b.BroadcastExcept(evt.Origin, msg)
	case domain.AudienceOrigin:
		b.SendTo(evt.Origin, msg)
	case domain.AudienceNone:
		logger.Component("broadcaster").
			WithField("kind", evt.Kind.String()).
			Warn("Event without audience dropped.")
	}
}

// SendTo delivers to one session (unicast).
func (b *Broadcaster) SendTo(id domain.SessionID, msg api.ServerMessage) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if ch, ok := b.subscribers[id]; ok {
		b.deliver(id, ch, msg)
	}
}

// Broadcast delivers to every session.
func (b *Broadcaster) Broadcast(msg api.ServerMessage) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		b.deliver(id, ch, msg)
	}
}

// BroadcastExcept delivers to every session but one.
func (b *Broadcaster) BroadcastExcept(except domain.SessionID, msg api.ServerMessage) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		if id == except {
			continue
		}
		b.deliver(id, ch, msg)
	}
}

// deliver must be called with the read lock held.
func (b *Broadcaster) deliver(id domain.SessionID, ch chan api.ServerMessage, msg api.ServerMessage) {
	select {
	case ch <- msg:
	default:
		logger.Component("broadcaster").WithFields(logrus.Fields{
			"session_id": id,
			"type":       msg.Type,
		}).Debug("Channel full, message dropped.")
	}
}

// HasSubscriber reports whether the session is connected.
func (b *Broadcaster) HasSubscriber(id domain.SessionID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[id]
	return ok
}

// SubscriberCount returns the number of connected sessions.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
