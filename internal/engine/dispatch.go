package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Kobrals/feeriequest-3d/internal/domain"
	"github.com/Kobrals/feeriequest-3d/internal/systems"
	"github.com/Kobrals/feeriequest-3d/pkg/api"
	"github.com/Kobrals/feeriequest-3d/pkg/logger"

	"github.com/sirupsen/logrus"
)

var (
	errNotJoined     = errors.New("not joined")
	errGuestSave     = errors.New("guest progress is not saved")
	errQueueFull     = errors.New("save queue full")
	errGatewayAction = errors.New("action is handled by the gateway")
)

// execute routes one command. Every ActionType has a case.
func (s *GameService) execute(cmd domain.InternalCommand) {
	var (
		events []domain.Event
		err    error
	)

	switch cmd.Action {
	case domain.ActionAttach:
		events, err = s.handleAttach(cmd)
	case domain.ActionDetach:
		events = s.handleDetach(cmd)
	case domain.ActionMove:
		events, err = withPayload(cmd, s.handleMove)
	case domain.ActionAttack:
		events, err = withPayload(cmd, s.handleAttack)
	case domain.ActionRequestState:
		events = s.handleRequestState(cmd)
	case domain.ActionSave:
		events = s.handleSave(cmd)
	case domain.ActionAuthenticate, domain.ActionJoinGuest:
		err = fmt.Errorf("%w: %s", domain.ErrValidation, errGatewayAction)
	case domain.ActionUnknown:
		err = fmt.Errorf("%w: unknown action", domain.ErrValidation)
	default:
		err = fmt.Errorf("%w: unknown action", domain.ErrValidation)
	}

	if err != nil {
		logger.Component("dispatch").WithFields(logrus.Fields{
			"session_id": cmd.Session,
			"action":     cmd.Action.String(),
		}).WithError(err).Info("Command rejected.")
		events = append(events, domain.Rejection(cmd.Session, cmd.Action, err))
	}
	s.publish(events)
}

// withPayload decodes and validates the command payload before calling handler.
func withPayload[T any](cmd domain.InternalCommand, handler func(domain.SessionID, T) ([]domain.Event, error)) ([]domain.Event, error) {
	var payload T

	if err := json.Unmarshal(cmd.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: invalid payload format: %v", domain.ErrValidation, err)
	}
	if v, ok := any(payload).(api.Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}

	return handler(cmd.Session, payload)
}

func (s *GameService) handleAttach(cmd domain.InternalCommand) ([]domain.Event, error) {
	p, events, err := s.presence.Attach(cmd.Session, cmd.Account, cmd.DisplayName)
	if err != nil {
		return nil, err
	}
	logger.Component("presence").WithFields(logrus.Fields{
		"session_id": p.SessionID,
		"account_id": p.AccountID,
		"name":       p.Name,
		"guest":      p.IsGuest(),
	}).Info("Participant joined.")

	// the newcomer also needs the current world
	events = append(events, s.fullState(cmd.Session))
	return events, nil
}

func (s *GameService) handleDetach(cmd domain.InternalCommand) []domain.Event {
	p, events, ok := s.presence.Detach(cmd.Session)
	if !ok {
		return nil
	}
	s.save(&p, SaveOnDisconnect, nil)
	logger.Component("presence").WithFields(logrus.Fields{
		"session_id": p.SessionID,
		"guest":      p.IsGuest(),
	}).Info("Participant left.")
	return events
}

func (s *GameService) handleMove(id domain.SessionID, payload api.MovePayload) ([]domain.Event, error) {
	events, ok := s.presence.UpdatePosition(id, payload.X, payload.Y, payload.Z, payload.RotationY)
	if !ok {
		logger.Component("dispatch").WithField("session_id", id).Debug("Move ignored: not joined.")
	}
	return events, nil
}

func (s *GameService) handleAttack(id domain.SessionID, payload api.AttackPayload) ([]domain.Event, error) {
	p := s.presence.lookup(id)
	if p == nil {
		logger.Component("dispatch").WithField("session_id", id).Debug("Attack ignored: not joined.")
		return nil, nil
	}

	out, events, ok := s.encounter.ResolveAttack(p, domain.MonsterID(payload.MonsterID), payload.Damage)
	if ok && out.Killed {
		s.queueKill(p, out)
	}
	return events, nil
}

func (s *GameService) queueKill(p *domain.Participant, out systems.AttackOutcome) {
	if p.IsGuest() || s.persist == nil {
		return
	}
	s.persist.Enqueue(SaveJob{
		Account: p.AccountID,
		Session: p.SessionID,
		Reason:  SaveOnKill,
		Patch:   systems.KillPatch(p, out),
	})
}

func (s *GameService) handleRequestState(cmd domain.InternalCommand) []domain.Event {
	return []domain.Event{s.fullState(cmd.Session)}
}

func (s *GameService) fullState(origin domain.SessionID) domain.Event {
	return domain.NewEvent(domain.EventFullState, origin, domain.FullStatePayload{
		Participants: s.presence.Snapshot(),
		Monsters:     s.encounter.Snapshot(),
	})
}

// handleSave answers with SAVE_RESULT. For accounts the answer is sent by the
// persister worker once the write finished.
func (s *GameService) handleSave(cmd domain.InternalCommand) []domain.Event {
	ack := func(err error) domain.Event {
		payload := domain.SaveAcknowledgedPayload{OK: err == nil}
		if err != nil {
			payload.Error = err.Error()
		}
		return domain.NewEvent(domain.EventSaveAcknowledged, cmd.Session, payload)
	}

	p := s.presence.lookup(cmd.Session)
	switch {
	case p == nil:
		return []domain.Event{ack(errNotJoined)}
	case p.IsGuest():
		return []domain.Event{ack(errGuestSave)}
	case s.persist == nil:
		return []domain.Event{ack(domain.ErrPersistence)}
	}

	relay := s.relay
	queued := s.save(p, SaveOnRequest, func(err error) {
		relay.Publish(ack(err))
	})
	if !queued {
		return []domain.Event{ack(errQueueFull)}
	}
	return nil
}
