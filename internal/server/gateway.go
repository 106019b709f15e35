package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Kobrals/feeriequest-3d/internal/domain"
	"github.com/Kobrals/feeriequest-3d/pkg/api"
	"github.com/Kobrals/feeriequest-3d/pkg/logger"
	"github.com/Kobrals/feeriequest-3d/pkg/utils"

	"github.com/sirupsen/logrus"
)

// handleCommand routes one client message. Credential checks and account
// loading happen here, off the game loop. Everything else is forwarded.
func (s *Server) handleCommand(ctx context.Context, session domain.SessionID, cmd api.ClientCommand) {
	action := domain.ParseAction(cmd.Action)

	var err error
	switch action {
	case domain.ActionAuthenticate:
		err = s.authenticate(ctx, session, cmd.Payload)
	case domain.ActionJoinGuest:
		err = s.joinGuest(ctx, session, cmd.Payload)
	case domain.ActionMove, domain.ActionAttack, domain.ActionRequestState, domain.ActionSave:
		err = s.Game.Submit(ctx, domain.InternalCommand{Action: action, Session: session, Payload: cmd.Payload})
	case domain.ActionAttach, domain.ActionDetach, domain.ActionUnknown:
		err = fmt.Errorf("%w: unknown action %q", domain.ErrValidation, cmd.Action)
	default:
		err = fmt.Errorf("%w: unknown action %q", domain.ErrValidation, cmd.Action)
	}

	if err != nil {
		logger.Component("gateway").WithFields(logrus.Fields{
			"session_id": session,
			"action":     cmd.Action,
		}).WithError(err).Info("Command refused.")
		s.Hub.Publish(domain.Rejection(session, action, err))
	}
}

func (s *Server) authenticate(ctx context.Context, session domain.SessionID, raw json.RawMessage) error {
	payload, err := decode[api.AuthPayload](raw)
	if err != nil {
		return err
	}
	claims, err := s.Tokens.Verify(payload.Token)
	if err != nil {
		return err
	}
	account, err := s.Accounts.LoadAccount(ctx, claims.AccountID)
	if err != nil {
		return fmt.Errorf("%w: account unavailable: %v", domain.ErrInvalidCredential, err)
	}

	return s.Game.Submit(ctx, domain.InternalCommand{
		Action:      domain.ActionAttach,
		Session:     session,
		Account:     &account,
		DisplayName: account.Username,
	})
}

func (s *Server) joinGuest(ctx context.Context, session domain.SessionID, raw json.RawMessage) error {
	var payload api.JoinGuestPayload
	if len(raw) > 0 {
		p, err := decode[api.JoinGuestPayload](raw)
		if err != nil {
			return err
		}
		payload = p
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" {
		name = s.guestName()
	}
	return s.Game.Submit(ctx, domain.InternalCommand{
		Action:      domain.ActionAttach,
		Session:     session,
		DisplayName: name,
	})
}

func (s *Server) guestName() string {
	return fmt.Sprintf("%s%04d", domain.GuestNamePrefix, utils.UniformInt(s.names, 0, 10000))
}

// decode unmarshals and validates a payload.
func decode[T any](raw json.RawMessage) (T, error) {
	var payload T

	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, fmt.Errorf("%w: invalid payload format: %v", domain.ErrValidation, err)
	}
	if v, ok := any(payload).(api.Validator); ok {
		if err := v.Validate(); err != nil {
			return payload, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}
	return payload, nil
}
