package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Kobrals/feeriequest-3d/internal/domain"
	"github.com/Kobrals/feeriequest-3d/internal/identity"
	"github.com/Kobrals/feeriequest-3d/pkg/api"
	"github.com/Kobrals/feeriequest-3d/pkg/logger"
)

const maxBodyBytes = 64 << 10

// POST /api/register
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.CredentialsRequest
	if err := readBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	hash, err := identity.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := s.Accounts.CreateAccount(r.Context(), req.Username, hash)
	if err != nil {
		writeError(w, err)
		return
	}
	logger.Log.WithField("account_id", rec.ID).WithField("username", rec.Username).Info("Account registered.")
	s.writeToken(w, http.StatusCreated, rec)
}

// POST /api/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.CredentialsRequest
	if err := readBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	rec, err := s.Accounts.FindByUsername(r.Context(), req.Username)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, fmt.Errorf("%w: unknown user", domain.ErrInvalidCredential))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if err := identity.CheckPassword(rec.PassHash, req.Password); err != nil {
		writeError(w, err)
		return
	}
	s.writeToken(w, http.StatusOK, rec)
}

func (s *Server) writeToken(w http.ResponseWriter, status int, rec domain.AccountRecord) {
	token, err := s.Tokens.Issue(rec.ID, rec.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, api.TokenResponse{Token: token, Username: rec.Username})
}

// GET /api/profile
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	claims, err := s.Tokens.Verify(bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := s.Accounts.LoadAccount(r.Context(), claims.AccountID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileView(rec))
}

// POST /api/save - partial profile write. The token comes from the
// Authorization header or, failing that, the body.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req api.SaveRequest
	if err := readBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	token := bearerToken(r)
	if token == "" {
		token = req.Token
	}
	claims, err := s.Tokens.Verify(token)
	if err != nil {
		writeError(w, err)
		return
	}

	patch := patchFromRequest(req)
	if err := s.Accounts.SaveAccount(r.Context(), claims.AccountID, patch); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.OKResponse{OK: true})
}

// readBody decodes and validates a JSON body.
func readBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", domain.ErrValidation, err)
	}
	if v, ok := dst.(api.Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}
	return nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func profileView(rec domain.AccountRecord) api.ProfileView {
	intOr := func(v *int, def int) int {
		if v == nil {
			return def
		}
		return *v
	}

	view := api.ProfileView{
		Username:  rec.Username,
		Level:     intOr(rec.Level, domain.DefaultLevel),
		Exp:       intOr(rec.Exp, 0),
		Gold:      intOr(rec.Gold, domain.DefaultGold),
		MaxHP:     intOr(rec.MaxHP, domain.DefaultHP),
		Inventory: make([]api.ItemView, 0, len(rec.Inventory)),
		Quests:    make([]api.QuestView, 0, len(rec.Quests)),
	}
	view.HP = intOr(rec.HP, view.MaxHP)
	if rec.Pos != nil {
		view.X, view.Y, view.Z = rec.Pos.X, rec.Pos.Y, rec.Pos.Z
	}
	if rec.RotationY != nil {
		view.RotationY = *rec.RotationY
	}
	for _, it := range rec.Inventory {
		view.Inventory = append(view.Inventory, api.ItemView{Name: it.Name, Tier: it.Tier, Qty: it.Qty})
	}
	for _, q := range rec.Quests {
		view.Quests = append(view.Quests, api.QuestView{QuestID: q.QuestID, Progress: q.Progress, Completed: q.Completed})
	}
	return view
}

// patchFromRequest keeps absent fields nil. A position needs both planar
// coordinates; z defaults to 0.
func patchFromRequest(req api.SaveRequest) domain.ProfilePatch {
	patch := domain.ProfilePatch{
		RotationY: req.RotationY,
		Level:     req.Level,
		Exp:       req.Exp,
		Gold:      req.Gold,
		HP:        req.HP,
		MaxHP:     req.MaxHP,
	}
	if req.X != nil && req.Y != nil {
		pos := domain.Position{X: *req.X, Y: *req.Y}
		if req.Z != nil {
			pos.Z = *req.Z
		}
		patch.Pos = &pos
	}
	if req.Inventory != nil {
		inv := make(domain.Inventory, 0, len(*req.Inventory))
		for _, it := range *req.Inventory {
			inv = append(inv, domain.Item{Name: it.Name, Tier: it.Tier, Qty: it.Qty})
		}
		inv = inv.Normalize()
		patch.Inventory = &inv
	}
	if req.Quests != nil {
		quests := make([]domain.QuestProgress, 0, len(*req.Quests))
		for _, q := range *req.Quests {
			quests = append(quests, domain.QuestProgress{QuestID: q.QuestID, Progress: q.Progress, Completed: q.Completed})
		}
		patch.Quests = &quests
	}
	return patch
}
