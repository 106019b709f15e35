package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/Kobrals/feeriequest-3d/internal/domain"
	"github.com/Kobrals/feeriequest-3d/internal/engine"
	"github.com/Kobrals/feeriequest-3d/internal/identity"
	"github.com/Kobrals/feeriequest-3d/internal/network"
	"github.com/Kobrals/feeriequest-3d/internal/version"
	"github.com/Kobrals/feeriequest-3d/pkg/api"
	"github.com/Kobrals/feeriequest-3d/pkg/logger"
	"github.com/Kobrals/feeriequest-3d/pkg/utils"
)

// AccountStore is the profile store as seen by the HTTP surface and the gateway.
type AccountStore interface {
	CreateAccount(ctx context.Context, username, passHash string) (domain.AccountRecord, error)
	FindByUsername(ctx context.Context, username string) (domain.AccountRecord, error)
	LoadAccount(ctx context.Context, id domain.AccountID) (domain.AccountRecord, error)
	SaveAccount(ctx context.Context, id domain.AccountID, patch domain.ProfilePatch) error
	Ping(ctx context.Context) error
}

type Server struct {
	Game      *engine.GameService
	Hub       *network.Broadcaster
	Accounts  AccountStore
	Tokens    *identity.TokenProvider
	StaticDir string
	Addr      string

	names utils.Source
	http  *http.Server
}

func New(game *engine.GameService, hub *network.Broadcaster, accounts AccountStore, tokens *identity.TokenProvider, addr, staticDir string) *Server {
	s := &Server{
		Game:      game,
		Hub:       hub,
		Accounts:  accounts,
		Tokens:    tokens,
		StaticDir: staticDir,
		Addr:      addr,
		names:     utils.NewSource(time.Now().UnixNano()),
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /health", enableCORS(s.handleHealth))
	mux.HandleFunc("GET /version", enableCORS(s.handleVersion))

	mux.HandleFunc("POST /api/register", enableCORS(s.handleRegister))
	mux.HandleFunc("POST /api/login", enableCORS(s.handleLogin))
	mux.HandleFunc("GET /api/profile", enableCORS(s.handleProfile))
	mux.HandleFunc("POST /api/save", enableCORS(s.handleSave))
	mux.HandleFunc("OPTIONS /api/", enableCORS(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	debugHandler := NewDebugHandler(s.Game, s.Hub)
	debugHandler.RegisterRoutes(mux)

	if s.StaticDir != "" {
		if info, err := os.Stat(s.StaticDir); err == nil && info.IsDir() {
			mux.Handle("GET /", http.FileServer(http.Dir(s.StaticDir)))
		} else {
			logger.Log.WithField("dir", s.StaticDir).Warn("Static directory not found, client not served.")
		}
	}
	return mux
}

// Run serves until Shutdown is called.
func (s *Server) Run() error {
	logger.Log.Infof("Feeriequest server running on %s", s.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for handlers to return.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		next(w, r)
	}
}

// handleWS upgrades the connection and starts the pumps.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("Upgrade error")
		return
	}

	client := NewClient(s, conn)

	go client.writePump()
	go client.readPump()
}

// handleHealth reports 503 while the profile store is unreachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.Accounts.Ping(ctx); err != nil {
		logger.Component("server").WithError(err).Warn("Health check failed: profile store unreachable.")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("profile store unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Info())
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Debug("write json response failed")
	}
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, domain.ErrValidation):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidCredential):
		status, msg = http.StatusUnauthorized, "invalid credential"
	case errors.Is(err, domain.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrConflict):
		status, msg = http.StatusConflict, err.Error()
	default:
		logger.Log.WithError(err).Error("Request failed.")
	}
	writeJSON(w, status, api.ErrorResponse{Error: msg})
}
