package server

import (
	"context"
	"net/http"
	"time"

	"github.com/Kobrals/feeriequest-3d/internal/engine"
	"github.com/Kobrals/feeriequest-3d/internal/network"
)

// DebugHandler exposes the live engine state.
type DebugHandler struct {
	Service *engine.GameService
	Hub     *network.Broadcaster
}

func NewDebugHandler(s *engine.GameService, hub *network.Broadcaster) *DebugHandler {
	return &DebugHandler{Service: s, Hub: hub}
}

// RegisterRoutes registers the debug endpoints.
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /debug/state", enableCORS(h.handleState))
	mux.HandleFunc("GET /debug/sessions", enableCORS(h.handleSessions))
}

// /debug/state - participants and monsters as seen by the game loop
func (h *DebugHandler) handleState(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	snap, err := h.Service.Inspect(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// /debug/sessions - open sockets
func (h *DebugHandler) handleSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"sessions": h.Hub.SubscriberCount()})
}
