package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Kobrals/feeriequest-3d/internal/engine"
	"github.com/Kobrals/feeriequest-3d/pkg/api"

	"github.com/gorilla/websocket"
)

type wireMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func dial(t *testing.T, env *testEnv) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(env.ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, action string, payload any) {
	t.Helper()
	cmd := map[string]any{"action": action}
	if payload != nil {
		cmd["payload"] = payload
	}
	if err := conn.WriteJSON(cmd); err != nil {
		t.Fatalf("send %s: %v", action, err)
	}
}

// expect reads until a message of type want arrives, skipping the others.
func expect(t *testing.T, conn *websocket.Conn, want string) wireMessage {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set deadline: %v", err)
	}
	for {
		var msg wireMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %s: %v", want, err)
		}
		if msg.Type == want {
			return msg
		}
	}
}

func TestClient_GuestJoin(t *testing.T) {
	env := newTestEnv(t)
	conn := dial(t, env)

	send(t, conn, "JOIN_GUEST", api.JoinGuestPayload{Name: "Ana"})

	var auth struct {
		Player struct {
			Name  string `json:"name"`
			Stats struct {
				Gold int `json:"gold"`
			} `json:"stats"`
		} `json:"player"`
	}
	msg := expect(t, conn, "AUTHENTICATED")
	if err := json.Unmarshal(msg.Payload, &auth); err != nil {
		t.Fatalf("decode AUTHENTICATED: %v", err)
	}
	if auth.Player.Name != "Ana" || auth.Player.Stats.Gold != 40 {
		t.Errorf("guest = %+v", auth.Player)
	}

	var state struct {
		Players  []json.RawMessage `json:"players"`
		Monsters []json.RawMessage `json:"monsters"`
	}
	msg = expect(t, conn, "STATE")
	if err := json.Unmarshal(msg.Payload, &state); err != nil {
		t.Fatalf("decode STATE: %v", err)
	}
	if len(state.Players) != 1 || len(state.Monsters) != 2 {
		t.Errorf("state has %d players and %d monsters, want 1 and 2", len(state.Players), len(state.Monsters))
	}
}

func TestClient_MalformedMessageKeepsConnection(t *testing.T) {
	env := newTestEnv(t)
	conn := dial(t, env)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	send(t, conn, "JOIN_GUEST", nil)

	msg := expect(t, conn, "AUTHENTICATED")
	if !strings.Contains(string(msg.Payload), "Guest-") {
		t.Errorf("blank guest name should be generated, got %s", msg.Payload)
	}
}

func TestClient_Rejections(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		action  string
		payload any
	}{
		{"bad token", "AUTH", api.AuthPayload{Token: "forged"}},
		{"missing token", "AUTH", map[string]string{}},
		{"unknown action", "DANCE", nil},
		{"internal action", "DETACH", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := dial(t, env)
			send(t, conn, tt.action, tt.payload)

			var rejected struct {
				Error string `json:"error"`
			}
			msg := expect(t, conn, "ERROR")
			if err := json.Unmarshal(msg.Payload, &rejected); err != nil {
				t.Fatalf("decode ERROR: %v", err)
			}
			if rejected.Error == "" {
				t.Error("ERROR without a reason")
			}
		})
	}
}

func TestClient_AuthenticatedSessionSaves(t *testing.T) {
	env := newTestEnv(t)
	tok := register(t, env, "Aelis", "secret")
	conn := dial(t, env)

	send(t, conn, "AUTH", api.AuthPayload{Token: tok.Token})
	msg := expect(t, conn, "AUTHENTICATED")
	if !strings.Contains(string(msg.Payload), `"Aelis"`) {
		t.Errorf("AUTHENTICATED payload = %s", msg.Payload)
	}

	send(t, conn, "MOVE", api.MovePayload{X: 30, Y: -8, RotationY: 1.5})
	send(t, conn, "SAVE", nil)

	var ack struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	msg = expect(t, conn, "SAVE_RESULT")
	if err := json.Unmarshal(msg.Payload, &ack); err != nil {
		t.Fatalf("decode SAVE_RESULT: %v", err)
	}
	if !ack.OK {
		t.Fatalf("save failed: %s", ack.Error)
	}

	var view api.ProfileView
	env.do(t, http.MethodGet, "/api/profile", tok.Token, nil, &view)
	if view.X != 30 || view.Y != -8 || view.RotationY != 1.5 {
		t.Errorf("saved position = (%v, %v, rot %v)", view.X, view.Y, view.RotationY)
	}
}

func TestClient_GuestSaveRefused(t *testing.T) {
	env := newTestEnv(t)
	conn := dial(t, env)

	send(t, conn, "JOIN_GUEST", nil)
	expect(t, conn, "AUTHENTICATED")
	send(t, conn, "SAVE", nil)

	var ack struct {
		OK bool `json:"ok"`
	}
	msg := expect(t, conn, "SAVE_RESULT")
	if err := json.Unmarshal(msg.Payload, &ack); err != nil {
		t.Fatalf("decode SAVE_RESULT: %v", err)
	}
	if ack.OK {
		t.Error("guest save must not succeed")
	}
}

func TestDebug_State(t *testing.T) {
	env := newTestEnv(t)
	conn := dial(t, env)
	send(t, conn, "JOIN_GUEST", api.JoinGuestPayload{Name: "Ana"})
	expect(t, conn, "AUTHENTICATED")

	var snap engine.Snapshot
	if status := env.do(t, http.MethodGet, "/debug/state", "", nil, &snap); status != http.StatusOK {
		t.Fatalf("debug state: status %d", status)
	}
	if len(snap.Participants) != 1 || len(snap.Monsters) != 2 {
		t.Errorf("snapshot = %d players, %d monsters", len(snap.Participants), len(snap.Monsters))
	}

	var sessions map[string]int
	env.do(t, http.MethodGet, "/debug/sessions", "", nil, &sessions)
	if sessions["sessions"] != 1 {
		t.Errorf("sessions = %v", sessions)
	}
}

func TestHealth_FollowsProfileStore(t *testing.T) {
	env := newTestEnv(t)

	if status := env.do(t, http.MethodGet, "/health", "", nil, nil); status != http.StatusOK {
		t.Fatalf("health with open store: status %d", status)
	}
	if err := env.store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}
	if status := env.do(t, http.MethodGet, "/health", "", nil, nil); status != http.StatusServiceUnavailable {
		t.Errorf("health with closed store: status %d, want 503", status)
	}
}
