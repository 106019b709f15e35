package server

import (
	"net/http"
	"testing"

	"github.com/Kobrals/feeriequest-3d/pkg/api"
)

func register(t *testing.T, env *testEnv, username, password string) api.TokenResponse {
	t.Helper()
	var tok api.TokenResponse
	status := env.do(t, http.MethodPost, "/api/register", "", api.CredentialsRequest{Username: username, Password: password}, &tok)
	if status != http.StatusCreated {
		t.Fatalf("register %q: status %d", username, status)
	}
	if tok.Token == "" || tok.Username != username {
		t.Fatalf("register %q: reply %+v", username, tok)
	}
	return tok
}

func TestAccounts_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	register(t, env, "Aelis", "secret")

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"duplicate username", "/api/register", api.CredentialsRequest{Username: "Aelis", Password: "other"}, http.StatusConflict},
		{"duplicate username other case", "/api/register", api.CredentialsRequest{Username: "AELIS", Password: "other"}, http.StatusConflict},
		{"username too short", "/api/register", api.CredentialsRequest{Username: "ab", Password: "secret"}, http.StatusBadRequest},
		{"missing password", "/api/register", api.CredentialsRequest{Username: "Brann"}, http.StatusBadRequest},
		{"login ok", "/api/login", api.CredentialsRequest{Username: "Aelis", Password: "secret"}, http.StatusOK},
		{"login folds case", "/api/login", api.CredentialsRequest{Username: "aelis", Password: "secret"}, http.StatusOK},
		{"wrong password", "/api/login", api.CredentialsRequest{Username: "Aelis", Password: "nope!"}, http.StatusUnauthorized},
		{"unknown user", "/api/login", api.CredentialsRequest{Username: "Nobody", Password: "secret"}, http.StatusUnauthorized},
		{"malformed body", "/api/login", "not an object", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := env.do(t, http.MethodPost, tt.path, "", tt.body, nil); got != tt.status {
				t.Errorf("status = %d, want %d", got, tt.status)
			}
		})
	}
}

func TestAccounts_ProfileDefaults(t *testing.T) {
	env := newTestEnv(t)
	tok := register(t, env, "Aelis", "secret")

	var view api.ProfileView
	if status := env.do(t, http.MethodGet, "/api/profile", tok.Token, nil, &view); status != http.StatusOK {
		t.Fatalf("profile status = %d", status)
	}
	if view.Username != "Aelis" || view.Level != 1 || view.HP != 100 || view.MaxHP != 100 || view.Gold != 0 {
		t.Errorf("fresh profile = %+v", view)
	}
	if view.Inventory == nil || view.Quests == nil {
		t.Errorf("inventory and quests must encode as empty lists, got %+v", view)
	}

	if status := env.do(t, http.MethodGet, "/api/profile", "", nil, nil); status != http.StatusUnauthorized {
		t.Errorf("profile without token: status %d, want 401", status)
	}
	if status := env.do(t, http.MethodGet, "/api/profile", "garbage", nil, nil); status != http.StatusUnauthorized {
		t.Errorf("profile with bad token: status %d, want 401", status)
	}
}

func TestAccounts_SaveIsPartial(t *testing.T) {
	env := newTestEnv(t)
	tok := register(t, env, "Aelis", "secret")

	gold, x, y := 50, 12.5, -4.0
	inv := []api.ItemView{{Name: "Potion", Tier: 1, Qty: 1}, {Name: "Potion", Tier: 1, Qty: 2}}

	var ok api.OKResponse
	status := env.do(t, http.MethodPost, "/api/save", tok.Token, api.SaveRequest{Gold: &gold, X: &x, Y: &y, Inventory: &inv}, &ok)
	if status != http.StatusOK || !ok.OK {
		t.Fatalf("save: status %d, reply %+v", status, ok)
	}

	// token in the body, no header
	level := 3
	if status := env.do(t, http.MethodPost, "/api/save", "", api.SaveRequest{Token: tok.Token, Level: &level}, nil); status != http.StatusOK {
		t.Fatalf("save with body token: status %d", status)
	}

	var view api.ProfileView
	env.do(t, http.MethodGet, "/api/profile", tok.Token, nil, &view)
	if view.Gold != 50 || view.X != 12.5 || view.Y != -4 || view.Level != 3 {
		t.Errorf("profile after saves = %+v", view)
	}
	if view.HP != 100 {
		t.Errorf("hp = %d, untouched fields must keep their value", view.HP)
	}
	if len(view.Inventory) != 1 || view.Inventory[0].Qty != 3 {
		t.Errorf("inventory = %+v, want one merged stack of 3", view.Inventory)
	}

	t.Run("rejects", func(t *testing.T) {
		negative := -1
		cases := []struct {
			name   string
			token  string
			body   api.SaveRequest
			status int
		}{
			{"no token", "", api.SaveRequest{Gold: &gold}, http.StatusUnauthorized},
			{"no field", tok.Token, api.SaveRequest{}, http.StatusBadRequest},
			{"negative gold", tok.Token, api.SaveRequest{Gold: &negative}, http.StatusBadRequest},
		}
		for _, c := range cases {
			if got := env.do(t, http.MethodPost, "/api/save", c.token, c.body, nil); got != c.status {
				t.Errorf("%s: status = %d, want %d", c.name, got, c.status)
			}
		}
	})
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer  abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tt := range tests {
		r, _ := http.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		if got := bearerToken(r); got != tt.want {
			t.Errorf("bearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
