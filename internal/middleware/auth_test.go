package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crucial707/fileserve/internal/models"
	"github.com/crucial707/fileserve/internal/repo"
	"github.com/crucial707/fileserve/internal/token"
)

// stubFinder serves a fixed set of users.
type stubFinder struct {
	users map[string]*models.User
}

func (s *stubFinder) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if u, ok := s.users[username]; ok {
		return u, nil
	}
	return nil, repo.ErrNotFound
}

func gateFixture(t *testing.T) (*token.Codec, http.Handler) {
	t.Helper()
	codec := token.New([]byte("gate-secret"), time.Hour)
	finder := &stubFinder{users: map[string]*models.User{
		"alice": {ID: 1, Username: "alice"},
	}}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := GetUser(r.Context())
		if !ok {
			t.Error("no user in context")
			return
		}
		w.Write([]byte(u.Username))
	})
	return codec, RequireAuth(codec, finder)(next)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	codec, gate := gateFixture(t)

	tok, err := codec.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	req := httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	gate.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || rr.Body.String() != "alice" {
		t.Errorf("got status=%d body=%q, want 200 alice", rr.Code, rr.Body.String())
	}
}

// Every rejection, whatever the cause, must be the same 401 body.
func TestRequireAuth_UniformRejection(t *testing.T) {
	codec, gate := gateFixture(t)

	goodForBob, _ := codec.Issue("bob") // valid token, but bob was deleted
	otherCodec := token.New([]byte("another-secret"), time.Hour)
	forged, _ := otherCodec.Issue("alice")
	expired, _ := token.New([]byte("gate-secret"), -time.Minute).Issue("alice")

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"no token after scheme", "Bearer"},
		{"garbage token", "Bearer garbage"},
		{"forged token", "Bearer " + forged},
		{"expired token", "Bearer " + expired},
		{"deleted user", "Bearer " + goodForBob},
	}

	var wantBody string
	for i, tc := range cases {
		req := httptest.NewRequest("GET", "/users", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rr := httptest.NewRecorder()
		gate.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s: status=%d, want 401", tc.name, rr.Code)
		}
		var out struct {
			Error struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
			t.Errorf("%s: bad body %q: %v", tc.name, rr.Body.String(), err)
			continue
		}
		if out.Error.Code != 401 {
			t.Errorf("%s: body code=%d, want 401", tc.name, out.Error.Code)
		}
		if i == 0 {
			wantBody = rr.Body.String()
		} else if rr.Body.String() != wantBody {
			t.Errorf("%s: body %q differs from %q", tc.name, rr.Body.String(), wantBody)
		}
	}
}
