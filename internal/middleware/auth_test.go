package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/authgate/authgate-go/internal/crypto"
	"github.com/authgate/authgate-go/internal/model"
	"github.com/authgate/authgate-go/internal/repository"
)

const testSecret = "test-secret"

type fakeResolver struct {
	users map[int64]*model.User
}

func (f *fakeResolver) GetByID(_ context.Context, id int64) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func newGuardedHandler(t *testing.T, resolver UserResolver) http.Handler {
	t.Helper()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			t.Error("expected user in context")
		}
		w.Header().Set("X-User-Email", user.Email)
		w.WriteHeader(http.StatusOK)
	})

	return JWTAuth(testSecret, resolver)(next)
}

func doRequest(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthValidToken(t *testing.T) {
	resolver := &fakeResolver{users: map[int64]*model.User{
		42: {ID: 42, Name: "Ana", Email: "ana@x.com"},
	}}
	h := newGuardedHandler(t, resolver)

	token, err := crypto.GenerateToken(42, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	rec := doRequest(h, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("X-User-Email"); got != "ana@x.com" {
		t.Errorf("resolved email = %q, want %q", got, "ana@x.com")
	}
}

// Every rejection reason must produce the same 401 response so clients
// cannot distinguish a bad signature from an expired token.
func TestJWTAuthRejections(t *testing.T) {
	resolver := &fakeResolver{users: map[int64]*model.User{
		42: {ID: 42, Name: "Ana", Email: "ana@x.com"},
	}}
	h := newGuardedHandler(t, resolver)

	expired, err := crypto.GenerateToken(42, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}
	wrongSecret, err := crypto.GenerateToken(42, "other-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}
	deletedUser, err := crypto.GenerateToken(99, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() unexpected error: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"empty bearer", "Bearer "},
		{"malformed token", "Bearer not-a-token"},
		{"wrong signature", "Bearer " + wrongSecret},
		{"expired token", "Bearer " + expired},
		{"deleted user", "Bearer " + deletedUser},
	}

	var firstBody string
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(h, tc.header)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
			if firstBody == "" {
				firstBody = rec.Body.String()
			} else if rec.Body.String() != firstBody {
				t.Errorf("response body differs between rejection reasons: %q vs %q",
					rec.Body.String(), firstBody)
			}
		})
	}
}
