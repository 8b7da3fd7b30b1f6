package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/authgate/authgate-go/internal/crypto"
	"github.com/authgate/authgate-go/internal/model"
)

type contextKey string

const userKey contextKey = "user"

// UserResolver looks up a user by id. *repository.UserRepository
// satisfies it; tests substitute a fake.
type UserResolver interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// JWTAuth returns middleware that validates a Bearer token from the
// Authorization header and resolves its subject to a live user. Every
// failure mode — missing header, malformed token, bad signature,
// expired token, deleted user — produces the same 401 response so the
// reason is never leaked to the client.
func JWTAuth(secret string, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeUnauthorized(w)
				return
			}

			tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || tokenString == "" {
				writeUnauthorized(w)
				return
			}

			claims, err := crypto.ValidateToken(tokenString, secret)
			if err != nil {
				writeUnauthorized(w)
				return
			}

			// The token may outlive the account it was issued for.
			user, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				slog.Debug("bearer token resolved to no user", "user_id", claims.UserID, "error", err)
				writeUnauthorized(w)
				return
			}

			view := model.UserResponse{ID: user.ID, Name: user.Name, Email: user.Email}
			ctx := context.WithValue(r.Context(), userKey, view)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (model.UserResponse, bool) {
	user, ok := ctx.Value(userKey).(model.UserResponse)
	return user, ok
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"msg": "access denied"})
}
