package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/crucial707/fileserve/internal/models"
	"github.com/crucial707/fileserve/internal/repo"
	"github.com/crucial707/fileserve/internal/token"
)

type ctxKey string

const userKey ctxKey = "auth_user"

// UserFinder resolves a username to a live user record. Satisfied by
// repo.UserRepo.
type UserFinder interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// RequireAuth gates a handler behind bearer-token authentication: it
// extracts the Authorization header, verifies the token with the codec, and
// re-resolves the embedded username against the user store. A user deleted
// after issue therefore invalidates every token naming them.
//
// Every failure (missing header, malformed header, expired/forged/garbled
// token, unknown user) collapses into the same 401 response so the client
// cannot tell which check failed.
func RequireAuth(codec *token.Codec, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w)
				return
			}

			scheme, tokenStr, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || tokenStr == "" {
				unauthorized(w)
				return
			}

			username, err := codec.Verify(tokenStr)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := users.GetByUsername(r.Context(), username)
			if err != nil {
				// Unknown user and store failure look identical to the
				// client; the store failure still gets logged.
				if !errors.Is(err, repo.ErrNotFound) {
					slog.Error("auth: user lookup failed", "error", err)
				}
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the authenticated user stored by RequireAuth.
func GetUser(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":{"code":401,"message":"Unauthenticated"}}`))
}
