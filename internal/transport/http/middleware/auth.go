package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/otp-auth-api/internal/domain"
	jwtinfra "github.com/otp-auth-api/internal/infrastructure/jwt"
)

type contextKey string

const actorKey contextKey = "actor"

// TokenVerifier checks an auth token and resolves the actor id it carries.
type TokenVerifier interface {
	VerifyAuthToken(token string) (*jwtinfra.AuthClaims, error)
}

// StatusLoader fetches the active/deleted projection of one actor.
// It returns domain.ErrNotFound when the actor no longer exists.
type StatusLoader func(ctx context.Context, actorID string) (*domain.ActorStatus, error)

// Auth is the session gate for one actor kind. It validates the Bearer token,
// re-reads the actor's status on every request and attaches the status to the
// request context. Nothing downstream runs unless all checks pass.
func Auth(tokens TokenVerifier, kind domain.ActorKind, load StatusLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				reject(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			claims, err := tokens.VerifyAuthToken(tokenStr)
			if err != nil {
				reject(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			status, err := load(r.Context(), claims.ActorID)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				reject(w, http.StatusUnauthorized, "account no longer exists")
				return
			case err != nil:
				slog.Error("session gate status lookup failed", "kind", kind, "actor_id", claims.ActorID, "err", err)
				reject(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if !status.Usable() {
				reject(w, http.StatusForbidden, "account is inactive or deleted")
				return
			}

			actor := domain.ActorStatus{
				ID:        claims.ActorID,
				Kind:      kind,
				IsActive:  status.IsActive,
				IsDeleted: status.IsDeleted,
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	t := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return t, t != ""
}

// ActorFromContext returns the actor attached by Auth.
func ActorFromContext(ctx context.Context) (domain.ActorStatus, bool) {
	a, ok := ctx.Value(actorKey).(domain.ActorStatus)
	return a, ok
}

// WithActor attaches actor to ctx for ActorFromContext to find.
func WithActor(ctx context.Context, actor domain.ActorStatus) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}
