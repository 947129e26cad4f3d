package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/armaan/kanban-be/internal/models"
	"github.com/armaan/kanban-be/internal/store"
)

type contextKey string

// userContextKey is the context key under which the authenticated user is
// stored for the duration of a single request.
const userContextKey = contextKey("authenticatedUser")

// UserFrom returns the authenticated user bound to the request context, if
// any. Handlers that require authentication reject the request when ok is
// false; handlers that permit anonymous access simply proceed.
func UserFrom(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

// Middleware returns the request authentication gate. It runs once per
// inbound request, before any handler logic:
//
//   - requests to exempt path prefixes (registration/login) pass through
//     untouched;
//   - a missing or non-Bearer Authorization header passes through
//     unauthenticated;
//   - a token that fails validation, or whose subject no longer exists,
//     passes through unauthenticated with a warning logged — the gate never
//     aborts the pipeline over a bad token, each handler decides its own 401;
//   - otherwise the resolved user is bound to the request context.
func Middleware(codec *TokenCodec, users store.UserStore, exemptPrefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range exemptPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			authHeader := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			username, err := codec.Validate(tokenStr)
			if err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected bearer token")
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetByUsername(r.Context(), username)
			if err != nil {
				log.Warn().Err(err).Str("username", username).Msg("Token subject not resolvable")
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
