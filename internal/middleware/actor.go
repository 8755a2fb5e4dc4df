package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const ActorKey contextKey = "actor"

// ActorMiddleware resolves the caller identity recorded in audit columns from
// an optional bearer token. Requests without an Authorization header pass
// through anonymously; a present but invalid token is rejected. An empty
// secret disables token parsing.
func ActorMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || jwtSecret == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Check for Bearer token format
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Invalid authorization header format")
				RespondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				logger.Debug("Token validation failed", zap.Error(err))
				if errors.Is(err, jwt.ErrTokenExpired) {
					RespondWithError(w, http.StatusUnauthorized, "token expired")
				} else {
					RespondWithError(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			actor, err := token.Claims.GetSubject()
			if err != nil || actor == "" {
				logger.Debug("Missing subject in token claims")
				RespondWithError(w, http.StatusUnauthorized, "invalid token claims")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

// GetActor extracts the authenticated actor from the request context
func GetActor(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(ActorKey).(string)
	return actor, ok
}

// ActorOrDefault returns a function resolving the context actor, or
// fallback for anonymous requests.
func ActorOrDefault(fallback string) func(ctx context.Context) string {
	return func(ctx context.Context) string {
		if actor, ok := GetActor(ctx); ok {
			return actor
		}
		return fallback
	}
}
