// Package middleware provides HTTP middleware for authentication and authorization.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/hiring-pipeline/internal/types"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// actorKey is the context key for storing the authenticated actor.
const actorKey ContextKey = "actor"

// TokenValidator is an interface for validating JWT tokens.
// This allows the middleware to work with any JWT service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (ActorGetter, error)
}

// ActorGetter is an interface for extracting the acting user from token claims.
type ActorGetter interface {
	GetActor() types.Actor
}

// AuthMiddleware creates middleware that validates JWT tokens and adds the
// actor to the request context.
func AuthMiddleware(jwtService TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// Parse Bearer token
			// Handle case-insensitive "Bearer" prefix
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			actor := claims.GetActor()
			if !actor.Role.IsValid() {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetActor extracts the authenticated actor from the request context.
func GetActor(r *http.Request) (types.Actor, error) {
	actor, ok := r.Context().Value(actorKey).(types.Actor)
	if !ok {
		return types.Actor{}, fmt.Errorf("actor not found in request context")
	}
	return actor, nil
}

// ActorKey returns the context key for the actor (for testing purposes).
func ActorKey() ContextKey {
	return actorKey
}
