package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hiring-pipeline/internal/types"
)

// testTokenValidator is a test implementation of TokenValidator for unit tests.
type testTokenValidator struct {
	validTokens map[string]types.Actor
}

func newTestTokenValidator() *testTokenValidator {
	return &testTokenValidator{
		validTokens: make(map[string]types.Actor),
	}
}

func (v *testTokenValidator) addValidToken(token string, actor types.Actor) {
	v.validTokens[token] = actor
}

func (v *testTokenValidator) ValidateToken(tokenString string) (ActorGetter, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}
	actor, ok := v.validTokens[tokenString]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return &testClaims{actor: actor}, nil
}

type testClaims struct {
	actor types.Actor
}

func (c *testClaims) GetActor() types.Actor {
	return c.actor
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := newTestTokenValidator()
	actor := types.Actor{ID: uuid.New(), Name: "Alex Kim", Role: types.RoleRecruiter}

	token := "valid-test-token-123"
	jwtService.addValidToken(token, actor)

	handlerCalled := false
	var contextActor types.Actor
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		extracted, err := GetActor(r)
		require.NoError(t, err)
		contextActor = extracted
		w.WriteHeader(http.StatusOK)
	})

	wrappedHandler := AuthMiddleware(jwtService)(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	wrappedHandler.ServeHTTP(w, req)

	assert.True(t, handlerCalled, "handler should be called")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, actor, contextActor)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	jwtService := newTestTokenValidator()

	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	wrappedHandler := AuthMiddleware(jwtService)(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	wrappedHandler.ServeHTTP(w, req)

	assert.False(t, handlerCalled, "handler should not be called")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	jwtService := newTestTokenValidator()
	jwtService.addValidToken("good-token", types.Actor{ID: uuid.New(), Role: types.RoleRecruiter})

	tests := []struct {
		name   string
		header string
	}{
		{"no bearer prefix", "good-token"},
		{"wrong scheme", "Basic good-token"},
		{"empty token", "Bearer "},
		{"extra parts", "Bearer good-token extra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
			})

			wrappedHandler := AuthMiddleware(jwtService)(handler)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()

			wrappedHandler.ServeHTTP(w, req)

			assert.False(t, handlerCalled)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddleware_CaseInsensitiveBearer(t *testing.T) {
	jwtService := newTestTokenValidator()
	actor := types.Actor{ID: uuid.New(), Name: "Sam Rowe", Role: types.RoleHiringManager}
	jwtService.addValidToken("token-abc", actor)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrappedHandler := AuthMiddleware(jwtService)(handler)

	for _, prefix := range []string{"bearer", "BEARER", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", prefix+" token-abc")
		w := httptest.NewRecorder()

		wrappedHandler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, "prefix %q should be accepted", prefix)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	jwtService := newTestTokenValidator()

	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	wrappedHandler := AuthMiddleware(jwtService)(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer unknown-token")
	w := httptest.NewRecorder()

	wrappedHandler.ServeHTTP(w, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidRole(t *testing.T) {
	jwtService := newTestTokenValidator()
	jwtService.addValidToken("token-bad-role", types.Actor{ID: uuid.New(), Role: types.Role("JANITOR")})

	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	wrappedHandler := AuthMiddleware(jwtService)(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer token-bad-role")
	w := httptest.NewRecorder()

	wrappedHandler.ServeHTTP(w, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetActor_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	_, err := GetActor(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "actor not found")
}
