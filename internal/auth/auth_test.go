package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfoliogenius/advisor/pkg/logger"
)

const testSecret = "test-secret"

func newTestVerifier() *Verifier {
	return NewVerifier(testSecret, logger.New(logger.Config{Level: "disabled"}))
}

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() Claims {
	return Claims{
		Email:         "user@example.com",
		EmailVerified: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestVerifier_VerifyToken_Valid(t *testing.T) {
	v := newTestVerifier()
	token := signToken(t, testSecret, validClaims())

	identity, err := v.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", identity.UserID)
	assert.Equal(t, "user@example.com", identity.Email)
	assert.True(t, identity.EmailVerified)
}

func TestVerifier_VerifyToken_Failures(t *testing.T) {
	v := newTestVerifier()

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", validClaims())
		_, err := v.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		_, err := v.VerifyToken(signToken(t, testSecret, claims))
		assert.Error(t, err)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := validClaims()
		claims.Subject = ""
		_, err := v.VerifyToken(signToken(t, testSecret, claims))
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := v.VerifyToken("not-a-jwt")
		assert.Error(t, err)
	})
}

func TestVerifier_Middleware(t *testing.T) {
	v := newTestVerifier()

	handler := v.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := FromContext(r.Context())
		require.NotNil(t, identity)
		assert.Equal(t, "user-1", identity.UserID)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/agent/tools", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims()))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/agent/tools", nil)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "AuthenticationError")
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/agent/tools", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestFromContext_OutsideMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, FromContext(req.Context()))
}
