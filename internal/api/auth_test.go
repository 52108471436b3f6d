package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestTokenVerifier(t *testing.T) {
	verifier := NewTokenVerifier("test-secret")

	t.Run("valid token", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{
			"id":  float64(9),
			"iat": time.Now().Unix(),
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		id, err := verifier.UserID(token)
		require.NoError(t, err)
		assert.Equal(t, 9, id)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", jwt.MapClaims{"id": float64(9)})
		_, err := verifier.UserID(token)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{
			"id":  float64(9),
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		_, err := verifier.UserID(token)
		assert.Error(t, err)
	})

	t.Run("missing id claim", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{"sub": "9"})
		_, err := verifier.UserID(token)
		assert.Error(t, err)
	})

	t.Run("wrong signing method", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"id": float64(9)}).
			SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = verifier.UserID(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.UserID("not.a.token")
		assert.Error(t, err)
	})
}

func TestRequireAuthRejectsMissingOrBadToken(t *testing.T) {
	router := newTestRouter(&fakeProvider{}, &fakePayoutStore{})

	t.Run("no header", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
		router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("not a bearer token", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		token := signToken(t, "wrong-secret", jwt.MapClaims{"id": float64(9)})
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestSessionHelper(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	// no session set
	assert.Nil(t, session(c))
}
