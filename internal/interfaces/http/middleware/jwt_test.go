package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procureflow/backend/internal/infrastructure/auth"
	"github.com/procureflow/backend/internal/infrastructure/config"
)

func newJWTTestRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	gin.SetMode(gin.TestMode)

	svc := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-for-jwt-signing-0123",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "procureflow-test",
	})

	r := gin.New()
	r.Use(JWTAuthMiddleware(svc))
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c), "username": GetJWTUsername(c)})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r, svc
}

func TestJWTAuthMiddleware(t *testing.T) {
	t.Run("valid token passes and exposes claims", func(t *testing.T) {
		r, svc := newJWTTestRouter(t)

		userID := uuid.New()
		token, _, err := svc.GenerateAccessToken(userID, "alice")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
		assert.Contains(t, w.Body.String(), "alice")
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		r, _ := newJWTTestRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		r, _ := newJWTTestRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token is rejected with TOKEN_EXPIRED", func(t *testing.T) {
		r, _ := newJWTTestRouter(t)

		expired := auth.NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-for-jwt-signing-0123",
			AccessTokenExpiration: -1 * time.Minute,
			Issuer:                "procureflow-test",
		})
		token, _, err := expired.GenerateAccessToken(uuid.New(), "bob")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
	})

	t.Run("skip paths bypass authentication", func(t *testing.T) {
		r, _ := newJWTTestRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
