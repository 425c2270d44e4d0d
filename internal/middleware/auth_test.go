package middleware

import (
	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "auth-test-secret"

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
}

func signToken(t *testing.T, userID uint, role model.UserRole) string {
	t.Helper()
	token, err := util.GenerateJWT(userID, role, "student@example.com", testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func protectedRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(cfg), func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": user.UserID, "token": util.GetBearerToken(c)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	r := protectedRouter(cfg)

	t.Run("missing token rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		token, err := util.GenerateJWT(7, model.RoleStudent, "student@example.com", testSecret, -time.Minute)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid header token accepted", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, 7, model.RoleStudent))
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":7`)
	})

	t.Run("query token accepted", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected?token="+signToken(t, 9, model.RoleStudent), nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":9`)
	})
}

func TestTryAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/open", TryAuthMiddleware(cfg), func(c *gin.Context) {
		if user := util.GetUserFromContext(c); user != nil {
			c.JSON(http.StatusOK, gin.H{"user_id": user.UserID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"guest": true})
	})

	t.Run("guest passes through", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "guest")
	})

	t.Run("bad token treated as guest", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("Authorization", "Bearer broken")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "guest")
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, 3, model.RoleStudent))
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":3`)
	})
}

func TestRoleMiddleware(t *testing.T) {
	cfg := testConfig()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AuthMiddleware(cfg), RoleMiddleware(model.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name     string
		role     model.UserRole
		wantCode int
	}{
		{"student forbidden", model.RoleStudent, http.StatusForbidden},
		{"instructor forbidden", model.RoleInstructor, http.StatusForbidden},
		{"admin allowed", model.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, 1, tt.role))
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
