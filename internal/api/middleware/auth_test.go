package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/DivaAnanda/accenprove-sub001/internal/models"
	"github.com/DivaAnanda/accenprove-sub001/internal/services"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsnName := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_journal_mode=WAL&_busy_timeout=5000", dsnName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func newGuardedRouter(db *gorm.DB, tokens *services.TokenService, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", RequireAuth(tokens))
	if len(roles) > 0 {
		group.Use(RequireRole(db, roles...))
	}
	group.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireAuth_MissingToken(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	r := newGuardedRouter(nil, tokens)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized")
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	r := newGuardedRouter(nil, tokens)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Cookie", "auth-token=not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Invalid collapses to the same outcome as missing.
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized")
}

func TestRequireAuth_ValidCookieToken(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	r := newGuardedRouter(nil, tokens)

	token, err := tokens.Issue(&models.User{ID: 1, Email: "vendor@example.com", Role: models.RoleVendor})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Cookie", "other=1; auth-token="+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth_BearerFallback(t *testing.T) {
	tokens := services.NewTokenService("test-secret")
	r := newGuardedRouter(nil, tokens)

	token, err := tokens.Issue(&models.User{ID: 1, Email: "vendor@example.com", Role: models.RoleVendor})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_Forbidden(t *testing.T) {
	db := openTestDB(t)
	tokens := services.NewTokenService("test-secret")

	user := models.User{Email: "vendor@example.com", Role: models.RoleVendor, IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	token, err := tokens.Issue(&user)
	require.NoError(t, err)

	r := newGuardedRouter(db, tokens, models.RoleAdmin)
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Cookie", "auth-token="+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Forbidden")
}

func TestRequireRole_UsesCurrentRoleNotTokenClaim(t *testing.T) {
	db := openTestDB(t)
	tokens := services.NewTokenService("test-secret")

	user := models.User{Email: "vendor@example.com", Role: models.RoleVendor, IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	// The token still claims "vendor".
	token, err := tokens.Issue(&user)
	require.NoError(t, err)

	// Promote after issuance; the admin route must honor the stored role.
	require.NoError(t, db.Model(&user).Update("role", models.RoleAdmin).Error)

	r := newGuardedRouter(db, tokens, models.RoleAdmin)
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Cookie", "auth-token="+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_InactiveUserUnauthorized(t *testing.T) {
	db := openTestDB(t)
	tokens := services.NewTokenService("test-secret")

	user := models.User{Email: "vendor@example.com", Role: models.RoleVendor, IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	token, err := tokens.Issue(&user)
	require.NoError(t, err)

	require.NoError(t, db.Model(&user).Update("is_active", false).Error)

	r := newGuardedRouter(db, tokens, models.RoleVendor)
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Cookie", "auth-token="+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
