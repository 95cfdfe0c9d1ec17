package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DivaAnanda/accenprove-sub001/internal/models"
)

func TestLogin_SetsCookieAndReturnsToken(t *testing.T) {
	db := openTestDB(t)
	router := newTestRouter(t, db)
	createUser(t, db, "vendor@example.com", models.RoleVendor, "password123")

	w := doJSON(router, "POST", "/api/v1/auth/login", map[string]string{
		"email":    "vendor@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	assert.True(t, env.Success)

	var found bool
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "auth-token" {
			found = true
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, "/", cookie.Path)
			assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
			assert.Equal(t, 7*24*3600, cookie.MaxAge)
		}
	}
	assert.True(t, found, "auth-token cookie not set")
}

func TestLogin_GenericErrorForAllFailures(t *testing.T) {
	db := openTestDB(t)
	router := newTestRouter(t, db)
	createUser(t, db, "vendor@example.com", models.RoleVendor, "password123")

	unknown := doJSON(router, "POST", "/api/v1/auth/login", map[string]string{
		"email":    "ghost@example.com",
		"password": "password123",
	}, "")
	wrong := doJSON(router, "POST", "/api/v1/auth/login", map[string]string{
		"email":    "vendor@example.com",
		"password": "wrong-password",
	}, "")

	// Both failure modes produce the identical response.
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())

	// But the audit trail distinguishes the causes.
	var audits []models.AuditLog
	require.NoError(t, db.Where("action = ?", "user.login.failed").Order("id").Find(&audits).Error)
	require.Len(t, audits, 2)
	assert.Contains(t, audits[0].Description, "user not found")
	assert.Contains(t, audits[1].Description, "invalid password")
}

func TestMe_RequiresAuth(t *testing.T) {
	db := openTestDB(t)
	router := newTestRouter(t, db)
	createUser(t, db, "vendor@example.com", models.RoleVendor, "password123")

	w := doJSON(router, "GET", "/api/v1/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := login(t, router, "vendor@example.com", "password123")
	w = doJSON(router, "GET", "/api/v1/auth/me", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "vendor@example.com")
	assert.NotContains(t, w.Body.String(), "password")
}

func TestLogout_ClearsCookieAndAudits(t *testing.T) {
	db := openTestDB(t)
	router := newTestRouter(t, db)
	createUser(t, db, "vendor@example.com", models.RoleVendor, "password123")

	token := login(t, router, "vendor@example.com", "password123")
	w := doJSON(router, "POST", "/api/v1/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "auth-token" {
			assert.Empty(t, cookie.Value)
		}
	}

	var count int64
	require.NoError(t, db.Model(&models.AuditLog{}).Where("action = ?", "user.logout").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestForgotPassword_SameResponseEitherWay(t *testing.T) {
	db := openTestDB(t)
	router := newTestRouter(t, db)
	createUser(t, db, "vendor@example.com", models.RoleVendor, "password123")

	known := doJSON(router, "POST", "/api/v1/auth/forgot-password", map[string]string{
		"email": "vendor@example.com",
	}, "")
	unknown := doJSON(router, "POST", "/api/v1/auth/forgot-password", map[string]string{
		"email": "ghost@example.com",
	}, "")

	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String())
}

func TestChangePassword(t *testing.T) {
	db := openTestDB(t)
	router := newTestRouter(t, db)
	createUser(t, db, "vendor@example.com", models.RoleVendor, "password123")

	token := login(t, router, "vendor@example.com", "password123")

	w := doJSON(router, "POST", "/api/v1/auth/change-password", map[string]string{
		"old_password": "wrong",
		"new_password": "newpassword1",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, "POST", "/api/v1/auth/change-password", map[string]string{
		"old_password": "password123",
		"new_password": "newpassword1",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	login(t, router, "vendor@example.com", "newpassword1")
}
