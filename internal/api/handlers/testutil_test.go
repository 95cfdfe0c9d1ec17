package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/DivaAnanda/accenprove-sub001/internal/api/routes"
	"github.com/DivaAnanda/accenprove-sub001/internal/config"
	"github.com/DivaAnanda/accenprove-sub001/internal/models"
)

// openTestDB creates a SQLite in-memory DB unique per test.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsnName := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_journal_mode=WAL&_busy_timeout=5000", dsnName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return db
}

// newTestRouter wires the full route table against the test DB, including
// migrations, exactly as the real server does.
func newTestRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	cfg := config.Config{Environment: "test", JWTSecret: "test-secret"}
	require.NoError(t, routes.Register(router, db, cfg))
	return router
}

func createUser(t *testing.T, db *gorm.DB, email, role, password string) *models.User {
	t.Helper()
	user := models.User{
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, user.SetPassword(password))
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// login performs a real login request and returns the auth cookie value.
func login(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()
	w := doJSON(router, "POST", "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "auth-token" {
			return cookie.Value
		}
	}
	t.Fatal("no auth-token cookie in login response")
	return ""
}

// doJSON issues a request with an optional JSON body and auth cookie.
func doJSON(router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Cookie", "auth-token="+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// envelope decodes the standard response envelope.
type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		Page        int   `json:"page"`
		Limit       int   `json:"limit"`
		TotalItems  int64 `json:"totalItems"`
		TotalPages  int   `json:"totalPages"`
		HasNextPage bool  `json:"hasNextPage"`
		HasPrevPage bool  `json:"hasPrevPage"`
	} `json:"pagination"`
}

func itoa(id uint) string {
	return fmt.Sprintf("%d", id)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}
