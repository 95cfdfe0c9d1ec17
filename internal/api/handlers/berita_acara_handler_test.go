package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DivaAnanda/accenprove-sub001/internal/models"
)

func submitBA(t *testing.T, router *gin.Engine, token, title string) models.BeritaAcara {
	t.Helper()
	w := doJSON(router, "POST", "/api/v1/berita-acara", map[string]string{
		"title": title,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	env := decode(t, w)
	var ba models.BeritaAcara
	require.NoError(t, json.Unmarshal(env.Data, &ba))
	return ba
}

func TestBeritaAcara_VendorSubmits(t *testing.T) {
	db := openTestDB(t)
	router := newTestRouter(t, db)
	createUser(t, db, "vendor@example.com", models.RoleVendor, "password123")
	createUser(t, db, "direksi@example.com", models.RoleDireksi, "password123")

	vendorToken := login(t, router, "vendor@example.com", "password123")
	ba := submitBA(t, router, vendorToken, "Serah terima server")

	assert.Equal(t, models.BAStatusPending, ba.Status)
	assert.NotEmpty(t, ba.Number)

	// Direksi cannot submit.
	direksiToken := login(t, router, "direksi@example.com", "password123")
	w := doJSON(router, "POST", "/api/v1/berita-acara", map[string]string{
		"title": "Not allowed",
	}, direksiToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBeritaAcara_ApprovalFlow(t *testing.T) {
	db := openTestDB(t)
	router := newTestRouter(t, db)
	createUser(t, db, "vendor@example.com", models.RoleVendor, "password123")
	createUser(t, db, "direksi@example.com", models.RoleDireksi, "password123")

	vendorToken := login(t, router, "vendor@example.com", "password123")
	ba := submitBA(t, router, vendorToken, "Serah terima server")

	// The submitting vendor cannot approve their own record.
	w := doJSON(router, "POST", "/api/v1/berita-acara/"+itoa(ba.ID)+"/approve", nil, vendorToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	direksiToken := login(t, router, "direksi@example.com", "password123")
	w = doJSON(router, "POST", "/api/v1/berita-acara/"+itoa(ba.ID)+"/approve", map[string]string{
		"note": "complete",
	}, direksiToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.BeritaAcara
	require.NoError(t, db.First(&stored, ba.ID).Error)
	assert.Equal(t, models.BAStatusApproved, stored.Status)

	// A second review attempt is rejected.
	w = doJSON(router, "POST", "/api/v1/berita-acara/"+itoa(ba.ID)+"/approve", nil, direksiToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBeritaAcara_RejectAndResubmit(t *testing.T) {
	db := openTestDB(t)
	router := newTestRouter(t, db)
	createUser(t, db, "vendor@example.com", models.RoleVendor, "password123")
	createUser(t, db, "direksi@example.com", models.RoleDireksi, "password123")

	vendorToken := login(t, router, "vendor@example.com", "password123")
	ba := submitBA(t, router, vendorToken, "Serah terima server")

	direksiToken := login(t, router, "direksi@example.com", "password123")

	// Rejection without a reason is a 400.
	w := doJSON(router, "POST", "/api/v1/berita-acara/"+itoa(ba.ID)+"/reject", map[string]string{}, direksiToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, "POST", "/api/v1/berita-acara/"+itoa(ba.ID)+"/reject", map[string]string{
		"reason": "missing signatures",
	}, direksiToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "PUT", "/api/v1/berita-acara/"+itoa(ba.ID)+"/resubmit", map[string]string{
		"title": "Serah terima server v2",
	}, vendorToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.BeritaAcara
	require.NoError(t, db.First(&stored, ba.ID).Error)
	assert.Equal(t, models.BAStatusPending, stored.Status)
	assert.Equal(t, "Serah terima server v2", stored.Title)
}

func TestBeritaAcara_VendorListScopedToOwn(t *testing.T) {
	db := openTestDB(t)
	router := newTestRouter(t, db)
	createUser(t, db, "vendor@example.com", models.RoleVendor, "password123")
	createUser(t, db, "other@example.com", models.RoleVendor, "password123")
	createUser(t, db, "dk@example.com", models.RoleDK, "password123")

	vendorToken := login(t, router, "vendor@example.com", "password123")
	otherToken := login(t, router, "other@example.com", "password123")
	submitBA(t, router, vendorToken, "Mine")
	theirs := submitBA(t, router, otherToken, "Theirs")

	w := doJSON(router, "GET", "/api/v1/berita-acara", nil, vendorToken)
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, int64(1), env.Pagination.TotalItems)
	assert.Contains(t, string(env.Data), "Mine")
	assert.NotContains(t, string(env.Data), "Theirs")

	// A vendor fetching another vendor's record gets a 404, not a 403,
	// so record ids are not probeable.
	w = doJSON(router, "GET", "/api/v1/berita-acara/"+itoa(theirs.ID), nil, vendorToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Oversight roles see everything.
	dkToken := login(t, router, "dk@example.com", "password123")
	w = doJSON(router, "GET", "/api/v1/berita-acara", nil, dkToken)
	require.Equal(t, http.StatusOK, w.Code)
	env = decode(t, w)
	assert.Equal(t, int64(2), env.Pagination.TotalItems)
}

func TestBeritaAcara_Stats(t *testing.T) {
	db := openTestDB(t)
	router := newTestRouter(t, db)
	createUser(t, db, "vendor@example.com", models.RoleVendor, "password123")
	createUser(t, db, "direksi@example.com", models.RoleDireksi, "password123")

	vendorToken := login(t, router, "vendor@example.com", "password123")
	ba := submitBA(t, router, vendorToken, "First")
	submitBA(t, router, vendorToken, "Second")

	direksiToken := login(t, router, "direksi@example.com", "password123")
	w := doJSON(router, "POST", "/api/v1/berita-acara/"+itoa(ba.ID)+"/approve", nil, direksiToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "GET", "/api/v1/berita-acara/stats", nil, vendorToken)
	require.Equal(t, http.StatusOK, w.Code)

	var stats struct {
		ByStatus map[string]int64 `json:"byStatus"`
		Monthly  []struct {
			Month string `json:"month"`
			Total int64  `json:"total"`
		} `json:"monthly"`
	}
	env := decode(t, w)
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(1), stats.ByStatus[models.BAStatusPending])
	assert.Equal(t, int64(1), stats.ByStatus[models.BAStatusApproved])
	require.Len(t, stats.Monthly, 12)

	var total int64
	for _, m := range stats.Monthly {
		total += m.Total
	}
	assert.Equal(t, int64(2), total)
}
