package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/casalist/backend/internal/domain/entities"
)

func TestAmenityHandler_AdminOnlyWrites(t *testing.T) {
	app := newTestApp()
	user := app.createAccount(t, "user@example.com")
	admin := app.createAccount(t, "root@example.com")

	payload := map[string]interface{}{"name": "Wi-Fi"}

	w := app.do(t, "POST", "/api/amenities", payload, requestOpts{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, "POST", "/api/amenities", payload, requestOpts{subjectID: user.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, "POST", "/api/amenities", payload, requestOpts{subjectID: admin.ID, admin: true})
	assert.Equal(t, http.StatusCreated, w.Code)

	var created entities.Amenity
	decodeBody(t, w, &created)
	assert.Equal(t, "Wi-Fi", created.Name)

	// Duplicate name maps to conflict.
	w = app.do(t, "POST", "/api/amenities", payload, requestOpts{subjectID: admin.ID, admin: true})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Reads are public.
	w = app.do(t, "GET", "/api/amenities", nil, requestOpts{})
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, "GET", "/api/amenities/"+created.ID, nil, requestOpts{})
	assert.Equal(t, http.StatusOK, w.Code)

	// Rename and delete, admin only.
	w = app.do(t, "PATCH", "/api/amenities/"+created.ID, map[string]interface{}{"name": "Wireless"},
		requestOpts{subjectID: user.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(t, "PATCH", "/api/amenities/"+created.ID, map[string]interface{}{"name": "Wireless"},
		requestOpts{subjectID: admin.ID, admin: true})
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, "DELETE", "/api/amenities/"+created.ID, nil, requestOpts{subjectID: admin.ID, admin: true})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = app.do(t, "GET", "/api/amenities/"+created.ID, nil, requestOpts{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
