package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/casalist/backend/internal/domain/entities"
)

func TestAccountHandler_Create(t *testing.T) {
	t.Run("registers account and hides password hash", func(t *testing.T) {
		app := newTestApp()

		w := app.do(t, "POST", "/api/accounts", map[string]interface{}{
			"first_name": "Ann",
			"last_name":  "Lee",
			"email":      "ann@example.com",
			"password":   "secret",
		}, requestOpts{})

		assert.Equal(t, http.StatusCreated, w.Code)

		var body map[string]interface{}
		decodeBody(t, w, &body)
		assert.Equal(t, "ann@example.com", body["email"])
		assert.NotContains(t, body, "password_hash")
		assert.NotContains(t, body, "password")
	})

	t.Run("rejects invalid payload", func(t *testing.T) {
		app := newTestApp()

		w := app.do(t, "POST", "/api/accounts", map[string]interface{}{
			"email": "not-an-email", "password": "secret",
		}, requestOpts{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate email maps to conflict", func(t *testing.T) {
		app := newTestApp()
		app.createAccount(t, "ann@example.com")

		w := app.do(t, "POST", "/api/accounts", map[string]interface{}{
			"email": "ann@example.com", "password": "secret",
		}, requestOpts{})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("non-admin cannot register an admin", func(t *testing.T) {
		app := newTestApp()

		w := app.do(t, "POST", "/api/accounts", map[string]interface{}{
			"email": "boss@example.com", "password": "secret", "is_admin": true,
		}, requestOpts{})

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin can register an admin", func(t *testing.T) {
		app := newTestApp()
		admin := app.createAccount(t, "root@example.com")

		w := app.do(t, "POST", "/api/accounts", map[string]interface{}{
			"email": "boss@example.com", "password": "secret", "is_admin": true,
		}, requestOpts{subjectID: admin.ID, admin: true})

		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestAccountHandler_Get(t *testing.T) {
	app := newTestApp()
	account := app.createAccount(t, "ann@example.com")

	w := app.do(t, "GET", "/api/accounts/"+account.ID, nil, requestOpts{})
	assert.Equal(t, http.StatusOK, w.Code)

	var got entities.Account
	decodeBody(t, w, &got)
	assert.Equal(t, account.ID, got.ID)

	w = app.do(t, "GET", "/api/accounts/missing", nil, requestOpts{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccountHandler_Update(t *testing.T) {
	t.Run("subject updates own profile", func(t *testing.T) {
		app := newTestApp()
		account := app.createAccount(t, "ann@example.com")

		w := app.do(t, "PATCH", "/api/accounts/"+account.ID, map[string]interface{}{
			"first_name": "Anna",
		}, requestOpts{subjectID: account.ID})

		assert.Equal(t, http.StatusOK, w.Code)

		var got entities.Account
		decodeBody(t, w, &got)
		assert.Equal(t, "Anna", got.FirstName)
	})

	t.Run("anonymous caller gets 401", func(t *testing.T) {
		app := newTestApp()
		account := app.createAccount(t, "ann@example.com")

		w := app.do(t, "PATCH", "/api/accounts/"+account.ID, map[string]interface{}{
			"first_name": "Anna",
		}, requestOpts{})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("another subject gets 403", func(t *testing.T) {
		app := newTestApp()
		account := app.createAccount(t, "ann@example.com")
		other := app.createAccount(t, "bob@example.com")

		w := app.do(t, "PATCH", "/api/accounts/"+account.ID, map[string]interface{}{
			"first_name": "Hacked",
		}, requestOpts{subjectID: other.ID})

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("only admin may flip the admin flag", func(t *testing.T) {
		app := newTestApp()
		account := app.createAccount(t, "ann@example.com")

		w := app.do(t, "PATCH", "/api/accounts/"+account.ID, map[string]interface{}{
			"is_admin": true,
		}, requestOpts{subjectID: account.ID})
		assert.Equal(t, http.StatusForbidden, w.Code)

		admin := app.createAccount(t, "root@example.com")
		w = app.do(t, "PATCH", "/api/accounts/"+account.ID, map[string]interface{}{
			"is_admin": true,
		}, requestOpts{subjectID: admin.ID, admin: true})
		assert.Equal(t, http.StatusOK, w.Code)

		var got entities.Account
		decodeBody(t, w, &got)
		assert.True(t, got.IsAdmin)
	})
}

func TestAccountHandler_ChangePassword(t *testing.T) {
	app := newTestApp()
	account := app.createAccount(t, "ann@example.com")

	w := app.do(t, "POST", "/api/accounts/"+account.ID+"/password", map[string]interface{}{
		"password": "new-secret",
	}, requestOpts{subjectID: account.ID})
	assert.Equal(t, http.StatusOK, w.Code)

	// Empty password maps to validation.
	w = app.do(t, "POST", "/api/accounts/"+account.ID+"/password", map[string]interface{}{
		"password": "",
	}, requestOpts{subjectID: account.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccountHandler_Delete(t *testing.T) {
	app := newTestApp()
	account := app.createAccount(t, "ann@example.com")

	w := app.do(t, "DELETE", "/api/accounts/"+account.ID, nil, requestOpts{subjectID: account.ID})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = app.do(t, "GET", "/api/accounts/"+account.ID, nil, requestOpts{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
