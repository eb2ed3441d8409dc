package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/casalist/backend/internal/api/middleware"
)

func TestClaimsMiddleware(t *testing.T) {
	var (
		claims middleware.Claims
		found  bool
	)
	handler := middleware.ClaimsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, found = middleware.ClaimsFromContext(r.Context())
	}))

	t.Run("extracts subject and admin flag", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(middleware.HeaderSubjectID, "user-1")
		req.Header.Set(middleware.HeaderIsAdmin, "true")

		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, found)
		assert.Equal(t, "user-1", claims.SubjectID)
		assert.True(t, claims.IsAdmin)
	})

	t.Run("missing subject means anonymous", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(middleware.HeaderIsAdmin, "true")

		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.False(t, found)
	})

	t.Run("garbage admin header is not admin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(middleware.HeaderSubjectID, "user-2")
		req.Header.Set(middleware.HeaderIsAdmin, "banana")

		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, found)
		assert.False(t, claims.IsAdmin)
	})
}
