package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

// Claims is the already-verified identity attached to a request by the
// upstream claims provider. This service trusts both values as-is; token
// verification happens before the request reaches us.
type Claims struct {
	SubjectID string
	IsAdmin   bool
}

type claimsContextKey struct{}

// Headers set by the upstream gateway after verifying the caller's token.
const (
	HeaderSubjectID = "X-Subject-Id"
	HeaderIsAdmin   = "X-Is-Admin"
)

// ClaimsMiddleware extracts the verified subject identity from request
// headers and stores it in the request context. Requests without claims
// pass through anonymously; handlers that need a subject reject them.
func ClaimsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subjectID := strings.TrimSpace(r.Header.Get(HeaderSubjectID))
		if subjectID == "" {
			next.ServeHTTP(w, r)
			return
		}

		isAdmin, _ := strconv.ParseBool(r.Header.Get(HeaderIsAdmin))
		ctx := context.WithValue(r.Context(), claimsContextKey{}, Claims{
			SubjectID: subjectID,
			IsAdmin:   isAdmin,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the request claims, if any.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(Claims)
	return claims, ok
}
