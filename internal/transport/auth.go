package transport

import (
	"fmt"
	"net/http"

	"github.com/rpggio/sn-mcp/internal/auth"
)

// BearerGate rejects requests that carry no access token, pointing the
// client at the protected resource metadata so it can start OAuth.
// Preflight requests pass through.
func BearerGate(resourceMetadataURL string) func(http.Handler) http.Handler {
	challenge := fmt.Sprintf("Bearer resource_metadata=%q", resourceMetadataURL)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if auth.FromHeaders(r.Header) == "" {
				w.Header().Set("WWW-Authenticate", challenge)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
