package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// tokenQueryParam carries the token for WebSocket clients, which cannot set
// an Authorization header from a browser.
const tokenQueryParam = "access_token"

// requireToken rejects requests without the bearer token with a JSON-RPC
// error body. An empty secret rejects everything.
func requireToken(secret string, allowQuery bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok := validToken(secret, r.Header.Get("Authorization"))
		if !ok && allowQuery {
			ok = validToken(secret, "Bearer "+r.URL.Query().Get(tokenQueryParam))
		}
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0",
				"error": map[string]any{
					"code":    -32600,
					"message": "Unauthorized",
				},
				"id": nil,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func validToken(secret, authHeader string) bool {
	if secret == "" {
		return false
	}
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}
