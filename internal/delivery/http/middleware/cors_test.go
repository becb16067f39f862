package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
		nextCalled bool
	}{
		{"allowed origin", []string{"https://admin.example.com/"}, http.MethodGet, "https://admin.example.com", http.StatusOK, "https://admin.example.com", true},
		{"unknown origin", []string{"https://admin.example.com"}, http.MethodGet, "https://evil.example.com", http.StatusOK, "", true},
		{"wildcard", []string{"*"}, http.MethodGet, "https://any.example.com", http.StatusOK, "https://any.example.com", true},
		{"preflight", []string{"https://admin.example.com"}, http.MethodOptions, "https://admin.example.com", http.StatusNoContent, "https://admin.example.com", false},
		{"no origin header", []string{"*"}, http.MethodGet, "", http.StatusOK, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})
			req := httptest.NewRequest(tt.method, "http://test/meetings", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()

			CORS(tt.allowed, next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.nextCalled, nextCalled)
			if tt.method == http.MethodOptions {
				assert.Equal(t, corsAllowMethods, rr.Header().Get("Access-Control-Allow-Methods"))
			}
		})
	}
}
