package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name        string
		origins     []string
		origin      string
		preflight   bool
		wantStatus  int
		wantAllow   string
		wantCreds   string
		wantMethods string
	}{
		{name: "listed origin", origins: []string{"https://app.test/"}, origin: "https://app.test", wantStatus: http.StatusTeapot, wantAllow: "https://app.test", wantCreds: "true"},
		{name: "unlisted origin", origins: []string{"https://app.test"}, origin: "https://evil.test", wantStatus: http.StatusTeapot},
		{name: "wildcard", origins: []string{"*"}, origin: "https://any.test", wantStatus: http.StatusTeapot, wantAllow: "*"},
		{name: "preflight listed", origins: []string{"https://app.test"}, origin: "https://app.test", preflight: true, wantStatus: http.StatusNoContent, wantAllow: "https://app.test", wantCreds: "true", wantMethods: corsAllowMethods},
		{name: "preflight unlisted", origins: []string{"https://app.test"}, origin: "https://evil.test", preflight: true, wantStatus: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := http.MethodGet
			if tt.preflight {
				method = http.MethodOptions
			}
			req := httptest.NewRequest(method, "http://test/events", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rr := httptest.NewRecorder()

			CORS(tt.origins, next).ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			require.Equal(t, tt.wantAllow, rr.Header().Get("Access-Control-Allow-Origin"))
			require.Equal(t, tt.wantCreds, rr.Header().Get("Access-Control-Allow-Credentials"))
			require.Equal(t, tt.wantMethods, rr.Header().Get("Access-Control-Allow-Methods"))
		})
	}
}
