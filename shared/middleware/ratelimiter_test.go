package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skillvine/frontend/shared/ratelimiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimit(t *testing.T) {
	rl := ratelimiter.New(0.0001, 2, time.Minute)
	defer rl.Stop()

	handler := RateLimit(rl, GetIP)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(method, remote string) int {
		req := httptest.NewRequest(method, "/login", nil)
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, send(http.MethodPost, "192.0.2.1:5000"))
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "192.0.2.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, send(http.MethodPost, "192.0.2.1:5002"))

	assert.Equal(t, http.StatusOK, send(http.MethodGet, "192.0.2.1:5003"), "page loads are not limited")
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "192.0.2.2:5000"), "other clients keep their own bucket")
}

func TestGetIP(t *testing.T) {
	tests := []struct {
		name    string
		remote  string
		want    string
		wantErr bool
	}{
		{"ipv4 with port", "203.0.113.7:1234", "203.0.113.7", false},
		{"ipv6 with port", "[2001:db8::1]:443", "2001:db8::1", false},
		{"bare ip", "203.0.113.8", "203.0.113.8", false},
		{"garbage", "not-an-ip", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			got, err := GetIP(req)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
