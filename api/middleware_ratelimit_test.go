package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mockdb "github.com/Finix99/smartship/db/mock"
	mockwk "github.com/Finix99/smartship/worker/mock"
)

func TestRateLimiterMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mockdb.NewMockStore(ctrl)
	distributor := mockwk.NewMockTaskDistributor(ctrl)

	server := newTestServer(t, store, distributor)
	// Tight budget so the test exhausts it without waiting.
	server.rateLimiter.Stop()
	server.rateLimiter = NewRateLimiter(RateLimiterConfig{
		IPRateLimit:     1,
		IPBurstLimit:    3,
		CleanupInterval: time.Minute,
	})
	defer server.rateLimiter.Stop()
	server.setupRouter()

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		recorder := httptest.NewRecorder()
		request, err := http.NewRequest(http.MethodGet, "/v1/rates/history", nil)
		require.NoError(t, err)
		// No API key on purpose: the limiter sits in front of auth.

		server.router.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
	}

	// The burst passes (rejected by auth, not the limiter); the rest
	// are throttled.
	require.Equal(t, http.StatusUnauthorized, codes[0])
	require.Equal(t, http.StatusUnauthorized, codes[2])
	require.Equal(t, http.StatusTooManyRequests, codes[3])
	require.Equal(t, http.StatusTooManyRequests, codes[4])
}

func TestSecurityHeaders(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mockdb.NewMockStore(ctrl)
	distributor := mockwk.NewMockTaskDistributor(ctrl)

	server := newTestServer(t, store, distributor)
	recorder := httptest.NewRecorder()

	request, err := http.NewRequest(http.MethodGet, "/health", nil)
	require.NoError(t, err)

	server.router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "DENY", recorder.Header().Get("X-Frame-Options"))
	require.Equal(t, "nosniff", recorder.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "no-store, no-cache, must-revalidate, proxy-revalidate", recorder.Header().Get("Cache-Control"))
}
