package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mockdb "github.com/Finix99/smartship/db/mock"
	mockwk "github.com/Finix99/smartship/worker/mock"
)

func TestHealthCheckAPI(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mockdb.NewMockStore(ctrl)
	distributor := mockwk.NewMockTaskDistributor(ctrl)

	server := newTestServer(t, store, distributor)
	recorder := httptest.NewRecorder()

	// No API key: health is a public endpoint.
	request, err := http.NewRequest(http.MethodGet, "/health", nil)
	require.NoError(t, err)

	server.router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
	require.Equal(t, false, body["model_loaded"])
}

func TestReadinessCheckAPI(t *testing.T) {
	testCases := []struct {
		name       string
		pingErr    error
		wantStatus int
	}{
		{name: "Ready", pingErr: nil, wantStatus: http.StatusOK},
		{name: "DatabaseDown", pingErr: errors.New("connection refused"), wantStatus: http.StatusServiceUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mockdb.NewMockStore(ctrl)
			distributor := mockwk.NewMockTaskDistributor(ctrl)

			store.EXPECT().
				Ping(gomock.Any()).
				Times(1).
				Return(tc.pingErr)

			server := newTestServer(t, store, distributor)
			recorder := httptest.NewRecorder()

			request, err := http.NewRequest(http.MethodGet, "/ready", nil)
			require.NoError(t, err)

			server.router.ServeHTTP(recorder, request)
			require.Equal(t, tc.wantStatus, recorder.Code)
		})
	}
}
