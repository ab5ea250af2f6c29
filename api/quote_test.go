package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mockdb "github.com/Finix99/smartship/db/mock"
	db "github.com/Finix99/smartship/db/sqlc"
	"github.com/Finix99/smartship/shipping"
)

type stubGeocoder struct {
	point shipping.Point
	err   error
}

func (s stubGeocoder) Geocode(ctx context.Context, address string) (shipping.Point, error) {
	return s.point, s.err
}

func requireQuoteResponse(t *testing.T, body io.Reader) quoteRateResponse {
	t.Helper()
	data, err := io.ReadAll(body)
	require.NoError(t, err)

	var resp quoteRateResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp
}

func TestQuoteRateAPI(t *testing.T) {
	testCases := []struct {
		name          string
		body          gin.H
		apiKey        string
		geocoder      shipping.Geocoder
		buildStubs    func(store *mockdb.MockStore)
		checkResponse func(t *testing.T, recorder *httptest.ResponseRecorder)
	}{
		{
			name: "RuleBasedHomeRegion",
			body: gin.H{
				"lat":         -1.263757,
				"lon":         36.9116907,
				"region":      "Nairobi",
				"order_total": 1000,
			},
			apiKey: testAPIKey,
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().
					CreateShippingRecord(gomock.Any(), gomock.Any()).
					Times(1).
					Return(db.ShippingRecord{ID: 1}, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				resp := requireQuoteResponse(t, recorder.Body)
				require.True(t, resp.Eligible)
				require.Equal(t, shipping.ModeRuleBased, resp.Mode)
				require.Equal(t, 0.0, resp.DistanceKm)
				require.NotNil(t, resp.PredictedPriceKsh)
				require.Equal(t, 50.0, *resp.PredictedPriceKsh)
				require.NotNil(t, resp.PredictedEtaHours)
				require.Equal(t, 0.5, *resp.PredictedEtaHours)
			},
		},
		{
			name: "LegacyFieldAliases",
			body: gin.H{
				"latitude":    -1.263757,
				"longitude":   36.9116907,
				"county":      "Nairobi",
				"order_total": 1000,
			},
			apiKey: testAPIKey,
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().
					CreateShippingRecord(gomock.Any(), gomock.Any()).
					Times(1).
					Return(db.ShippingRecord{ID: 1}, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				resp := requireQuoteResponse(t, recorder.Body)
				require.Equal(t, shipping.ModeRuleBased, resp.Mode)
			},
		},
		{
			name: "FreeShipping",
			body: gin.H{
				"lat":         -1.2921,
				"lon":         36.8219,
				"region":      "Nairobi",
				"order_total": 6000,
			},
			apiKey: testAPIKey,
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().
					CreateShippingRecord(gomock.Any(), gomock.Any()).
					Times(1).
					Return(db.ShippingRecord{ID: 1}, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				resp := requireQuoteResponse(t, recorder.Body)
				require.NotNil(t, resp.PredictedPriceKsh)
				require.Equal(t, 0.0, *resp.PredictedPriceKsh)
			},
		},
		{
			name: "EtaOnlyWithoutOrderTotal",
			body: gin.H{
				"lat":    -1.263757,
				"lon":    36.9116907,
				"region": "Nairobi",
			},
			apiKey: testAPIKey,
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().
					CreateShippingRecord(gomock.Any(), gomock.Any()).
					Times(1).
					DoAndReturn(func(_ context.Context, arg db.CreateShippingRecordParams) (db.ShippingRecord, error) {
						require.False(t, arg.PredictedPriceKsh.Valid)
						require.True(t, arg.PredictedEtaHours.Valid)
						return db.ShippingRecord{ID: 1}, nil
					})
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				resp := requireQuoteResponse(t, recorder.Body)
				require.True(t, resp.Eligible)
				require.Equal(t, shipping.ModeETAOnly, resp.Mode)
				require.Nil(t, resp.PredictedPriceKsh)
				require.NotNil(t, resp.PredictedEtaHours)
				require.Equal(t, 0.5, *resp.PredictedEtaHours)
			},
		},
		{
			name: "BelowMinimumOrder",
			body: gin.H{
				"lat":         -1.263757,
				"lon":         36.9116907,
				"region":      "Nairobi",
				"order_total": 200,
			},
			apiKey: testAPIKey,
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().CreateShippingRecord(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				resp := requireQuoteResponse(t, recorder.Body)
				require.False(t, resp.Eligible)
				require.Nil(t, resp.PredictedPriceKsh)
				require.NotEmpty(t, resp.Error)
			},
		},
		{
			name: "InvalidLatitude",
			body: gin.H{
				"lat":         95,
				"lon":         36.9,
				"region":      "Nairobi",
				"order_total": 1000,
			},
			apiKey: testAPIKey,
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().CreateShippingRecord(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "UnparsableTimestamp",
			body: gin.H{
				"lat":         -1.263757,
				"lon":         36.9116907,
				"region":      "Nairobi",
				"order_total": 1000,
				"timestamp":   "yesterday-ish",
			},
			apiKey: testAPIKey,
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().CreateShippingRecord(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "GeocodedAddress",
			body: gin.H{
				"region":      "Kiambu",
				"order_total": 1000,
			},
			apiKey:   testAPIKey,
			geocoder: stubGeocoder{point: shipping.Point{Latitude: -1.1748, Longitude: 36.9647}},
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().
					CreateShippingRecord(gomock.Any(), gomock.Any()).
					Times(1).
					Return(db.ShippingRecord{ID: 1}, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				resp := requireQuoteResponse(t, recorder.Body)
				require.NotNil(t, resp.PredictedPriceKsh)
				require.Equal(t, 525.0, *resp.PredictedPriceKsh)
				require.Equal(t, 6.0, *resp.PredictedEtaHours)
			},
		},
		{
			name: "GeocodingFailed",
			body: gin.H{
				"billing_address_2": "somewhere unknown",
				"order_total":       1000,
			},
			apiKey:   testAPIKey,
			geocoder: stubGeocoder{err: errors.New("no results")},
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().CreateShippingRecord(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
			},
		},
		{
			name: "StoreFailure",
			body: gin.H{
				"lat":         -1.263757,
				"lon":         36.9116907,
				"region":      "Nairobi",
				"order_total": 1000,
			},
			apiKey: testAPIKey,
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().
					CreateShippingRecord(gomock.Any(), gomock.Any()).
					Times(1).
					Return(db.ShippingRecord{}, errors.New("connection refused"))
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
		{
			name: "NoAPIKey",
			body: gin.H{
				"lat":         -1.263757,
				"lon":         36.9116907,
				"order_total": 1000,
			},
			apiKey: "",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().CreateShippingRecord(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name: "WrongAPIKey",
			body: gin.H{
				"lat":         -1.263757,
				"lon":         36.9116907,
				"order_total": 1000,
			},
			apiKey: "not-the-key",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().CreateShippingRecord(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mockdb.NewMockStore(ctrl)
			tc.buildStubs(store)

			server := newTestServerWithGeocoder(t, store, nil, tc.geocoder)
			recorder := httptest.NewRecorder()

			data, err := json.Marshal(tc.body)
			require.NoError(t, err)

			request, err := http.NewRequest(http.MethodPost, "/v1/rates/quote", bytes.NewReader(data))
			require.NoError(t, err)
			if tc.apiKey != "" {
				request.Header.Set(apiKeyHeader, tc.apiKey)
			}

			server.router.ServeHTTP(recorder, request)
			tc.checkResponse(t, recorder)
		})
	}
}
