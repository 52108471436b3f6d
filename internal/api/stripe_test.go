package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casabook/server/internal/ledger"
	"casabook/server/internal/models"
	"casabook/server/internal/payments"
	"casabook/server/internal/payouts"
)

type fakeProvider struct {
	intents   []payments.IntentParams
	createErr error
}

func (f *fakeProvider) CreateIntent(ctx context.Context, params payments.IntentParams) (*payments.Intent, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.intents = append(f.intents, params)
	return &payments.Intent{ID: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

func (f *fakeProvider) RetrieveIntent(ctx context.Context, id string) (*payments.Intent, error) {
	return &payments.Intent{ID: id}, nil
}

func (f *fakeProvider) CreateTransfer(ctx context.Context, params payments.TransferParams) (string, error) {
	return "tr_test", nil
}

type fakePayoutStore struct {
	pending []models.ReservationEntry
	listErr error
}

func (f *fakePayoutStore) ListPendingReservations(ctx context.Context) ([]models.ReservationEntry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.pending, nil
}

func (f *fakePayoutStore) UpdateReservationStatus(ctx context.Context, id int, status string) error {
	return nil
}

type fakeBook struct{}

func (fakeBook) Recorded(paymentIntentID string) (bool, error) { return false, nil }
func (fakeBook) Record(t *ledger.Transfer) error               { return nil }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestRouter(provider payments.Provider, payoutStore payouts.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := testLogger()
	processor := payouts.NewProcessor(payoutStore, provider, fakeBook{}, 0.15, "eur", 48, logger)
	handler := NewHandler(nil, nil, processor, provider, nil, NewTokenVerifier("test-secret"), 0.15, "eur", logger)

	router := gin.New()
	SetupRoutes(router, handler)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestCreatePaymentIntent(t *testing.T) {
	provider := &fakeProvider{}
	router := newTestRouter(provider, &fakePayoutStore{})

	recorder := postJSON(router, "/api/stripe/create-payment-intent",
		`{"amount":200,"propertyId":"7","ownerId":"acct_owner"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "pi_test_secret", body["clientSecret"])
	assert.Equal(t, "pi_test", body["paymentIntentId"])

	require.Len(t, provider.intents, 1)
	assert.Equal(t, 200.0, provider.intents[0].Amount)
	assert.Equal(t, "eur", provider.intents[0].Currency)
	assert.Equal(t, "7", provider.intents[0].PropertyID)
	assert.Equal(t, "acct_owner", provider.intents[0].OwnerAccountID)
	assert.Equal(t, 0.15, provider.intents[0].FeeRate)
}

func TestCreatePaymentIntentValidation(t *testing.T) {
	provider := &fakeProvider{}
	router := newTestRouter(provider, &fakePayoutStore{})

	tests := []struct {
		name string
		body string
	}{
		{"missing amount", `{"propertyId":"7"}`},
		{"zero amount", `{"amount":0,"propertyId":"7"}`},
		{"negative amount", `{"amount":-5,"propertyId":"7"}`},
		{"missing property id", `{"amount":200}`},
		{"not json", `amount=200`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := postJSON(router, "/api/stripe/create-payment-intent", tt.body)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}

	t.Run("non-numeric property id", func(t *testing.T) {
		recorder := postJSON(router, "/api/stripe/create-payment-intent",
			`{"amount":200,"propertyId":"casa"}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	assert.Empty(t, provider.intents)
}

func TestCreatePaymentIntentStringifiedMissingOwner(t *testing.T) {
	provider := &fakeProvider{}
	router := newTestRouter(provider, &fakePayoutStore{})

	for _, ownerID := range []string{"undefined", "null", "  ", ""} {
		recorder := postJSON(router, "/api/stripe/create-payment-intent",
			`{"amount":200,"propertyId":"7","ownerId":"`+ownerID+`"}`)
		assert.Equal(t, http.StatusOK, recorder.Code, "ownerId %q", ownerID)
	}

	// all four produce a fee-less intent with no destination attached
	require.Len(t, provider.intents, 4)
	for _, params := range provider.intents {
		assert.Empty(t, params.OwnerAccountID)
	}
}

func TestCreatePaymentIntentProviderFailure(t *testing.T) {
	provider := &fakeProvider{createErr: errors.New("processor unavailable")}
	router := newTestRouter(provider, &fakePayoutStore{})

	recorder := postJSON(router, "/api/stripe/create-payment-intent",
		`{"amount":200,"propertyId":"7"}`)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestPaymentRoutesRejectWrongMethod(t *testing.T) {
	router := newTestRouter(&fakeProvider{}, &fakePayoutStore{})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(method, "/api/stripe/create-payment-intent", nil)
		router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code, method)
	}

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stripe/check-transfers", nil)
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}

func TestCheckTransfers(t *testing.T) {
	router := newTestRouter(&fakeProvider{}, &fakePayoutStore{})

	recorder := postJSON(router, "/api/stripe/check-transfers", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Message string         `json:"message"`
		Report  payouts.Report `json:"report"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Report.Scanned)
	assert.Contains(t, body.Message, "processed 0 pending reservations")
}

func TestCheckTransfersScanFailure(t *testing.T) {
	router := newTestRouter(&fakeProvider{}, &fakePayoutStore{listErr: errors.New("cms unreachable")})

	recorder := postJSON(router, "/api/stripe/check-transfers", "")
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}
