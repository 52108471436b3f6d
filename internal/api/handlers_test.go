package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casabook/server/internal/cms"
)

func newCMSBackedRouter(t *testing.T, cmsHandler http.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(cmsHandler)
	t.Cleanup(server.Close)

	logger := testLogger()
	cmsClient := cms.NewClient(server.URL, "admin-token", logger)
	handler := NewHandler(cmsClient, nil, nil, &fakeProvider{}, nil, NewTokenVerifier("test-secret"), 0.15, "eur", logger)

	router := gin.New()
	SetupRoutes(router, handler)
	return router
}

func TestRegister(t *testing.T) {
	router := newCMSBackedRouter(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/auth/local/register":
			w.Write([]byte(`{"jwt":"session-token","user":{"id":9,"username":"ana","email":"ana@example.com"}}`))
		case r.Method == http.MethodPut && r.URL.Path == "/api/users/9":
			w.Write([]byte(`{"id":9,"username":"ana","email":"ana@example.com","role":{"id":3,"name":"Propietario"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	recorder := postJSON(router, "/api/auth/register",
		`{"username":"ana","email":"ana@example.com","password":"secret","role":"Propietario","stripeAccountId":"acct_123"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		JWT  string `json:"jwt"`
		User struct {
			ID   int `json:"id"`
			Role struct {
				ID int `json:"id"`
			} `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "session-token", body.JWT)
	assert.Equal(t, 9, body.User.ID)
	assert.Equal(t, 3, body.User.Role.ID)
}

func TestRegisterRoleAssignmentFailureSurfaces(t *testing.T) {
	var roleWrites int
	router := newCMSBackedRouter(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/auth/local/register":
			w.Write([]byte(`{"jwt":"session-token","user":{"id":9,"username":"ana"}}`))
		case r.Method == http.MethodPut && r.URL.Path == "/api/users/9":
			roleWrites++
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"status":500,"message":"role update failed"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	recorder := postJSON(router, "/api/auth/register",
		`{"username":"ana","email":"ana@example.com","password":"secret"}`)

	// the account was created upstream but the caller must see a failure
	assert.Equal(t, 1, roleWrites)
	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "role update failed", body["error"])
}

func TestRegisterOwnerWithoutPayoutAccountRejected(t *testing.T) {
	router := newCMSBackedRouter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no CMS call expected")
	})

	recorder := postJSON(router, "/api/auth/register",
		`{"username":"ana","email":"ana@example.com","password":"secret","role":"Propietario"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
