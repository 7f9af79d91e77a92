package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"arta_auction_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (*gin.Engine, *ServiceImplementation) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	common.RegisterValidators()

	db, err := openTestDB("users_handler_" + uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	svc := NewService(NewGORMRepository(db), nil, nil, nil, zap.NewNop())
	h := NewHandler(svc, zap.NewNop())

	r := gin.New()
	fakeAuth := func(c *gin.Context) {
		if id, err := uuid.Parse(c.GetHeader("X-Test-User")); err == nil {
			c.Set(common.UserIDKey, id)
			c.Next()
			return
		}
		common.RespondWithError(c, common.ErrUnauthorized)
	}
	h.RegisterRoutes(r.Group("/api/v1"), fakeAuth)
	h.RegisterLegacyRoutes(r.Group("/api"))
	return r, svc
}

func doJSON(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Register(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/users/register",
		gin.H{"username": "alice", "email": "alice@example.com", "password": "secret"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Status string       `json:"status"`
		Data   UserResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "alice@example.com", resp.Data.Email)
	assert.NotContains(t, w.Body.String(), "password")

	w = doJSON(r, http.MethodPost, "/api/v1/users/register",
		gin.H{"username": "alice", "email": "alice@example.com", "password": "secret"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/users/register",
		gin.H{"username": "bob", "email": "bob@example.com", "password": "abc"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandler_LegacyRegister(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/register", gin.H{"username": "alice"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Please provide all required fields."}`, w.Body.String())

	body := gin.H{"username": "alice", "email": "alice@example.com", "password": "secret"}
	w = doJSON(r, http.MethodPost, "/api/register", body, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"User registered successfully!"}`, w.Body.String())

	w = doJSON(r, http.MethodPost, "/api/register", body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Email already registered."}`, w.Body.String())
}

func TestHandler_MeAndLinkWallet(t *testing.T) {
	r, svc := newTestRouter(t)
	u, err := svc.Register(context.Background(), RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret"})
	require.NoError(t, err)
	auth := map[string]string{"X-Test-User": u.ID.String()}

	w := doJSON(r, http.MethodGet, "/api/v1/users/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/users/me", nil, auth)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPut, "/api/v1/users/me/wallet", gin.H{"wallet_address": "0x12"}, auth)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	addr := "0x4444444444444444444444444444444444444444"
	w = doJSON(r, http.MethodPut, "/api/v1/users/me/wallet", gin.H{"wallet_address": addr}, auth)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/users/"+addr, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.True(t, profile.Registered)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, addr, profile.WalletAddress)
}

func TestHandler_ProfileRejectsBadAddress(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(r, http.MethodGet, "/api/v1/users/wallet/nope", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
