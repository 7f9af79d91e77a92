package auction

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"arta_auction_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Status     string             `json:"status"`
	Message    string             `json:"message"`
	Data       json.RawMessage    `json:"data"`
	Pagination *common.Pagination `json:"pagination"`
	Code       string             `json:"code"`
	Details    interface{}        `json:"details"`
}

func newHandlerRouter(t *testing.T) (*gin.Engine, *ServiceImplementation, *MockGateway) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	common.RegisterValidators()

	svc, gw := newTestService(t, nil)
	h := NewHandler(svc, zap.NewNop())
	h.now = svc.now

	fakeAuth := func(c *gin.Context) {
		if role := c.GetHeader("X-Test-Role"); role != "" {
			c.Set(common.UserRoleKey, role)
			c.Next()
			return
		}
		common.RespondWithError(c, common.ErrUnauthorized)
	}
	adminOnly := func(c *gin.Context) {
		if c.GetString(common.UserRoleKey) != common.RoleAdmin {
			common.RespondWithError(c, common.ErrForbidden)
			return
		}
		c.Next()
	}

	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"), fakeAuth, adminOnly)
	return r, svc, gw
}

func serve(r http.Handler, method, path string, body interface{}, role string) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("X-Test-Role", role)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestHandler_ListAuctions(t *testing.T) {
	r, _, gw := newHandlerRouter(t)
	expectRefresh(gw, fixtureAuctions())

	w, env := serve(r, http.MethodGet, "/api/v1/auctions?status=live&page_size=1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, int64(2), env.Pagination.TotalItems)
	assert.True(t, env.Pagination.HasNext)

	var list []AuctionResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "vintage-vase-0", list[0].Slug)
	assert.Equal(t, "1.0", list[0].HighestBid)
	assert.Equal(t, "active", list[0].Status)

	w, env = serve(r, http.MethodGet, "/api/v1/auctions?status=soon", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", env.Code)
}

func TestHandler_GetAuction(t *testing.T) {
	r, _, gw := newHandlerRouter(t)

	w, _ := serve(r, http.MethodGet, "/api/v1/auctions/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	gw.EXPECT().Auction(gomock.Any(), uint64(42)).Return(nil, ErrAuctionNotFound)
	w, env := serve(r, http.MethodGet, "/api/v1/auctions/42", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "AUCTION_NOT_FOUND", env.Code)

	a := fixtureAuctions()[1]
	gw.EXPECT().Auction(gomock.Any(), uint64(1)).Return(&a, nil)
	w, env = serve(r, http.MethodGet, "/api/v1/auctions/1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp AuctionResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.True(t, resp.Ended)
	assert.Equal(t, "inactive", resp.Status)
}

func TestHandler_BidCheck(t *testing.T) {
	r, _, gw := newHandlerRouter(t)
	a := fixtureAuctions()[0]
	gw.EXPECT().Auction(gomock.Any(), uint64(0)).Return(&a, nil).Times(2)

	w, env := serve(r, http.MethodGet, "/api/v1/auctions/0/bid-check?amount=0.5", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BID_TOO_LOW", env.Code)

	w, env = serve(r, http.MethodGet, "/api/v1/auctions/0/bid-check?amount=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var check BidCheck
	require.NoError(t, json.Unmarshal(env.Data, &check))
	assert.Equal(t, "2.0", check.Amount)
}

func TestHandler_AdminRoutesRequireAdmin(t *testing.T) {
	r, _, _ := newHandlerRouter(t)

	w, _ := serve(r, http.MethodPost, "/api/v1/auctions/0/bids", gin.H{"amount": "2"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = serve(r, http.MethodPost, "/api/v1/auctions/0/bids", gin.H{"amount": "2"}, common.RoleUser)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = serve(r, http.MethodGet, "/api/v1/auctions/operator", nil, common.RoleUser)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_PlaceBid(t *testing.T) {
	r, _, gw := newHandlerRouter(t)

	w, env := serve(r, http.MethodPost, "/api/v1/auctions/0/bids", gin.H{}, common.RoleAdmin)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)

	a := fixtureAuctions()[0]
	gw.EXPECT().Auction(gomock.Any(), uint64(0)).Return(&a, nil)
	gw.EXPECT().EstimateBid(gomock.Any(), uint64(0), gomock.Any()).Return(uint64(21000), nil)
	gw.EXPECT().Bid(gomock.Any(), uint64(0), gomock.Any()).Return(&TxResult{Hash: "0xbid", BlockNumber: 9}, nil)

	w, env = serve(r, http.MethodPost, "/api/v1/auctions/0/bids", gin.H{"amount": "2"}, common.RoleAdmin)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Bid placed successfully!", env.Message)
	var tx TxResult
	require.NoError(t, json.Unmarshal(env.Data, &tx))
	assert.Equal(t, "0xbid", tx.Hash)
	assert.Equal(t, uint64(9), tx.BlockNumber)
}

func TestHandler_WithdrawNoReturns(t *testing.T) {
	r, _, gw := newHandlerRouter(t)
	gw.EXPECT().SimulateWithdraw(gomock.Any(), uint64(2)).Return(ErrNoReturns)

	w, env := serve(r, http.MethodPost, "/api/v1/auctions/2/withdraw", nil, common.RoleAdmin)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "NO_RETURNS", env.Code)
}

func TestHandler_CreateAuction(t *testing.T) {
	r, _, gw := newHandlerRouter(t)

	w, env := serve(r, http.MethodPost, "/api/v1/auctions", gin.H{
		"name": "Chair", "seller": "0x12", "starting_bid": "1", "duration_seconds": 60, "description": "Wood",
	}, common.RoleAdmin)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, env.Details, "seller")

	gw.EXPECT().CreateAuction(gomock.Any(), gomock.Any()).Return(&TxResult{Hash: "0xnew"}, nil)
	w, _ = serve(r, http.MethodPost, "/api/v1/auctions", gin.H{
		"name": "Chair", "seller": alice, "starting_bid": "1", "duration_seconds": 60, "description": "Wood",
	}, common.RoleAdmin)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestHandler_EndAndOperator(t *testing.T) {
	r, _, gw := newHandlerRouter(t)

	a := fixtureAuctions()[0]
	gw.EXPECT().Auction(gomock.Any(), uint64(0)).Return(&a, nil)
	gw.EXPECT().EndAuction(gomock.Any(), uint64(0)).Return(&TxResult{Hash: "0xend"}, nil)
	w, _ := serve(r, http.MethodPost, "/api/v1/auctions/0/end", nil, common.RoleAdmin)
	assert.Equal(t, http.StatusOK, w.Code)

	gw.EXPECT().OperatorAddress().Return("", false)
	w, env := serve(r, http.MethodGet, "/api/v1/auctions/operator", nil, common.RoleAdmin)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "SIGNER_UNAVAILABLE", env.Code)
}

func TestHandler_Search(t *testing.T) {
	r, svc, _ := newHandlerRouter(t)
	svc.cache.Store(fixtureAuctions())

	w, env := serve(r, http.MethodGet, "/api/v1/auctions/search?q=lamp", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []AuctionResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, uint64(2), list[0].ID)

	w, _ = serve(r, http.MethodGet, "/api/v1/auctions/search", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_HugePageIsEmpty(t *testing.T) {
	r, svc, _ := newHandlerRouter(t)
	svc.cache.Store(fixtureAuctions())

	for _, path := range []string{
		"/api/v1/auctions?page=9223372036854775807",
		"/api/v1/auctions/search?q=vase&page=9223372036854775807",
	} {
		w, env := serve(r, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, w.Code, path)
		var list []AuctionResponse
		require.NoError(t, json.Unmarshal(env.Data, &list), path)
		assert.Empty(t, list, path)
		require.NotNil(t, env.Pagination, path)
		assert.False(t, env.Pagination.HasNext, path)
	}
}
