package auction

import (
	"errors"
	"strconv"
	"time"

	"arta_auction_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for auction handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
	now     func() time.Time
}

// NewHandler creates a new auction handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("AuctionHandler"),
		now:     time.Now,
	}
}

// RegisterRoutes sets up the routes for auction operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	auctionGroup := router.Group("/auctions")
	{
		auctionGroup.GET("", h.listAuctions)
		auctionGroup.GET("/search", h.searchAuctions)
		auctionGroup.GET("/:id", h.getAuction)
		auctionGroup.GET("/:id/bid-check", h.checkBid)

		adminGroup := auctionGroup.Group("")
		adminGroup.Use(authMW, adminRoleMW)
		{
			adminGroup.GET("/operator", h.operatorWallet)
			adminGroup.POST("", h.createAuction)
			adminGroup.POST("/:id/end", h.endAuction)
			adminGroup.POST("/:id/bids", h.placeBid)
			adminGroup.POST("/:id/withdraw", h.withdrawReturns)
		}
	}
}

func (h *Handler) listAuctions(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)
	list, pagination, err := h.service.ListAuctions(c.Request.Context(), ListFilter{
		Status:   c.DefaultQuery("status", StatusAll),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Auctions retrieved successfully.", ToAuctionResponses(list, h.now()), pagination)
}

func (h *Handler) searchAuctions(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)
	list, pagination, err := h.service.SearchAuctions(c.Request.Context(), c.Query("q"), page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Search results retrieved successfully.", ToAuctionResponses(list, h.now()), pagination)
}

func (h *Handler) getAuction(c *gin.Context) {
	id, ok := h.auctionID(c)
	if !ok {
		return
	}
	a, err := h.service.GetAuction(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Auction retrieved successfully.", ToAuctionResponse(a, h.now()))
}

func (h *Handler) checkBid(c *gin.Context) {
	id, ok := h.auctionID(c)
	if !ok {
		return
	}
	check, err := h.service.CheckBid(c.Request.Context(), id, c.Query("amount"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Bid is acceptable.", check)
}

func (h *Handler) createAuction(c *gin.Context) {
	var req CreateAuctionRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.service.CreateAuction(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Auction created successfully.", result)
}

func (h *Handler) endAuction(c *gin.Context) {
	id, ok := h.auctionID(c)
	if !ok {
		return
	}
	result, err := h.service.EndAuction(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Auction ended successfully.", result)
}

func (h *Handler) placeBid(c *gin.Context) {
	id, ok := h.auctionID(c)
	if !ok {
		return
	}
	var req PlaceBidRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.service.PlaceBid(c.Request.Context(), id, req.Amount)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Bid placed successfully!", result)
}

func (h *Handler) withdrawReturns(c *gin.Context) {
	id, ok := h.auctionID(c)
	if !ok {
		return
	}
	result, err := h.service.WithdrawReturns(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Withdrawal successful!", result)
}

func (h *Handler) operatorWallet(c *gin.Context) {
	wallet, err := h.service.OperatorWallet(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Operator wallet retrieved successfully.", wallet)
}

func (h *Handler) auctionID(c *gin.Context) (uint64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		h.logger.Debug("Invalid auction ID in URL parameter", zap.String("paramID", raw))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid auction ID."))
		return 0, false
	}
	return id, true
}

func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Warn("Invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return false
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return false
	}
	return true
}
