// File: internal/user/handler.go
package user

import (
	"errors"
	"net/http"

	"arta_auction_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for user handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("UserHandler"),
	}
}

// RegisterRoutes sets up the versioned routes for user operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	userGroup := router.Group("/users")
	{
		userGroup.POST("/register", h.register)
		userGroup.GET("/wallet/:address", h.getProfileByWallet)

		authenticatedUserGroup := userGroup.Group("")
		authenticatedUserGroup.Use(authMW)
		{
			authenticatedUserGroup.GET("/me", h.getMe)
			authenticatedUserGroup.PUT("/me/wallet", h.linkWallet)
		}
	}
}

// RegisterLegacyRoutes mounts the unversioned endpoints the SPA calls directly.
// Their bodies are bare JSON, not the standard envelope.
func (h *Handler) RegisterLegacyRoutes(router *gin.RouterGroup) {
	router.POST("/register", h.legacyRegister)
	router.GET("/users/:address", h.legacyProfile)
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("User registration: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}
	usr, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "User registered successfully.", ToUserResponse(usr))
}

func (h *Handler) legacyRegister(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide all required fields."})
		return
	}
	if _, err := h.service.Register(c.Request.Context(), req); err != nil {
		if apiErr, ok := common.IsAPIError(err); ok && apiErr.StatusCode == http.StatusConflict {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already registered."})
			return
		}
		h.logger.Error("Legacy registration failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully!"})
}

func (h *Handler) getMe(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		h.logger.Error("User ID not found in context for /me", zap.String("path", c.Request.URL.Path))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}
	usr, err := h.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User profile retrieved successfully.", ToUserResponse(usr))
}

func (h *Handler) linkWallet(c *gin.Context) {
	var req LinkWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}
	usr, err := h.service.LinkWallet(c.Request.Context(), common.GetUserIDFromContext(c), req.WalletAddress)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Wallet linked successfully.", ToUserResponse(usr))
}

func (h *Handler) getProfileByWallet(c *gin.Context) {
	profile, err := h.service.GetProfileByWallet(c.Request.Context(), c.Param("address"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile retrieved successfully.", profile)
}

func (h *Handler) legacyProfile(c *gin.Context) {
	profile, err := h.service.GetProfileByWallet(c.Request.Context(), c.Param("address"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
