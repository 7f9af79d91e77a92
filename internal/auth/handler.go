// File: internal/auth/handler.go
package auth

import (
	"errors"

	"arta_auction_backend/internal/common"
	"arta_auction_backend/internal/middleware"
	"arta_auction_backend/internal/shared"
	"arta_auction_backend/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for auth handlers.
type Handler struct {
	userService  user.Service
	tokenService shared.TokenService
	blocklist    shared.TokenBlocklist
	logger       *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(
	userService user.Service,
	tokenService shared.TokenService,
	blocklist shared.TokenBlocklist,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		userService:  userService,
		tokenService: tokenService,
		blocklist:    blocklist,
		logger:       logger.Named("AuthHandler"),
	}
}

// RegisterRoutes sets up the routes for authentication operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", h.login)

		authed := authGroup.Group("")
		authed.Use(authMW)
		{
			authed.POST("/logout", h.logout)
			authed.GET("/me", h.me)
		}
	}
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Login: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	loggedInUser, err := h.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	accessToken, expiresAt, err := h.tokenService.GenerateAccessToken(loggedInUser)
	if err != nil {
		h.logger.Error("Failed to generate access token on login", zap.Error(err), zap.String("userID", loggedInUser.ID.String()))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not generate access token."))
		return
	}

	common.RespondOK(c, "Login successful.", LoginResponse{
		User: user.ToUserResponse(loggedInUser),
		Token: shared.TokenResponse{
			AccessToken: accessToken,
			ExpiresAt:   expiresAt,
			TokenType:   common.AuthorizationTypeBearer,
		},
	})
}

func (h *Handler) logout(c *gin.Context) {
	claims := middleware.GetUserClaimsFromContext(c)
	if claims == nil || claims.ID == "" {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Token cannot be revoked."))
		return
	}
	if h.blocklist != nil && claims.ExpiresAt != nil {
		if err := h.blocklist.AddToBlocklist(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			common.RespondWithError(c, err)
			return
		}
	}
	h.logger.Info("User logged out", zap.String("userID", claims.UserID.String()))
	common.RespondOK(c, "Logged out.", nil)
}

func (h *Handler) me(c *gin.Context) {
	usr, err := h.userService.GetUserByID(c.Request.Context(), common.GetUserIDFromContext(c))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Current user retrieved.", user.ToUserResponse(usr))
}
