package contact

import (
	"errors"
	"net/http"

	"arta_auction_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for contact handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new contact handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.Named("ContactHandler"),
	}
}

// RegisterRoutes mounts the public form endpoint and the admin inbox.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc, adminRoleMW gin.HandlerFunc) {
	contactGroup := router.Group("/contact")
	{
		contactGroup.POST("", h.submit)

		adminGroup := contactGroup.Group("")
		adminGroup.Use(authMW, adminRoleMW)
		{
			adminGroup.GET("", h.list)
			adminGroup.GET("/:id", h.get)
			adminGroup.PATCH("/:id/resolve", h.resolve)
			adminGroup.DELETE("/:id", h.delete)
		}
	}
}

// RegisterLegacyRoutes mounts POST /contact with the {success, message} body the SPA reads.
func (h *Handler) RegisterLegacyRoutes(router *gin.RouterGroup) {
	router.POST("/contact", h.legacySubmit)
}

func (h *Handler) submit(c *gin.Context) {
	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Contact form: invalid request body", zap.Error(err))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}
	contact, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Message received and saved", contact)
}

func (h *Handler) legacySubmit(c *gin.Context) {
	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, LegacyResponse{Success: false, Message: ErrMissingFields.Message})
		return
	}
	if _, err := h.service.Submit(c.Request.Context(), req); err != nil {
		if apiErr, ok := common.IsAPIError(err); ok && apiErr.StatusCode == http.StatusBadRequest {
			c.JSON(http.StatusBadRequest, LegacyResponse{Success: false, Message: apiErr.Message})
			return
		}
		h.logger.Error("Error saving contact form", zap.Error(err))
		c.JSON(http.StatusInternalServerError, LegacyResponse{Success: false, Message: "Server error"})
		return
	}
	c.JSON(http.StatusOK, LegacyResponse{Success: true, Message: "Message received and saved"})
}

func (h *Handler) list(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)
	contacts, pagination, err := h.service.ListMessages(c.Request.Context(), ListFilter{
		Status:   c.DefaultQuery("status", StatusAll),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Contact messages retrieved successfully.", contacts, pagination)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := h.messageID(c)
	if !ok {
		return
	}
	contact, err := h.service.GetMessage(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Contact message retrieved successfully.", contact)
}

func (h *Handler) resolve(c *gin.Context) {
	id, ok := h.messageID(c)
	if !ok {
		return
	}
	contact, err := h.service.Resolve(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Contact message resolved.", contact)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := h.messageID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteMessage(c.Request.Context(), id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			h.logger.Debug("Delete of unknown contact message", zap.String("id", id.String()))
		}
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) messageID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid contact message ID format."))
		return uuid.Nil, false
	}
	return id, true
}
