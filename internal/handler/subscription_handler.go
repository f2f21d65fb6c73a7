package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/relieftech/marketplace-api/internal/middleware"
	"github.com/relieftech/marketplace-api/internal/service"
	"github.com/relieftech/marketplace-api/pkg/response"
)

// SubscriptionHandler serves the phase-3 tier standing endpoints.
type SubscriptionHandler struct {
	service *service.SubscriptionService
}

// NewSubscriptionHandler creates a new handler.
func NewSubscriptionHandler(svc *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: svc}
}

// TeacherTier godoc
// @Summary Get teacher subscription tier
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /v3/teacher/me/subscription [get]
func (h *SubscriptionHandler) TeacherTier(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	sub, err := h.service.TeacherTier(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"subscription": sub}, nil)
}

// SchoolTier godoc
// @Summary Get school subscription tier
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /v3/school/me/subscription [get]
func (h *SubscriptionHandler) SchoolTier(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	sub, err := h.service.SchoolTier(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"subscription": sub}, nil)
}
