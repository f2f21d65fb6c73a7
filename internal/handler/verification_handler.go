package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/relieftech/marketplace-api/internal/middleware"
	"github.com/relieftech/marketplace-api/internal/models"
	"github.com/relieftech/marketplace-api/internal/service"
	appErrors "github.com/relieftech/marketplace-api/pkg/errors"
	"github.com/relieftech/marketplace-api/pkg/response"
)

// VerificationHandler serves credential verification submission and the
// admin decision endpoint.
type VerificationHandler struct {
	service *service.VerificationService
}

// NewVerificationHandler creates a new handler.
func NewVerificationHandler(svc *service.VerificationService) *VerificationHandler {
	return &VerificationHandler{service: svc}
}

// Submit godoc
// @Summary Submit a credential verification
// @Tags Verifications
// @Accept json
// @Produce json
// @Param payload body models.CreateVerificationRequest true "Verification payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /v3/teacher/me/credential-verifications [post]
func (h *VerificationHandler) Submit(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	var req models.CreateVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid verification payload"))
		return
	}

	v, err := h.service.Submit(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"verification": v})
}

// ListOwn godoc
// @Summary List own credential verifications
// @Tags Verifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /v3/teacher/me/credential-verifications [get]
func (h *VerificationHandler) ListOwn(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	rows, err := h.service.ListOwn(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"verifications": rows}, nil)
}

// Decide godoc
// @Summary Decide a credential verification (admin)
// @Tags Verifications
// @Accept json
// @Produce json
// @Param id path string true "Verification id"
// @Param payload body models.DecideVerificationRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /v3/credential-verifications/{id}/decide [post]
func (h *VerificationHandler) Decide(c *gin.Context) {
	var req models.DecideVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}

	v, err := h.service.Decide(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"verification": v}, nil)
}
