package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/relieftech/marketplace-api/internal/models"
	"github.com/relieftech/marketplace-api/internal/service"
	appErrors "github.com/relieftech/marketplace-api/pkg/errors"
	"github.com/relieftech/marketplace-api/pkg/response"
)

// CountryHandler serves the supported-country configuration endpoints.
type CountryHandler struct {
	service *service.CountryService
}

// NewCountryHandler creates a new handler.
func NewCountryHandler(svc *service.CountryService) *CountryHandler {
	return &CountryHandler{service: svc}
}

// List godoc
// @Summary List country configurations
// @Tags Countries
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /v3/configs [get]
func (h *CountryHandler) List(c *gin.Context) {
	configs, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"configs": configs}, nil)
}

// Upsert godoc
// @Summary Create or replace a country configuration (admin)
// @Tags Countries
// @Accept json
// @Produce json
// @Param payload body models.UpsertCountryConfigRequest true "Country config"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /v3/admin/configs [post]
func (h *CountryHandler) Upsert(c *gin.Context) {
	var req models.UpsertCountryConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid country config payload"))
		return
	}

	cfg, err := h.service.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"config": cfg}, nil)
}

// Delete godoc
// @Summary Delete a country configuration (admin)
// @Tags Countries
// @Produce json
// @Param countryCode path string true "Country code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /v3/admin/configs/{countryCode} [delete]
func (h *CountryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("countryCode")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"ok": true}, nil)
}
