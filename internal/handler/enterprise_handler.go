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

// EnterpriseHandler serves the enterprise multi-school endpoints.
type EnterpriseHandler struct {
	service *service.EnterpriseService
}

// NewEnterpriseHandler creates a new handler.
func NewEnterpriseHandler(svc *service.EnterpriseService) *EnterpriseHandler {
	return &EnterpriseHandler{service: svc}
}

// Create godoc
// @Summary Create an enterprise school group (admin)
// @Tags Enterprise
// @Accept json
// @Produce json
// @Param payload body models.CreateEnterpriseSchoolRequest true "Enterprise payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /v3/enterprise-schools [post]
func (h *EnterpriseHandler) Create(c *gin.Context) {
	var req models.CreateEnterpriseSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid enterprise payload"))
		return
	}

	es, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"enterprise_school": es})
}

// Get godoc
// @Summary Get an enterprise school group (admin or member)
// @Tags Enterprise
// @Produce json
// @Param enterpriseSchoolId path string true "Enterprise school id"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /v3/enterprise-schools/{enterpriseSchoolId} [get]
func (h *EnterpriseHandler) Get(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	es, err := h.service.Get(c.Request.Context(), c.Param("enterpriseSchoolId"), claims.UserID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"enterprise_school": es}, nil)
}

// UpsertMember godoc
// @Summary Add or update a member school (admin)
// @Tags Enterprise
// @Accept json
// @Produce json
// @Param enterpriseSchoolId path string true "Enterprise school id"
// @Param schoolUserId path string true "School user id"
// @Param payload body models.UpsertEnterpriseMemberRequest true "Member payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /v3/enterprise-schools/{enterpriseSchoolId}/members/{schoolUserId} [put]
func (h *EnterpriseHandler) UpsertMember(c *gin.Context) {
	var req models.UpsertEnterpriseMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid member payload"))
		return
	}

	if err := h.service.UpsertMember(c.Request.Context(), c.Param("enterpriseSchoolId"), c.Param("schoolUserId"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"ok": true}, nil)
}

// RemoveMember godoc
// @Summary Remove a member school (admin)
// @Tags Enterprise
// @Produce json
// @Param enterpriseSchoolId path string true "Enterprise school id"
// @Param schoolUserId path string true "School user id"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /v3/enterprise-schools/{enterpriseSchoolId}/members/{schoolUserId} [delete]
func (h *EnterpriseHandler) RemoveMember(c *gin.Context) {
	if err := h.service.RemoveMember(c.Request.Context(), c.Param("enterpriseSchoolId"), c.Param("schoolUserId")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"ok": true}, nil)
}

// Summary godoc
// @Summary Aggregate activity report (admin)
// @Tags Enterprise
// @Produce json
// @Param enterpriseSchoolId path string true "Enterprise school id"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /v3/enterprise-schools/{enterpriseSchoolId}/reports/summary [get]
func (h *EnterpriseHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context(), c.Param("enterpriseSchoolId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// NotifyMembers godoc
// @Summary Fan a notification out to all member schools (admin)
// @Tags Enterprise
// @Accept json
// @Produce json
// @Param enterpriseSchoolId path string true "Enterprise school id"
// @Param payload body models.BatchNotifyRequest true "Notification payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /v3/enterprise-schools/{enterpriseSchoolId}/notifications/batch [post]
func (h *EnterpriseHandler) NotifyMembers(c *gin.Context) {
	var req models.BatchNotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid notification payload"))
		return
	}

	created, err := h.service.NotifyMembers(c.Request.Context(), c.Param("enterpriseSchoolId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if created == 0 {
		response.JSON(c, http.StatusOK, gin.H{"created": 0}, nil)
		return
	}
	response.Created(c, gin.H{"created": created})
}
