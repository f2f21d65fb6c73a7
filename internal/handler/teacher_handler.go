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

// TeacherHandler serves a teacher's own records: profile, location,
// availability, calendar, subscription, boost and notifications.
type TeacherHandler struct {
	teachers      *service.TeacherService
	availability  *service.AvailabilityService
	subscriptions *service.SubscriptionService
	notifications *service.NotificationService
}

// NewTeacherHandler creates a new handler.
func NewTeacherHandler(teachers *service.TeacherService, availability *service.AvailabilityService, subscriptions *service.SubscriptionService, notifications *service.NotificationService) *TeacherHandler {
	return &TeacherHandler{
		teachers:      teachers,
		availability:  availability,
		subscriptions: subscriptions,
		notifications: notifications,
	}
}

// Profile godoc
// @Summary Get own profile
// @Tags Teachers
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers/me/profile [get]
func (h *TeacherHandler) Profile(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	profile, err := h.teachers.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"profile": profile}, nil)
}

// Location godoc
// @Summary Get own location
// @Tags Teachers
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers/me/location [get]
func (h *TeacherHandler) Location(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	location, err := h.teachers.Location(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"location": location}, nil)
}

// WeeklyAvailability godoc
// @Summary Get own weekly availability
// @Tags Teachers
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers/me/availability [get]
func (h *TeacherHandler) WeeklyAvailability(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	rows, err := h.availability.ListWeekly(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"weekly_availability": rows}, nil)
}

// Subscribe godoc
// @Summary Subscribe (billing stub)
// @Description Create a subscription row for the stub billing period
// @Tags Teachers
// @Produce json
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers/subscribe [post]
func (h *TeacherHandler) Subscribe(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	snapshot, err := h.subscriptions.Subscribe(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, snapshot)
}

// Subscription godoc
// @Summary Get own subscription
// @Tags Teachers
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers/me/subscription [get]
func (h *TeacherHandler) Subscription(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	snapshot, err := h.subscriptions.GetOwn(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// CalendarRange godoc
// @Summary List date-specific availability
// @Tags Teachers
// @Produce json
// @Param from query string true "Start date (YYYY-MM-DD)"
// @Param to query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers/v2/me/availability-calendar [get]
func (h *TeacherHandler) CalendarRange(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	entries, err := h.availability.CalendarRange(c.Request.Context(), claims.UserID, c.Query("from"), c.Query("to"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"availability": entries}, nil)
}

// UpsertCalendar godoc
// @Summary Upsert date-specific availability
// @Description Apply a batch of date overrides as one all-or-nothing transaction
// @Tags Teachers
// @Accept json
// @Produce json
// @Param payload body models.CalendarUpsertRequest true "Calendar batch"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers/v2/me/availability-calendar [put]
func (h *TeacherHandler) UpsertCalendar(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	var req models.CalendarUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid calendar payload"))
		return
	}
	if err := h.availability.UpsertCalendar(c.Request.Context(), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"ok": true}, nil)
}

// Notifications godoc
// @Summary List notifications
// @Tags Teachers
// @Produce json
// @Param unread query string false "Restrict to unread (true/false)"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers/v2/me/notifications [get]
func (h *TeacherHandler) Notifications(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	views, err := h.notifications.List(c.Request.Context(), claims.UserID, c.Query("unread") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"notifications": views}, nil)
}

// ReadNotification godoc
// @Summary Mark a notification as read
// @Tags Teachers
// @Produce json
// @Param id path string true "Notification id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers/v2/me/notifications/{id}/read [post]
func (h *TeacherHandler) ReadNotification(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if err := h.notifications.MarkRead(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"ok": true}, nil)
}

// BoostStatus godoc
// @Summary Get boost status
// @Tags Teachers
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers/v2/me/boost/status [get]
func (h *TeacherHandler) BoostStatus(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	status, err := h.subscriptions.BoostStatus(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"boost": status}, nil)
}

// ActivateBoost godoc
// @Summary Activate boost
// @Description Requires at least one subscription row; boost affects ranking only
// @Tags Teachers
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /teachers/v2/me/boost/activate [post]
func (h *TeacherHandler) ActivateBoost(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	status, err := h.subscriptions.ActivateBoost(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"boost": status}, nil)
}
