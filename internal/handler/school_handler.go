package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/relieftech/marketplace-api/internal/middleware"
	"github.com/relieftech/marketplace-api/internal/models"
	"github.com/relieftech/marketplace-api/internal/service"
	appErrors "github.com/relieftech/marketplace-api/pkg/errors"
	"github.com/relieftech/marketplace-api/pkg/response"
)

// SchoolHandler serves the school-facing discovery surface across all three
// phases, plus favourites and school notifications.
type SchoolHandler struct {
	discovery     *service.DiscoveryService
	favourites    *service.FavouriteService
	notifications *service.NotificationService
}

// NewSchoolHandler creates a new handler.
func NewSchoolHandler(discovery *service.DiscoveryService, favourites *service.FavouriteService, notifications *service.NotificationService) *SchoolHandler {
	return &SchoolHandler{discovery: discovery, favourites: favourites, notifications: notifications}
}

// teacherIDParam returns the teacherUserId path param. A malformed id can
// never name an existing teacher, so it yields the same not-found outcome
// as an unknown one instead of reaching the database.
func teacherIDParam(c *gin.Context) (string, bool) {
	id := c.Param("teacherUserId")
	if uuid.Validate(id) != nil {
		response.Error(c, appErrors.ErrNotFound)
		return "", false
	}
	return id, true
}

// queryDate resolves the optional date parameter, defaulting to today.
func queryDate(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now().UTC(), true
	}
	date, ok := models.ParseISODate(raw)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be a YYYY-MM-DD date"))
		return time.Time{}, false
	}
	return date, true
}

// ListTeachers godoc
// @Summary List discoverable teachers (Phase 1)
// @Description Minimal map listing with truncated names
// @Tags Schools
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/teachers [get]
func (h *SchoolHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.discovery.List(c.Request.Context(), models.ListQuery{
		Date:  time.Now().UTC(),
		Phase: models.PhaseOne,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"teachers": teachers}, nil)
}

// TeacherDetail godoc
// @Summary Get teacher detail (Phase 1)
// @Description Gated detail view; a hidden teacher is indistinguishable from a missing one
// @Tags Schools
// @Produce json
// @Param teacherUserId path string true "Teacher id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/teachers/{teacherUserId} [get]
func (h *SchoolHandler) TeacherDetail(c *gin.Context) {
	teacherID, ok := teacherIDParam(c)
	if !ok {
		return
	}
	detail, err := h.discovery.Detail(c.Request.Context(), teacherID, models.DiscoveryContext{
		Date: time.Now().UTC(),
	}, models.PhaseOne)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// ListTeachersV2 godoc
// @Summary List discoverable teachers (Phase 2)
// @Description Calendar-aware listing with boost ordering and optional distance filter
// @Tags Schools
// @Produce json
// @Param date query string false "Target date (YYYY-MM-DD), defaults to today"
// @Param origin_postcode query string false "Origin postcode for distance filtering"
// @Param max_distance_km query number false "Maximum distance in km (inclusive)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/v2/teachers [get]
func (h *SchoolHandler) ListTeachersV2(c *gin.Context) {
	date, ok := queryDate(c)
	if !ok {
		return
	}

	q := models.ListQuery{Date: date, Phase: models.PhaseTwo, OriginPostcode: c.Query("origin_postcode")}
	if raw := c.Query("max_distance_km"); raw != "" {
		maxKm, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "max_distance_km must be a number"))
			return
		}
		q.MaxDistanceKm = maxKm
	}

	teachers, err := h.discovery.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"teachers": teachers, "date": models.FormatISODate(date)}, nil)
}

// TeacherDetailV2 godoc
// @Summary Get teacher detail (Phase 2)
// @Tags Schools
// @Produce json
// @Param teacherUserId path string true "Teacher id"
// @Param date query string false "Target date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/v2/teachers/{teacherUserId} [get]
func (h *SchoolHandler) TeacherDetailV2(c *gin.Context) {
	teacherID, ok := teacherIDParam(c)
	if !ok {
		return
	}
	date, ok := queryDate(c)
	if !ok {
		return
	}
	detail, err := h.discovery.Detail(c.Request.Context(), teacherID, models.DiscoveryContext{
		Date: date,
	}, models.PhaseTwo)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// ListTeachersV3 godoc
// @Summary List discoverable teachers (Phase 3)
// @Description Country-aware listing with tier priority ranking
// @Tags Schools
// @Produce json
// @Param country_code query string true "Country code (2 letters)"
// @Param date query string false "Target date (YYYY-MM-DD), defaults to today"
// @Param origin_postcode query string false "Origin postcode for distance filtering"
// @Param max_distance_km query number false "Maximum distance in km (inclusive)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/v3/teachers [get]
func (h *SchoolHandler) ListTeachersV3(c *gin.Context) {
	countryCode := strings.ToUpper(c.Query("country_code"))
	if len(countryCode) != 2 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "country_code must be 2 letters"))
		return
	}
	date, ok := queryDate(c)
	if !ok {
		return
	}

	q := models.ListQuery{
		Date:           date,
		CountryCode:    countryCode,
		Phase:          models.PhaseThree,
		OriginPostcode: c.Query("origin_postcode"),
	}
	if raw := c.Query("max_distance_km"); raw != "" {
		maxKm, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "max_distance_km must be a number"))
			return
		}
		q.MaxDistanceKm = maxKm
	}

	teachers, err := h.discovery.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"teachers":     teachers,
		"country_code": q.CountryCode,
		"date":         models.FormatISODate(date),
	}, nil)
}

// TeacherDetailV3 godoc
// @Summary Get teacher detail (Phase 3)
// @Description Country-aware gated detail with subscription standing and verification summary
// @Tags Schools
// @Produce json
// @Param teacherUserId path string true "Teacher id"
// @Param country_code query string true "Country code (2 letters)"
// @Param date query string false "Target date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/v3/teachers/{teacherUserId} [get]
func (h *SchoolHandler) TeacherDetailV3(c *gin.Context) {
	teacherID, ok := teacherIDParam(c)
	if !ok {
		return
	}
	countryCode := c.Query("country_code")
	if len(countryCode) != 2 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "country_code must be 2 letters"))
		return
	}
	date, ok := queryDate(c)
	if !ok {
		return
	}
	detail, err := h.discovery.Detail(c.Request.Context(), teacherID, models.DiscoveryContext{
		Date:        date,
		CountryCode: countryCode,
	}, models.PhaseThree)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// ListFavourites godoc
// @Summary List favourites
// @Description Only favourites discoverable today are returned
// @Tags Schools
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/v2/favourites [get]
func (h *SchoolHandler) ListFavourites(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	favourites, err := h.favourites.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"favourites": favourites}, nil)
}

// AddFavourite godoc
// @Summary Save a teacher
// @Description Rejected with 404 when the teacher is not discoverable today
// @Tags Schools
// @Produce json
// @Param teacherUserId path string true "Teacher id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/v2/favourites/{teacherUserId} [put]
func (h *SchoolHandler) AddFavourite(c *gin.Context) {
	teacherID, ok := teacherIDParam(c)
	if !ok {
		return
	}
	claims := middleware.CurrentClaims(c)
	if err := h.favourites.Add(c.Request.Context(), claims.UserID, teacherID); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"ok": true}, nil)
}

// RemoveFavourite godoc
// @Summary Remove a saved teacher
// @Tags Schools
// @Produce json
// @Param teacherUserId path string true "Teacher id"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/v2/favourites/{teacherUserId} [delete]
func (h *SchoolHandler) RemoveFavourite(c *gin.Context) {
	teacherID := c.Param("teacherUserId")
	if uuid.Validate(teacherID) != nil {
		// Nothing can be saved under a malformed id; removal stays the
		// same no-op it is for an unknown teacher.
		response.JSON(c, http.StatusOK, gin.H{"ok": true}, nil)
		return
	}
	claims := middleware.CurrentClaims(c)
	if err := h.favourites.Remove(c.Request.Context(), claims.UserID, teacherID); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"ok": true}, nil)
}

// Notifications godoc
// @Summary List notifications
// @Tags Schools
// @Produce json
// @Param unread query string false "Restrict to unread (true/false)"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/v2/me/notifications [get]
func (h *SchoolHandler) Notifications(c *gin.Context) {
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
// @Tags Schools
// @Produce json
// @Param id path string true "Notification id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/v2/me/notifications/{id}/read [post]
func (h *SchoolHandler) ReadNotification(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if err := h.notifications.MarkRead(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"ok": true}, nil)
}
