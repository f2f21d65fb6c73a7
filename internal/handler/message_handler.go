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

// MessageHandler serves the phase-3 direct messaging endpoints.
type MessageHandler struct {
	service *service.MessageService
}

// NewMessageHandler creates a new handler.
func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{service: svc}
}

// Send godoc
// @Summary Send a message
// @Description School-to-teacher sends require country_code and a discoverable teacher
// @Tags Messages
// @Accept json
// @Produce json
// @Param payload body models.SendMessageRequest true "Message payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /v3/messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid message payload"))
		return
	}

	msg, err := h.service.Send(c.Request.Context(), claims.UserID, claims.Role, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"message": msg})
}

// Inbox godoc
// @Summary List received messages
// @Tags Messages
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /v3/messages/inbox [get]
func (h *MessageHandler) Inbox(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	msgs, err := h.service.Inbox(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"messages": msgs}, nil)
}

// Sent godoc
// @Summary List sent messages
// @Tags Messages
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /v3/messages/sent [get]
func (h *MessageHandler) Sent(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	msgs, err := h.service.Sent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"messages": msgs}, nil)
}

// MarkRead godoc
// @Summary Mark a message as read
// @Tags Messages
// @Produce json
// @Param id path string true "Message id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /v3/messages/{id}/read [post]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if err := h.service.MarkRead(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"ok": true}, nil)
}
