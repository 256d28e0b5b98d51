package handlers

import (
	"net/http"

	"gradpolls/internal/models"
	"gradpolls/internal/services"
	"gradpolls/pkg/response"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// Conversations godoc
// @Summary List conversations
// @Description Users the caller mutually follows, with pin state and unread counts. Pinned threads first.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ConversationResponse
// @Router /messages [get]
func (h *MessageHandler) Conversations(c *gin.Context) {
	conversations, err := h.messageService.Conversations(c.MustGet("user_id").(uint))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, conversations)
}

// History godoc
// @Summary Read a conversation
// @Description Returns the full thread oldest-first and marks the other side's messages as read.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Other user ID"
// @Success 200 {array} models.DirectMessageResponse
// @Router /messages/{id} [get]
func (h *MessageHandler) History(c *gin.Context) {
	otherID, ok := pathID(c)
	if !ok {
		return
	}
	messages, err := h.messageService.History(c.MustGet("user_id").(uint), otherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// Send godoc
// @Summary Send a direct message
// @Description Requires a mutual follow between sender and recipient.
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipient user ID"
// @Param request body models.SendMessageRequest true "Message data"
// @Success 201 {object} models.DirectMessageResponse
// @Failure 403 {object} map[string]interface{} "Users do not follow each other"
// @Failure 404 {object} map[string]interface{} "User not found"
// @Router /messages/{id} [post]
func (h *MessageHandler) Send(c *gin.Context) {
	recipientID, ok := pathID(c)
	if !ok {
		return
	}
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	message, err := h.messageService.Send(c.Request.Context(), c.MustGet("user_id").(uint), recipientID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// PinConversation godoc
// @Summary Pin a conversation
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Other user ID"
// @Success 200 {object} models.PinResponse
// @Failure 404 {object} map[string]interface{} "User not found"
// @Router /messages/{id}/pin [post]
func (h *MessageHandler) PinConversation(c *gin.Context) {
	otherID, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.messageService.PinConversation(c.MustGet("user_id").(uint), otherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UnpinConversation godoc
// @Summary Unpin a conversation
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Other user ID"
// @Success 200 {object} models.PinResponse
// @Router /messages/{id}/pin [delete]
func (h *MessageHandler) UnpinConversation(c *gin.Context) {
	otherID, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.messageService.UnpinConversation(c.MustGet("user_id").(uint), otherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
