package handlers

import (
	"net/http"

	"gradpolls/internal/services"
	"gradpolls/pkg/response"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	followService *services.FollowService
}

func NewFollowHandler(followService *services.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// Follow godoc
// @Summary Follow a user
// @Description Follows a public account immediately; a private account gets a pending request instead. Repeating the call reports the current state.
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "Target user ID"
// @Success 200 {object} models.FollowActionResponse
// @Failure 400 {object} map[string]interface{} "Cannot follow yourself"
// @Failure 404 {object} map[string]interface{} "User not found"
// @Router /users/{id}/follow [post]
func (h *FollowHandler) Follow(c *gin.Context) {
	targetID, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.followService.Follow(c.Request.Context(), c.MustGet("user_id").(uint), targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Unfollow godoc
// @Summary Unfollow a user
// @Description Removes the follow edge, or withdraws a pending request.
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "Target user ID"
// @Success 200 {object} models.FollowActionResponse
// @Failure 400 {object} map[string]interface{} "Cannot unfollow yourself"
// @Router /users/{id}/follow [delete]
func (h *FollowHandler) Unfollow(c *gin.Context) {
	targetID, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.followService.Unfollow(c.Request.Context(), c.MustGet("user_id").(uint), targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// State godoc
// @Summary Get follow state for a user
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "Target user ID"
// @Success 200 {object} models.FollowActionResponse
// @Router /users/{id}/follow [get]
func (h *FollowHandler) State(c *gin.Context) {
	targetID, ok := pathID(c)
	if !ok {
		return
	}
	state, err := h.followService.State(c.MustGet("user_id").(uint), targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

// ListReceivedRequests godoc
// @Summary List pending follow requests received
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.FollowRequestResponse
// @Router /follow-requests [get]
func (h *FollowHandler) ListReceivedRequests(c *gin.Context) {
	requests, err := h.followService.ListReceivedRequests(c.MustGet("user_id").(uint))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// ListSentRequests godoc
// @Summary List pending follow requests sent
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.FollowRequestResponse
// @Router /follow-requests/sent [get]
func (h *FollowHandler) ListSentRequests(c *gin.Context) {
	requests, err := h.followService.ListSentRequests(c.MustGet("user_id").(uint))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// AcceptRequest godoc
// @Summary Accept a pending follow request
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "Requester user ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]interface{} "No pending request from that user"
// @Router /follow-requests/{id}/accept [post]
func (h *FollowHandler) AcceptRequest(c *gin.Context) {
	requesterID, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.followService.AcceptRequest(c.Request.Context(), c.MustGet("user_id").(uint), requesterID); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "request accepted"})
}

// RejectRequest godoc
// @Summary Reject a pending follow request
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "Requester user ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]interface{} "No pending request from that user"
// @Router /follow-requests/{id}/reject [post]
func (h *FollowHandler) RejectRequest(c *gin.Context) {
	requesterID, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.followService.RejectRequest(c.Request.Context(), c.MustGet("user_id").(uint), requesterID); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "request rejected"})
}
