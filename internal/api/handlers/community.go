package handlers

import (
	"net/http"

	"gradpolls/internal/models"
	"gradpolls/internal/services"
	"gradpolls/pkg/response"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	communityService *services.CommunityService
}

func NewCommunityHandler(communityService *services.CommunityService) *CommunityHandler {
	return &CommunityHandler{communityService: communityService}
}

// CreateCommunity godoc
// @Summary Create a community
// @Description Creates the room for a (university, program) pair; the creator joins automatically. The pair is unique.
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateCommunityRequest true "Community data"
// @Success 201 {object} models.CommunityResponse
// @Failure 400 {object} map[string]interface{} "Bad request - invalid input data"
// @Failure 409 {object} map[string]interface{} "Community already exists for that pair"
// @Router /communities [post]
func (h *CommunityHandler) CreateCommunity(c *gin.Context) {
	var req models.CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	community, err := h.communityService.CreateCommunity(c.Request.Context(), c.MustGet("user_id").(uint), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, community)
}

// ListCommunities godoc
// @Summary List communities
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param search query string false "Match against university or program"
// @Success 200 {array} models.CommunityResponse
// @Router /communities [get]
func (h *CommunityHandler) ListCommunities(c *gin.Context) {
	communities, err := h.communityService.ListCommunities(c.MustGet("user_id").(uint), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, communities)
}

// GetCommunity godoc
// @Summary Get a community
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} models.CommunityResponse
// @Failure 404 {object} map[string]interface{} "Community not found"
// @Router /communities/{id} [get]
func (h *CommunityHandler) GetCommunity(c *gin.Context) {
	communityID, ok := pathID(c)
	if !ok {
		return
	}
	community, err := h.communityService.GetCommunity(c.MustGet("user_id").(uint), communityID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, community)
}

// Join godoc
// @Summary Join a community
// @Description Idempotent; joining twice is a no-op.
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]interface{} "Community not found"
// @Router /communities/{id}/join [post]
func (h *CommunityHandler) Join(c *gin.Context) {
	communityID, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.communityService.Join(c.MustGet("user_id").(uint), communityID); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "joined"})
}

// PostMessage godoc
// @Summary Post to a community board
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Param request body models.CommunityMessageRequest true "Message data"
// @Success 201 {object} models.CommunityMessageResponse
// @Failure 403 {object} map[string]interface{} "Not a member"
// @Router /communities/{id}/messages [post]
func (h *CommunityHandler) PostMessage(c *gin.Context) {
	communityID, ok := pathID(c)
	if !ok {
		return
	}
	var req models.CommunityMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	message, err := h.communityService.PostMessage(c.MustGet("user_id").(uint), communityID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

// ListMessages godoc
// @Summary Read a community board
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {array} models.CommunityMessageResponse
// @Failure 403 {object} map[string]interface{} "Not a member"
// @Router /communities/{id}/messages [get]
func (h *CommunityHandler) ListMessages(c *gin.Context) {
	communityID, ok := pathID(c)
	if !ok {
		return
	}
	messages, err := h.communityService.ListMessages(c.MustGet("user_id").(uint), communityID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// Pin godoc
// @Summary Pin a community
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} models.PinResponse
// @Failure 404 {object} map[string]interface{} "Community not found"
// @Router /communities/{id}/pin [post]
func (h *CommunityHandler) Pin(c *gin.Context) {
	communityID, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.communityService.Pin(c.MustGet("user_id").(uint), communityID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Unpin godoc
// @Summary Unpin a community
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} models.PinResponse
// @Router /communities/{id}/pin [delete]
func (h *CommunityHandler) Unpin(c *gin.Context) {
	communityID, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.communityService.Unpin(c.MustGet("user_id").(uint), communityID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListPinned godoc
// @Summary List pinned communities
// @Tags communities
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.CommunityResponse
// @Router /communities/pinned [get]
func (h *CommunityHandler) ListPinned(c *gin.Context) {
	communities, err := h.communityService.ListPinned(c.MustGet("user_id").(uint))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, communities)
}
