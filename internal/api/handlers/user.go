package handlers

import (
	"net/http"
	"strconv"

	"gradpolls/internal/models"
	"gradpolls/internal/services"
	"gradpolls/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService   *services.UserService
	followService *services.FollowService
}

func NewUserHandler(userService *services.UserService, followService *services.FollowService) *UserHandler {
	return &UserHandler{userService: userService, followService: followService}
}

// viewerID returns the authenticated user's ID, or 0 for anonymous callers
// on OptionalAuth routes.
func viewerID(c *gin.Context) uint {
	if id, exists := c.Get("user_id"); exists {
		return id.(uint)
	}
	return 0
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// GetProfile godoc
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} map[string]interface{} "Unauthorized - invalid or missing token"
// @Router /users/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	user, err := h.userService.GetProfile(userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ViewUser godoc
// @Summary View another user's profile
// @Description Private profiles are visible only to the owner and accepted followers; anyone else gets 404.
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.ProfileResponse
// @Failure 404 {object} map[string]interface{} "User not found or not visible"
// @Router /users/{id} [get]
func (h *UserHandler) ViewUser(c *gin.Context) {
	targetID, ok := pathID(c)
	if !ok {
		return
	}
	profile, err := h.userService.ViewUser(viewerID(c), targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 401 {object} map[string]interface{} "Unauthorized - invalid or missing token"
// @Failure 409 {object} map[string]interface{} "Username already taken"
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// TogglePrivacy godoc
// @Summary Toggle account privacy
// @Description Flips between private and public. Existing followers are kept either way.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.PrivacyResponse
// @Failure 401 {object} map[string]interface{} "Unauthorized - invalid or missing token"
// @Router /users/privacy [put]
func (h *UserHandler) TogglePrivacy(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	result, err := h.userService.TogglePrivacy(userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SearchUsers godoc
// @Summary Search users by username
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param q query string true "Username substring"
// @Success 200 {array} models.UserResponse
// @Failure 401 {object} map[string]interface{} "Unauthorized - invalid or missing token"
// @Router /users/search [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	users, err := h.userService.SearchUsers(c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListFollowers godoc
// @Summary List a user's followers
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {array} models.FollowUserResponse
// @Failure 404 {object} map[string]interface{} "User not found or not visible"
// @Router /users/{id}/followers [get]
func (h *UserHandler) ListFollowers(c *gin.Context) {
	targetID, ok := pathID(c)
	if !ok {
		return
	}
	users, err := h.followService.ListFollowers(c.MustGet("user_id").(uint), targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListFollowing godoc
// @Summary List who a user follows
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {array} models.FollowUserResponse
// @Failure 404 {object} map[string]interface{} "User not found or not visible"
// @Router /users/{id}/following [get]
func (h *UserHandler) ListFollowing(c *gin.Context) {
	targetID, ok := pathID(c)
	if !ok {
		return
	}
	users, err := h.followService.ListFollowing(c.MustGet("user_id").(uint), targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
