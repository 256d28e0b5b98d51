package handlers

import (
	"net/http"

	"gradpolls/internal/models"
	"gradpolls/internal/services"
	"gradpolls/pkg/response"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateComment godoc
// @Summary Comment on a poll
// @Description Adds a root comment, or a reply when parent_id names a comment on the same poll.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Poll ID"
// @Param request body models.CreateCommentRequest true "Comment data"
// @Success 201 {object} models.CommentResponse
// @Failure 400 {object} map[string]interface{} "Empty content or invalid parent"
// @Failure 404 {object} map[string]interface{} "Poll not found"
// @Router /polls/{id}/comments [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	pollID, ok := pathID(c)
	if !ok {
		return
	}
	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comment, err := h.commentService.CreateComment(c.MustGet("user_id").(uint), pollID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ListComments godoc
// @Summary List a poll's root comments
// @Description Pages of 10, newest first, with direct reply counts.
// @Tags comments
// @Produce json
// @Param id path int true "Poll ID"
// @Param page query int false "Page number"
// @Success 200 {array} models.CommentResponse
// @Router /polls/{id}/comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	pollID, ok := pathID(c)
	if !ok {
		return
	}
	comments, err := h.commentService.ListComments(pollID, pageParam(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// ListReplies godoc
// @Summary List replies to a comment
// @Tags comments
// @Produce json
// @Param id path int true "Comment ID"
// @Param page query int false "Page number"
// @Success 200 {array} models.CommentResponse
// @Failure 404 {object} map[string]interface{} "Comment not found"
// @Router /comments/{id}/replies [get]
func (h *CommentHandler) ListReplies(c *gin.Context) {
	commentID, ok := pathID(c)
	if !ok {
		return
	}
	replies, err := h.commentService.ListReplies(commentID, pageParam(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, replies)
}

// DeleteComment godoc
// @Summary Delete a comment
// @Description Removes the comment and its whole reply subtree. Author only.
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]interface{} "Not the author"
// @Failure 404 {object} map[string]interface{} "Comment not found"
// @Router /comments/{id} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.commentService.DeleteComment(c.MustGet("user_id").(uint), commentID); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}
