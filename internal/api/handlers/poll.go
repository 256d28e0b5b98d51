package handlers

import (
	"net/http"
	"strconv"

	"gradpolls/internal/models"
	"gradpolls/internal/services"
	"gradpolls/pkg/response"

	"github.com/gin-gonic/gin"
)

type PollHandler struct {
	pollService *services.PollService
}

func NewPollHandler(pollService *services.PollService) *PollHandler {
	return &PollHandler{pollService: pollService}
}

// optionalUserID returns a pointer to the caller's user ID, or nil when the
// request is anonymous.
func optionalUserID(c *gin.Context) *uint {
	if id, exists := c.Get("user_id"); exists {
		uid := id.(uint)
		return &uid
	}
	return nil
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// CreatePoll godoc
// @Summary Create a poll
// @Description Creates a poll with at least two options. A viewing-only option is appended automatically. Works with or without a token; anonymous polls have no owner.
// @Tags polls
// @Accept json
// @Produce json
// @Param request body models.CreatePollRequest true "Poll data"
// @Success 201 {object} models.CreatePollResponse
// @Failure 400 {object} map[string]interface{} "Bad request - invalid input data"
// @Router /polls [post]
func (h *PollHandler) CreatePoll(c *gin.Context) {
	var req models.CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.pollService.CreatePoll(c.Request.Context(), optionalUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListPolls godoc
// @Summary List active polls
// @Description Pages of 10. Sort: new (default), top (all-time upvotes) or trending (upvotes in the last 7 days).
// @Tags polls
// @Produce json
// @Param sort query string false "Sort order" Enums(new, top, trending)
// @Param page query int false "Page number"
// @Success 200 {array} models.PollListItem
// @Failure 400 {object} map[string]interface{} "Unknown sort order"
// @Router /polls [get]
func (h *PollHandler) ListPolls(c *gin.Context) {
	items, err := h.pollService.ListActive(c.Query("sort"), pageParam(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ListArchivedPolls godoc
// @Summary List ended polls
// @Tags polls
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {array} models.PollListItem
// @Router /polls/archive [get]
func (h *PollHandler) ListArchivedPolls(c *gin.Context) {
	items, err := h.pollService.ListArchived(pageParam(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetPoll godoc
// @Summary Get a poll with results
// @Description University polls carry a directory record per option when the remote lookup answers.
// @Tags polls
// @Produce json
// @Param id path int true "Poll ID"
// @Success 200 {object} models.PollResponse
// @Failure 404 {object} map[string]interface{} "Poll not found"
// @Router /polls/{id} [get]
func (h *PollHandler) GetPoll(c *gin.Context) {
	pollID, ok := pathID(c)
	if !ok {
		return
	}
	poll, err := h.pollService.GetPoll(c.Request.Context(), optionalUserID(c), pollID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, poll)
}

// Vote godoc
// @Summary Vote on a poll
// @Description Authenticated users get one vote per poll. Anonymous votes are accepted and unlimited.
// @Tags polls
// @Accept json
// @Produce json
// @Param id path int true "Poll ID"
// @Param request body models.VoteRequest true "Chosen option"
// @Success 200 {object} models.VoteResponse
// @Failure 400 {object} map[string]interface{} "Option does not belong to the poll"
// @Failure 409 {object} map[string]interface{} "Already voted on this poll"
// @Failure 410 {object} map[string]interface{} "Poll has ended"
// @Router /polls/{id}/vote [post]
func (h *PollHandler) Vote(c *gin.Context) {
	pollID, ok := pathID(c)
	if !ok {
		return
	}
	var req models.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.pollService.CastVote(c.Request.Context(), optionalUserID(c), pollID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ToggleUpvote godoc
// @Summary Toggle an upvote on a poll
// @Description Adds the caller's upvote, or removes it if already present.
// @Tags polls
// @Produce json
// @Security BearerAuth
// @Param id path int true "Poll ID"
// @Success 200 {object} models.UpvoteResponse
// @Failure 401 {object} map[string]interface{} "Unauthorized - invalid or missing token"
// @Failure 404 {object} map[string]interface{} "Poll not found"
// @Router /polls/{id}/upvote [post]
func (h *PollHandler) ToggleUpvote(c *gin.Context) {
	pollID, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.pollService.ToggleUpvote(c.Request.Context(), optionalUserID(c), pollID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
