package handlers

import (
	"errors"
	"net/http"

	"gradpolls/internal/services"
	"gradpolls/pkg/response"

	"github.com/gin-gonic/gin"
)

type UniversityHandler struct {
	universityService *services.UniversityService
}

func NewUniversityHandler(universityService *services.UniversityService) *UniversityHandler {
	return &UniversityHandler{universityService: universityService}
}

// Search godoc
// @Summary Search universities by name
// @Description Matches against the local dataset; up to 10 results.
// @Tags universities
// @Produce json
// @Param q query string true "Name substring"
// @Success 200 {array} models.University
// @Router /universities/search [get]
func (h *UniversityHandler) Search(c *gin.Context) {
	c.JSON(http.StatusOK, h.universityService.Search(c.Query("q")))
}

// Lookup godoc
// @Summary Look up university details
// @Description Queries the remote directory for full records (domains, web pages).
// @Tags universities
// @Produce json
// @Param name query string true "University name"
// @Success 200 {array} models.UniversityDetail
// @Failure 400 {object} map[string]interface{} "Missing name"
// @Failure 502 {object} map[string]interface{} "Remote directory unavailable"
// @Router /universities/lookup [get]
func (h *UniversityHandler) Lookup(c *gin.Context) {
	details, err := h.universityService.Lookup(c.Request.Context(), c.Query("name"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "university lookup unavailable"})
		return
	}
	c.JSON(http.StatusOK, details)
}
