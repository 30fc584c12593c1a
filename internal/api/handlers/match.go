package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/martinhensley/cardindex/internal/services"
)

type MatchHandler struct {
	matcher *services.MatcherService
}

func NewMatchHandler(matcher *services.MatcherService) *MatchHandler {
	return &MatchHandler{matcher: matcher}
}

type matchRequest struct {
	SetSlug  string                `json:"set_slug" binding:"required"`
	Observed services.ObservedCard `json:"observed" binding:"required"`
	Limit    int                   `json:"limit"`
}

type matchResponse struct {
	SetSlug string                 `json:"set_slug"`
	Matches []services.RankedMatch `json:"matches"`
}

// Match ranks one set's checklist against an observed card.
func (h *MatchHandler) Match(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ranked, err := h.matcher.MatchAgainstSet(req.SetSlug, req.Observed)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "set not found: " + req.SetSlug})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if req.Limit > 0 && req.Limit < len(ranked) {
		ranked = ranked[:req.Limit]
	}

	c.JSON(http.StatusOK, matchResponse{SetSlug: req.SetSlug, Matches: ranked})
}
