package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/martinhensley/cardindex/internal/models"
	"github.com/martinhensley/cardindex/internal/services"
)

// CatalogHandler serves the browse and set-removal endpoints over the store.
type CatalogHandler struct {
	store   services.CatalogStore
	matcher *services.MatcherService
}

func NewCatalogHandler(store services.CatalogStore, matcher *services.MatcherService) *CatalogHandler {
	return &CatalogHandler{store: store, matcher: matcher}
}

func (h *CatalogHandler) ListReleases(c *gin.Context) {
	releases, err := h.store.ListReleases()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"releases": releases})
}

func (h *CatalogHandler) GetReleaseSets(c *gin.Context) {
	slug := c.Param("slug")
	release, err := h.store.FindReleaseBySlug(slug)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "release not found: " + slug})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sets, err := h.store.SetsByRelease(release.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"release": release, "sets": sets})
}

func (h *CatalogHandler) GetSet(c *gin.Context) {
	set, ok := h.findSet(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, set)
}

func (h *CatalogHandler) GetSetCards(c *gin.Context) {
	set, ok := h.findSet(c)
	if !ok {
		return
	}
	cards, err := h.store.CardsBySet(set.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.SetWithCards{Set: *set, Cards: cards})
}

// DeleteSet removes a set and all of its cards, then drops the matcher's
// cached candidate pool for it.
func (h *CatalogHandler) DeleteSet(c *gin.Context) {
	set, ok := h.findSet(c)
	if !ok {
		return
	}
	if err := h.store.DeleteSet(set.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if h.matcher != nil {
		h.matcher.InvalidateSet(set.Slug)
	}
	c.JSON(http.StatusOK, gin.H{"deleted": set.Slug})
}

func (h *CatalogHandler) findSet(c *gin.Context) (*models.Set, bool) {
	slug := c.Param("slug")
	set, err := h.store.FindSetBySlug(slug)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "set not found: " + slug})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return set, true
}
