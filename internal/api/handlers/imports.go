package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/martinhensley/cardindex/internal/catalog"
	"github.com/martinhensley/cardindex/internal/models"
	"github.com/martinhensley/cardindex/internal/services"
)

type ImportHandler struct {
	store   services.CatalogStore
	matcher *services.MatcherService
}

func NewImportHandler(store services.CatalogStore, matcher *services.MatcherService) *ImportHandler {
	return &ImportHandler{store: store, matcher: matcher}
}

type importRequest struct {
	Manufacturer  string                    `json:"manufacturer" binding:"required"`
	ReleaseName   string                    `json:"release_name" binding:"required"`
	Year          string                    `json:"year" binding:"required"`
	Rows          []services.Row            `json:"rows" binding:"required"`
	ParallelTable []catalog.ParallelPattern `json:"parallel_table"`
	CaseMode      services.CaseMode         `json:"case_mode"`
}

// Import runs a checklist import for one release and returns the report.
// Row- and set-level failures are inside the report; only a store failure is
// a 500.
func (h *ImportHandler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	table, err := catalog.NewParallelTable(req.ParallelTable)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	importer := services.NewChecklistImporter(h.store, services.ImporterConfig{
		Table:    table,
		CaseMode: req.CaseMode,
	})

	release := models.Release{
		Manufacturer: req.Manufacturer,
		Name:         req.ReleaseName,
		Year:         req.Year,
	}

	report, err := importer.Run(c.Request.Context(), release, req.Rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Drop any cached candidate pools touched by this import.
	if h.matcher != nil {
		if rel, err := h.store.FindReleaseBySlug(catalog.GenerateReleaseSlug(req.Year, req.ReleaseName)); err == nil {
			if sets, err := h.store.SetsByRelease(rel.ID); err == nil {
				for _, s := range sets {
					h.matcher.InvalidateSet(s.Slug)
				}
			}
		}
	}

	c.JSON(http.StatusOK, report)
}
