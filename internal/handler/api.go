package handler

import (
	"bytes"
	"net/http"

	"tech-selector/internal/export"
	"tech-selector/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetCatalog returns technologies and criteria in display order
func (h *Handler) GetCatalog(c *gin.Context) {
	technologies := make([]gin.H, 0, models.NumTechnologies)
	for _, t := range models.Technologies() {
		technologies = append(technologies, gin.H{"name": t.String(), "slug": t.Slug(), "color": t.Color()})
	}

	criteria := make([]gin.H, 0, models.NumCriteria)
	for _, cr := range models.Criteria() {
		criteria = append(criteria, gin.H{"name": cr.String(), "slug": cr.Slug()})
	}

	c.JSON(http.StatusOK, gin.H{
		"technologies": technologies,
		"criteria":     criteria,
	})
}

// GetEvaluations returns all evaluations in submission order
func (h *Handler) GetEvaluations(c *gin.Context) {
	evaluations, err := h.evaluator.Evaluations(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get evaluations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get evaluations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"evaluations": evaluations,
		"total":       len(evaluations),
	})
}

// CreateEvaluation submits an evaluation from a JSON body
func (h *Handler) CreateEvaluation(c *gin.Context) {
	var req models.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	evaluation, err := h.evaluator.Submit(c.Request.Context(), req)
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		h.logger.Error("Failed to create evaluation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save evaluation"})
		return
	}

	c.JSON(http.StatusCreated, evaluation)
}

// GetResults returns aggregated scores or the no-data state
func (h *Handler) GetResults(c *gin.Context) {
	results, err := h.evaluator.Results(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get results", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get results"})
		return
	}

	c.JSON(http.StatusOK, results)
}

// ExportDetailed downloads one row per evaluation and technology
func (h *Handler) ExportDetailed(c *gin.Context) {
	evaluations, err := h.evaluator.Evaluations(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to export CSV", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	if len(evaluations) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": models.NoDataMessage})
		return
	}

	var buf bytes.Buffer
	if err := export.WriteDetailed(&buf, evaluations); err != nil {
		h.logger.Error("Failed to write CSV", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	h.sendCSV(c, export.DetailedFilename(h.now()), buf.Bytes())
}

// ExportSummary downloads one row per evaluation
func (h *Handler) ExportSummary(c *gin.Context) {
	results, err := h.evaluator.Results(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to export summary CSV", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	if results.Empty {
		c.JSON(http.StatusNotFound, gin.H{"error": models.NoDataMessage})
		return
	}

	var buf bytes.Buffer
	if err := export.WriteSummary(&buf, results.Rows); err != nil {
		h.logger.Error("Failed to write summary CSV", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	h.sendCSV(c, export.SummaryFilename(h.now()), buf.Bytes())
}

func (h *Handler) sendCSV(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
