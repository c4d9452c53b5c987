package handler

import (
	"errors"
	"net/http"
	"time"

	"tech-selector/internal/middleware"
	"tech-selector/internal/service"
	"tech-selector/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler handles HTTP requests
type Handler struct {
	evaluator *service.Evaluator
	sessions  *session.Manager
	logger    *zap.Logger
	now       func() time.Time
}

// NewHandler creates a new HTTP handler
func NewHandler(evaluator *service.Evaluator, sessions *session.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		evaluator: evaluator,
		sessions:  sessions,
		logger:    logger,
		now:       time.Now,
	}
}

// RegisterRoutes registers all routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// Page and form actions
	r.GET("/", h.Index)
	r.POST("/grid", h.SaveDraft)
	r.POST("/grid/toggle", h.ToggleCell)
	r.POST("/grid/reset", h.ResetGrid)
	r.POST("/submit", h.Submit)

	// Downloads
	r.GET("/export/detailed.csv", h.ExportDetailed)
	r.GET("/export/summary.csv", h.ExportSummary)

	api := r.Group("/api/v1")
	{
		api.GET("/catalog", h.GetCatalog)
		api.GET("/evaluations", h.GetEvaluations)
		api.POST("/evaluations", h.CreateEvaluation)
		api.GET("/results", h.GetResults)
	}

	// Health check
	r.GET("/health", h.HealthCheck)
}

// HealthCheck returns service health with store and session counters
func (h *Handler) HealthCheck(c *gin.Context) {
	evaluations, err := h.evaluator.Count(c.Request.Context())
	if err != nil {
		h.logger.Error("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "tech-selector",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"service":         "tech-selector",
		"evaluations":     evaluations,
		"active_sessions": h.sessions.Len(),
	})
}

func (h *Handler) sessionID(c *gin.Context) string {
	return middleware.SessionID(c)
}

// validationMessage returns the user-facing text for a validation failure.
func validationMessage(err error) (string, bool) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return verr.Message(), true
	}
	return "", false
}
