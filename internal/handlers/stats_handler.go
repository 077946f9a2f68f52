package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/picstrata/backend/internal/models"
	"github.com/picstrata/backend/libs/handlers"
	"go.uber.org/zap"
)

// StatsService defines the interface for service statistics
type StatsService interface {
	GetStatistics(ctx context.Context) (*models.Statistics, error)
}

// StatsHandler handles service statistics HTTP requests
type StatsHandler struct {
	handlers.BaseHandler
	statsService StatsService
}

// NewStatsHandler creates a new statistics handler
func NewStatsHandler(statsService StatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		BaseHandler:  handlers.BaseHandler{Logger: logger},
		statsService: statsService,
	}
}

// RegisterRoutes registers all statistics handler routes
func (h *StatsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/service/stats", h.GetStatistics)
}

// GetStatistics handles GET /service/stats
// @Summary Service statistics
// @Description Record counts across the service plus the export queue length
// @Tags service
// @Produce json
// @Success 200 {object} models.Statistics
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /service/stats [get]
func (h *StatsHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.GetStatistics(r.Context())
	if err != nil {
		h.Logger.Error("failed to get statistics", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to get statistics")
		return
	}

	h.RespondJSON(w, http.StatusOK, stats)
}
