package services

import (
	"context"
	"fmt"

	"github.com/picstrata/backend/internal/models"
	"go.uber.org/zap"
)

// StatsRepository is the interface that wraps service statistics queries
type StatsRepository interface {
	GetStatistics(ctx context.Context) (*models.Statistics, error)
}

type statsService struct {
	statsRepo StatsRepository
	logger    *zap.Logger
}

// NewStatsService creates a new statistics service
func NewStatsService(statsRepo StatsRepository, logger *zap.Logger) *statsService {
	return &statsService{
		statsRepo: statsRepo,
		logger:    logger,
	}
}

// GetStatistics returns record counts for the service as a whole
func (s *statsService) GetStatistics(ctx context.Context) (*models.Statistics, error) {
	stats, err := s.statsRepo.GetStatistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}
	return stats, nil
}
