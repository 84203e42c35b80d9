package service

import (
	"context"
	"time"

	"toolcrib-backend/internal/domain"
	"toolcrib-backend/internal/repository"
)

type usageService struct {
	usageRepo repository.UsageRepository
	now       clock
}

func NewUsageService(usageRepo repository.UsageRepository) UsageService {
	return &usageService{usageRepo: usageRepo, now: time.Now}
}

func (s *usageService) ListSessions(ctx context.Context, actor *domain.User, limit int32) ([]domain.UsageSession, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if actor.Role == domain.RoleOperator {
		return s.usageRepo.ListByOperator(ctx, actor.ID, limit)
	}
	return s.usageRepo.List(ctx, limit)
}

func (s *usageService) Analytics(ctx context.Context, actor *domain.User, period string, toolID int32) ([]domain.UsageBucket, error) {
	since := s.now()
	switch period {
	case "24h":
		since = since.Add(-24 * time.Hour)
	case "30d":
		since = since.AddDate(0, 0, -30)
	default: // "7d" and anything unrecognized
		since = since.AddDate(0, 0, -7)
	}

	operatorID := int32(0)
	if actor.Role == domain.RoleOperator {
		operatorID = actor.ID
	}
	return s.usageRepo.Aggregate(ctx, since, operatorID, toolID)
}
