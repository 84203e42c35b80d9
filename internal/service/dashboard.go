package service

import (
	"context"
	"math"
	"time"

	"toolcrib-backend/internal/domain"
	"toolcrib-backend/internal/repository"
)

type dashboardService struct {
	toolRepo  repository.ToolRepository
	orderRepo repository.OrderRepository
	usageRepo repository.UsageRepository
	now       clock
}

func NewDashboardService(
	toolRepo repository.ToolRepository,
	orderRepo repository.OrderRepository,
	usageRepo repository.UsageRepository,
) DashboardService {
	return &dashboardService{
		toolRepo:  toolRepo,
		orderRepo: orderRepo,
		usageRepo: usageRepo,
		now:       time.Now,
	}
}

// GetStats returns per-role dashboard counters. Keys mirror what the
// dashboards render, so each role gets its own set.
func (s *dashboardService) GetStats(ctx context.Context, actor *domain.User) (map[string]any, error) {
	switch actor.Role {
	case domain.RoleShopkeeper:
		return s.shopkeeperStats(ctx, actor.ID)
	case domain.RoleSupervisor:
		return s.supervisorStats(ctx, actor.ID)
	case domain.RoleOperator:
		return s.operatorStats(ctx, actor.ID)
	}
	return nil, domain.ErrForbidden
}

func (s *dashboardService) shopkeeperStats(ctx context.Context, userID int32) (map[string]any, error) {
	totalTools, err := s.toolRepo.CountByShopkeeper(ctx, userID)
	if err != nil {
		return nil, err
	}
	lowLifeTools, err := s.toolRepo.CountBelowThreshold(ctx, userID)
	if err != nil {
		return nil, err
	}
	pendingOrders, err := s.orderRepo.CountByStatus(ctx, userID, domain.RoleShopkeeper, domain.OrderStatusPending)
	if err != nil {
		return nil, err
	}
	totalStock, err := s.toolRepo.SumStockByShopkeeper(ctx, userID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"totalTools":    totalTools,
		"lowLifeTools":  lowLifeTools,
		"pendingOrders": pendingOrders,
		"totalStock":    totalStock,
	}, nil
}

func (s *dashboardService) supervisorStats(ctx context.Context, userID int32) (map[string]any, error) {
	totalOrders, err := s.orderRepo.CountByUser(ctx, userID, domain.RoleSupervisor)
	if err != nil {
		return nil, err
	}
	pendingOrders, err := s.orderRepo.CountByStatus(ctx, userID, domain.RoleSupervisor, domain.OrderStatusPending)
	if err != nil {
		return nil, err
	}
	approvedOrders, err := s.orderRepo.CountByStatus(ctx, userID, domain.RoleSupervisor, domain.OrderStatusApproved)
	if err != nil {
		return nil, err
	}
	lowLifeTools, err := s.toolRepo.CountBelowThreshold(ctx, 0)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"totalOrders":    totalOrders,
		"pendingOrders":  pendingOrders,
		"approvedOrders": approvedOrders,
		"lowLifeTools":   lowLifeTools,
	}, nil
}

func (s *dashboardService) operatorStats(ctx context.Context, userID int32) (map[string]any, error) {
	totalUsage, err := s.usageRepo.CountByOperator(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	midnight := s.now().Truncate(24 * time.Hour)
	todayUsage, err := s.usageRepo.CountByOperator(ctx, userID, &midnight)
	if err != nil {
		return nil, err
	}
	activeTools, err := s.toolRepo.CountInUseByOperator(ctx, userID)
	if err != nil {
		return nil, err
	}
	totalHours, err := s.usageRepo.SumHoursByOperator(ctx, userID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"totalUsage": totalUsage,
		"todayUsage": todayUsage,
		"activeTools": activeTools,
		"totalHours": math.Round(totalHours),
	}, nil
}
