package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"toolcrib-backend/internal/dispatcher"
	"toolcrib-backend/internal/domain"
	"toolcrib-backend/internal/logger"
	"toolcrib-backend/internal/repository"
	"toolcrib-backend/internal/utils"
)

type toolService struct {
	toolRepo  repository.ToolRepository
	userRepo  repository.UserRepository
	usageRepo repository.UsageRepository
	noteRepo  repository.NotificationRepository
	publisher dispatcher.Publisher
	now       clock
}

func NewToolService(
	toolRepo repository.ToolRepository,
	userRepo repository.UserRepository,
	usageRepo repository.UsageRepository,
	noteRepo repository.NotificationRepository,
	publisher dispatcher.Publisher,
) ToolService {
	return &toolService{
		toolRepo:  toolRepo,
		userRepo:  userRepo,
		usageRepo: usageRepo,
		noteRepo:  noteRepo,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *toolService) CreateTool(ctx context.Context, actor *domain.User, input CreateToolInput) (*domain.Tool, error) {
	if actor.Role != domain.RoleShopkeeper {
		return nil, fmt.Errorf("create tool: %w", domain.ErrForbidden)
	}
	if input.LifeLimit <= 0 || input.ThresholdLimit <= 0 {
		return nil, fmt.Errorf("create tool: life and threshold limits must be positive: %w", domain.ErrInvalidQuantity)
	}
	stock := input.Stock
	if stock <= 0 {
		stock = 1
	}

	tool := &domain.Tool{
		ShopkeeperID:   actor.ID,
		ShopName:       actor.ShopName,
		Name:           input.Name,
		Description:    input.Description,
		Category:       input.Category,
		LifeLimit:      input.LifeLimit,
		RemainingLife:  input.LifeLimit,
		ThresholdLimit: input.ThresholdLimit,
		Status:         domain.ToolStatusAvailable,
		Stock:          stock,
	}
	if err := s.toolRepo.Create(ctx, tool); err != nil {
		return nil, fmt.Errorf("create tool: %w", err)
	}
	return tool, nil
}

func (s *toolService) GetTool(ctx context.Context, id int32) (*domain.Tool, error) {
	tool, err := s.toolRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	grants, err := s.toolRepo.ListAccessGrants(ctx, id)
	if err != nil {
		return nil, err
	}
	tool.Grants = grants
	return tool, nil
}

func (s *toolService) ListTools(ctx context.Context, actor *domain.User) ([]domain.Tool, error) {
	switch actor.Role {
	case domain.RoleShopkeeper:
		return s.toolRepo.ListByShopkeeper(ctx, actor.ID)
	case domain.RoleSupervisor:
		return s.toolRepo.List(ctx)
	case domain.RoleOperator:
		supervisor, err := s.userRepo.FindSupervisor(ctx, actor.SupervisorEmail, actor.CompanyName)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return []domain.Tool{}, nil
			}
			return nil, err
		}
		return s.toolRepo.ListByGrantedSupervisor(ctx, supervisor.ID)
	}
	return nil, domain.ErrForbidden
}

func (s *toolService) UpdateTool(ctx context.Context, actor *domain.User, toolID int32, input UpdateToolInput) (*domain.Tool, error) {
	tool, err := s.ownedTool(ctx, actor, toolID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		tool.Name = *input.Name
	}
	if input.Description != nil {
		tool.Description = *input.Description
	}
	if input.Category != nil {
		tool.Category = *input.Category
	}
	if input.ThresholdLimit != nil {
		if *input.ThresholdLimit <= 0 {
			return nil, fmt.Errorf("update tool: threshold must be positive: %w", domain.ErrInvalidQuantity)
		}
		tool.ThresholdLimit = *input.ThresholdLimit
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, fmt.Errorf("update tool: stock cannot be negative: %w", domain.ErrInvalidQuantity)
		}
		tool.Stock = *input.Stock
	}

	if err := s.toolRepo.Update(ctx, tool); err != nil {
		return nil, fmt.Errorf("update tool: %w", err)
	}
	return tool, nil
}

func (s *toolService) DeleteTool(ctx context.Context, actor *domain.User, toolID int32) error {
	if _, err := s.ownedTool(ctx, actor, toolID); err != nil {
		return err
	}
	// Deletion is unconditional; usage and order history keep the id.
	return s.toolRepo.Delete(ctx, toolID)
}

// StartUsage opens a usage session. Preconditions run in a fixed order:
// access grant, remaining life, then availability. The final conditional
// write re-checks availability so a racing operator loses cleanly.
func (s *toolService) StartUsage(ctx context.Context, actor *domain.User, toolID int32) (*domain.Tool, error) {
	if actor.Role != domain.RoleOperator {
		return nil, fmt.Errorf("start usage: %w", domain.ErrForbidden)
	}

	tool, err := s.toolRepo.GetByID(ctx, toolID)
	if err != nil {
		return nil, err
	}

	supervisor, err := s.userRepo.FindSupervisor(ctx, actor.SupervisorEmail, actor.CompanyName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("start usage: no supervisor for company %q: %w", actor.CompanyName, domain.ErrAccessDenied)
		}
		return nil, err
	}
	granted, err := s.toolRepo.HasAccessGrant(ctx, toolID, supervisor.ID)
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, fmt.Errorf("start usage: %w", domain.ErrAccessDenied)
	}

	if tool.RemainingLife <= 0 {
		return nil, fmt.Errorf("start usage: %w", domain.ErrToolExhausted)
	}
	if tool.Status != domain.ToolStatusAvailable {
		return nil, fmt.Errorf("start usage: status %s: %w", tool.Status, domain.ErrToolUnavailable)
	}

	startTime := s.now()
	if err := s.toolRepo.BeginUsage(ctx, toolID, actor.ID, startTime); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("start usage: lost race: %w", domain.ErrToolUnavailable)
		}
		return nil, fmt.Errorf("start usage: %w", err)
	}

	tool.Status = domain.ToolStatusInUse
	tool.CurrentUserID = &actor.ID
	tool.UsageStartTime = &startTime
	logger.Info("usage started", "tool_id", toolID, "operator_id", actor.ID)
	return tool, nil
}

// StopUsage closes the open session, applies wear and writes the closed
// usage record. A stop landing at or below the threshold alerts every
// connected supervisor, on every such stop, not only the crossing edge.
func (s *toolService) StopUsage(ctx context.Context, actor *domain.User, toolID int32) (*domain.Tool, float64, error) {
	if actor.Role != domain.RoleOperator {
		return nil, 0, fmt.Errorf("stop usage: %w", domain.ErrForbidden)
	}

	tool, err := s.toolRepo.GetByID(ctx, toolID)
	if err != nil {
		return nil, 0, err
	}
	if !tool.InUse() || *tool.CurrentUserID != actor.ID {
		return nil, 0, fmt.Errorf("stop usage: %w", domain.ErrNotCurrentUser)
	}

	startTime := *tool.UsageStartTime
	endTime := s.now()
	hours, err := utils.ComputeWear(startTime, endTime)
	if err != nil {
		return nil, 0, fmt.Errorf("stop usage: %w", err)
	}
	wear := utils.ApplyWear(tool, hours)

	if err := s.toolRepo.EndUsage(ctx, toolID, actor.ID, wear.RemainingLife, wear.TotalUsageHours); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, 0, fmt.Errorf("stop usage: session already closed: %w", domain.ErrNotCurrentUser)
		}
		return nil, 0, fmt.Errorf("stop usage: %w", err)
	}

	session := &domain.UsageSession{
		ToolID:        toolID,
		OperatorID:    actor.ID,
		StartTime:     startTime,
		EndTime:       &endTime,
		DurationHours: hours,
		IsActive:      false,
	}
	if err := s.usageRepo.Create(ctx, session); err != nil {
		logger.Error("failed to record usage session", "tool_id", toolID, "error", err)
	}

	tool.Status = domain.ToolStatusAvailable
	tool.CurrentUserID = nil
	tool.UsageStartTime = nil
	tool.RemainingLife = wear.RemainingLife
	tool.TotalUsageHours = wear.TotalUsageHours

	if wear.BelowThreshold {
		s.publisher.Publish(domain.Event{
			Type:  domain.EventThresholdAlert,
			Scope: domain.RoleSupervisor,
			Payload: domain.ThresholdAlertPayload{
				Tool:           tool.Name,
				RemainingLife:  tool.RemainingLife,
				ThresholdLimit: tool.ThresholdLimit,
				ShopName:       tool.ShopName,
			},
		})

		note := &domain.Notification{
			UserID:  tool.ShopkeeperID,
			Title:   "Tool Below Threshold",
			Message: fmt.Sprintf("%s is down to %.1f of %.1f hours", tool.Name, tool.RemainingLife, tool.LifeLimit),
			Attributes: map[string]string{
				"type":    "THRESHOLD_ALERT",
				"tool_id": fmt.Sprintf("%d", tool.ID),
			},
		}
		if err := s.noteRepo.Create(ctx, note); err != nil {
			logger.Error("failed to persist threshold notification", "tool_id", toolID, "error", err)
		}
	}

	logger.Info("usage stopped", "tool_id", toolID, "operator_id", actor.ID, "hours", hours, "remaining_life", tool.RemainingLife)
	return tool, hours, nil
}

func (s *toolService) ownedTool(ctx context.Context, actor *domain.User, toolID int32) (*domain.Tool, error) {
	if actor.Role != domain.RoleShopkeeper {
		return nil, fmt.Errorf("tool %d: %w", toolID, domain.ErrForbidden)
	}
	tool, err := s.toolRepo.GetByID(ctx, toolID)
	if err != nil {
		return nil, err
	}
	if tool.ShopkeeperID != actor.ID {
		return nil, fmt.Errorf("tool %d: %w", toolID, domain.ErrForbidden)
	}
	return tool, nil
}
