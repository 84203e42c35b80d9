package service

import (
	"context"
	"fmt"
	"time"

	"toolcrib-backend/internal/dispatcher"
	"toolcrib-backend/internal/domain"
	"toolcrib-backend/internal/logger"
	"toolcrib-backend/internal/repository"
)

type orderService struct {
	orderRepo repository.OrderRepository
	toolRepo  repository.ToolRepository
	userRepo  repository.UserRepository
	noteRepo  repository.NotificationRepository
	publisher dispatcher.Publisher
	now       clock
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	toolRepo repository.ToolRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	publisher dispatcher.Publisher,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		toolRepo:  toolRepo,
		userRepo:  userRepo,
		noteRepo:  noteRepo,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, actor *domain.User, toolID, quantity int32, notes string) (*domain.Order, error) {
	if actor.Role != domain.RoleSupervisor {
		return nil, fmt.Errorf("create order: %w", domain.ErrForbidden)
	}
	if quantity < 1 {
		return nil, fmt.Errorf("create order: got %d: %w", quantity, domain.ErrInvalidQuantity)
	}

	tool, err := s.toolRepo.GetByID(ctx, toolID)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		SupervisorID: actor.ID,
		ShopkeeperID: tool.ShopkeeperID,
		ToolID:       toolID,
		Quantity:     quantity,
		Notes:        notes,
		Status:       domain.OrderStatusPending,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.publisher.Publish(domain.Event{
		Type:  domain.EventNewOrder,
		Scope: domain.RoleShopkeeper,
		Payload: domain.NewOrderPayload{
			OrderID:    order.ID,
			Tool:       tool.Name,
			Quantity:   quantity,
			Supervisor: actor.Name,
			Company:    actor.CompanyName,
		},
	})

	note := &domain.Notification{
		UserID:  tool.ShopkeeperID,
		Title:   "New Order",
		Message: fmt.Sprintf("%s (%s) ordered %d x %s", actor.Name, actor.CompanyName, quantity, tool.Name),
		Attributes: map[string]string{
			"type":     "NEW_ORDER",
			"order_id": fmt.Sprintf("%d", order.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("failed to persist order notification", "order_id", order.ID, "error", err)
	}

	logger.Info("order created", "order_id", order.ID, "tool_id", toolID, "supervisor_id", actor.ID, "quantity", quantity)
	return order, nil
}

// SetOrderStatus applies one transition of the order pipeline. The
// conditional store update is the serialization point; side effects (the
// access grant on approval, the stock increment on fulfillment) run only
// after the transition is won.
func (s *orderService) SetOrderStatus(ctx context.Context, actor *domain.User, orderID int32, newStatus domain.OrderStatus, notes string) (*domain.Order, error) {
	if actor.Role != domain.RoleShopkeeper {
		return nil, fmt.Errorf("set order status: %w", domain.ErrForbidden)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.ShopkeeperID != actor.ID {
		return nil, fmt.Errorf("set order status: order %d belongs to another shop: %w", orderID, domain.ErrForbidden)
	}
	if !order.Status.CanTransitionTo(newStatus) {
		return nil, fmt.Errorf("set order status: %s -> %s: %w", order.Status, newStatus, domain.ErrIllegalTransition)
	}

	tool, err := s.toolRepo.GetByID(ctx, order.ToolID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var approvedAt, fulfilledAt *time.Time
	switch newStatus {
	case domain.OrderStatusApproved:
		approvedAt = &now
	case domain.OrderStatusFulfilled:
		fulfilledAt = &now
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, order.Status, newStatus, notes, approvedAt, fulfilledAt); err != nil {
		return nil, fmt.Errorf("set order status: %w", err)
	}

	switch newStatus {
	case domain.OrderStatusApproved:
		supervisor, err := s.userRepo.GetByID(ctx, order.SupervisorID)
		if err != nil {
			return nil, fmt.Errorf("set order status: resolve supervisor: %w", err)
		}
		grant := &domain.AccessGrant{
			ToolID:       order.ToolID,
			SupervisorID: supervisor.ID,
			CompanyName:  supervisor.CompanyName,
			GrantedOn:    now,
		}
		if err := s.toolRepo.AddAccessGrant(ctx, grant); err != nil {
			return nil, fmt.Errorf("set order status: grant access: %w", err)
		}
	case domain.OrderStatusFulfilled:
		if err := s.toolRepo.IncrementStock(ctx, order.ToolID, order.Quantity); err != nil {
			return nil, fmt.Errorf("set order status: increment stock: %w", err)
		}
	}

	order.Status = newStatus
	if notes != "" {
		order.Notes = notes
	}
	order.ApprovedAt = coalesceTime(order.ApprovedAt, approvedAt)
	order.FulfilledAt = coalesceTime(order.FulfilledAt, fulfilledAt)

	s.publisher.Publish(domain.Event{
		Type:  domain.EventOrderStatus,
		Scope: domain.RoleSupervisor,
		Payload: domain.OrderStatusPayload{
			OrderID: order.ID,
			Status:  newStatus,
			Tool:    tool.Name,
		},
	})

	note := &domain.Notification{
		UserID:  order.SupervisorID,
		Title:   "Order Status Updated",
		Message: fmt.Sprintf("Your order for %s is now %s", tool.Name, newStatus),
		Attributes: map[string]string{
			"type":     "ORDER_STATUS",
			"order_id": fmt.Sprintf("%d", order.ID),
			"status":   string(newStatus),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Error("failed to persist order-status notification", "order_id", order.ID, "error", err)
	}

	logger.Info("order status changed", "order_id", order.ID, "status", newStatus, "shopkeeper_id", actor.ID)
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, actor *domain.User) ([]domain.Order, error) {
	switch actor.Role {
	case domain.RoleSupervisor:
		return s.orderRepo.ListBySupervisor(ctx, actor.ID)
	case domain.RoleShopkeeper:
		return s.orderRepo.ListByShopkeeper(ctx, actor.ID)
	case domain.RoleOperator:
		return s.orderRepo.List(ctx)
	}
	return nil, domain.ErrForbidden
}

func coalesceTime(current, next *time.Time) *time.Time {
	if next != nil {
		return next
	}
	return current
}
