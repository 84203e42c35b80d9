package repository

import (
	"context"
	"time"

	"toolcrib-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindSupervisor resolves the active supervisor for a company by email,
	// as recorded on an operator's profile.
	FindSupervisor(ctx context.Context, email, companyName string) (*domain.User, error)
	ListSupervisorsByCompany(ctx context.Context, companyName string) ([]domain.User, error)
	ListSupervisors(ctx context.Context) ([]domain.User, error)
	ListCompanies(ctx context.Context) ([]string, error)
}

type ToolRepository interface {
	Create(ctx context.Context, tool *domain.Tool) error
	GetByID(ctx context.Context, id int32) (*domain.Tool, error)
	// Update writes the mutable management fields (name, description,
	// category, threshold, stock). Lifecycle fields move only through the
	// conditional transitions below.
	Update(ctx context.Context, tool *domain.Tool) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context) ([]domain.Tool, error)
	ListByShopkeeper(ctx context.Context, shopkeeperID int32) ([]domain.Tool, error)
	// ListByGrantedSupervisor returns tools carrying an access grant
	// sponsored by the given supervisor.
	ListByGrantedSupervisor(ctx context.Context, supervisorID int32) ([]domain.Tool, error)
	ListBelowThreshold(ctx context.Context) ([]domain.Tool, error)

	// BeginUsage flips the tool to in-use, conditional on it still being
	// available. A lost race returns domain.ErrConflict.
	BeginUsage(ctx context.Context, toolID, operatorID int32, startTime time.Time) error
	// EndUsage closes the session and writes the post-wear balances,
	// conditional on the tool still being in-use by the given operator.
	EndUsage(ctx context.Context, toolID, operatorID int32, remainingLife, totalUsageHours float64) error

	HasAccessGrant(ctx context.Context, toolID, supervisorID int32) (bool, error)
	// AddAccessGrant appends a grant, deduplicated per supervisor.
	AddAccessGrant(ctx context.Context, grant *domain.AccessGrant) error
	ListAccessGrants(ctx context.Context, toolID int32) ([]domain.AccessGrant, error)
	IncrementStock(ctx context.Context, toolID, quantity int32) error

	CountByShopkeeper(ctx context.Context, shopkeeperID int32) (int32, error)
	CountBelowThreshold(ctx context.Context, shopkeeperID int32) (int32, error)
	SumStockByShopkeeper(ctx context.Context, shopkeeperID int32) (int32, error)
	CountInUseByOperator(ctx context.Context, operatorID int32) (int32, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int32) (*domain.Order, error)
	// UpdateStatus applies one transition, conditional on the order still
	// holding the expected current status. A lost race returns
	// domain.ErrConflict.
	UpdateStatus(ctx context.Context, orderID int32, from, to domain.OrderStatus, notes string, approvedAt, fulfilledAt *time.Time) error
	ListBySupervisor(ctx context.Context, supervisorID int32) ([]domain.Order, error)
	ListByShopkeeper(ctx context.Context, shopkeeperID int32) ([]domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	CountByStatus(ctx context.Context, userID int32, role domain.Role, status domain.OrderStatus) (int32, error)
	CountByUser(ctx context.Context, userID int32, role domain.Role) (int32, error)
}

type UsageRepository interface {
	Create(ctx context.Context, session *domain.UsageSession) error
	List(ctx context.Context, limit int32) ([]domain.UsageSession, error)
	ListByOperator(ctx context.Context, operatorID int32, limit int32) ([]domain.UsageSession, error)
	// Aggregate buckets sessions per day since the given time, optionally
	// filtered by operator (0 = all) and tool (0 = all).
	Aggregate(ctx context.Context, since time.Time, operatorID, toolID int32) ([]domain.UsageBucket, error)
	CountByOperator(ctx context.Context, operatorID int32, since *time.Time) (int32, error)
	SumHoursByOperator(ctx context.Context, operatorID int32) (float64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
	DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
