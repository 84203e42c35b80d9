package service

import (
	"context"
	"time"

	"toolcrib-backend/internal/domain"
)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) // user, access token
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	ListCompanies(ctx context.Context) ([]string, error)
	ListSupervisors(ctx context.Context, companyName string) ([]domain.User, error)
}

type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	Role            domain.Role
	ShopName        string
	CompanyName     string
	SupervisorEmail string
}

type ToolService interface {
	CreateTool(ctx context.Context, actor *domain.User, input CreateToolInput) (*domain.Tool, error)
	GetTool(ctx context.Context, id int32) (*domain.Tool, error)
	// ListTools filters by role: shopkeepers see their own tools,
	// supervisors see everything, operators see only tools their company's
	// supervisor holds a grant on.
	ListTools(ctx context.Context, actor *domain.User) ([]domain.Tool, error)
	UpdateTool(ctx context.Context, actor *domain.User, toolID int32, input UpdateToolInput) (*domain.Tool, error)
	DeleteTool(ctx context.Context, actor *domain.User, toolID int32) error
	StartUsage(ctx context.Context, actor *domain.User, toolID int32) (*domain.Tool, error)
	StopUsage(ctx context.Context, actor *domain.User, toolID int32) (*domain.Tool, float64, error)
}

type CreateToolInput struct {
	Name           string
	Description    string
	Category       string
	LifeLimit      float64
	ThresholdLimit float64
	Stock          int32
}

// UpdateToolInput carries the management fields a shopkeeper may change
// after creation. LifeLimit is immutable; nil pointers leave a field as is.
type UpdateToolInput struct {
	Name           *string
	Description    *string
	Category       *string
	ThresholdLimit *float64
	Stock          *int32
}

type OrderService interface {
	CreateOrder(ctx context.Context, actor *domain.User, toolID, quantity int32, notes string) (*domain.Order, error)
	SetOrderStatus(ctx context.Context, actor *domain.User, orderID int32, newStatus domain.OrderStatus, notes string) (*domain.Order, error)
	// ListOrders returns most-recent-first, filtered by role.
	ListOrders(ctx context.Context, actor *domain.User) ([]domain.Order, error)
}

type UsageService interface {
	ListSessions(ctx context.Context, actor *domain.User, limit int32) ([]domain.UsageSession, error)
	Analytics(ctx context.Context, actor *domain.User, period string, toolID int32) ([]domain.UsageBucket, error)
}

type DashboardService interface {
	GetStats(ctx context.Context, actor *domain.User) (map[string]any, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendLowLifeReport(ctx context.Context, to, name string, tools []domain.Tool) error
}

// clock lets tests pin wall time; services default to time.Now.
type clock func() time.Time
