package service

import (
	"context"
	"sync"
	"time"

	"toolcrib-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) FindSupervisor(ctx context.Context, email, companyName string) (*domain.User, error) {
	args := m.Called(ctx, email, companyName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) ListSupervisorsByCompany(ctx context.Context, companyName string) ([]domain.User, error) {
	args := m.Called(ctx, companyName)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) ListSupervisors(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) ListCompanies(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

// MockToolRepo
type MockToolRepo struct {
	mock.Mock
}

func (m *MockToolRepo) Create(ctx context.Context, tool *domain.Tool) error {
	args := m.Called(ctx, tool)
	return args.Error(0)
}
func (m *MockToolRepo) GetByID(ctx context.Context, id int32) (*domain.Tool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tool), args.Error(1)
}
func (m *MockToolRepo) Update(ctx context.Context, tool *domain.Tool) error {
	args := m.Called(ctx, tool)
	return args.Error(0)
}
func (m *MockToolRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockToolRepo) List(ctx context.Context) ([]domain.Tool, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Tool), args.Error(1)
}
func (m *MockToolRepo) ListByShopkeeper(ctx context.Context, shopkeeperID int32) ([]domain.Tool, error) {
	args := m.Called(ctx, shopkeeperID)
	return args.Get(0).([]domain.Tool), args.Error(1)
}
func (m *MockToolRepo) ListByGrantedSupervisor(ctx context.Context, supervisorID int32) ([]domain.Tool, error) {
	args := m.Called(ctx, supervisorID)
	return args.Get(0).([]domain.Tool), args.Error(1)
}
func (m *MockToolRepo) ListBelowThreshold(ctx context.Context) ([]domain.Tool, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Tool), args.Error(1)
}
func (m *MockToolRepo) BeginUsage(ctx context.Context, toolID, operatorID int32, startTime time.Time) error {
	args := m.Called(ctx, toolID, operatorID, startTime)
	return args.Error(0)
}
func (m *MockToolRepo) EndUsage(ctx context.Context, toolID, operatorID int32, remainingLife, totalUsageHours float64) error {
	args := m.Called(ctx, toolID, operatorID, remainingLife, totalUsageHours)
	return args.Error(0)
}
func (m *MockToolRepo) HasAccessGrant(ctx context.Context, toolID, supervisorID int32) (bool, error) {
	args := m.Called(ctx, toolID, supervisorID)
	return args.Bool(0), args.Error(1)
}
func (m *MockToolRepo) AddAccessGrant(ctx context.Context, grant *domain.AccessGrant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}
func (m *MockToolRepo) ListAccessGrants(ctx context.Context, toolID int32) ([]domain.AccessGrant, error) {
	args := m.Called(ctx, toolID)
	return args.Get(0).([]domain.AccessGrant), args.Error(1)
}
func (m *MockToolRepo) IncrementStock(ctx context.Context, toolID, quantity int32) error {
	args := m.Called(ctx, toolID, quantity)
	return args.Error(0)
}
func (m *MockToolRepo) CountByShopkeeper(ctx context.Context, shopkeeperID int32) (int32, error) {
	args := m.Called(ctx, shopkeeperID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockToolRepo) CountBelowThreshold(ctx context.Context, shopkeeperID int32) (int32, error) {
	args := m.Called(ctx, shopkeeperID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockToolRepo) SumStockByShopkeeper(ctx context.Context, shopkeeperID int32) (int32, error) {
	args := m.Called(ctx, shopkeeperID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockToolRepo) CountInUseByOperator(ctx context.Context, operatorID int32) (int32, error) {
	args := m.Called(ctx, operatorID)
	return args.Get(0).(int32), args.Error(1)
}

// MockOrderRepo
type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}
func (m *MockOrderRepo) GetByID(ctx context.Context, id int32) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderRepo) UpdateStatus(ctx context.Context, orderID int32, from, to domain.OrderStatus, notes string, approvedAt, fulfilledAt *time.Time) error {
	args := m.Called(ctx, orderID, from, to, notes, approvedAt, fulfilledAt)
	return args.Error(0)
}
func (m *MockOrderRepo) ListBySupervisor(ctx context.Context, supervisorID int32) ([]domain.Order, error) {
	args := m.Called(ctx, supervisorID)
	return args.Get(0).([]domain.Order), args.Error(1)
}
func (m *MockOrderRepo) ListByShopkeeper(ctx context.Context, shopkeeperID int32) ([]domain.Order, error) {
	args := m.Called(ctx, shopkeeperID)
	return args.Get(0).([]domain.Order), args.Error(1)
}
func (m *MockOrderRepo) List(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Order), args.Error(1)
}
func (m *MockOrderRepo) CountByStatus(ctx context.Context, userID int32, role domain.Role, status domain.OrderStatus) (int32, error) {
	args := m.Called(ctx, userID, role, status)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockOrderRepo) CountByUser(ctx context.Context, userID int32, role domain.Role) (int32, error) {
	args := m.Called(ctx, userID, role)
	return args.Get(0).(int32), args.Error(1)
}

// MockUsageRepo
type MockUsageRepo struct {
	mock.Mock
}

func (m *MockUsageRepo) Create(ctx context.Context, session *domain.UsageSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}
func (m *MockUsageRepo) List(ctx context.Context, limit int32) ([]domain.UsageSession, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.UsageSession), args.Error(1)
}
func (m *MockUsageRepo) ListByOperator(ctx context.Context, operatorID int32, limit int32) ([]domain.UsageSession, error) {
	args := m.Called(ctx, operatorID, limit)
	return args.Get(0).([]domain.UsageSession), args.Error(1)
}
func (m *MockUsageRepo) Aggregate(ctx context.Context, since time.Time, operatorID, toolID int32) ([]domain.UsageBucket, error) {
	args := m.Called(ctx, since, operatorID, toolID)
	return args.Get(0).([]domain.UsageBucket), args.Error(1)
}
func (m *MockUsageRepo) CountByOperator(ctx context.Context, operatorID int32, since *time.Time) (int32, error) {
	args := m.Called(ctx, operatorID, since)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockUsageRepo) SumHoursByOperator(ctx context.Context, operatorID int32) (float64, error) {
	args := m.Called(ctx, operatorID)
	return args.Get(0).(float64), args.Error(1)
}

// MockNoteRepo
type MockNoteRepo struct {
	mock.Mock
}

func (m *MockNoteRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNoteRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNoteRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
func (m *MockNoteRepo) DeleteReadOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// RecordingPublisher captures published events for assertions.
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []domain.Event
}

func (p *RecordingPublisher) Publish(event domain.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
}

func (p *RecordingPublisher) ByType(t domain.EventType) []domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []domain.Event
	for _, e := range p.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
