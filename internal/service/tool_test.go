package service

import (
	"context"
	"testing"
	"time"

	"toolcrib-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type toolFixture struct {
	toolRepo  *MockToolRepo
	userRepo  *MockUserRepo
	usageRepo *MockUsageRepo
	noteRepo  *MockNoteRepo
	publisher *RecordingPublisher
	svc       *toolService
}

func newToolFixture(t *testing.T, now time.Time) *toolFixture {
	t.Helper()
	f := &toolFixture{
		toolRepo:  new(MockToolRepo),
		userRepo:  new(MockUserRepo),
		usageRepo: new(MockUsageRepo),
		noteRepo:  new(MockNoteRepo),
		publisher: new(RecordingPublisher),
	}
	f.svc = NewToolService(f.toolRepo, f.userRepo, f.usageRepo, f.noteRepo, f.publisher).(*toolService)
	f.svc.now = func() time.Time { return now }
	return f
}

func operatorUser() *domain.User {
	return &domain.User{
		ID:              7,
		Role:            domain.RoleOperator,
		CompanyName:     "Acme Corp",
		SupervisorEmail: "sup@acme.test",
	}
}

func availableTool() *domain.Tool {
	return &domain.Tool{
		ID:             3,
		ShopkeeperID:   1,
		ShopName:       "Main Crib",
		Name:           "End Mill",
		LifeLimit:      100,
		RemainingLife:  40,
		ThresholdLimit: 10,
		Status:         domain.ToolStatusAvailable,
		Stock:          2,
	}
}

func TestCreateTool(t *testing.T) {
	f := newToolFixture(t, time.Now())
	shopkeeper := &domain.User{ID: 1, Role: domain.RoleShopkeeper, ShopName: "Main Crib"}

	f.toolRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Tool")).Return(nil)

	tool, err := f.svc.CreateTool(context.Background(), shopkeeper, CreateToolInput{
		Name:           "Drill Bit",
		LifeLimit:      50,
		ThresholdLimit: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, tool.RemainingLife)
	assert.Equal(t, int32(1), tool.Stock)
	assert.Equal(t, domain.ToolStatusAvailable, tool.Status)
	assert.Equal(t, shopkeeper.ID, tool.ShopkeeperID)
}

func TestCreateTool_Forbidden(t *testing.T) {
	f := newToolFixture(t, time.Now())
	_, err := f.svc.CreateTool(context.Background(), operatorUser(), CreateToolInput{Name: "x", LifeLimit: 10, ThresholdLimit: 1})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestStartUsage(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	f := newToolFixture(t, now)
	op := operatorUser()
	tool := availableTool()
	sup := &domain.User{ID: 5, Role: domain.RoleSupervisor, CompanyName: op.CompanyName}

	f.toolRepo.On("GetByID", mock.Anything, tool.ID).Return(tool, nil)
	f.userRepo.On("FindSupervisor", mock.Anything, op.SupervisorEmail, op.CompanyName).Return(sup, nil)
	f.toolRepo.On("HasAccessGrant", mock.Anything, tool.ID, sup.ID).Return(true, nil)
	f.toolRepo.On("BeginUsage", mock.Anything, tool.ID, op.ID, now).Return(nil)

	got, err := f.svc.StartUsage(context.Background(), op, tool.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ToolStatusInUse, got.Status)
	require.NotNil(t, got.CurrentUserID)
	assert.Equal(t, op.ID, *got.CurrentUserID)
	require.NotNil(t, got.UsageStartTime)
	assert.Equal(t, now, *got.UsageStartTime)
}

func TestStartUsage_NoGrant(t *testing.T) {
	f := newToolFixture(t, time.Now())
	op := operatorUser()
	tool := availableTool()
	sup := &domain.User{ID: 5, Role: domain.RoleSupervisor}

	f.toolRepo.On("GetByID", mock.Anything, tool.ID).Return(tool, nil)
	f.userRepo.On("FindSupervisor", mock.Anything, op.SupervisorEmail, op.CompanyName).Return(sup, nil)
	f.toolRepo.On("HasAccessGrant", mock.Anything, tool.ID, sup.ID).Return(false, nil)

	_, err := f.svc.StartUsage(context.Background(), op, tool.ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	// The tool is never touched when access is denied.
	f.toolRepo.AssertNotCalled(t, "BeginUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, domain.ToolStatusAvailable, tool.Status)
}

func TestStartUsage_NoSupervisor(t *testing.T) {
	f := newToolFixture(t, time.Now())
	op := operatorUser()
	tool := availableTool()

	f.toolRepo.On("GetByID", mock.Anything, tool.ID).Return(tool, nil)
	f.userRepo.On("FindSupervisor", mock.Anything, op.SupervisorEmail, op.CompanyName).Return(nil, domain.ErrNotFound)

	_, err := f.svc.StartUsage(context.Background(), op, tool.ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestStartUsage_Exhausted(t *testing.T) {
	f := newToolFixture(t, time.Now())
	op := operatorUser()
	tool := availableTool()
	tool.RemainingLife = 0
	sup := &domain.User{ID: 5}

	f.toolRepo.On("GetByID", mock.Anything, tool.ID).Return(tool, nil)
	f.userRepo.On("FindSupervisor", mock.Anything, op.SupervisorEmail, op.CompanyName).Return(sup, nil)
	f.toolRepo.On("HasAccessGrant", mock.Anything, tool.ID, sup.ID).Return(true, nil)

	_, err := f.svc.StartUsage(context.Background(), op, tool.ID)
	assert.ErrorIs(t, err, domain.ErrToolExhausted)
}

func TestStartUsage_AlreadyInUse(t *testing.T) {
	f := newToolFixture(t, time.Now())
	op := operatorUser()
	other := int32(99)
	tool := availableTool()
	tool.Status = domain.ToolStatusInUse
	tool.CurrentUserID = &other
	sup := &domain.User{ID: 5}

	f.toolRepo.On("GetByID", mock.Anything, tool.ID).Return(tool, nil)
	f.userRepo.On("FindSupervisor", mock.Anything, op.SupervisorEmail, op.CompanyName).Return(sup, nil)
	f.toolRepo.On("HasAccessGrant", mock.Anything, tool.ID, sup.ID).Return(true, nil)

	_, err := f.svc.StartUsage(context.Background(), op, tool.ID)
	assert.ErrorIs(t, err, domain.ErrToolUnavailable)
}

func TestStartUsage_LostRace(t *testing.T) {
	// Two operators pass the read-side checks; the conditional write
	// decides the winner and the loser sees the tool as unavailable.
	f := newToolFixture(t, time.Now())
	op := operatorUser()
	tool := availableTool()
	sup := &domain.User{ID: 5}

	f.toolRepo.On("GetByID", mock.Anything, tool.ID).Return(tool, nil)
	f.userRepo.On("FindSupervisor", mock.Anything, op.SupervisorEmail, op.CompanyName).Return(sup, nil)
	f.toolRepo.On("HasAccessGrant", mock.Anything, tool.ID, sup.ID).Return(true, nil)
	f.toolRepo.On("BeginUsage", mock.Anything, tool.ID, op.ID, mock.AnythingOfType("time.Time")).Return(domain.ErrConflict)

	_, err := f.svc.StartUsage(context.Background(), op, tool.ID)
	assert.ErrorIs(t, err, domain.ErrToolUnavailable)
}

func inUseTool(op *domain.User, start time.Time) *domain.Tool {
	tool := availableTool()
	tool.Status = domain.ToolStatusInUse
	tool.CurrentUserID = &op.ID
	tool.UsageStartTime = &start
	return tool
}

func TestStopUsage_ZeroDuration(t *testing.T) {
	start := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	f := newToolFixture(t, start) // clock pinned to the start instant
	op := operatorUser()
	tool := inUseTool(op, start)

	f.toolRepo.On("GetByID", mock.Anything, tool.ID).Return(tool, nil)
	f.toolRepo.On("EndUsage", mock.Anything, tool.ID, op.ID, 40.0, 0.0).Return(nil)
	f.usageRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.UsageSession")).Return(nil)

	got, hours, err := f.svc.StopUsage(context.Background(), op, tool.ID)
	require.NoError(t, err)
	assert.Zero(t, hours)
	assert.Equal(t, 40.0, got.RemainingLife)
	assert.Equal(t, domain.ToolStatusAvailable, got.Status)
	assert.Nil(t, got.CurrentUserID)
	assert.Empty(t, f.publisher.Events)
}

func TestStopUsage_WearClampsAtZero(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(60 * time.Hour) // more than the 40h remaining
	f := newToolFixture(t, end)
	op := operatorUser()
	tool := inUseTool(op, start)

	f.toolRepo.On("GetByID", mock.Anything, tool.ID).Return(tool, nil)
	f.toolRepo.On("EndUsage", mock.Anything, tool.ID, op.ID, 0.0, 60.0).Return(nil)
	f.usageRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.UsageSession")).Return(nil)
	f.noteRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil)

	got, hours, err := f.svc.StopUsage(context.Background(), op, tool.ID)
	require.NoError(t, err)
	assert.Equal(t, 60.0, hours)
	assert.Equal(t, 0.0, got.RemainingLife)
	assert.Equal(t, 60.0, got.TotalUsageHours)
}

func TestStopUsage_ThresholdAlert(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(35 * time.Hour) // 40 - 35 = 5, at or below threshold 10
	f := newToolFixture(t, end)
	op := operatorUser()
	tool := inUseTool(op, start)

	f.toolRepo.On("GetByID", mock.Anything, tool.ID).Return(tool, nil)
	f.toolRepo.On("EndUsage", mock.Anything, tool.ID, op.ID, 5.0, 35.0).Return(nil)
	f.usageRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.UsageSession")).Return(nil)
	f.noteRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Notification")).Return(nil)

	got, _, err := f.svc.StopUsage(context.Background(), op, tool.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.RemainingLife)

	alerts := f.publisher.ByType(domain.EventThresholdAlert)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.RoleSupervisor, alerts[0].Scope)
	payload := alerts[0].Payload.(domain.ThresholdAlertPayload)
	assert.Equal(t, "End Mill", payload.Tool)
	assert.Equal(t, 5.0, payload.RemainingLife)

	f.noteRepo.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == tool.ShopkeeperID && n.Attributes["type"] == "THRESHOLD_ALERT"
	}))
}

func TestStopUsage_NotCurrentUser(t *testing.T) {
	start := time.Now().Add(-time.Hour)
	f := newToolFixture(t, time.Now())
	op := operatorUser()
	other := &domain.User{ID: 99, Role: domain.RoleOperator}
	tool := inUseTool(op, start)

	f.toolRepo.On("GetByID", mock.Anything, tool.ID).Return(tool, nil)

	_, _, err := f.svc.StopUsage(context.Background(), other, tool.ID)
	assert.ErrorIs(t, err, domain.ErrNotCurrentUser)
}

func TestStopUsage_RaceOnClose(t *testing.T) {
	start := time.Now().Add(-time.Hour)
	f := newToolFixture(t, time.Now())
	op := operatorUser()
	tool := inUseTool(op, start)

	f.toolRepo.On("GetByID", mock.Anything, tool.ID).Return(tool, nil)
	f.toolRepo.On("EndUsage", mock.Anything, tool.ID, op.ID, mock.Anything, mock.Anything).Return(domain.ErrConflict)

	_, _, err := f.svc.StopUsage(context.Background(), op, tool.ID)
	assert.ErrorIs(t, err, domain.ErrNotCurrentUser)
	f.usageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListTools_OperatorWithoutSupervisor(t *testing.T) {
	f := newToolFixture(t, time.Now())
	op := operatorUser()

	f.userRepo.On("FindSupervisor", mock.Anything, op.SupervisorEmail, op.CompanyName).Return(nil, domain.ErrNotFound)

	tools, err := f.svc.ListTools(context.Background(), op)
	require.NoError(t, err)
	assert.Empty(t, tools)
}

func TestDeleteTool_NotOwner(t *testing.T) {
	f := newToolFixture(t, time.Now())
	shopkeeper := &domain.User{ID: 2, Role: domain.RoleShopkeeper}
	tool := availableTool() // owned by shopkeeper 1

	f.toolRepo.On("GetByID", mock.Anything, tool.ID).Return(tool, nil)

	err := f.svc.DeleteTool(context.Background(), shopkeeper, tool.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	f.toolRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
