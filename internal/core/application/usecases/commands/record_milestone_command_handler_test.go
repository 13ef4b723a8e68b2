package commands_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMilestoneUoW struct{ mock.Mock }

func (m *MockMilestoneUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockMilestoneUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockMilestoneUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockMilestoneUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockMilestoneUoWFactory struct{ mock.Mock }

func (m *MockMilestoneUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

// newHandedOffOrder runs a full orchestration so the aggregate accepts milestones.
func newHandedOffOrder(t *testing.T) *order.Order {
	t.Helper()

	aggregate := newPendingOrder(t)
	locations, stock, routes := newStockedWarehouse(t)

	env := services.Environment{
		Routes:    map[string][]carrier.RouteCoverage{locations[0].Pincode().String(): routes},
		Locations: locations,
		Stock:     stock,
		StartedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}

	_, err := newTestCoordinator(t).Orchestrate(t.Context(), aggregate, env)
	require.NoError(t, err)
	require.Equal(t, order.HandedOff, aggregate.Status())
	return aggregate
}

func TestRecordMilestoneCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate := newHandedOffOrder(t)
	at := time.Date(2026, 3, 12, 9, 30, 0, 0, time.UTC)
	cmd, err := commands.NewRecordMilestoneCommand(aggregate.ID(), "DELIVERED", at)
	require.NoError(t, err)

	orderRepo := new(MockOrchestrateOrderRepository)
	uow := new(MockMilestoneUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockMilestoneUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRecordMilestoneCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, aggregate.DeliveredAt())
	assert.Equal(t, at, *aggregate.DeliveredAt())
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestRecordMilestoneCommandHandler_Handle_UnknownKind(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewRecordMilestoneCommand(
		kernel.NewUUID(), "TELEPORTED", time.Date(2026, 3, 12, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	factory := new(MockMilestoneUoWFactory)
	handler := commands.NewRecordMilestoneCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	factory.AssertNotCalled(t, "Create")
}

func TestRecordMilestoneCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd, err := commands.NewRecordMilestoneCommand(
		orderID, "PICKED", time.Date(2026, 3, 12, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	orderRepo := new(MockOrchestrateOrderRepository)
	uow := new(MockMilestoneUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, orderID).Return(nil, errs.ErrObjectNotFound).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockMilestoneUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRecordMilestoneCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, commands.ErrNoOrderFound)
}

func TestRecordMilestoneCommandHandler_Handle_BeforeHandOff(t *testing.T) {
	ctx := t.Context()
	aggregate := newPendingOrder(t)
	cmd, err := commands.NewRecordMilestoneCommand(
		aggregate.ID(), "PICKED", time.Date(2026, 3, 12, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	orderRepo := new(MockOrchestrateOrderRepository)
	uow := new(MockMilestoneUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockMilestoneUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewRecordMilestoneCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	require.ErrorIs(t, err, order.ErrMilestoneBeforeHandOff)
}
