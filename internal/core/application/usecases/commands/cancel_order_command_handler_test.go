package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/ports"
)

type MockCancelOrderRepository struct{ mock.Mock }

func (m *MockCancelOrderRepository) Add(_ context.Context, _ *order.Order) error {
	return errors.New("not implemented in mock")
}
func (m *MockCancelOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockCancelOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*order.Order), args.Error(1)
}
func (m *MockCancelOrderRepository) GetByIDs(_ context.Context, _ []kernel.UUID) ([]*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockCancelOrderRepository) GetAllInStatus(_ context.Context, _ order.Status) ([]*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockCancelOrderRepository) GetAllMissingCoordinates(_ context.Context, _ int) ([]*order.Order, error) {
	return nil, errors.New("not implemented in mock")
}

type MockCancelProductRepository struct{ mock.Mock }

func (m *MockCancelProductRepository) Get(_ context.Context, _ kernel.UUID) (*product.Product, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockCancelProductRepository) GetByIDs(_ context.Context, _ []kernel.UUID) ([]*product.Product, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockCancelProductRepository) DecrementStock(_ context.Context, _ kernel.UUID, _ int) error {
	return errors.New("not implemented in mock")
}
func (m *MockCancelProductRepository) RestoreStock(ctx context.Context, id kernel.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

type MockCancelUoW struct{ mock.Mock }

func (m *MockCancelUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockCancelUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockCancelUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockCancelUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}
func (m *MockCancelUoW) ProductRepository() ports.ProductRepository {
	args := m.Called()
	return args.Get(0).(ports.ProductRepository)
}

type MockCancelUoWFactory struct{ mock.Mock }

func (m *MockCancelUoWFactory) Create() commands.CancelOrderUoW {
	args := m.Called()
	return args.Get(0).(commands.CancelOrderUoW)
}

func TestCancelOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	stored := storedOrder(t, order.Preparing, nil)
	cmd, err := commands.NewCancelOrderCommand(stored.ID(), "customer changed their mind")
	require.NoError(t, err)

	item := stored.Items()[0]

	orderRepo := new(MockCancelOrderRepository)
	productRepo := new(MockCancelProductRepository)
	uow := new(MockCancelUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		uow.On("ProductRepository").Return(productRepo).Once(),
		orderRepo.On("Get", mock.Anything, stored.ID()).Return(stored, nil).Once(),
		productRepo.On("RestoreStock", mock.Anything, item.ProductID(), item.Quantity()).Return(nil).Once(),
		orderRepo.On("Update", mock.Anything, stored).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockCancelUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.Anything, commands.EventOrderCancelled, mock.Anything).Return(nil).Once()

	h := commands.NewCancelOrderCommandHandler(
		factory, order.DefaultTransitionTable(), publisher, discardLogger(), testClock)
	cancelled, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, cancelled.Status())

	orderRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_InvalidState(t *testing.T) {
	ctx := t.Context()

	for _, status := range []order.Status{order.Ready, order.Delivering, order.Delivered, order.Cancelled} {
		t.Run(status.String(), func(t *testing.T) {
			stored := storedOrder(t, status, nil)
			cmd, err := commands.NewCancelOrderCommand(stored.ID(), "")
			require.NoError(t, err)

			orderRepo := new(MockCancelOrderRepository)
			orderRepo.On("Get", mock.Anything, stored.ID()).Return(stored, nil).Once()

			productRepo := new(MockCancelProductRepository)

			uow := new(MockCancelUoW)
			uow.On("Begin", ctx).Return(nil).Once()
			uow.On("OrderRepository").Return(orderRepo).Once()
			uow.On("ProductRepository").Return(productRepo).Once()
			uow.On("Rollback", ctx).Return(nil).Once()

			factory := new(MockCancelUoWFactory)
			factory.On("Create").Return(uow).Once()

			h := commands.NewCancelOrderCommandHandler(
				factory, order.DefaultTransitionTable(), nil, discardLogger(), testClock)
			_, err = h.Handle(ctx, cmd)

			require.ErrorIs(t, err, commands.ErrInvalidStateForCancellation)
			productRepo.AssertNotCalled(t, "RestoreStock", mock.Anything, mock.Anything, mock.Anything)
			uow.AssertNotCalled(t, "Commit", mock.Anything)
		})
	}
}

func TestCancelOrderCommandHandler_Handle_RestoreStockError(t *testing.T) {
	ctx := t.Context()
	stored := storedOrder(t, order.Pending, nil)
	cmd, err := commands.NewCancelOrderCommand(stored.ID(), "")
	require.NoError(t, err)

	orderRepo := new(MockCancelOrderRepository)
	orderRepo.On("Get", mock.Anything, stored.ID()).Return(stored, nil).Once()

	productRepo := new(MockCancelProductRepository)
	productRepo.On("RestoreStock", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("restore error")).Once()

	uow := new(MockCancelUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("ProductRepository").Return(productRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockCancelUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelOrderCommandHandler(
		factory, order.DefaultTransitionTable(), nil, discardLogger(), testClock)
	_, err = h.Handle(ctx, cmd)

	require.Error(t, err)
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
