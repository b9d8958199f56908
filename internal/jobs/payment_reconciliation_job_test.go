package jobs_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"lunchroom/internal/core/application/usecases/commands"
	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/domain/model/order"
	"lunchroom/internal/core/ports"
	"lunchroom/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetOwned(ctx context.Context, id kernel.UUID, userID *kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByItemIDForUpdate(ctx context.Context, itemID kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByPaymentRef(ctx context.Context, paymentRef string) (*order.Order, error) {
	args := m.Called(ctx, paymentRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateFulfillment(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdatePaymentStatus(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) NextDailySequence(ctx context.Context, day kernel.Day) (int, error) {
	args := m.Called(ctx, day)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) FindUnfulfilledItemIDs(ctx context.Context, day kernel.Day, menuItemID kernel.UUID) ([]kernel.UUID, error) {
	args := m.Called(ctx, day, menuItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockOrderRepository) FindPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOrderUoW struct {
	mock.Mock
	repo *MockOrderRepository
}

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	return m.repo
}

type MockOrderUoWFactory struct {
	uow *MockOrderUoW
}

func (f *MockOrderUoWFactory) Create() commands.OrderUoW {
	return f.uow
}

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateIntent(
	ctx context.Context, amount kernel.Money, customerEmail, orderNumber string,
) (ports.Authorization, error) {
	args := m.Called(ctx, amount, customerEmail, orderNumber)
	return args.Get(0).(ports.Authorization), args.Error(1)
}

func (m *MockPaymentGateway) RetrieveIntentState(ctx context.Context, intentID string) (ports.IntentState, error) {
	args := m.Called(ctx, intentID)
	return args.Get(0).(ports.IntentState), args.Error(1)
}

func (m *MockPaymentGateway) Refund(ctx context.Context, intentID string) error {
	args := m.Called(ctx, intentID)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pendingOrder(t *testing.T, paymentRef string) *order.Order {
	t.Helper()
	customer, err := order.NewGuestCustomer("kit@example.com", "Kit", "Fine")
	require.NoError(t, err)
	price, err := kernel.NewMoneyFromString("10.50")
	require.NoError(t, err)
	item, err := order.NewOrderItem(
		kernel.NewUUID(), kernel.NewUUID(), "Falafel Wrap", 1, price, nil, "", "",
	)
	require.NoError(t, err)
	created := time.Now().Add(-time.Hour)
	aggregate, err := order.NewOrder(
		kernel.NewUUID(), "ORD-20260824-0001", customer, kernel.NewDay(created),
		[]*order.OrderItem{item}, "", paymentRef, created,
	)
	require.NoError(t, err)
	return aggregate
}

func newJob(uow *MockOrderUoW, gateway *MockPaymentGateway) *jobs.PaymentReconciliationJob {
	factory := &MockOrderUoWFactory{uow: uow}
	handler := commands.NewRecordPaymentEventCommandHandler(factory, time.Now)
	return jobs.NewPaymentReconciliationJob(factory, gateway, handler, discardLogger())
}

func TestPaymentReconciliationJob_CompletesSucceededIntent(t *testing.T) {
	ctx := context.Background()
	aggregate := pendingOrder(t, "pi_123")

	repo := &MockOrderRepository{}
	uow := &MockOrderUoW{repo: repo}
	gateway := &MockPaymentGateway{}

	repo.On("FindPendingCreatedBefore", ctx, mock.AnythingOfType("time.Time")).
		Return([]*order.Order{aggregate}, nil).Once()
	gateway.On("RetrieveIntentState", ctx, "pi_123").Return(ports.IntentSucceeded, nil).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	repo.On("GetByPaymentRef", ctx, "pi_123").Return(aggregate, nil).Once()
	repo.On("UpdatePaymentStatus", ctx, aggregate).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	newJob(uow, gateway).Reconcile(ctx)

	assert.Equal(t, order.PaymentCompleted, aggregate.PaymentStatus())
	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestPaymentReconciliationJob_FailsCanceledIntent(t *testing.T) {
	ctx := context.Background()
	aggregate := pendingOrder(t, "pi_456")

	repo := &MockOrderRepository{}
	uow := &MockOrderUoW{repo: repo}
	gateway := &MockPaymentGateway{}

	repo.On("FindPendingCreatedBefore", ctx, mock.AnythingOfType("time.Time")).
		Return([]*order.Order{aggregate}, nil).Once()
	gateway.On("RetrieveIntentState", ctx, "pi_456").Return(ports.IntentCanceled, nil).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	repo.On("GetByPaymentRef", ctx, "pi_456").Return(aggregate, nil).Once()
	repo.On("UpdatePaymentStatus", ctx, aggregate).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	newJob(uow, gateway).Reconcile(ctx)

	assert.Equal(t, order.PaymentFailed, aggregate.PaymentStatus())
	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestPaymentReconciliationJob_LeavesInFlightIntentsAlone(t *testing.T) {
	ctx := context.Background()
	aggregate := pendingOrder(t, "pi_789")

	repo := &MockOrderRepository{}
	uow := &MockOrderUoW{repo: repo}
	gateway := &MockPaymentGateway{}

	repo.On("FindPendingCreatedBefore", ctx, mock.AnythingOfType("time.Time")).
		Return([]*order.Order{aggregate}, nil).Once()
	gateway.On("RetrieveIntentState", ctx, "pi_789").Return(ports.IntentPending, nil).Once()

	newJob(uow, gateway).Reconcile(ctx)

	assert.Equal(t, order.PaymentPending, aggregate.PaymentStatus())
	uow.AssertNotCalled(t, "Begin", mock.Anything)
	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestPaymentReconciliationJob_GatewayFailureDoesNotStopThePass(t *testing.T) {
	ctx := context.Background()
	broken := pendingOrder(t, "pi_broken")
	healthy := pendingOrder(t, "pi_healthy")

	repo := &MockOrderRepository{}
	uow := &MockOrderUoW{repo: repo}
	gateway := &MockPaymentGateway{}

	repo.On("FindPendingCreatedBefore", ctx, mock.AnythingOfType("time.Time")).
		Return([]*order.Order{broken, healthy}, nil).Once()
	gateway.On("RetrieveIntentState", ctx, "pi_broken").
		Return(ports.IntentUnknown, assert.AnError).Once()
	gateway.On("RetrieveIntentState", ctx, "pi_healthy").Return(ports.IntentSucceeded, nil).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	repo.On("GetByPaymentRef", ctx, "pi_healthy").Return(healthy, nil).Once()
	repo.On("UpdatePaymentStatus", ctx, healthy).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	newJob(uow, gateway).Reconcile(ctx)

	assert.Equal(t, order.PaymentPending, broken.PaymentStatus())
	assert.Equal(t, order.PaymentCompleted, healthy.PaymentStatus())
	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}
