package commands_test

import (
	"testing"

	"lunchroom/internal/core/application/usecases/commands"
	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFulfillMenuItemCommandHandler_Handle_FulfillsAcrossOrders(t *testing.T) {
	ctx := t.Context()
	menuItemID := kernel.NewUUID()
	day := kernel.NewDay(mondayMorning())
	cmd, err := commands.NewFulfillMenuItemCommand(menuItemID, day)
	require.NoError(t, err)

	firstItemID := kernel.NewUUID()
	secondItemID := kernel.NewUUID()
	firstOrder := testAggregate(t, firstItemID)
	secondOrder := testAggregate(t, secondItemID, kernel.NewUUID())

	repo := new(MockOrderRepository)
	repo.On("FindUnfulfilledItemIDs", ctx, day, menuItemID).
		Return([]kernel.UUID{firstItemID, secondItemID}, nil).Once()
	repo.On("GetByItemIDForUpdate", ctx, firstItemID).Return(firstOrder, nil).Once()
	repo.On("GetByItemIDForUpdate", ctx, secondItemID).Return(secondOrder, nil).Once()
	repo.On("UpdateFulfillment", ctx, firstOrder).Return(nil).Once()
	repo.On("UpdateFulfillment", ctx, secondOrder).Return(nil).Once()

	uow := new(MockOrderUoW)
	uow.On("OrderRepository").Return(repo).Times(3)
	uow.On("Begin", ctx).Return(nil).Times(2)
	uow.On("Commit", ctx).Return(nil).Times(2)
	uow.On("Rollback", ctx).Return(nil).Times(2)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Times(3)

	h := commands.NewFulfillMenuItemCommandHandler(factory, fixedNow())
	fulfilled, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 2, fulfilled)
	assert.Equal(t, order.Fulfilled, firstOrder.FulfillmentStatus())
	assert.Equal(t, order.PartiallyFulfilled, secondOrder.FulfillmentStatus())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestFulfillMenuItemCommandHandler_Handle_AlreadyFulfilledNotCounted(t *testing.T) {
	ctx := t.Context()
	menuItemID := kernel.NewUUID()
	day := kernel.NewDay(mondayMorning())
	cmd, err := commands.NewFulfillMenuItemCommand(menuItemID, day)
	require.NoError(t, err)

	itemID := kernel.NewUUID()
	aggregate := testAggregate(t, itemID)
	_, err = aggregate.SetItemStatus(itemID, order.Fulfilled, mondayMorning())
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("FindUnfulfilledItemIDs", ctx, day, menuItemID).
		Return([]kernel.UUID{itemID}, nil).Once()
	repo.On("GetByItemIDForUpdate", ctx, itemID).Return(aggregate, nil).Once()

	uow := new(MockOrderUoW)
	uow.On("OrderRepository").Return(repo).Times(2)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Times(2)

	h := commands.NewFulfillMenuItemCommandHandler(factory, fixedNow())
	fulfilled, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 0, fulfilled)
	repo.AssertNotCalled(t, "UpdateFulfillment", mock.Anything, mock.Anything)
}

func TestFulfillMenuItemCommandHandler_Handle_NothingToDo(t *testing.T) {
	ctx := t.Context()
	menuItemID := kernel.NewUUID()
	day := kernel.NewDay(mondayMorning())
	cmd, err := commands.NewFulfillMenuItemCommand(menuItemID, day)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("FindUnfulfilledItemIDs", ctx, day, menuItemID).
		Return([]kernel.UUID{}, nil).Once()

	uow := new(MockOrderUoW)
	uow.On("OrderRepository").Return(repo).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewFulfillMenuItemCommandHandler(factory, fixedNow())
	fulfilled, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 0, fulfilled)
	uow.AssertNotCalled(t, "Begin", mock.Anything)
}

func TestNewFulfillMenuItemCommand_InvalidMenuItemID(t *testing.T) {
	_, err := commands.NewFulfillMenuItemCommand(kernel.UUID{}, kernel.NewDay(mondayMorning()))
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}
