package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/domain/model/menu"
	"lunchroom/internal/core/domain/model/order"
	"lunchroom/internal/core/domain/services"
	"lunchroom/internal/core/ports"
	"lunchroom/internal/pkg/errs"
)

// ErrOrderingClosed is returned when a checkout arrives outside the daily
// ordering window or on a weekend. The wrapped message carries the reason.
var ErrOrderingClosed = errors.New("ordering is closed")

// PlaceOrderResult is what checkout hands back to the client: the persisted
// order's identifiers, the charged total, and the gateway client secret needed
// to complete payment interactively.
type PlaceOrderResult struct {
	OrderID      kernel.UUID
	OrderNumber  string
	TotalAmount  kernel.Money
	ClientSecret string
}

// PlaceOrderCommandHandler coordinates the whole checkout: ownership checks,
// the ordering window gate, catalog resolution, pricing, order number
// allocation, payment authorization, and transactional persistence.
//
// The payment call happens before the database transaction opens, never
// inside it. If persistence then fails, the already-created authorization is
// refunded as compensation; if the refund itself fails, both errors surface
// and the reconciliation job picks up the orphaned intent.
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	menuItems  ports.MenuRepository
	accounts   ports.AccountStore
	configs    ports.ConfigRepository
	gateway    ports.PaymentGateway
	now        func() time.Time
}

// NewPlaceOrderCommandHandler creates a handler for checkout operations.
func NewPlaceOrderCommandHandler(
	uowFactory OrderUoWFactory,
	menuItems ports.MenuRepository,
	accounts ports.AccountStore,
	configs ports.ConfigRepository,
	gateway ports.PaymentGateway,
	now func() time.Time,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		menuItems:  menuItems,
		accounts:   accounts,
		configs:    configs,
		gateway:    gateway,
		now:        now,
	}
}

// Handle processes a checkout command.
//
// The guest email collision check and the window gate both run before any
// money moves, so rejected checkouts never touch the gateway. The window is
// read fresh from configuration on every attempt.
func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (PlaceOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return PlaceOrderResult{}, err
	}

	customer, err := h.resolveCustomer(ctx, cmd)
	if err != nil {
		return PlaceOrderResult{}, err
	}

	now := h.now()
	if err = h.checkWindow(ctx, now); err != nil {
		return PlaceOrderResult{}, err
	}

	day := kernel.NewDay(now)
	items, err := h.buildItems(ctx, cmd.Lines(), day)
	if err != nil {
		return PlaceOrderResult{}, err
	}

	total := kernel.Zero()
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	total = total.Round2()

	uow := h.uowFactory.Create()

	// The counter bump runs on the base connection, outside the order
	// transaction, so an abandoned checkout burns a number instead of
	// holding a lock on the day's counter row.
	sequence, err := uow.OrderRepository().NextDailySequence(ctx, day)
	if err != nil {
		return PlaceOrderResult{}, err
	}
	number, err := services.FormatOrderNumber(day, sequence)
	if err != nil {
		return PlaceOrderResult{}, err
	}

	auth, err := h.gateway.CreateIntent(ctx, total, customer.Email(), number)
	if err != nil {
		return PlaceOrderResult{}, err
	}

	aggregate, err := order.NewOrder(
		kernel.NewUUID(), number, customer, day, items, cmd.DeliveryNotes(), auth.ID, now,
	)
	if err != nil {
		return PlaceOrderResult{}, h.compensate(ctx, auth.ID, err)
	}

	if err = uow.Begin(ctx); err != nil {
		return PlaceOrderResult{}, h.compensate(ctx, auth.ID, err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	// Fetched after Begin so the repository binds to the open transaction.
	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return PlaceOrderResult{}, h.compensate(ctx, auth.ID, err)
	}

	if err = uow.Commit(ctx); err != nil {
		return PlaceOrderResult{}, h.compensate(ctx, auth.ID, err)
	}

	return PlaceOrderResult{
		OrderID:      aggregate.ID(),
		OrderNumber:  aggregate.Number(),
		TotalAmount:  aggregate.TotalAmount(),
		ClientSecret: auth.ClientSecret,
	}, nil
}

// resolveCustomer turns the command's identity into an order owner. Guests
// whose email belongs to a registered account are rejected with a conflict so
// they sign in instead of splitting their order history.
func (h PlaceOrderCommandHandler) resolveCustomer(ctx context.Context, cmd PlaceOrderCommand) (order.Customer, error) {
	if cmd.IsGuest() {
		customer, err := order.NewGuestCustomer(cmd.GuestEmail(), cmd.GuestFirstName(), cmd.GuestLastName())
		if err != nil {
			return order.Customer{}, err
		}
		exists, err := h.accounts.EmailExists(ctx, customer.Email())
		if err != nil {
			return order.Customer{}, err
		}
		if exists {
			return order.Customer{}, errs.NewConflictError("email", customer.Email())
		}
		return customer, nil
	}

	email, err := h.accounts.EmailByUserID(ctx, cmd.UserID())
	if err != nil {
		return order.Customer{}, err
	}
	return order.NewRegisteredCustomer(cmd.UserID(), email)
}

func (h PlaceOrderCommandHandler) checkWindow(ctx context.Context, now time.Time) error {
	window, err := h.configs.OrderingWindow(ctx)
	if err != nil {
		return err
	}
	status := services.NewOrderWindowGate().Check(now, window)
	if !status.Active {
		return fmt.Errorf("%w: %s", ErrOrderingClosed, status.Reason)
	}
	return nil
}

// buildItems resolves the cart against the current catalog and prices every
// line. A line referencing a missing, inactive, or not-offered-today item
// rejects the whole cart, with every offending id in one error.
func (h PlaceOrderCommandHandler) buildItems(
	ctx context.Context,
	lines []OrderLine,
	day kernel.Day,
) ([]*order.OrderItem, error) {
	ids := make([]kernel.UUID, 0, len(lines))
	seen := make(map[string]bool)
	for _, line := range lines {
		if !seen[line.MenuItemID.String()] {
			seen[line.MenuItemID.String()] = true
			ids = append(ids, line.MenuItemID)
		}
	}

	catalogItems, err := h.menuItems.GetActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*menu.MenuItem, len(catalogItems))
	for _, item := range catalogItems {
		byID[item.ID().String()] = item
	}

	var unavailable []string
	for _, line := range lines {
		item, ok := byID[line.MenuItemID.String()]
		if !ok || !item.OfferedOn(day.Weekday()) {
			unavailable = append(unavailable, line.MenuItemID.String())
		}
	}
	if len(unavailable) > 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"menuItemIds",
			fmt.Errorf("items are not available: %s", strings.Join(unavailable, ", ")),
		)
	}

	pricer := services.NewPricer()
	items := make([]*order.OrderItem, 0, len(lines))
	for _, line := range lines {
		item := byID[line.MenuItemID.String()]
		if err = services.ValidateSelections(item, line.Selections); err != nil {
			return nil, err
		}
		unitPrice, snapshot, err := pricer.UnitPrice(item, line.Selections)
		if err != nil {
			return nil, err
		}
		orderItem, err := order.NewOrderItem(
			kernel.NewUUID(), item.ID(), item.Name(),
			line.Quantity, unitPrice, snapshot, line.Customizations, line.SpecialRequests,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, orderItem)
	}
	return items, nil
}

// compensate refunds a payment authorization after persistence failed. The
// original error always surfaces; a refund failure is joined onto it and the
// reconciliation job remains the backstop.
func (h PlaceOrderCommandHandler) compensate(ctx context.Context, paymentRef string, cause error) error {
	if refundErr := h.gateway.Refund(ctx, paymentRef); refundErr != nil {
		return errors.Join(cause, refundErr)
	}
	return cause
}
