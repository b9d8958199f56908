package orderrepo

import (
	"context"
	"errors"
	"time"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/domain/model/order"
	"lunchroom/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking modified aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order and its items. An order number collision surfaces as
// a conflict; with numbers allocated by the atomic daily counter it should
// never happen, so a conflict here points at a bug, not a race to retry.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("orderNumber", aggregate.Number(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order with its items by id.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(r.db.WithContext(ctx), "id = ?", id.String(), id.Bytes())
}

// GetOwned retrieves an order within the caller's ownership scope. A non-nil
// userID matches only that user's orders; nil matches only guest orders.
func (r *GormOrderRepository) GetOwned(
	ctx context.Context,
	id kernel.UUID,
	userID *kernel.UUID,
) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	tx := r.db.WithContext(ctx)
	if userID == nil {
		tx = tx.Where("user_id IS NULL")
	} else {
		tx = tx.Where("user_id = ?", userID.Bytes())
	}
	return r.first(tx, "id = ?", id.String(), id.Bytes())
}

// GetForUpdate retrieves an order with its items, locking the order row until
// the surrounding transaction ends.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	tx := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.first(tx, "id = ?", id.String(), id.Bytes())
}

// GetByItemIDForUpdate resolves the owning order of a line, then locks and
// loads it like GetForUpdate.
func (r *GormOrderRepository) GetByItemIDForUpdate(ctx context.Context, itemID kernel.UUID) (*order.Order, error) {
	if err := itemID.Validate(); err != nil {
		return nil, err
	}

	var itemDTO OrderItemDTO
	err := r.db.WithContext(ctx).
		Select("order_id").
		First(&itemDTO, "id = ?", itemID.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("orderItemId", itemID.String())
	}
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(itemDTO.OrderID[:])
	if err != nil {
		return nil, err
	}
	return r.GetForUpdate(ctx, orderID)
}

// GetByPaymentRef retrieves the order holding the given gateway intent id.
func (r *GormOrderRepository) GetByPaymentRef(ctx context.Context, paymentRef string) (*order.Order, error) {
	if paymentRef == "" {
		return nil, errs.NewValueIsRequiredError("paymentRef")
	}
	return r.first(r.db.WithContext(ctx), "payment_ref = ?", paymentRef, paymentRef)
}

// UpdateFulfillment persists the order-level status and every item status of
// the aggregate, all within the caller's transaction.
func (r *GormOrderRepository) UpdateFulfillment(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Updates(map[string]any{
			"fulfillment_status": aggregate.FulfillmentStatus().String(),
			"updated_at":         aggregate.UpdatedAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	for _, item := range aggregate.Items() {
		if err := r.db.WithContext(ctx).Model(&OrderItemDTO{}).
			Where("id = ?", item.ID().Bytes()).
			Update("status", item.Status().String()).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// UpdatePaymentStatus persists the order's payment status.
func (r *GormOrderRepository) UpdatePaymentStatus(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Updates(map[string]any{
			"payment_status": aggregate.PaymentStatus().String(),
			"updated_at":     aggregate.UpdatedAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// NextDailySequence atomically increments and returns the day's order
// counter. The single upsert keeps concurrent same-day checkouts from ever
// sharing a number, and a new day simply starts a new row at 1.
func (r *GormOrderRepository) NextDailySequence(ctx context.Context, day kernel.Day) (int, error) {
	var counter int
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO order_sequences (day, counter) VALUES (?, 1)
		ON CONFLICT (day) DO UPDATE SET counter = order_sequences.counter + 1
		RETURNING counter
	`, day.String()).Row().Scan(&counter)
	if err != nil {
		return 0, err
	}
	return counter, nil
}

// FindUnfulfilledItemIDs lists every still-placed line referencing the menu
// item across the day's orders.
func (r *GormOrderRepository) FindUnfulfilledItemIDs(
	ctx context.Context,
	day kernel.Day,
	menuItemID kernel.UUID,
) ([]kernel.UUID, error) {
	if err := menuItemID.Validate(); err != nil {
		return nil, err
	}

	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT oi.id
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.order_date = ?
		  AND oi.menu_item_id = ?
		  AND oi.status = ?
		ORDER BY oi.id
	`, day.String(), menuItemID.Bytes(), order.Placed.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	itemIDs := make([]kernel.UUID, 0)
	for rows.Next() {
		var raw uuid.UUID
		if err = rows.Scan(&raw); err != nil {
			return nil, err
		}
		itemID, idErr := kernel.UUIDFromBytes(raw[:])
		if idErr != nil {
			return nil, idErr
		}
		itemIDs = append(itemIDs, itemID)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return itemIDs, nil
}

// FindPendingCreatedBefore lists orders still awaiting a payment outcome that
// were created before the cutoff, for reconciliation against the gateway.
func (r *GormOrderRepository) FindPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("payment_status = ? AND created_at < ?", order.PaymentPending.String(), cutoff).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, convErr := toDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		orders = append(orders, aggregate)
	}
	return orders, nil
}

// first loads one order with its items using the given query scope.
func (r *GormOrderRepository) first(
	tx *gorm.DB,
	condition string,
	display string,
	args ...any,
) (*order.Order, error) {
	var dto OrderDTO
	err := tx.Preload("Items").First(&dto, append([]any{condition}, args...)...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("order", display)
	}
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}
