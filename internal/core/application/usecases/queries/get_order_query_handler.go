package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order for its owner.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for owner-scoped order lookups.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the lookup. Orders outside the owner scope surface as
// errs.ObjectNotFoundError.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var ownerID any
	if query.OwnerID() != nil {
		ownerID = query.OwnerID().Bytes()
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			fulfillment_status,
			payment_status,
			order_date,
			delivery_notes,
			total_amount
		FROM orders
		WHERE id = ?
		  AND ((?::uuid IS NULL AND user_id IS NULL) OR user_id = ?)
	`, query.OrderID().Bytes(), ownerID, ownerID).Row()

	var resp GetOrderQueryResponse
	var id uuid.UUID
	var orderDate string
	var total decimal.Decimal

	err := row.Scan(
		&id,
		&resp.Number,
		&resp.FulfillmentStatus,
		&resp.PaymentStatus,
		&orderDate,
		&resp.DeliveryNotes,
		&total,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderId", query.OrderID().String())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.ID = orderID
	if resp.OrderDate, err = kernel.ParseDay(orderDate); err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.TotalAmount = kernel.RestoreMoney(total)

	if resp.Items, err = h.loadItems(ctx, id); err != nil {
		return GetOrderQueryResponse{}, err
	}
	return resp, nil
}

func (h GetOrderQueryHandler) loadItems(ctx context.Context, orderID uuid.UUID) ([]KitchenOrderItemResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			menu_item_id,
			menu_item_name,
			quantity,
			status,
			customizations,
			special_requests,
			selected_variations
		FROM order_items
		WHERE order_id = ?
		ORDER BY menu_item_name
	`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]KitchenOrderItemResponse, 0)
	for rows.Next() {
		var item KitchenOrderItemResponse
		var id, menuItemID uuid.UUID
		var rawVariations []byte

		if err = rows.Scan(
			&id,
			&menuItemID,
			&item.MenuItemName,
			&item.Quantity,
			&item.Status,
			&item.Customizations,
			&item.SpecialRequests,
			&rawVariations,
		); err != nil {
			return nil, err
		}

		itemID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		item.ID = itemID
		catalogID, idErr := kernel.UUIDFromBytes(menuItemID[:])
		if idErr != nil {
			return nil, idErr
		}
		item.MenuItemID = catalogID

		if len(rawVariations) > 0 {
			var records []variationRecord
			if err = json.Unmarshal(rawVariations, &records); err != nil {
				return nil, err
			}
			for _, record := range records {
				item.Variations = append(item.Variations, KitchenOrderVariationResponse{
					GroupName:  record.GroupName,
					OptionName: record.OptionName,
				})
			}
		}

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
