package queries

import (
	"context"
	"encoding/json"

	"lunchroom/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetKitchenOrdersQueryHandler lists a day's orders for the kitchen dashboard.
// Orders come back sorted by order number, so the dashboard shows them in the
// sequence they were placed.
type GetKitchenOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetKitchenOrdersQueryHandler creates a handler for kitchen order listings.
func NewGetKitchenOrdersQueryHandler(db *gorm.DB) GetKitchenOrdersQueryHandler {
	return GetKitchenOrdersQueryHandler{db: db}
}

// variationRecord mirrors the jsonb shape persisted on order_items.
type variationRecord struct {
	GroupName  string `json:"groupName"`
	OptionName string `json:"optionName"`
}

// Handle executes the listing: one query for the day's orders with customer
// names resolved, one for their items, stitched together in memory.
func (h GetKitchenOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetKitchenOrdersQuery,
) ([]KitchenOrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, index, err := h.loadOrders(ctx, query.Day(), query.Filter())
	if err != nil {
		return nil, err
	}
	if err = h.loadItems(ctx, query.Day(), orders, index); err != nil {
		return nil, err
	}
	return orders, nil
}

func (h GetKitchenOrdersQueryHandler) loadOrders(
	ctx context.Context,
	day kernel.Day,
	filter KitchenOrdersFilter,
) ([]KitchenOrderResponse, map[uuid.UUID]int, error) {
	var status any
	if filter.FulfillmentStatus != nil {
		status = filter.FulfillmentStatus.String()
	}
	var menuItemID any
	if filter.MenuItemID != nil {
		menuItemID = filter.MenuItemID.Bytes()
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.order_number,
			CASE WHEN o.user_id IS NULL
			     THEN o.guest_first_name || ' ' || o.guest_last_name
			     ELSE COALESCE(u.first_name || ' ' || u.last_name, '')
			END AS customer_name,
			o.fulfillment_status,
			o.payment_status,
			o.delivery_notes,
			o.total_amount
		FROM orders o
		LEFT JOIN users u ON u.id = o.user_id
		WHERE o.order_date = ?
		  AND (?::text IS NULL OR o.fulfillment_status = ?)
		  AND (?::uuid IS NULL OR EXISTS (
			SELECT 1 FROM order_items oi
			WHERE oi.order_id = o.id AND oi.menu_item_id = ?
		  ))
		ORDER BY o.order_number
	`, day.String(), status, status, menuItemID, menuItemID).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	orders := make([]KitchenOrderResponse, 0)
	index := make(map[uuid.UUID]int)

	for rows.Next() {
		var resp KitchenOrderResponse
		var id uuid.UUID
		var total decimal.Decimal

		if err = rows.Scan(
			&id,
			&resp.Number,
			&resp.CustomerName,
			&resp.FulfillmentStatus,
			&resp.PaymentStatus,
			&resp.DeliveryNotes,
			&total,
		); err != nil {
			return nil, nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, nil, idErr
		}
		resp.ID = orderID
		resp.TotalAmount = kernel.RestoreMoney(total)
		resp.Items = make([]KitchenOrderItemResponse, 0)

		index[id] = len(orders)
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}
	return orders, index, nil
}

func (h GetKitchenOrdersQueryHandler) loadItems(
	ctx context.Context,
	day kernel.Day,
	orders []KitchenOrderResponse,
	index map[uuid.UUID]int,
) error {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			oi.id,
			oi.order_id,
			oi.menu_item_id,
			oi.menu_item_name,
			oi.quantity,
			oi.status,
			oi.customizations,
			oi.special_requests,
			oi.selected_variations
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.order_date = ?
		ORDER BY oi.menu_item_name
	`, day.String()).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item KitchenOrderItemResponse
		var id, orderID, menuItemID uuid.UUID
		var rawVariations []byte

		if err = rows.Scan(
			&id,
			&orderID,
			&menuItemID,
			&item.MenuItemName,
			&item.Quantity,
			&item.Status,
			&item.Customizations,
			&item.SpecialRequests,
			&rawVariations,
		); err != nil {
			return err
		}

		itemID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return idErr
		}
		item.ID = itemID
		catalogID, idErr := kernel.UUIDFromBytes(menuItemID[:])
		if idErr != nil {
			return idErr
		}
		item.MenuItemID = catalogID

		if len(rawVariations) > 0 {
			var records []variationRecord
			if err = json.Unmarshal(rawVariations, &records); err != nil {
				return err
			}
			for _, record := range records {
				item.Variations = append(item.Variations, KitchenOrderVariationResponse{
					GroupName:  record.GroupName,
					OptionName: record.OptionName,
				})
			}
		}

		if pos, ok := index[orderID]; ok {
			orders[pos].Items = append(orders[pos].Items, item)
		}
	}

	return rows.Err()
}
