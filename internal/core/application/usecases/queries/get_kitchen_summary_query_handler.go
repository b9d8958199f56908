package queries

import (
	"context"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetKitchenSummaryQueryHandler computes per-dish demand for one day.
// Rows come back largest demand first, so the kitchen starts with whatever
// feeds the most people.
type GetKitchenSummaryQueryHandler struct {
	db *gorm.DB
}

// NewGetKitchenSummaryQueryHandler creates a handler for kitchen summaries.
func NewGetKitchenSummaryQueryHandler(db *gorm.DB) GetKitchenSummaryQueryHandler {
	return GetKitchenSummaryQueryHandler{db: db}
}

// Handle executes the aggregation: one grouped query for the totals, one for
// the contributing lines, stitched together in memory.
func (h GetKitchenSummaryQueryHandler) Handle(
	ctx context.Context,
	query GetKitchenSummaryQuery,
) ([]KitchenSummaryRowResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	summary, index, err := h.loadTotals(ctx, query.Day())
	if err != nil {
		return nil, err
	}
	if err = h.loadLines(ctx, query.Day(), summary, index); err != nil {
		return nil, err
	}
	return summary, nil
}

func (h GetKitchenSummaryQueryHandler) loadTotals(
	ctx context.Context,
	day kernel.Day,
) ([]KitchenSummaryRowResponse, map[uuid.UUID]int, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			oi.menu_item_id,
			oi.menu_item_name,
			SUM(oi.quantity) AS total_quantity,
			SUM(CASE WHEN oi.status = ? THEN oi.quantity ELSE 0 END) AS remaining_quantity
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.order_date = ?
		GROUP BY oi.menu_item_id, oi.menu_item_name
		ORDER BY total_quantity DESC, oi.menu_item_name
	`, order.Placed.String(), day.String()).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	summary := make([]KitchenSummaryRowResponse, 0)
	index := make(map[uuid.UUID]int)

	for rows.Next() {
		var row KitchenSummaryRowResponse
		var menuItemID uuid.UUID

		if err = rows.Scan(
			&menuItemID,
			&row.MenuItemName,
			&row.TotalQuantity,
			&row.RemainingQuantity,
		); err != nil {
			return nil, nil, err
		}

		id, idErr := kernel.UUIDFromBytes(menuItemID[:])
		if idErr != nil {
			return nil, nil, idErr
		}
		row.MenuItemID = id
		row.Lines = make([]KitchenSummaryLineResponse, 0)

		index[menuItemID] = len(summary)
		summary = append(summary, row)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}
	return summary, index, nil
}

func (h GetKitchenSummaryQueryHandler) loadLines(
	ctx context.Context,
	day kernel.Day,
	summary []KitchenSummaryRowResponse,
	index map[uuid.UUID]int,
) error {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			oi.menu_item_id,
			o.order_number,
			CASE WHEN o.user_id IS NULL
			     THEN o.guest_first_name || ' ' || o.guest_last_name
			     ELSE COALESCE(u.first_name || ' ' || u.last_name, '')
			END AS customer_name,
			oi.quantity,
			oi.status,
			oi.customizations,
			oi.special_requests
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		LEFT JOIN users u ON u.id = o.user_id
		WHERE o.order_date = ?
		ORDER BY oi.status DESC, o.order_number
	`, day.String()).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var menuItemID uuid.UUID
		var line KitchenSummaryLineResponse

		if err = rows.Scan(
			&menuItemID,
			&line.OrderNumber,
			&line.CustomerName,
			&line.Quantity,
			&line.Status,
			&line.Customizations,
			&line.SpecialRequests,
		); err != nil {
			return err
		}

		if pos, ok := index[menuItemID]; ok {
			summary[pos].Lines = append(summary[pos].Lines, line)
		}
	}

	return rows.Err()
}
