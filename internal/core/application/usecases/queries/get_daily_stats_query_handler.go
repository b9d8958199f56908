package queries

import (
	"context"

	"lunchroom/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetDailyStatsQueryHandler aggregates one day's orders into the admin
// report: counts, revenue, and status breakdowns in a single grouped query.
type GetDailyStatsQueryHandler struct {
	db *gorm.DB
}

// NewGetDailyStatsQueryHandler creates a handler for daily stats.
func NewGetDailyStatsQueryHandler(db *gorm.DB) GetDailyStatsQueryHandler {
	return GetDailyStatsQueryHandler{db: db}
}

// Handle executes the aggregation.
func (h GetDailyStatsQueryHandler) Handle(
	ctx context.Context,
	query GetDailyStatsQuery,
) (GetDailyStatsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDailyStatsQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			payment_status,
			fulfillment_status,
			COUNT(*) AS order_count,
			SUM(total_amount) AS revenue
		FROM orders
		WHERE order_date = ?
		GROUP BY payment_status, fulfillment_status
	`, query.Day().String()).Rows()
	if err != nil {
		return GetDailyStatsQueryResponse{}, err
	}
	defer rows.Close()

	resp := GetDailyStatsQueryResponse{
		Day:                 query.Day(),
		Revenue:             kernel.Zero(),
		ByPaymentStatus:     make(map[string]int),
		ByFulfillmentStatus: make(map[string]int),
	}

	for rows.Next() {
		var paymentStatus, fulfillmentStatus string
		var count int
		var revenue decimal.Decimal

		if err = rows.Scan(&paymentStatus, &fulfillmentStatus, &count, &revenue); err != nil {
			return GetDailyStatsQueryResponse{}, err
		}

		resp.OrderCount += count
		resp.Revenue = resp.Revenue.Add(kernel.RestoreMoney(revenue))
		resp.ByPaymentStatus[paymentStatus] += count
		resp.ByFulfillmentStatus[fulfillmentStatus] += count
	}

	if err = rows.Err(); err != nil {
		return GetDailyStatsQueryResponse{}, err
	}
	return resp, nil
}
