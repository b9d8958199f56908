package queries

import (
	"errors"

	"lunchroom/internal/core/domain/model/kernel"
)

var ErrGetDailyStatsQueryIsNotConstructed = errors.New(
	"GetDailyStatsQuery must be created via NewGetDailyStatsQuery constructor",
)

// GetDailyStatsQuery computes the admin numbers for one meal day: order and
// revenue totals plus breakdowns by both lifecycle dimensions.
type GetDailyStatsQuery struct {
	day kernel.Day

	guard kernel.ConstructorGuard
}

// NewGetDailyStatsQuery creates a stats query for the given meal day.
func NewGetDailyStatsQuery(day kernel.Day) GetDailyStatsQuery {
	return GetDailyStatsQuery{day: day, guard: kernel.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetDailyStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetDailyStatsQueryIsNotConstructed)
}

// Day returns the meal day being reported on.
func (q GetDailyStatsQuery) Day() kernel.Day {
	return q.day
}

// GetDailyStatsQueryResponse is the day's report. Revenue sums the charged
// totals of every order regardless of payment status; payment state is
// reported separately in the breakdown, not netted out of revenue.
type GetDailyStatsQueryResponse struct {
	Day                 kernel.Day
	OrderCount          int
	Revenue             kernel.Money
	ByPaymentStatus     map[string]int
	ByFulfillmentStatus map[string]int
}
