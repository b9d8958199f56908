package queries

import (
	"errors"

	"lunchroom/internal/core/domain/model/kernel"
)

var ErrGetKitchenSummaryQueryIsNotConstructed = errors.New(
	"GetKitchenSummaryQuery must be created via NewGetKitchenSummaryQuery constructor",
)

// GetKitchenSummaryQuery aggregates a day's demand per dish: how many of each
// menu item were ordered and how many are still waiting to be cooked. This is
// the view the kitchen cooks from.
type GetKitchenSummaryQuery struct {
	day kernel.Day

	guard kernel.ConstructorGuard
}

// NewGetKitchenSummaryQuery creates a summary query for the given meal day.
func NewGetKitchenSummaryQuery(day kernel.Day) GetKitchenSummaryQuery {
	return GetKitchenSummaryQuery{day: day, guard: kernel.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetKitchenSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetKitchenSummaryQueryIsNotConstructed)
}

// Day returns the meal day being summarized.
func (q GetKitchenSummaryQuery) Day() kernel.Day {
	return q.day
}

// KitchenSummaryLineResponse is one contributing order line of a dish: which
// order wants it, how many, and how far along it is.
type KitchenSummaryLineResponse struct {
	OrderNumber     string
	CustomerName    string
	Quantity        int
	Status          string
	Customizations  string
	SpecialRequests string
}

// KitchenSummaryRowResponse is the demand for one dish. RemainingQuantity
// counts units on still-placed lines; it reaches zero when the dish is done
// for the day. Lines list every contributing order line, placed first.
type KitchenSummaryRowResponse struct {
	MenuItemID        kernel.UUID
	MenuItemName      string
	TotalQuantity     int
	RemainingQuantity int
	Lines             []KitchenSummaryLineResponse
}
