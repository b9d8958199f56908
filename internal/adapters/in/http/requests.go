package http

import (
	"lunchroom/internal/core/application/usecases/commands"
	"lunchroom/internal/core/application/usecases/queries"
	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/domain/services"
	"lunchroom/internal/pkg/errs"
)

// selectionRequest is one variation choice on a cart line.
type selectionRequest struct {
	GroupID   string   `json:"groupId"`
	OptionIDs []string `json:"optionIds"`
}

// orderLineRequest is one cart line of a checkout request. Customizations is
// the legacy free-text variant field older clients still send.
type orderLineRequest struct {
	MenuItemID      string             `json:"menuItemId"`
	Quantity        int                `json:"quantity"`
	Selections      []selectionRequest `json:"selectedVariations"`
	Customizations  string             `json:"customizations"`
	SpecialRequests string             `json:"specialRequests"`
}

// placeOrderRequest is the checkout body for registered users. Identity comes
// from the authentication header, not the body.
type placeOrderRequest struct {
	Items         []orderLineRequest `json:"items"`
	DeliveryNotes string             `json:"deliveryNotes"`
}

// guestPlaceOrderRequest is the checkout body for guests, who carry their
// contact identity inline.
type guestPlaceOrderRequest struct {
	Email         string             `json:"email"`
	FirstName     string             `json:"firstName"`
	LastName      string             `json:"lastName"`
	Items         []orderLineRequest `json:"items"`
	DeliveryNotes string             `json:"deliveryNotes"`
}

// statusUpdateRequest carries the target fulfillment status for the kitchen
// transition endpoints, as a wire string such as "FULFILLED".
type statusUpdateRequest struct {
	Status string `json:"status"`
}

func toOrderLines(requests []orderLineRequest) ([]commands.OrderLine, error) {
	lines := make([]commands.OrderLine, 0, len(requests))
	for _, request := range requests {
		menuItemID, err := kernel.UUIDFromString(request.MenuItemID)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("menuItemId", err)
		}
		selections, err := toSelections(request.Selections)
		if err != nil {
			return nil, err
		}
		lines = append(lines, commands.OrderLine{
			MenuItemID:      menuItemID,
			Quantity:        request.Quantity,
			Selections:      selections,
			Customizations:  request.Customizations,
			SpecialRequests: request.SpecialRequests,
		})
	}
	return lines, nil
}

func toSelections(requests []selectionRequest) ([]services.Selection, error) {
	if len(requests) == 0 {
		return nil, nil
	}
	selections := make([]services.Selection, 0, len(requests))
	for _, request := range requests {
		groupID, err := kernel.UUIDFromString(request.GroupID)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("groupId", err)
		}
		optionIDs := make([]kernel.UUID, 0, len(request.OptionIDs))
		for _, raw := range request.OptionIDs {
			optionID, err := kernel.UUIDFromString(raw)
			if err != nil {
				return nil, errs.NewValueIsInvalidErrorWithCause("optionId", err)
			}
			optionIDs = append(optionIDs, optionID)
		}
		selections = append(selections, services.Selection{GroupID: groupID, OptionIDs: optionIDs})
	}
	return selections, nil
}

// placeOrderResponse is the checkout result: everything the client needs to
// complete payment and track the order.
type placeOrderResponse struct {
	OrderID      string `json:"orderId"`
	OrderNumber  string `json:"orderNumber"`
	TotalAmount  string `json:"totalAmount"`
	ClientSecret string `json:"clientSecret"`
}

func toPlaceOrderResponse(result commands.PlaceOrderResult) placeOrderResponse {
	return placeOrderResponse{
		OrderID:      result.OrderID.String(),
		OrderNumber:  result.OrderNumber,
		TotalAmount:  result.TotalAmount.String(),
		ClientSecret: result.ClientSecret,
	}
}

// orderItemResponse is one line of an order view.
type orderItemResponse struct {
	ID              string              `json:"id"`
	MenuItemID      string              `json:"menuItemId"`
	MenuItemName    string              `json:"menuItemName"`
	Quantity        int                 `json:"quantity"`
	Status          string              `json:"status"`
	Customizations  string              `json:"customizations,omitempty"`
	SpecialRequests string              `json:"specialRequests,omitempty"`
	Variations      []variationResponse `json:"variations,omitempty"`
}

type variationResponse struct {
	GroupName  string `json:"groupName"`
	OptionName string `json:"optionName"`
}

// orderResponse is the customer-facing order view.
type orderResponse struct {
	ID                string              `json:"id"`
	Number            string              `json:"number"`
	FulfillmentStatus string              `json:"fulfillmentStatus"`
	PaymentStatus     string              `json:"paymentStatus"`
	OrderDate         string              `json:"orderDate"`
	DeliveryNotes     string              `json:"deliveryNotes,omitempty"`
	TotalAmount       string              `json:"totalAmount"`
	Items             []orderItemResponse `json:"items"`
}

func toOrderResponse(resp queries.GetOrderQueryResponse) orderResponse {
	return orderResponse{
		ID:                resp.ID.String(),
		Number:            resp.Number,
		FulfillmentStatus: resp.FulfillmentStatus,
		PaymentStatus:     resp.PaymentStatus,
		OrderDate:         resp.OrderDate.String(),
		DeliveryNotes:     resp.DeliveryNotes,
		TotalAmount:       resp.TotalAmount.String(),
		Items:             toItemResponses(resp.Items),
	}
}

// kitchenOrderResponse is one order on the kitchen dashboard.
type kitchenOrderResponse struct {
	ID                string              `json:"id"`
	Number            string              `json:"number"`
	CustomerName      string              `json:"customerName"`
	FulfillmentStatus string              `json:"fulfillmentStatus"`
	PaymentStatus     string              `json:"paymentStatus"`
	DeliveryNotes     string              `json:"deliveryNotes,omitempty"`
	TotalAmount       string              `json:"totalAmount"`
	Items             []orderItemResponse `json:"items"`
}

func toKitchenOrderResponses(responses []queries.KitchenOrderResponse) []kitchenOrderResponse {
	out := make([]kitchenOrderResponse, len(responses))
	for i, resp := range responses {
		out[i] = kitchenOrderResponse{
			ID:                resp.ID.String(),
			Number:            resp.Number,
			CustomerName:      resp.CustomerName,
			FulfillmentStatus: resp.FulfillmentStatus,
			PaymentStatus:     resp.PaymentStatus,
			DeliveryNotes:     resp.DeliveryNotes,
			TotalAmount:       resp.TotalAmount.String(),
			Items:             toItemResponses(resp.Items),
		}
	}
	return out
}

func toItemResponses(items []queries.KitchenOrderItemResponse) []orderItemResponse {
	out := make([]orderItemResponse, len(items))
	for i, item := range items {
		variations := make([]variationResponse, len(item.Variations))
		for j, variation := range item.Variations {
			variations[j] = variationResponse{
				GroupName:  variation.GroupName,
				OptionName: variation.OptionName,
			}
		}
		out[i] = orderItemResponse{
			ID:              item.ID.String(),
			MenuItemID:      item.MenuItemID.String(),
			MenuItemName:    item.MenuItemName,
			Quantity:        item.Quantity,
			Status:          item.Status,
			Customizations:  item.Customizations,
			SpecialRequests: item.SpecialRequests,
			Variations:      variations,
		}
	}
	return out
}

// kitchenSummaryLineResponse is one contributing order line on the summary.
type kitchenSummaryLineResponse struct {
	OrderNumber     string `json:"orderNumber"`
	CustomerName    string `json:"customerName"`
	Quantity        int    `json:"quantity"`
	Status          string `json:"status"`
	Customizations  string `json:"customizations,omitempty"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

// kitchenSummaryRowResponse is one dish's demand on the kitchen summary.
type kitchenSummaryRowResponse struct {
	MenuItemID        string                       `json:"menuItemId"`
	MenuItemName      string                       `json:"menuItemName"`
	TotalQuantity     int                          `json:"totalQuantity"`
	RemainingQuantity int                          `json:"remainingQuantity"`
	Lines             []kitchenSummaryLineResponse `json:"lines"`
}

func toKitchenSummaryResponses(rows []queries.KitchenSummaryRowResponse) []kitchenSummaryRowResponse {
	out := make([]kitchenSummaryRowResponse, len(rows))
	for i, row := range rows {
		lines := make([]kitchenSummaryLineResponse, len(row.Lines))
		for j, line := range row.Lines {
			lines[j] = kitchenSummaryLineResponse{
				OrderNumber:     line.OrderNumber,
				CustomerName:    line.CustomerName,
				Quantity:        line.Quantity,
				Status:          line.Status,
				Customizations:  line.Customizations,
				SpecialRequests: line.SpecialRequests,
			}
		}
		out[i] = kitchenSummaryRowResponse{
			MenuItemID:        row.MenuItemID.String(),
			MenuItemName:      row.MenuItemName,
			TotalQuantity:     row.TotalQuantity,
			RemainingQuantity: row.RemainingQuantity,
			Lines:             lines,
		}
	}
	return out
}

// dailyStatsResponse is the admin report for one meal day.
type dailyStatsResponse struct {
	Date                string         `json:"date"`
	OrderCount          int            `json:"orderCount"`
	Revenue             string         `json:"revenue"`
	ByPaymentStatus     map[string]int `json:"byPaymentStatus"`
	ByFulfillmentStatus map[string]int `json:"byFulfillmentStatus"`
}

// fulfillMenuItemResponse reports how many order lines a dish-level
// fulfillment actually transitioned.
type fulfillMenuItemResponse struct {
	FulfilledItems int `json:"fulfilledItems"`
}
