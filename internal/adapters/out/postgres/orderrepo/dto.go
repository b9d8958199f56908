// Package orderrepo persists the order aggregate. It maps orders and their
// items to relational rows, snapshots the selected variations as jsonb, and
// owns the per-day order number counter.
package orderrepo

import (
	"encoding/json"
	"time"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the database row for an order. The email column carries the
// billing contact for both registered and guest owners; the guest name
// columns are empty for registered owners, whose names live on the users
// table.
type OrderDTO struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderNumber       string     `gorm:"uniqueIndex"`
	UserID            *uuid.UUID `gorm:"type:uuid;index"`
	Email             string
	GuestFirstName    string
	GuestLastName     string
	OrderDate         string          `gorm:"type:varchar(10);index"`
	TotalAmount       decimal.Decimal `gorm:"type:numeric(10,2)"`
	PaymentStatus     string          `gorm:"index"`
	FulfillmentStatus string
	DeliveryNotes     string
	PaymentRef        string `gorm:"index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Items []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is the database row for one order line.
type OrderItemDTO struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID            uuid.UUID `gorm:"type:uuid;index"`
	MenuItemID         uuid.UUID `gorm:"type:uuid;index"`
	MenuItemName       string
	Quantity           int
	UnitPrice          decimal.Decimal `gorm:"type:numeric(10,2)"`
	SelectedVariations []byte          `gorm:"type:jsonb"`
	Customizations     string
	SpecialRequests    string
	Status             string `gorm:"index"`
}

// TableName overrides GORM's default naming to use "order_items".
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// OrderSequenceDTO is one row of the per-day order number counter.
type OrderSequenceDTO struct {
	Day     string `gorm:"type:varchar(10);primaryKey"`
	Counter int
}

// TableName overrides GORM's default naming to use "order_sequences".
func (OrderSequenceDTO) TableName() string {
	return "order_sequences"
}

// variationDTO is the jsonb element shape for one selected variation.
// The query side unmarshals the same field names.
type variationDTO struct {
	GroupID    string `json:"groupId"`
	GroupName  string `json:"groupName"`
	OptionID   string `json:"optionId"`
	OptionName string `json:"optionName"`
	Modifier   string `json:"modifier"`
}

func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	var userID *uuid.UUID
	if id := aggregate.Customer().UserID(); id != nil {
		raw := id.Bytes()
		userID = &raw
	}

	items := make([]OrderItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		dto, err := itemFromDomain(aggregate.ID(), item)
		if err != nil {
			return OrderDTO{}, err
		}
		items = append(items, dto)
	}

	return OrderDTO{
		ID:                aggregate.ID().Bytes(),
		OrderNumber:       aggregate.Number(),
		UserID:            userID,
		Email:             aggregate.Customer().Email(),
		GuestFirstName:    aggregate.Customer().GuestFirstName(),
		GuestLastName:     aggregate.Customer().GuestLastName(),
		OrderDate:         aggregate.OrderDate().String(),
		TotalAmount:       aggregate.TotalAmount().Decimal(),
		PaymentStatus:     aggregate.PaymentStatus().String(),
		FulfillmentStatus: aggregate.FulfillmentStatus().String(),
		DeliveryNotes:     aggregate.DeliveryNotes(),
		PaymentRef:        aggregate.PaymentRef(),
		CreatedAt:         aggregate.CreatedAt(),
		UpdatedAt:         aggregate.UpdatedAt(),
		Items:             items,
	}, nil
}

func itemFromDomain(orderID kernel.UUID, item *order.OrderItem) (OrderItemDTO, error) {
	variations := make([]variationDTO, 0, len(item.Variations()))
	for _, v := range item.Variations() {
		variations = append(variations, variationDTO{
			GroupID:    v.GroupID.String(),
			GroupName:  v.GroupName,
			OptionID:   v.OptionID.String(),
			OptionName: v.OptionName,
			Modifier:   v.Modifier.String(),
		})
	}
	raw, err := json.Marshal(variations)
	if err != nil {
		return OrderItemDTO{}, err
	}

	return OrderItemDTO{
		ID:                 item.ID().Bytes(),
		OrderID:            orderID.Bytes(),
		MenuItemID:         item.MenuItemID().Bytes(),
		MenuItemName:       item.MenuItemName(),
		Quantity:           item.Quantity(),
		UnitPrice:          item.UnitPrice().Decimal(),
		SelectedVariations: raw,
		Customizations:     item.Customizations(),
		SpecialRequests:    item.SpecialRequests(),
		Status:             item.Status().String(),
	}, nil
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customer, err := customerToDomain(dto)
	if err != nil {
		return nil, err
	}

	orderDate, err := kernel.ParseDay(dto.OrderDate)
	if err != nil {
		return nil, err
	}

	paymentStatus, err := order.PaymentStatusFromString(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}
	fulfillment, err := order.FulfillmentStatusFromString(dto.FulfillmentStatus)
	if err != nil {
		return nil, err
	}

	items := make([]*order.OrderItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id,
		dto.OrderNumber,
		customer,
		orderDate,
		items,
		kernel.RestoreMoney(dto.TotalAmount),
		paymentStatus,
		fulfillment,
		dto.DeliveryNotes,
		dto.PaymentRef,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}

func customerToDomain(dto OrderDTO) (order.Customer, error) {
	if dto.UserID == nil {
		return order.NewGuestCustomer(dto.Email, dto.GuestFirstName, dto.GuestLastName)
	}

	userID, err := kernel.UUIDFromBytes((*dto.UserID)[:])
	if err != nil {
		return order.Customer{}, err
	}
	return order.NewRegisteredCustomer(userID, dto.Email)
}

func itemToDomain(dto OrderItemDTO) (*order.OrderItem, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	menuItemID, err := kernel.UUIDFromBytes(dto.MenuItemID[:])
	if err != nil {
		return nil, err
	}
	status, err := order.FulfillmentStatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	variations, err := variationsToDomain(dto.SelectedVariations)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrderItem(
		id,
		menuItemID,
		dto.MenuItemName,
		dto.Quantity,
		kernel.RestoreMoney(dto.UnitPrice),
		variations,
		dto.Customizations,
		dto.SpecialRequests,
		status,
	)
}

func variationsToDomain(raw []byte) ([]order.SelectedVariation, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var dtos []variationDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return nil, err
	}

	variations := make([]order.SelectedVariation, 0, len(dtos))
	for _, dto := range dtos {
		groupID, err := kernel.UUIDFromString(dto.GroupID)
		if err != nil {
			return nil, err
		}
		optionID, err := kernel.UUIDFromString(dto.OptionID)
		if err != nil {
			return nil, err
		}
		modifier, err := kernel.NewMoneyFromString(dto.Modifier)
		if err != nil {
			return nil, err
		}
		variations = append(variations, order.SelectedVariation{
			GroupID:    groupID,
			GroupName:  dto.GroupName,
			OptionID:   optionID,
			OptionName: dto.OptionName,
			Modifier:   modifier,
		})
	}
	return variations, nil
}
