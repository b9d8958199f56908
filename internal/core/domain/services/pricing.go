package services

import (
	"fmt"
	"strings"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/domain/model/menu"
	"lunchroom/internal/core/domain/model/order"
	"lunchroom/internal/pkg/errs"
)

// Selection is one requested variation choice from a cart line: a group and
// the option ids picked within it. Multi groups may carry several option ids,
// Single groups at most one.
type Selection struct {
	GroupID   kernel.UUID
	OptionIDs []kernel.UUID
}

// Pricer computes the final unit price of an order line from the catalog
// item's base price plus the modifiers of every resolved selection. It is
// pure: catalog data comes in, a price and the denormalized variation
// snapshot come out.
//
// Selections whose group or option id does not resolve against the item are
// silently skipped, not rejected. Structural validation (required groups,
// Single arity) runs separately via ValidateSelections before pricing; what
// survives to be skipped here is catalog drift between the client's menu copy
// and the current one, which the system tolerates by charging only for what
// it can resolve.
type Pricer struct{}

// NewPricer creates a Pricer.
func NewPricer() Pricer {
	return Pricer{}
}

// UnitPrice returns base price plus the sum of resolved modifiers, and the
// snapshot of every resolved selection for the order item's audit trail.
// The returned price is per unit; quantity multiplication and rounding happen
// at order assembly.
func (Pricer) UnitPrice(
	item *menu.MenuItem,
	selections []Selection,
) (kernel.Money, []order.SelectedVariation, error) {
	if err := item.Validate(); err != nil {
		return kernel.Money{}, nil, err
	}

	price := item.BasePrice()
	var snapshot []order.SelectedVariation

	for _, sel := range selections {
		group, ok := item.Group(sel.GroupID)
		if !ok {
			continue
		}
		for _, optionID := range sel.OptionIDs {
			option, ok := group.Option(optionID)
			if !ok {
				continue
			}
			price = price.Add(option.Modifier())
			snapshot = append(snapshot, order.SelectedVariation{
				GroupID:    group.ID(),
				GroupName:  group.Name(),
				OptionID:   option.ID(),
				OptionName: option.Name(),
				Modifier:   option.Modifier(),
			})
		}
	}

	if price.IsNegative() {
		return kernel.Money{}, nil, errs.NewValueIsInvalidErrorWithCause(
			"unit price",
			fmt.Errorf("modifiers drive the price of %q below zero", item.Name()),
		)
	}
	return price, snapshot, nil
}

// ValidateSelections checks the structural selection rules of an item before
// pricing: every required group must receive at least one option, and Single
// groups must not receive more than one. The error lists every violated group
// by name so the client can correct the whole cart in one round trip.
func ValidateSelections(item *menu.MenuItem, selections []Selection) error {
	if err := item.Validate(); err != nil {
		return err
	}

	counts := make(map[string]int)
	for _, sel := range selections {
		if group, ok := item.Group(sel.GroupID); ok {
			counts[group.ID().String()] += len(sel.OptionIDs)
		}
	}

	var violated []string
	for _, group := range item.Groups() {
		n := counts[group.ID().String()]
		if group.Required() && n == 0 {
			violated = append(violated, group.Name())
			continue
		}
		if group.SelectionType() == menu.Single && n > 1 {
			violated = append(violated, group.Name())
		}
	}

	if len(violated) > 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"variation selections",
			fmt.Errorf("invalid selections for %q in groups: %s", item.Name(), strings.Join(violated, ", ")),
		)
	}
	return nil
}
