// Package order provides the order aggregate and its state machines for the
// lunch-ordering core.
//
// The package includes:
//   - Order: the aggregate root created once at checkout, carrying its items,
//     the derived total, and both lifecycle statuses
//   - OrderItem: a line entity with an immutable price snapshot and its own
//     fulfillment status
//   - FulfillmentStatus / PaymentStatus: closed enums with validated
//     transitions
//   - Customer: the owner value object (registered user or embedded guest
//     identity, never both)
//
// Key business rules:
//   - The total equals the rounded sum of unit price x quantity over the
//     items, computed once at construction and never recomputed
//   - An item's unit price already includes all selected variation modifiers;
//     the variation snapshot is provenance only
//   - Item fulfillment moves one way: PLACED -> FULFILLED
//   - The order-level fulfillment status is always recomputed from the full
//     item set, never set from caller intent
package order
