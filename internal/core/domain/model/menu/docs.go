// Package menu models the catalog as the order core sees it: menu items with
// their priced variation groups and options. The catalog is owned by menu
// management elsewhere; this package only reads it, so the aggregate carries
// no mutators. Items are resolved by the catalog repository at order time and
// everything billing-relevant is snapshotted onto the order, making later
// catalog edits invisible to historical orders.
package menu
