// Package services contains stateless domain services for the ordering core:
// cart pricing with variation modifiers, selection arity validation, the
// ordering-window gate, and order number formatting. None of these touch I/O;
// the application layer feeds them catalog data, selections, and the clock.
package services
