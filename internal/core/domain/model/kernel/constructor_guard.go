package kernel

import "errors"

// ErrDefaultConstructorGuard is returned by ConstructorGuard.Validate when the
// caller passes a nil validation error, so validation always fails with a
// meaningful message.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard ensures value objects, entities, and commands are only
// created through their designated constructor functions. Embedding a guard in
// a struct makes zero-value instances detectable: the internal flag is only
// set by NewConstructorGuard, so anything built by direct struct literal fails
// Validate.
//
// Example:
//
//	type PlaceOrderCommand struct {
//	    items []OrderLine
//	    guard kernel.ConstructorGuard
//	}
//
//	func NewPlaceOrderCommand(items []OrderLine) (PlaceOrderCommand, error) {
//	    ...
//	    return PlaceOrderCommand{items: items, guard: kernel.NewConstructorGuard()}, nil
//	}
//
//	func (c PlaceOrderCommand) Validate() error {
//	    return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard that marks an object as properly
// constructed. Call it in every constructor that should be mandatory.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil if the guard was created via NewConstructorGuard.
// Otherwise it returns err, or ErrDefaultConstructorGuard when err is nil.
func (g ConstructorGuard) Validate(err error) error {
	if g.isConstructed {
		return nil
	}
	if err == nil {
		return ErrDefaultConstructorGuard
	}
	return err
}
