// Package guard enforces that value objects, commands and queries are only
// built through their constructors.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard distinguishes a value built by its constructor from a zero value.
// Embed it in a struct, set it with NewConstructorGuard inside the constructor and
// call Validate from the struct's own Validate method.
//
// Example:
//
//	var ErrLineItemNotConstructed = errors.New("LineItem must be created via NewLineItem")
//
//	type LineItem struct {
//	    productID string
//	    quantity  int
//	    guard     guard.ConstructorGuard
//	}
//
//	func (li LineItem) Validate() error {
//	    return li.guard.Validate(ErrLineItemNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that marks its owner as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
