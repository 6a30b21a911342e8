package store

import "errors"

var (
	// ErrNotFound is returned when a table, order or menu item id does not
	// resolve to a record.
	ErrNotFound = errors.New("record not found")

	// ErrIllegalTransition is returned when a status change is not allowed
	// from the record's current status. The old system let any status be
	// forced from any other; this store rejects that explicitly.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrOrderNotEditable is returned when items are edited or the order is
	// deleted after it left the pending state.
	ErrOrderNotEditable = errors.New("order is no longer editable")

	// ErrTableUnavailable is returned when a customer tries to claim a table
	// that is occupied or out of service.
	ErrTableUnavailable = errors.New("table is not available")

	// ErrEmptyOrder is returned when an order is created or edited with no
	// line items.
	ErrEmptyOrder = errors.New("order has no items")

	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidCategory = errors.New("unknown menu category")
	ErrEmptyName       = errors.New("name is required")
)
