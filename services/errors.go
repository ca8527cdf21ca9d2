// Package services contains the business logic behind the marketplace
// handlers: public ID allocation, cart aggregation, purchase settlement,
// ticket fan-out and the chat relay.
package services

import "errors"

// Service error constants. Handlers map these onto HTTP statuses.
var (
	ErrCourseNotFound = errors.New("course not found")
	ErrLessonNotFound = errors.New("lesson not found")
	ErrCartNotFound   = errors.New("cart not found")
	ErrItemNotFound   = errors.New("cart item not found")
	ErrOrderNotFound  = errors.New("order not found")
	ErrTicketNotFound = errors.New("ticket not found")
	ErrLedgerNotFound = errors.New("earnings ledger not found")

	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrTooManyLessons      = errors.New("course already has the maximum number of lessons")
	ErrLessonTooLong       = errors.New("lesson duration exceeds the maximum allowed")
	ErrImmutablePublicID   = errors.New("public ID cannot be changed")
	ErrInsufficientBalance = errors.New("amount exceeds available balance")
)
