package domain

import "errors"

var (
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrProductInactive       = errors.New("product inactive")
	ErrOrderNotFound         = errors.New("order not found")
	ErrItemNotFound          = errors.New("order item not found")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrOrderNotModifiable    = errors.New("order not modifiable")
	ErrDuplicateLineItem     = errors.New("duplicate line item for product")
	ErrOrderItemsEmpty       = errors.New("order has no items")
	ErrOrderTotalInvalid     = errors.New("order total invalid")
	ErrInvalidQuantity       = errors.New("invalid quantity")
	ErrInvalidPrice          = errors.New("invalid price")
	ErrInvalidOrderStatus    = errors.New("invalid order status")
	ErrInvalidPaymentStatus  = errors.New("invalid payment status")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
	ErrPaymentAmountMismatch = errors.New("payment amount does not match order total")
	ErrUnreasonablePrice     = errors.New("payment amount exceeds allowed maximum")
	ErrPaymentFailed         = errors.New("payment failed")
	ErrPaymentAlreadyExists  = errors.New("payment already exists for order")
	ErrNameRequired          = errors.New("name required")
	ErrEmailRequired         = errors.New("email required")
	ErrEmailTaken            = errors.New("email already registered")
	ErrInvalidID             = errors.New("invalid id")
)
