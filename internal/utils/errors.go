package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidAadhaar       = errors.New("aadhaar number must be exactly 12 digits")
	ErrDuplicateAadhaar     = errors.New("aadhaar number already registered")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrInvalidRole          = errors.New("invalid user type")
	ErrProfileNotFound      = errors.New("user profile not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrMissingFields        = errors.New("missing required product fields")
	ErrRoleCannotSell       = errors.New("only farmers, wholesalers, and retailers can create products")
	ErrFarmerCannotPurchase = errors.New("farmers cannot purchase products")
	ErrProductUnavailable   = errors.New("product is no longer available for purchase")
	ErrInsufficientQuantity = errors.New("requested quantity exceeds available stock")
	ErrVersionConflict      = errors.New("concurrent update detected, please retry")
	ErrKeyNotFound          = errors.New("key not found")
)
