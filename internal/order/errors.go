package order

import "errors"

var (
	// ErrNotAuthenticated means no requester identity was attached to the call.
	ErrNotAuthenticated = errors.New("authentication required")
	// ErrInvalid covers malformed placement requests; wrapped with detail.
	ErrInvalid = errors.New("invalid order request")
	// ErrNotFound is an unknown order id.
	ErrNotFound = errors.New("order not found")
	// ErrProductNotFound is an unknown product id in a line item.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductUnavailable is a known product that is not purchasable.
	ErrProductUnavailable = errors.New("product is not available right now")
	// ErrConflict is a duplicate order id at the storage layer; placement
	// re-allocates and retries before surfacing it.
	ErrConflict = errors.New("order id already exists")
)
