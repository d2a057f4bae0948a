package cartsync

import "context"

// Backend is the persistence collaborator the store synchronizes against.
// Every call is scoped to the identity the backend was built with; an
// unauthenticated backend fails each call with an unauthorized error.
type Backend interface {
	// CreateOrIncrement persists one addition and returns the durable id
	// of the resulting line. Repeated calls for the same (productID, size)
	// increment the existing server line rather than duplicating it.
	CreateOrIncrement(ctx context.Context, productID string, quantity int, size string) (string, error)

	// UpdateQuantity sets the absolute quantity of an existing line.
	// Quantities below one are rejected server-side; the store handles
	// those as removals before ever reaching here.
	UpdateQuantity(ctx context.Context, durableID string, quantity int) error

	// Delete removes one line by its durable id.
	Delete(ctx context.Context, durableID string) error

	// List returns the full server-held cart for the identity.
	List(ctx context.Context) ([]LineItem, error)

	// Clear removes every line for the identity.
	Clear(ctx context.Context) error
}
