package applications

import "context"

// System defines the public contract for application lifecycle operations.
// Identifiers are accepted as strings; malformed, unknown, and inactive
// identifiers all produce ErrNotFound.
type System interface {
	Handler() *Handler

	ListByPhone(ctx context.Context, phone string) ([]View, error)
	Find(ctx context.Context, id string) (*View, error)
	Create(ctx context.Context, cmd CreateCommand) (*View, error)
	Update(ctx context.Context, id string, cmd UpdateCommand) (*View, error)
	Deactivate(ctx context.Context, id string) error
}
