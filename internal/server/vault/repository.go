package vault

import "context"

// Repository is the plain keyed-store contract for vault items. All
// operations are scoped to the owning account; a row owned by someone else
// behaves exactly like a missing row (common.ErrorNotFound).
type Repository interface {
	Create(ctx context.Context, item *Item) (*Item, error)
	GetByID(ctx context.Context, accountID, id string) (*Item, error)
	Update(ctx context.Context, item *Item) (*Item, error)
	Delete(ctx context.Context, accountID, id string) error

	// Search lists the account's items newest-first, optionally filtered by
	// a case-insensitive title substring.
	Search(ctx context.Context, accountID, search string) ([]*Item, error)
}
