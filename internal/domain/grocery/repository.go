package grocery

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	// MembershipBelongsToUser reports whether the membership row exists and
	// is owned by the user.
	MembershipBelongsToUser(ctx context.Context, membershipID, userID uint) (bool, error)

	GetList(ctx context.Context, id uint) (*GroceryList, error)
	ListListsByUser(ctx context.Context, userID uint) ([]GroceryList, error)
	CreateList(ctx context.Context, list *GroceryList) error
	UpdateList(ctx context.Context, list *GroceryList) error
	DeleteList(ctx context.Context, id uint) error
	DeleteItemsByList(ctx context.Context, listID uint) error

	GetItem(ctx context.Context, id uint) (*GroceryItem, error)
	ListItems(ctx context.Context, filter ItemFilter) ([]GroceryItem, error)
	CreateItem(ctx context.Context, item *GroceryItem) error
	UpdateItem(ctx context.Context, item *GroceryItem) error
	DeleteItem(ctx context.Context, id uint) error
}
