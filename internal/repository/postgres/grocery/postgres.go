package grocery

import (
	"context"
	"errors"

	grocerydomain "familycart-go/internal/domain/grocery"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(grocerydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) MembershipBelongsToUser(ctx context.Context, membershipID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("family_members").
		Where("id = ? AND user_id = ?", membershipID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) GetList(ctx context.Context, id uint) (*grocerydomain.GroceryList, error) {
	var list grocerydomain.GroceryList
	if err := r.db.WithContext(ctx).First(&list, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, grocerydomain.ErrListNotFound
		}
		return nil, err
	}
	return &list, nil
}

// ListListsByUser filters at the query layer in addition to the service
// authorization checks.
func (r *PostgresRepository) ListListsByUser(ctx context.Context, userID uint) ([]grocerydomain.GroceryList, error) {
	var lists []grocerydomain.GroceryList
	err := r.db.WithContext(ctx).
		Joins("join family_members on family_members.id = grocery_lists.family_membership_id").
		Where("family_members.user_id = ?", userID).
		Order("grocery_lists.created_at desc").
		Find(&lists).Error
	if err != nil {
		return nil, err
	}
	return lists, nil
}

func (r *PostgresRepository) CreateList(ctx context.Context, list *grocerydomain.GroceryList) error {
	return r.db.WithContext(ctx).Create(list).Error
}

func (r *PostgresRepository) UpdateList(ctx context.Context, list *grocerydomain.GroceryList) error {
	return r.db.WithContext(ctx).Save(list).Error
}

func (r *PostgresRepository) DeleteList(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&grocerydomain.GroceryList{}, id).Error
}

func (r *PostgresRepository) DeleteItemsByList(ctx context.Context, listID uint) error {
	return r.db.WithContext(ctx).
		Where("grocery_list_id = ?", listID).
		Delete(&grocerydomain.GroceryItem{}).Error
}

func (r *PostgresRepository) GetItem(ctx context.Context, id uint) (*grocerydomain.GroceryItem, error) {
	var item grocerydomain.GroceryItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, grocerydomain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) ListItems(ctx context.Context, filter grocerydomain.ItemFilter) ([]grocerydomain.GroceryItem, error) {
	query := r.db.WithContext(ctx).
		Where("grocery_list_id = ?", filter.ListID).
		Order("created_at asc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var items []grocerydomain.GroceryItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) CreateItem(ctx context.Context, item *grocerydomain.GroceryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PostgresRepository) UpdateItem(ctx context.Context, item *grocerydomain.GroceryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *PostgresRepository) DeleteItem(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&grocerydomain.GroceryItem{}, id).Error
}
