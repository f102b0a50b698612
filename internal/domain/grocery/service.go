package grocery

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// maxItemPageSize caps the page size a caller can request for item listings.
const maxItemPageSize = 50

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authorize checks that the user owns the membership the resource hangs off.
// A missing resource reports not-found before any permission decision, so a
// caller probing random identifiers learns existence but never content.
func (s *Service) Authorize(ctx context.Context, userID uint, resource Resource) error {
	return s.authorize(ctx, s.repo, userID, resource)
}

func (s *Service) authorize(ctx context.Context, repo Repository, userID uint, resource Resource) error {
	var membershipID uint
	switch resource.Kind {
	case ResourceItem:
		item, err := repo.GetItem(ctx, resource.ID)
		if err != nil {
			return err
		}
		list, err := repo.GetList(ctx, item.ListID)
		if err != nil {
			return err
		}
		membershipID = list.MembershipID
	case ResourceList:
		list, err := repo.GetList(ctx, resource.ID)
		if err != nil {
			return err
		}
		membershipID = list.MembershipID
	default:
		return ErrPermissionDenied
	}

	owned, err := repo.MembershipBelongsToUser(ctx, membershipID, userID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrPermissionDenied
	}
	return nil
}

// AuthorizeMembership is the collection-scoping check: it trusts the
// caller-supplied membership identifier and only verifies ownership.
func (s *Service) AuthorizeMembership(ctx context.Context, userID, membershipID uint) error {
	owned, err := s.repo.MembershipBelongsToUser(ctx, membershipID, userID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrPermissionDenied
	}
	return nil
}

// ListLists returns every list reachable through the user's memberships.
func (s *Service) ListLists(ctx context.Context, userID uint) ([]GroceryList, error) {
	return s.repo.ListListsByUser(ctx, userID)
}

func (s *Service) GetList(ctx context.Context, userID, listID uint) (*GroceryList, error) {
	if err := s.Authorize(ctx, userID, ListResource(listID)); err != nil {
		return nil, err
	}
	return s.repo.GetList(ctx, listID)
}

func (s *Service) CreateList(ctx context.Context, userID uint, input CreateListInput) (*GroceryList, error) {
	missing := make([]string, 0, 2)
	if strings.TrimSpace(input.Name) == "" {
		missing = append(missing, "name")
	}
	if input.MembershipID == 0 {
		missing = append(missing, "family_membership")
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	if err := s.AuthorizeMembership(ctx, userID, input.MembershipID); err != nil {
		return nil, err
	}

	list := GroceryList{
		UUID:         uuid.NewString(),
		MembershipID: input.MembershipID,
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		CreatedByID:  &userID,
	}
	if err := s.repo.CreateList(ctx, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *Service) UpdateList(ctx context.Context, userID, listID uint, input UpdateListInput) (*GroceryList, error) {
	if err := s.Authorize(ctx, userID, ListResource(listID)); err != nil {
		return nil, err
	}

	list, err := s.repo.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, &MissingFieldsError{Fields: []string{"name"}}
		}
		list.Name = trimmed
	}
	if input.Description != nil {
		list.Description = input.Description
	}

	if err := s.repo.UpdateList(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteList removes the list and its items in one transaction.
func (s *Service) DeleteList(ctx context.Context, userID, listID uint) error {
	if err := s.Authorize(ctx, userID, ListResource(listID)); err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.DeleteItemsByList(ctx, listID); err != nil {
			return err
		}
		return tx.DeleteList(ctx, listID)
	})
}

// ListItems returns the items of a caller-owned list, paginated.
func (s *Service) ListItems(ctx context.Context, userID uint, filter ItemFilter) ([]GroceryItem, error) {
	if err := s.Authorize(ctx, userID, ListResource(filter.ListID)); err != nil {
		return nil, err
	}
	if filter.Limit <= 0 || filter.Limit > maxItemPageSize {
		filter.Limit = maxItemPageSize
	}
	return s.repo.ListItems(ctx, filter)
}

func (s *Service) GetItem(ctx context.Context, userID, itemID uint) (*GroceryItem, error) {
	if err := s.Authorize(ctx, userID, ItemResource(itemID)); err != nil {
		return nil, err
	}
	return s.repo.GetItem(ctx, itemID)
}

func (s *Service) CreateItem(ctx context.Context, userID uint, input CreateItemInput) (*GroceryItem, error) {
	missing := make([]string, 0, 3)
	if strings.TrimSpace(input.Name) == "" {
		missing = append(missing, "name")
	}
	if input.Quantity == nil {
		missing = append(missing, "quantity")
	}
	if input.QuantityType == "" {
		missing = append(missing, "quantity_type")
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}
	if !input.QuantityType.Valid() {
		return nil, ErrInvalidQuantityType
	}

	if err := s.Authorize(ctx, userID, ListResource(input.ListID)); err != nil {
		return nil, err
	}

	item := GroceryItem{
		UUID:         uuid.NewString(),
		ListID:       input.ListID,
		Name:         strings.TrimSpace(input.Name),
		Quantity:     *input.Quantity,
		QuantityType: input.QuantityType,
		Note:         input.Note,
		CreatedByID:  &userID,
	}
	if err := s.repo.CreateItem(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// ReplaceItem overwrites every mutable field of the item.
func (s *Service) ReplaceItem(ctx context.Context, userID, itemID uint, input ReplaceItemInput) (*GroceryItem, error) {
	if err := s.Authorize(ctx, userID, ItemResource(itemID)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, &MissingFieldsError{Fields: []string{"name"}}
	}
	if !input.QuantityType.Valid() {
		return nil, ErrInvalidQuantityType
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	item.Name = strings.TrimSpace(input.Name)
	item.Quantity = input.Quantity
	item.QuantityType = input.QuantityType
	item.Purchased = input.Purchased
	item.Note = input.Note

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// PatchItem merges only the supplied fields into the item.
func (s *Service) PatchItem(ctx context.Context, userID, itemID uint, input PatchItemInput) (*GroceryItem, error) {
	if err := s.Authorize(ctx, userID, ItemResource(itemID)); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, &MissingFieldsError{Fields: []string{"name"}}
		}
		item.Name = trimmed
	}
	if input.Quantity != nil {
		item.Quantity = *input.Quantity
	}
	if input.QuantityType != nil {
		if !input.QuantityType.Valid() {
			return nil, ErrInvalidQuantityType
		}
		item.QuantityType = *input.QuantityType
	}
	if input.Purchased != nil {
		item.Purchased = *input.Purchased
	}
	if input.Note != nil {
		item.Note = input.Note
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, userID, itemID uint) error {
	if err := s.Authorize(ctx, userID, ItemResource(itemID)); err != nil {
		return err
	}
	return s.repo.DeleteItem(ctx, itemID)
}
