package grocery

import (
	"context"
	"errors"
	"testing"
)

type membershipKey struct {
	membershipID uint
	userID       uint
}

type fakeGroceryRepo struct {
	memberships map[membershipKey]bool
	lists       map[uint]*GroceryList
	items       map[uint]*GroceryItem

	nextListID uint
	nextItemID uint

	lastItemFilter ItemFilter
}

func newFakeGroceryRepo() *fakeGroceryRepo {
	return &fakeGroceryRepo{
		memberships: make(map[membershipKey]bool),
		lists:       make(map[uint]*GroceryList),
		items:       make(map[uint]*GroceryItem),
	}
}

func (r *fakeGroceryRepo) addMembership(membershipID, userID uint) {
	r.memberships[membershipKey{membershipID, userID}] = true
}

func (r *fakeGroceryRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeGroceryRepo) MembershipBelongsToUser(ctx context.Context, membershipID, userID uint) (bool, error) {
	return r.memberships[membershipKey{membershipID, userID}], nil
}

func (r *fakeGroceryRepo) GetList(ctx context.Context, id uint) (*GroceryList, error) {
	list, ok := r.lists[id]
	if !ok {
		return nil, ErrListNotFound
	}
	copied := *list
	return &copied, nil
}

func (r *fakeGroceryRepo) ListListsByUser(ctx context.Context, userID uint) ([]GroceryList, error) {
	result := make([]GroceryList, 0)
	for _, list := range r.lists {
		if r.memberships[membershipKey{list.MembershipID, userID}] {
			result = append(result, *list)
		}
	}
	return result, nil
}

func (r *fakeGroceryRepo) CreateList(ctx context.Context, list *GroceryList) error {
	r.nextListID++
	list.ID = r.nextListID
	copied := *list
	r.lists[list.ID] = &copied
	return nil
}

func (r *fakeGroceryRepo) UpdateList(ctx context.Context, list *GroceryList) error {
	if _, ok := r.lists[list.ID]; !ok {
		return ErrListNotFound
	}
	copied := *list
	r.lists[list.ID] = &copied
	return nil
}

func (r *fakeGroceryRepo) DeleteList(ctx context.Context, id uint) error {
	if _, ok := r.lists[id]; !ok {
		return ErrListNotFound
	}
	delete(r.lists, id)
	return nil
}

func (r *fakeGroceryRepo) DeleteItemsByList(ctx context.Context, listID uint) error {
	for id, item := range r.items {
		if item.ListID == listID {
			delete(r.items, id)
		}
	}
	return nil
}

func (r *fakeGroceryRepo) GetItem(ctx context.Context, id uint) (*GroceryItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeGroceryRepo) ListItems(ctx context.Context, filter ItemFilter) ([]GroceryItem, error) {
	r.lastItemFilter = filter
	result := make([]GroceryItem, 0)
	for _, item := range r.items {
		if item.ListID == filter.ListID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *fakeGroceryRepo) CreateItem(ctx context.Context, item *GroceryItem) error {
	r.nextItemID++
	item.ID = r.nextItemID
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeGroceryRepo) UpdateItem(ctx context.Context, item *GroceryItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return ErrItemNotFound
	}
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeGroceryRepo) DeleteItem(ctx context.Context, id uint) error {
	if _, ok := r.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func seedList(t *testing.T, svc *Service, repo *fakeGroceryRepo, userID, membershipID uint) *GroceryList {
	t.Helper()
	repo.addMembership(membershipID, userID)
	list, err := svc.CreateList(context.Background(), userID, CreateListInput{
		MembershipID: membershipID,
		Name:         "Weekly",
	})
	if err != nil {
		t.Fatalf("CreateList: %v", err)
	}
	return list
}

func TestCreateListRequiresOwnedMembership(t *testing.T) {
	repo := newFakeGroceryRepo()
	svc := NewService(repo)
	repo.addMembership(7, 1)

	if _, err := svc.CreateList(context.Background(), 2, CreateListInput{
		MembershipID: 7,
		Name:         "Weekly",
	}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestCreateListMissingFields(t *testing.T) {
	svc := NewService(newFakeGroceryRepo())

	_, err := svc.CreateList(context.Background(), 1, CreateListInput{})
	var missing *MissingFieldsError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want MissingFieldsError", err)
	}
	if len(missing.Fields) != 2 {
		t.Fatalf("fields = %v", missing.Fields)
	}
}

func TestGetListDeniedForNonMember(t *testing.T) {
	repo := newFakeGroceryRepo()
	svc := NewService(repo)
	list := seedList(t, svc, repo, 1, 7)

	if _, err := svc.GetList(context.Background(), 2, list.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestGetListNotFoundBeforePermission(t *testing.T) {
	svc := NewService(newFakeGroceryRepo())

	if _, err := svc.GetList(context.Background(), 1, 999); !errors.Is(err, ErrListNotFound) {
		t.Fatalf("err = %v, want ErrListNotFound", err)
	}
}

func TestListListsScopedToUser(t *testing.T) {
	repo := newFakeGroceryRepo()
	svc := NewService(repo)
	seedList(t, svc, repo, 1, 7)

	repo.addMembership(8, 2)
	if _, err := svc.CreateList(context.Background(), 2, CreateListInput{MembershipID: 8, Name: "Other"}); err != nil {
		t.Fatalf("CreateList: %v", err)
	}

	lists, err := svc.ListLists(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListLists: %v", err)
	}
	if len(lists) != 1 || lists[0].Name != "Weekly" {
		t.Fatalf("lists = %+v", lists)
	}
}

func TestUpdateListPartial(t *testing.T) {
	repo := newFakeGroceryRepo()
	svc := NewService(repo)
	list := seedList(t, svc, repo, 1, 7)

	updated, err := svc.UpdateList(context.Background(), 1, list.ID, UpdateListInput{
		Description: strPtr("staples"),
	})
	if err != nil {
		t.Fatalf("UpdateList: %v", err)
	}
	if updated.Name != "Weekly" {
		t.Fatalf("name = %q, want unchanged", updated.Name)
	}
	if updated.Description == nil || *updated.Description != "staples" {
		t.Fatalf("description = %v", updated.Description)
	}
}

func TestDeleteListCascadesItems(t *testing.T) {
	repo := newFakeGroceryRepo()
	svc := NewService(repo)
	list := seedList(t, svc, repo, 1, 7)

	if _, err := svc.CreateItem(context.Background(), 1, CreateItemInput{
		ListID:       list.ID,
		Name:         "Milk",
		Quantity:     floatPtr(2),
		QuantityType: QuantityLiter,
	}); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	if err := svc.DeleteList(context.Background(), 1, list.ID); err != nil {
		t.Fatalf("DeleteList: %v", err)
	}
	if len(repo.lists) != 0 || len(repo.items) != 0 {
		t.Fatalf("lists = %d items = %d after delete", len(repo.lists), len(repo.items))
	}
}

func TestCreateItemMissingQuantityType(t *testing.T) {
	repo := newFakeGroceryRepo()
	svc := NewService(repo)
	list := seedList(t, svc, repo, 1, 7)

	_, err := svc.CreateItem(context.Background(), 1, CreateItemInput{
		ListID:   list.ID,
		Name:     "Milk",
		Quantity: floatPtr(1),
	})
	var missing *MissingFieldsError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want MissingFieldsError", err)
	}
	if len(missing.Fields) != 1 || missing.Fields[0] != "quantity_type" {
		t.Fatalf("fields = %v", missing.Fields)
	}
}

func TestCreateItemInvalidQuantityType(t *testing.T) {
	repo := newFakeGroceryRepo()
	svc := NewService(repo)
	list := seedList(t, svc, repo, 1, 7)

	_, err := svc.CreateItem(context.Background(), 1, CreateItemInput{
		ListID:       list.ID,
		Name:         "Milk",
		Quantity:     floatPtr(1),
		QuantityType: "Barrel",
	})
	if !errors.Is(err, ErrInvalidQuantityType) {
		t.Fatalf("err = %v, want ErrInvalidQuantityType", err)
	}
}

func TestItemAuthorizationFollowsParentList(t *testing.T) {
	repo := newFakeGroceryRepo()
	svc := NewService(repo)
	list := seedList(t, svc, repo, 1, 7)

	item, err := svc.CreateItem(context.Background(), 1, CreateItemInput{
		ListID:       list.ID,
		Name:         "Milk",
		Quantity:     floatPtr(2),
		QuantityType: QuantityLiter,
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	if _, err := svc.GetItem(context.Background(), 2, item.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("get err = %v, want ErrPermissionDenied", err)
	}
	if err := svc.DeleteItem(context.Background(), 2, item.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("delete err = %v, want ErrPermissionDenied", err)
	}
}

func TestReplaceItemOverwritesAllFields(t *testing.T) {
	repo := newFakeGroceryRepo()
	svc := NewService(repo)
	list := seedList(t, svc, repo, 1, 7)

	item, err := svc.CreateItem(context.Background(), 1, CreateItemInput{
		ListID:       list.ID,
		Name:         "Milk",
		Quantity:     floatPtr(2),
		QuantityType: QuantityLiter,
		Note:         strPtr("semi-skimmed"),
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	replaced, err := svc.ReplaceItem(context.Background(), 1, item.ID, ReplaceItemInput{
		Name:         "Flour",
		Quantity:     500,
		QuantityType: QuantityGram,
		Purchased:    true,
	})
	if err != nil {
		t.Fatalf("ReplaceItem: %v", err)
	}
	if replaced.Name != "Flour" || replaced.Quantity != 500 || replaced.QuantityType != QuantityGram {
		t.Fatalf("item = %+v", replaced)
	}
	if !replaced.Purchased {
		t.Fatal("purchased not set")
	}
	if replaced.Note != nil {
		t.Fatalf("note = %v, want cleared", replaced.Note)
	}
}

func TestPatchItemMergesSuppliedFields(t *testing.T) {
	repo := newFakeGroceryRepo()
	svc := NewService(repo)
	list := seedList(t, svc, repo, 1, 7)

	item, err := svc.CreateItem(context.Background(), 1, CreateItemInput{
		ListID:       list.ID,
		Name:         "Milk",
		Quantity:     floatPtr(2),
		QuantityType: QuantityLiter,
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	purchased := true
	patched, err := svc.PatchItem(context.Background(), 1, item.ID, PatchItemInput{
		Purchased: &purchased,
	})
	if err != nil {
		t.Fatalf("PatchItem: %v", err)
	}
	if patched.Name != "Milk" || patched.Quantity != 2 || patched.QuantityType != QuantityLiter {
		t.Fatalf("item = %+v, want other fields unchanged", patched)
	}
	if !patched.Purchased {
		t.Fatal("purchased not set")
	}
}

func TestListItemsClampsPageSize(t *testing.T) {
	repo := newFakeGroceryRepo()
	svc := NewService(repo)
	list := seedList(t, svc, repo, 1, 7)

	if _, err := svc.ListItems(context.Background(), 1, ItemFilter{ListID: list.ID, Limit: 500}); err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if repo.lastItemFilter.Limit != maxItemPageSize {
		t.Fatalf("limit = %d, want %d", repo.lastItemFilter.Limit, maxItemPageSize)
	}

	if _, err := svc.ListItems(context.Background(), 1, ItemFilter{ListID: list.ID}); err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if repo.lastItemFilter.Limit != maxItemPageSize {
		t.Fatalf("default limit = %d, want %d", repo.lastItemFilter.Limit, maxItemPageSize)
	}
}

func TestListItemsDeniedForNonMember(t *testing.T) {
	repo := newFakeGroceryRepo()
	svc := NewService(repo)
	list := seedList(t, svc, repo, 1, 7)

	if _, err := svc.ListItems(context.Background(), 2, ItemFilter{ListID: list.ID}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}
