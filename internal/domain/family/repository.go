package family

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	GetFamilyByCode(ctx context.Context, code string) (*Family, error)
	CreateFamily(ctx context.Context, family *Family) error

	HasMembership(ctx context.Context, userID uint) (bool, error)
	CreateMembership(ctx context.Context, membership *FamilyMembership) error
	GetMembershipDetail(ctx context.Context, membershipID uint) (*MembershipDetail, error)
	ListMembershipDetailsByUser(ctx context.Context, userID uint) ([]MembershipDetail, error)

	GetRoleByName(ctx context.Context, name string) (*Role, error)
}
