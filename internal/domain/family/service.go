package family

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

const (
	familyCodeLength   = 6
	familyCodeAttempts = 10
)

type Service struct {
	repo  Repository
	roles RoleSet
}

func NewService(repo Repository, roles RoleSet) *Service {
	return &Service{repo: repo, roles: roles}
}

// ResolveRoles looks up the seeded role IDs. Called once at startup; a
// missing seed makes the process unable to assign memberships, so callers
// treat an error here as fatal.
func ResolveRoles(ctx context.Context, repo Repository) (RoleSet, error) {
	var roles RoleSet
	for _, entry := range []struct {
		name string
		dst  *uint
	}{
		{RoleOwner, &roles.Owner},
		{RoleMember, &roles.Member},
	} {
		role, err := repo.GetRoleByName(ctx, entry.name)
		if err != nil {
			return RoleSet{}, err
		}
		*entry.dst = role.ID
	}
	return roles, nil
}

// JoinOrCreateFamily attaches the user to a family. When a code is given it
// wins over the name: the user joins the existing family as a member. With
// only a name, a new family is created and the user becomes its owner.
func (s *Service) JoinOrCreateFamily(ctx context.Context, userID uint, input JoinOrCreateInput) (*MembershipDetail, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	name := strings.TrimSpace(input.Name)
	if code == "" && name == "" {
		return nil, ErrCodeOrNameRequired
	}

	var membershipID uint
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		taken, err := tx.HasMembership(ctx, userID)
		if err != nil {
			return err
		}
		if taken {
			return ErrAlreadyMember
		}

		var familyID uint
		roleID := s.roles.Member
		if code != "" {
			existing, err := tx.GetFamilyByCode(ctx, code)
			if err != nil {
				return err
			}
			familyID = existing.ID
		} else {
			created, err := createFamilyWithCode(ctx, tx, name, input.Description)
			if err != nil {
				return err
			}
			familyID = created.ID
			roleID = s.roles.Owner
		}

		membership := FamilyMembership{
			UUID:     uuid.NewString(),
			UserID:   userID,
			FamilyID: familyID,
			RoleID:   &roleID,
		}
		if err := tx.CreateMembership(ctx, &membership); err != nil {
			if errors.Is(err, ErrMembershipConflict) {
				return ErrAlreadyMember
			}
			return err
		}

		membershipID = membership.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetMembershipDetail(ctx, membershipID)
}

// ListMemberships returns the user's memberships with family and role names.
// A user holds at most one membership, but the read path does not assume it.
func (s *Service) ListMemberships(ctx context.Context, userID uint) ([]MembershipDetail, error) {
	return s.repo.ListMembershipDetailsByUser(ctx, userID)
}

// createFamilyWithCode retries on code collisions. The unique constraint on
// families.code is the backstop for concurrent creates with the same draw.
// Each attempt runs in its own nested transaction: a constraint violation
// only rolls back to the savepoint, so the enclosing transaction stays
// usable for the next draw and for the membership insert.
func createFamilyWithCode(ctx context.Context, repo Repository, name string, description *string) (*Family, error) {
	for i := 0; i < familyCodeAttempts; i++ {
		created := Family{
			UUID:        uuid.NewString(),
			Name:        name,
			Code:        newFamilyCode(),
			Description: description,
		}
		err := repo.Transaction(ctx, func(attempt Repository) error {
			return attempt.CreateFamily(ctx, &created)
		})
		if err == nil {
			return &created, nil
		}
		if !errors.Is(err, ErrCodeTaken) {
			return nil, err
		}
	}
	return nil, ErrCodeGenerationFailed
}

// newFamilyCode draws the first six hex characters of a random UUID,
// uppercased. Short and case-insensitive enough to read over the phone.
func newFamilyCode() string {
	return strings.ToUpper(uuid.NewString()[:familyCodeLength])
}
