package family

import (
	"context"
	"errors"
	"strings"

	familydomain "familycart-go/internal/domain/family"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetFamilyByCode(ctx context.Context, code string) (*familydomain.Family, error) {
	var result familydomain.Family
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrFamilyCodeNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (r *PostgresRepository) CreateFamily(ctx context.Context, family *familydomain.Family) error {
	return translateUnique(r.db.WithContext(ctx).Create(family).Error)
}

func (r *PostgresRepository) HasMembership(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&familydomain.FamilyMembership{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CreateMembership(ctx context.Context, membership *familydomain.FamilyMembership) error {
	return translateUnique(r.db.WithContext(ctx).Create(membership).Error)
}

func (r *PostgresRepository) GetMembershipDetail(ctx context.Context, membershipID uint) (*familydomain.MembershipDetail, error) {
	var detail familydomain.MembershipDetail
	err := r.membershipDetailQuery(ctx).
		Where("family_members.id = ?", membershipID).
		First(&detail).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, familydomain.ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *PostgresRepository) ListMembershipDetailsByUser(ctx context.Context, userID uint) ([]familydomain.MembershipDetail, error) {
	var details []familydomain.MembershipDetail
	err := r.membershipDetailQuery(ctx).
		Where("family_members.user_id = ?", userID).
		Order("family_members.created_at desc").
		Find(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (r *PostgresRepository) GetRoleByName(ctx context.Context, name string) (*familydomain.Role, error) {
	var role familydomain.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *PostgresRepository) membershipDetailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("family_members").
		Select(`family_members.uuid,
			family_members.id,
			family_members.user_id,
			users.username,
			families.id as family_id,
			families.uuid as family_uuid,
			families.name as family_name,
			families.code as family_code,
			coalesce(roles.name, '') as role,
			family_members.created_at,
			family_members.updated_at`).
		Joins("join families on families.id = family_members.family_id").
		Joins("join users on users.id = family_members.user_id").
		Joins("left join roles on roles.id = family_members.role_id")
}

// translateUnique maps unique-constraint violations to typed domain errors
// so the service layer can treat them as conflicts instead of raw SQL
// failures. Constraint names match the migrations.
func translateUnique(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "families_code"):
		return familydomain.ErrCodeTaken
	case strings.Contains(pgErr.ConstraintName, "family_members_user_id"):
		return familydomain.ErrMembershipConflict
	}
	return err
}
