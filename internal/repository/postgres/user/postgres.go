package user

import (
	"context"
	"errors"
	"strings"

	userdomain "familycart-go/internal/domain/user"
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

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(userdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uint) (*userdomain.User, error) {
	var account userdomain.User
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *PostgresRepository) GetByUUID(ctx context.Context, uuid string) (*userdomain.User, error) {
	var account userdomain.User
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	var account userdomain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *PostgresRepository) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, account *userdomain.User) error {
	return translateUnique(r.db.WithContext(ctx).Create(account).Error)
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, account *userdomain.User) error {
	return translateUnique(r.db.WithContext(ctx).Save(account).Error)
}

func (r *PostgresRepository) CreateVerification(ctx context.Context, verification *userdomain.EmailVerification) error {
	return r.db.WithContext(ctx).Create(verification).Error
}

func (r *PostgresRepository) LatestVerificationByUser(ctx context.Context, userID uint) (*userdomain.EmailVerification, error) {
	var verification userdomain.EmailVerification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		First(&verification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, userdomain.ErrNoPendingOTP
	}
	if err != nil {
		return nil, err
	}
	return &verification, nil
}

func (r *PostgresRepository) DeleteVerification(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&userdomain.EmailVerification{}, id).Error
}

// translateUnique maps unique-constraint violations to the domain errors the
// sequential code paths already return, so a concurrent duplicate signup
// surfaces as the same conflict as a pre-checked one.
func translateUnique(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "users_email"):
		return userdomain.ErrEmailTaken
	case strings.Contains(pgErr.ConstraintName, "users_username"):
		return userdomain.ErrUsernameTaken
	}
	return err
}
