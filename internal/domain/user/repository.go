package user

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByUUID(ctx context.Context, uuid string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
	CreateVerification(ctx context.Context, verification *EmailVerification) error
	LatestVerificationByUser(ctx context.Context, userID uint) (*EmailVerification, error)
	DeleteVerification(ctx context.Context, id uint) error
}
