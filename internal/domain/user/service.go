package user

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"familycart-go/pkg/logger"
	"github.com/google/uuid"
)

const (
	usernameBaseLength = 6
	usernameMaxLength  = 10
	usernameAttempts   = 20
)

// TokenIssuer mints an access token for a verified user.
type TokenIssuer interface {
	Issue(userUUID string) (string, error)
}

// Mailer delivers the OTP mail. Callers treat delivery as fire-and-forget.
type Mailer interface {
	SendVerificationMail(subject, firstName, otp, to string) error
}

type Service struct {
	repo        Repository
	tokens      TokenIssuer
	mail        Mailer
	log         logger.Logger
	appName     string
	otpValidity time.Duration
}

func NewService(repo Repository, tokens TokenIssuer, mail Mailer, log logger.Logger, appName string, otpValidity time.Duration) *Service {
	return &Service{
		repo:        repo,
		tokens:      tokens,
		mail:        mail,
		log:         log,
		appName:     appName,
		otpValidity: otpValidity,
	}
}

// SignUp creates an unverified account and mails a fresh OTP. The mail is
// sent off the request path; a delivery failure is logged, never returned.
func (s *Service) SignUp(ctx context.Context, input SignUpInput) error {
	email := normalizeEmail(input.Email)
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)

	if existing, err := s.repo.GetByEmail(ctx, email); err == nil {
		if !existing.EmailVerified {
			return ErrEmailTakenUnverified
		}
		return ErrEmailTaken
	} else if err != ErrUserNotFound {
		return err
	}

	username, err := s.generateUsername(ctx, firstName, email)
	if err != nil {
		return err
	}

	account := User{
		UUID:      uuid.NewString(),
		Username:  username,
		Email:     &email,
		FirstName: firstName,
		LastName:  lastName,
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateUser(ctx, &account); err != nil {
			return err
		}
		return tx.CreateVerification(ctx, &EmailVerification{
			UUID:     uuid.NewString(),
			UserID:   account.ID,
			OTP:      otp,
			Validity: time.Now().UTC().Add(s.otpValidity),
		})
	})
	if err != nil {
		return err
	}

	s.sendOTPMail(account.FirstName, otp, email)
	return nil
}

// RequestLoginOTP issues a fresh OTP for an existing account.
func (s *Service) RequestLoginOTP(ctx context.Context, email string) error {
	return s.issueOTP(ctx, email)
}

// ResendVerification re-sends the verification mail with a fresh OTP.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	return s.issueOTP(ctx, email)
}

func (s *Service) issueOTP(ctx context.Context, email string) error {
	account, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}

	if err := s.repo.CreateVerification(ctx, &EmailVerification{
		UUID:     uuid.NewString(),
		UserID:   account.ID,
		OTP:      otp,
		Validity: time.Now().UTC().Add(s.otpValidity),
	}); err != nil {
		return err
	}

	s.sendOTPMail(account.FirstName, otp, normalizeEmail(email))
	return nil
}

// VerifyOTP checks the latest pending OTP for the email. The verification
// row is deleted on success, so a second attempt with the same code fails.
func (s *Service) VerifyOTP(ctx context.Context, email, otp string) (*Session, error) {
	otp = strings.TrimSpace(otp)
	if otp == "" {
		return nil, ErrOTPInvalid
	}

	account, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		verification, err := tx.LatestVerificationByUser(ctx, account.ID)
		if err != nil {
			return err
		}
		if verification.OTP != otp || verification.Validity.Before(time.Now().UTC()) {
			return ErrOTPInvalid
		}
		if err := tx.DeleteVerification(ctx, verification.ID); err != nil {
			return err
		}
		if !account.EmailVerified {
			account.EmailVerified = true
			return tx.UpdateUser(ctx, account)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(account.UUID)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, User: account}, nil
}

func (s *Service) GetByID(ctx context.Context, id uint) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUUID(ctx context.Context, userUUID string) (*User, error) {
	return s.repo.GetByUUID(ctx, userUUID)
}

// UpdateProfile persists only the supplied fields.
func (s *Service) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*User, error) {
	account, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		trimmed := strings.TrimSpace(*input.FirstName)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: first name must not be empty", ErrInvalidInput)
		}
		account.FirstName = trimmed
	}
	if input.LastName != nil {
		trimmed := strings.TrimSpace(*input.LastName)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: last name must not be empty", ErrInvalidInput)
		}
		account.LastName = trimmed
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email == "" {
			return nil, fmt.Errorf("%w: email must not be empty", ErrInvalidInput)
		}
		if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing.ID != account.ID {
			return nil, ErrEmailTaken
		} else if err != nil && err != ErrUserNotFound {
			return nil, err
		}
		account.Email = &email
	}

	if err := s.repo.UpdateUser(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *Service) sendOTPMail(firstName, otp, email string) {
	subject := fmt.Sprintf("Verify your %s account", s.appName)
	go func() {
		if err := s.mail.SendVerificationMail(subject, firstName, otp, email); err != nil {
			s.log.Error("user: verification mail delivery failed", "err", err, "email", email)
		}
	}()
}

func (s *Service) generateUsername(ctx context.Context, firstName, email string) (string, error) {
	base := slugify(firstName)
	if base == "" && email != "" {
		base = slugify(strings.SplitN(email, "@", 2)[0])
	}
	if base == "" {
		base = "user"
	}
	if len(base) > usernameBaseLength {
		base = base[:usernameBaseLength]
	}

	for i := 0; i < usernameAttempts; i++ {
		suffix, err := randomSuffix(3)
		if err != nil {
			return "", err
		}
		candidate := base + suffix
		if len(candidate) > usernameMaxLength {
			candidate = candidate[:usernameMaxLength]
		}
		taken, err := s.repo.IsUsernameTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("username generation failed")
}

func generateOTP() (string, error) {
	// 4-digit code, 1000-9999.
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+1000), nil
}

func randomSuffix(length int) (string, error) {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	max := big.NewInt(int64(len(alphabet)))

	var builder strings.Builder
	builder.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}
	return builder.String(), nil
}

func slugify(value string) string {
	var builder strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
