package user

import "time"

type User struct {
	ID            uint      `gorm:"primaryKey"`
	UUID          string    `gorm:"type:uuid;not null;uniqueIndex"`
	Username      string    `gorm:"size:255;not null;uniqueIndex"`
	Email         *string   `gorm:"size:255;uniqueIndex"`
	FirstName     string    `gorm:"size:255;not null"`
	LastName      string    `gorm:"size:255;not null"`
	EmailVerified bool      `gorm:"not null;default:false"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`

	// Legacy OTP columns. Verification state lives in email_verifications;
	// these stay for schema parity with older deployments.
	EmailOTP         *int       `gorm:"column:email_otp"`
	EmailOTPValidity *time.Time `gorm:"column:email_otp_validity"`
}

// EmailVerification ties a user to a pending OTP. A successful check deletes
// the row, so an OTP can never be replayed.
type EmailVerification struct {
	ID        uint      `gorm:"primaryKey"`
	UUID      string    `gorm:"type:uuid;not null;uniqueIndex"`
	UserID    uint      `gorm:"not null;index"`
	OTP       string    `gorm:"column:verification_otp;size:255;not null"`
	Validity  time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

func (EmailVerification) TableName() string {
	return "email_verifications"
}

type SignUpInput struct {
	FirstName string
	LastName  string
	Email     string
}

type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// Session is the result of a successful OTP verification.
type Session struct {
	Token string
	User  *User
}
