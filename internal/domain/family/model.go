package family

import "time"

type Family struct {
	ID          uint      `gorm:"primaryKey"`
	UUID        string    `gorm:"type:uuid;not null;uniqueIndex"`
	Name        string    `gorm:"size:255;not null"`
	Code        string    `gorm:"size:6;not null;uniqueIndex:families_code_key"`
	Description *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

type Role struct {
	ID          uint    `gorm:"primaryKey"`
	UUID        string  `gorm:"type:uuid;not null;uniqueIndex"`
	Name        string  `gorm:"size:64;not null;uniqueIndex"`
	Description *string `gorm:"type:text"`
}

// FamilyMembership links a user to a family. The unique index on UserID is
// the single-membership invariant; every write path still checks it first so
// the caller gets a domain error instead of a constraint violation.
type FamilyMembership struct {
	ID        uint      `gorm:"primaryKey"`
	UUID      string    `gorm:"type:uuid;not null;uniqueIndex"`
	UserID    uint      `gorm:"not null;uniqueIndex:family_members_user_id_key"`
	FamilyID  uint      `gorm:"not null;index"`
	RoleID    *uint     `gorm:"index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Family Family `gorm:"foreignKey:FamilyID;references:ID;constraint:OnDelete:CASCADE"`
	Role   *Role  `gorm:"foreignKey:RoleID;references:ID"`
}

func (FamilyMembership) TableName() string {
	return "family_members"
}

// MembershipDetail is the read model returned to clients: the membership
// joined with its family and role names.
type MembershipDetail struct {
	UUID       string
	ID         uint
	UserID     uint
	Username   string
	FamilyID   uint
	FamilyUUID string
	FamilyName string
	FamilyCode string
	Role       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Role names seeded by the migrations. Missing seeds are a deployment
// error, so role IDs are resolved once at startup and treated as fatal.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// RoleSet holds the resolved role IDs for the two seeded roles.
type RoleSet struct {
	Owner  uint
	Member uint
}

type JoinOrCreateInput struct {
	Code        string
	Name        string
	Description *string
}
