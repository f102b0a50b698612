package grocery

import "time"

type QuantityType string

const (
	QuantityGram  QuantityType = "Gram"
	QuantityLiter QuantityType = "Liter"
	QuantityCount QuantityType = "Count"
)

func (q QuantityType) Valid() bool {
	switch q {
	case QuantityGram, QuantityLiter, QuantityCount:
		return true
	}
	return false
}

// GroceryList is owned by the membership record that created it, not by the
// family at large. Access follows the membership, so a user who leaves and
// rejoins gets a fresh membership and loses access to their old lists.
type GroceryList struct {
	ID           uint      `gorm:"primaryKey"`
	UUID         string    `gorm:"type:uuid;not null;uniqueIndex"`
	MembershipID uint      `gorm:"column:family_membership_id;not null;index"`
	Name         string    `gorm:"size:255;not null"`
	Description  *string   `gorm:"type:text"`
	CreatedByID  *uint     `gorm:"column:created_by"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

type GroceryItem struct {
	ID           uint         `gorm:"primaryKey"`
	UUID         string       `gorm:"type:uuid;not null;uniqueIndex"`
	ListID       uint         `gorm:"column:grocery_list_id;not null;index"`
	Name         string       `gorm:"size:255;not null"`
	Quantity     float64      `gorm:"not null;default:1"`
	QuantityType QuantityType `gorm:"size:16;not null;default:Count"`
	Purchased    bool         `gorm:"not null;default:false"`
	Note         *string      `gorm:"type:text"`
	CreatedByID  *uint        `gorm:"column:created_by"`
	CreatedAt    time.Time    `gorm:"autoCreateTime"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime"`
}

// ResourceKind tags the target of an authorization check.
type ResourceKind string

const (
	ResourceList ResourceKind = "list"
	ResourceItem ResourceKind = "item"
)

// Resource identifies a list or item by internal ID.
type Resource struct {
	Kind ResourceKind
	ID   uint
}

func ListResource(id uint) Resource { return Resource{Kind: ResourceList, ID: id} }
func ItemResource(id uint) Resource { return Resource{Kind: ResourceItem, ID: id} }

type CreateListInput struct {
	MembershipID uint
	Name         string
	Description  *string
}

type UpdateListInput struct {
	Name        *string
	Description *string
}

type CreateItemInput struct {
	ListID       uint
	Name         string
	Quantity     *float64
	QuantityType QuantityType
	Note         *string
}

// ReplaceItemInput carries the full set of mutable item fields.
type ReplaceItemInput struct {
	Name         string
	Quantity     float64
	QuantityType QuantityType
	Purchased    bool
	Note         *string
}

// PatchItemInput merges only the supplied fields into the item.
type PatchItemInput struct {
	Name         *string
	Quantity     *float64
	QuantityType *QuantityType
	Purchased    *bool
	Note         *string
}

type ItemFilter struct {
	ListID uint
	Limit  int
	Offset int
}
