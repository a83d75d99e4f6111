package schema

import (
	"time"

	"github.com/shopspring/decimal"
)

// RAYToken represents the ray_tokens table - a position in a portfolio
type RAYToken struct {
	// ID is the bytes32 token id
	ID string `gorm:"column:id;primaryKey;type:text"`
	// OwnerID references the user the token was minted to
	OwnerID string `gorm:"column:owner_id;not null;type:text"`
	// RawValue is the token value in the smallest unit of the portfolio asset
	RawValue decimal.Decimal `gorm:"column:raw_value;not null;type:numeric(78,0)"`
	// Value is RawValue scaled by the asset decimals
	Value decimal.Decimal `gorm:"column:value;not null;type:numeric"`
	// PortfolioID references the portfolio the token belongs to
	PortfolioID string `gorm:"column:portfolio_id;not null;type:text"`
	// IsActive is true from mint until burn
	IsActive bool `gorm:"column:is_active;not null"`
	// CreatedAt is the timestamp when this token was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this token was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the RAYToken model
func (RAYToken) TableName() string {
	return "ray_tokens"
}

func (RAYToken) Kind() EntityKind {
	return KindRAYToken
}

func (t *RAYToken) EntityID() string {
	return t.ID
}

func (t *RAYToken) SetEntityID(id string) {
	t.ID = id
}
