package schema

import "time"

// Portfolio represents the portfolios table
type Portfolio struct {
	// ID is the bytes32 portfolio id
	ID string `gorm:"column:id;primaryKey;type:text"`
	// AssetID references the collateral asset
	AssetID string `gorm:"column:asset_id;not null;type:text"`
	// CreatedAt is the timestamp when this portfolio was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this portfolio was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Portfolio model
func (Portfolio) TableName() string {
	return "portfolios"
}

func (Portfolio) Kind() EntityKind {
	return KindPortfolio
}

func (p *Portfolio) EntityID() string {
	return p.ID
}

func (p *Portfolio) SetEntityID(id string) {
	p.ID = id
}
