package schema

import "time"

// Asset represents the assets table - the collateral token of a portfolio
type Asset struct {
	// ID is the lower-case hex address of the token
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Address is the token contract address (nil for the genesis asset)
	Address *string `gorm:"column:address;type:text"`
	// Decimals is the precision used to scale raw amounts of this asset
	Decimals int `gorm:"column:decimals;not null"`
	// Name is the ERC-20 name, empty when unavailable
	Name string `gorm:"column:name;not null;type:text"`
	// Symbol is the ERC-20 symbol, empty when unavailable
	Symbol string `gorm:"column:symbol;not null;type:text"`
	// CreatedAt is the timestamp when this asset was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this asset was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Asset model
func (Asset) TableName() string {
	return "assets"
}

func (Asset) Kind() EntityKind {
	return KindAsset
}

func (a *Asset) EntityID() string {
	return a.ID
}

func (a *Asset) SetEntityID(id string) {
	a.ID = id
}
