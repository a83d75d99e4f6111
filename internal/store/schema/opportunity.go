package schema

import "time"

// OpportunityToken represents the opportunity_tokens table.
// It may exist before the opportunity that owns it is known.
type OpportunityToken struct {
	// ID is the bytes32 token id
	ID string `gorm:"column:id;primaryKey;type:text"`
	// PortfolioID references the portfolio the token was minted for
	PortfolioID string `gorm:"column:portfolio_id;not null;type:text"`
	// OpportunityID references the opportunity, set by the first buy-position call
	OpportunityID *string `gorm:"column:opportunity_id;type:text"`
	// CreatedAt is the timestamp when this token was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this token was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the OpportunityToken model
func (OpportunityToken) TableName() string {
	return "opportunity_tokens"
}

func (OpportunityToken) Kind() EntityKind {
	return KindOpportunityToken
}

func (t *OpportunityToken) EntityID() string {
	return t.ID
}

func (t *OpportunityToken) SetEntityID(id string) {
	t.ID = id
}

// Opportunity represents the opportunities table - a yield strategy contract used by a portfolio
type Opportunity struct {
	// ID is the bytes32 opportunity id supplied by the contract
	ID string `gorm:"column:id;primaryKey;type:text"`
	// PortfolioID references the portfolio
	PortfolioID string `gorm:"column:portfolio_id;not null;type:text"`
	// Address is the strategy contract address
	Address string `gorm:"column:address;not null;type:text"`
	// TokenID references the opportunity token held by the portfolio
	TokenID string `gorm:"column:token_id;not null;type:text"`
	// CreatedAt is the timestamp when this opportunity was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this opportunity was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Opportunity model
func (Opportunity) TableName() string {
	return "opportunities"
}

func (Opportunity) Kind() EntityKind {
	return KindOpportunity
}

func (o *Opportunity) EntityID() string {
	return o.ID
}

func (o *Opportunity) SetEntityID(id string) {
	o.ID = id
}
