package schema

import "fmt"

// EntityKind names an entity table of the portfolio index
type EntityKind string

const (
	KindUser             EntityKind = "User"
	KindAsset            EntityKind = "Asset"
	KindPortfolio        EntityKind = "Portfolio"
	KindRAYToken         EntityKind = "RAYToken"
	KindOpportunityToken EntityKind = "OpportunityToken"
	KindOpportunity      EntityKind = "Opportunity"
	KindTransaction      EntityKind = "Transaction"
)

// Entity is a row keyed by a stable string id
type Entity interface {
	// Kind returns the entity kind
	Kind() EntityKind
	// EntityID returns the stable id of the entity
	EntityID() string
	// SetEntityID assigns the id on a freshly constructed entity
	SetEntityID(id string)
	// TableName returns the table backing the entity kind
	TableName() string
}

// Kinds lists every entity kind
func Kinds() []EntityKind {
	return []EntityKind{
		KindUser,
		KindAsset,
		KindPortfolio,
		KindRAYToken,
		KindOpportunityToken,
		KindOpportunity,
		KindTransaction,
	}
}

// NewEntity returns an empty entity of the given kind
func NewEntity(kind EntityKind) (Entity, error) {
	switch kind {
	case KindUser:
		return &User{}, nil
	case KindAsset:
		return &Asset{}, nil
	case KindPortfolio:
		return &Portfolio{}, nil
	case KindRAYToken:
		return &RAYToken{}, nil
	case KindOpportunityToken:
		return &OpportunityToken{}, nil
	case KindOpportunity:
		return &Opportunity{}, nil
	case KindTransaction:
		return &Transaction{}, nil
	default:
		return nil, fmt.Errorf("unknown entity kind: %s", kind)
	}
}
